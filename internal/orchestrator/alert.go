package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

// SpendingAlert checks a transaction for anomalous spending. When the
// anomaly score is at or above the risk threshold, the reasoning provider
// writes the alert and the notification is the workflow's primary payload;
// otherwise the workflow ends silently.
func (o *Orchestrator) SpendingAlert(ctx context.Context, userID string, tx model.Transaction) (*model.WorkflowOutcome, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, resilience.NewValidationError("userId", "must not be empty")
	}

	runID := o.startRun(ctx, "spending_alert", userID)
	t := o.newTracker("spending_alert", userID)

	var anomaly *model.AnomalyResult
	if ok := t.run("detect_anomaly", true, func() error {
		var err error
		anomaly, err = o.ml.DetectAnomaly(ctx, userID, tx)
		return err
	}); !ok {
		t.skip("assess_risk")
		t.skip("notify")
		out := t.outcome(nil)
		o.finishRun(ctx, runID, out)
		return out, nil
	}

	if !anomaly.IsAnomaly {
		t.skip("assess_risk")
		t.skip("notify")
		out := t.outcome(map[string]any{"anomaly": false})
		o.finishRun(ctx, runID, out)
		return out, nil
	}

	alertMessage := anomaly.Description
	t.run("assess_risk", false, func() error {
		prompt := fmt.Sprintf(
			"Financial risk assessment:\n\nAnomalous transaction (score %.2f): %s\nAmount: %.2f in %s\n\nWrite a brief, actionable alert message (max 200 characters).",
			anomaly.Score, anomaly.Description, tx.Amount, tx.Category,
		)
		resp, err := o.reasoner.Chat(ctx, reasoning.Request{Prompt: prompt})
		if err != nil {
			return err
		}
		if msg := strings.TrimSpace(resp.Content); msg != "" {
			alertMessage = msg
		}
		return nil
	})

	payload := map[string]any{
		"anomaly": true,
		"score":   anomaly.Score,
	}
	if anomaly.Score < o.cfg.Agent.RiskThreshold {
		t.skip("notify")
		out := t.outcome(payload)
		o.finishRun(ctx, runID, out)
		return out, nil
	}

	// The alert delivery is this workflow's purpose, so its failure fails
	// the workflow.
	t.run("notify", true, func() error {
		return o.notifier.Send(ctx, userID, "Spending Alert", truncate(alertMessage, 200), notify.TypeWarning)
	})

	payload["message"] = alertMessage
	out := t.outcome(payload)
	o.finishRun(ctx, runID, out)
	return out, nil
}
