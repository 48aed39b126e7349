package orchestrator

import (
	"context"
	"strings"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

// alertMarkers are the phrases whose presence in the analysis triggers a
// warning notification.
var alertMarkers = []string{"alert", "exceeded", "over budget", "overspend"}

// AuditBudget fetches a user's budgets, has the reasoning provider analyze
// utilization, and notifies the user when the analysis flags alerts.
func (o *Orchestrator) AuditBudget(ctx context.Context, userID string) (*model.WorkflowOutcome, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, resilience.NewValidationError("userId", "must not be empty")
	}

	runID := o.startRun(ctx, "audit_budget", userID)
	t := o.newTracker("audit_budget", userID)

	var budgets []model.Budget
	if ok := t.run("fetch_budgets", true, func() error {
		var err error
		budgets, err = o.ledger.ListBudgets(ctx, userID)
		return err
	}); !ok {
		t.skip("analyze")
		t.skip("notify")
		out := t.outcome(nil)
		o.finishRun(ctx, runID, out)
		return out, nil
	}

	var analysis string
	var provider string
	if ok := t.run("analyze", true, func() error {
		resp, err := o.reasoner.AnalyzeBudgets(ctx, userID, budgets)
		if err != nil {
			return err
		}
		analysis = resp.Content
		provider = string(resp.Provider)
		return nil
	}); !ok {
		t.skip("notify")
		out := t.outcome(map[string]any{"budgetsReviewed": len(budgets)})
		o.finishRun(ctx, runID, out)
		return out, nil
	}

	if hasAlertMarker(analysis) {
		t.run("notify", false, func() error {
			return o.notifier.Send(ctx, userID, "Budget Alert", truncate(analysis, 200), notify.TypeWarning)
		})
	} else {
		t.skip("notify")
	}

	out := t.outcome(map[string]any{
		"analysis":        analysis,
		"budgetsReviewed": len(budgets),
		"provider":        provider,
	})
	o.finishRun(ctx, runID, out)
	return out, nil
}

func hasAlertMarker(analysis string) bool {
	lower := strings.ToLower(analysis)
	for _, m := range alertMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
