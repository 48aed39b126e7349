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

// SavingsPlan asks the reasoning provider for a monthly savings plan toward
// a target amount. Invalid targets are rejected before any step runs.
func (o *Orchestrator) SavingsPlan(ctx context.Context, userID string, targetAmount float64, months int) (*model.WorkflowOutcome, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, resilience.NewValidationError("userId", "must not be empty")
	}
	if targetAmount <= 0 {
		return nil, resilience.NewValidationError("targetAmount", "must be positive")
	}
	if months <= 0 {
		return nil, resilience.NewValidationError("months", "must be positive")
	}

	runID := o.startRun(ctx, "savings_plan", userID)
	t := o.newTracker("savings_plan", userID)

	var plan string
	var provider string
	if ok := t.run("generate_plan", true, func() error {
		resp, err := o.reasoner.SavingsPlan(ctx, targetAmount, months)
		if err != nil {
			return err
		}
		plan = resp.Content
		provider = string(resp.Provider)
		return nil
	}); !ok {
		t.skip("notify")
		out := t.outcome(map[string]any{"target": targetAmount, "months": months})
		o.finishRun(ctx, runID, out)
		return out, nil
	}

	t.run("notify", false, func() error {
		msg := fmt.Sprintf("Your plan to save %.2f over %d months is ready.", targetAmount, months)
		return o.notifier.Send(ctx, userID, "Savings Plan Ready", msg, notify.TypeInfo)
	})

	out := t.outcome(map[string]any{
		"plan":           plan,
		"target":         targetAmount,
		"months":         months,
		"monthlySavings": reasoning.MonthlySavings(targetAmount, months),
		"provider":       provider,
	})
	o.finishRun(ctx, runID, out)
	return out, nil
}
