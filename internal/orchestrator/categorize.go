package orchestrator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

// SmartCategorize classifies a transaction with the ML service and registers
// it. When classification confidence is below the configured threshold the
// reasoning provider validates the category first; at or above the
// threshold it is registered directly.
func (o *Orchestrator) SmartCategorize(ctx context.Context, userID string, tx model.Transaction) (*model.WorkflowOutcome, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, resilience.NewValidationError("userId", "must not be empty")
	}
	if strings.TrimSpace(tx.AccountID) == "" {
		return nil, resilience.NewValidationError("accountId", "must not be empty")
	}
	if strings.TrimSpace(tx.Description) == "" {
		return nil, resilience.NewValidationError("description", "must not be empty")
	}
	if tx.Amount == 0 {
		return nil, resilience.NewValidationError("amount", "must not be zero")
	}

	runID := o.startRun(ctx, "smart_categorize", userID)
	t := o.newTracker("smart_categorize", userID)

	var classification *model.ClassificationResult
	if ok := t.run("classify", true, func() error {
		var err error
		classification, err = o.ml.Classify(ctx, tx)
		return err
	}); !ok {
		t.skip("validate_category")
		t.skip("register_transaction")
		t.skip("notify")
		out := t.outcome(nil)
		o.finishRun(ctx, runID, out)
		return out, nil
	}

	category := classification.Label
	method := "ml"
	if classification.Confidence < o.cfg.Agent.ConfidenceThreshold {
		method = "reasoning_assisted"
		t.run("validate_category", false, func() error {
			prompt := fmt.Sprintf(
				"Suggest the best category for this transaction.\nText: %s\nAmount: %.2f\nClassifier suggests: %s (confidence: %.2f)\n\nAnswer with the category name only.",
				tx.Description, tx.Amount, classification.Label, classification.Confidence,
			)
			resp, err := o.reasoner.Chat(ctx, reasoning.Request{Prompt: prompt})
			if err != nil {
				return err
			}
			if c := strings.TrimSpace(resp.Content); c != "" {
				category = firstLine(c)
			}
			return nil
		})
	} else {
		t.skip("validate_category")
	}

	var transactionID string
	registered := t.run("register_transaction", false, func() error {
		tx.Category = category
		tx.Type = model.TransactionType(tx.Amount)
		id, err := o.ledger.RegisterTransaction(ctx, userID, tx)
		if err != nil {
			return err
		}
		transactionID = id
		return nil
	})

	if registered {
		t.run("notify", false, func() error {
			msg := fmt.Sprintf("Registered %.2f in %s (ML confidence: %.0f%%).",
				math.Abs(tx.Amount), category, classification.Confidence*100)
			return o.notifier.Send(ctx, userID, "Transaction Categorized", msg, notify.TypeInfo)
		})
	} else {
		t.skip("notify")
	}

	payload := map[string]any{
		"category":     category,
		"mlConfidence": classification.Confidence,
		"method":       method,
	}
	if transactionID != "" {
		payload["transactionId"] = transactionID
	}
	out := t.outcome(payload)
	o.finishRun(ctx, runID, out)
	return out, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
