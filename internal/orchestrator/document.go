package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Oliver369X/agents-service/internal/docparse"
	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/ocr"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

// ProcessDocument extracts text from a document via OCR, parses transaction
// fields out of it, registers the transaction, and confirms to the user.
// Registration failure keeps the extracted text in the payload so the caller
// can register manually.
func (o *Orchestrator) ProcessDocument(ctx context.Context, userID, documentURL, accountID string) (*model.WorkflowOutcome, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, resilience.NewValidationError("userId", "must not be empty")
	}
	if strings.TrimSpace(documentURL) == "" {
		return nil, resilience.NewValidationError("documentUrl", "must not be empty")
	}
	if strings.TrimSpace(accountID) == "" {
		return nil, resilience.NewValidationError("accountId", "must not be empty")
	}

	runID := o.startRun(ctx, "process_document", userID)
	t := o.newTracker("process_document", userID)

	var extraction *ocr.Extraction
	if ok := t.run("ocr_extract", true, func() error {
		var err error
		extraction, err = o.extractor.Extract(ctx, documentURL)
		return err
	}); !ok {
		t.skip("parse_fields")
		t.skip("register_transaction")
		t.skip("notify")
		out := t.outcome(nil)
		o.finishRun(ctx, runID, out)
		return out, nil
	}

	var fields docparse.Fields
	t.run("parse_fields", false, func() error {
		var errs []error
		fields, errs = docparse.ParseReceipt(extraction.Text)
		return errors.Join(errs...)
	})

	payload := map[string]any{
		"text":        extraction.Text,
		"ocrProvider": extraction.Provider,
	}
	if extraction.Confidence != nil {
		payload["ocrConfidence"] = *extraction.Confidence
	}
	if fields.Merchant != "" {
		payload["merchant"] = fields.Merchant
	}
	if fields.Date != "" {
		payload["date"] = fields.Date
	}

	var transactionID string
	registered := t.run("register_transaction", false, func() error {
		if fields.Amount == 0 {
			return &resilience.ParseError{Field: "amount"}
		}
		description := fields.Merchant
		if description == "" {
			description = "Document transaction"
		}
		id, err := o.ledger.RegisterTransaction(ctx, userID, model.Transaction{
			AccountID:   accountID,
			Amount:      fields.Amount,
			Type:        "EXPENSE",
			Description: description,
		})
		if err != nil {
			return err
		}
		transactionID = id
		return nil
	})

	if registered {
		payload["amount"] = fields.Amount
		payload["transactionId"] = transactionID
		t.run("notify", false, func() error {
			msg := fmt.Sprintf("Registered an expense of %.2f from %s.", fields.Amount, payload["merchant"])
			if fields.Merchant == "" {
				msg = fmt.Sprintf("Registered an expense of %.2f from your document.", fields.Amount)
			}
			return o.notifier.Send(ctx, userID, "Transaction Registered", msg, notify.TypeInfo)
		})
	} else {
		t.skip("notify")
	}

	out := t.outcome(payload)
	o.finishRun(ctx, runID, out)
	return out, nil
}
