// Package backends defines the narrow collaborator interfaces the workflow
// orchestrator depends on, plus adapters that normalize every failure from
// the gateway and notification clients into the shared error taxonomy.
package backends

import (
	"context"
	"time"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/gateway"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

// Ledger exposes the budget and transaction operations of the core service.
type Ledger interface {
	ListBudgets(ctx context.Context, userID string) ([]model.Budget, error)
	RegisterTransaction(ctx context.Context, userID string, tx model.Transaction) (string, error)
}

// ML exposes the classification, forecast, and anomaly operations.
type ML interface {
	Classify(ctx context.Context, tx model.Transaction) (*model.ClassificationResult, error)
	Forecast(ctx context.Context, userID string, months int) ([]model.ForecastPoint, error)
	DetectAnomaly(ctx context.Context, userID string, tx model.Transaction) (*model.AnomalyResult, error)
}

// Notifier delivers messages to users. Callers treat failures as
// non-critical unless the notification is the workflow's primary payload.
type Notifier interface {
	Send(ctx context.Context, userID, title, message string, typ notify.NotificationType) error
}

// GatewayLedger adapts the gateway client to the Ledger interface.
type GatewayLedger struct {
	client  gateway.Client
	timeout time.Duration
}

// NewGatewayLedger creates a Ledger over the gateway client with a uniform
// per-call timeout.
func NewGatewayLedger(client gateway.Client, timeout time.Duration) *GatewayLedger {
	return &GatewayLedger{client: client, timeout: timeout}
}

func (l *GatewayLedger) ListBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	raw, err := l.client.BudgetsByUser(ctx, userID)
	if err != nil {
		return nil, resilience.NewBackendUnavailable("ledger", err)
	}

	budgets := make([]model.Budget, 0, len(raw))
	for _, b := range raw {
		budgets = append(budgets, model.Budget{
			ID:          b.ID,
			UserID:      b.UserID,
			Category:    b.Category,
			LimitAmount: b.LimitAmount,
			PeriodStart: parseDate(b.PeriodStart),
			PeriodEnd:   parseDate(b.PeriodEnd),
		})
	}
	return budgets, nil
}

func (l *GatewayLedger) RegisterTransaction(ctx context.Context, userID string, tx model.Transaction) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	record, err := l.client.RegisterTransaction(ctx, gateway.RegisterTransactionInput{
		AccountID:   tx.AccountID,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Category:    tx.Category,
		Description: tx.Description,
	})
	if err != nil {
		return "", resilience.NewBackendUnavailable("ledger", err)
	}
	return record.ID, nil
}

// GatewayML adapts the gateway client to the ML interface.
type GatewayML struct {
	client  gateway.Client
	timeout time.Duration
}

// NewGatewayML creates an ML adapter over the gateway client.
func NewGatewayML(client gateway.Client, timeout time.Duration) *GatewayML {
	return &GatewayML{client: client, timeout: timeout}
}

func (m *GatewayML) Classify(ctx context.Context, tx model.Transaction) (*model.ClassificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	pred, err := m.client.ClassifyTransaction(ctx, gateway.ClassifyInput{
		Text:   tx.Description,
		Amount: tx.Amount,
	})
	if err != nil {
		return nil, resilience.NewBackendUnavailable("ml", err)
	}
	return &model.ClassificationResult{
		Label:      pred.PredictedCategory,
		Confidence: pred.Confidence,
	}, nil
}

func (m *GatewayML) Forecast(ctx context.Context, userID string, months int) ([]model.ForecastPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	entries, err := m.client.GenerateForecast(ctx, userID, months)
	if err != nil {
		return nil, resilience.NewBackendUnavailable("ml", err)
	}

	points := make([]model.ForecastPoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, model.ForecastPoint{
			Month:           e.ForecastMonth,
			Year:            e.ForecastYear,
			PredictedAmount: e.PredictedAmount,
			Trend:           e.Trend,
			Category:        e.Category,
		})
	}
	return points, nil
}

func (m *GatewayML) DetectAnomaly(ctx context.Context, userID string, tx model.Transaction) (*model.AnomalyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	verdict, err := m.client.DetectAnomaly(ctx, gateway.AnomalyInput{
		UserID:      userID,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
	})
	if err != nil {
		return nil, resilience.NewBackendUnavailable("ml", err)
	}
	return &model.AnomalyResult{
		IsAnomaly:   verdict.IsAnomaly,
		Score:       verdict.Score,
		Description: verdict.Description,
	}, nil
}

// NotifyService adapts the notification client to the Notifier interface.
type NotifyService struct {
	client  notify.Client
	timeout time.Duration
}

// NewNotifyService creates a Notifier over the notification client.
func NewNotifyService(client notify.Client, timeout time.Duration) *NotifyService {
	return &NotifyService{client: client, timeout: timeout}
}

func (n *NotifyService) Send(ctx context.Context, userID, title, message string, typ notify.NotificationType) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	_, err := n.client.Send(ctx, notify.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
	})
	if err != nil {
		return resilience.NewBackendUnavailable("notification", err)
	}
	return nil
}

// parseDate accepts the date formats the gateway emits. Zero time on failure
// keeps budget listings usable even with malformed dates.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
