package orchestrator

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/ocr"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

// --- Ledger Mock ---

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) ListBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Budget), args.Error(1)
}

func (m *mockLedger) RegisterTransaction(ctx context.Context, userID string, tx model.Transaction) (string, error) {
	args := m.Called(ctx, userID, tx)
	return args.String(0), args.Error(1)
}

// --- ML Mock ---

type mockML struct {
	mock.Mock
}

func (m *mockML) Classify(ctx context.Context, tx model.Transaction) (*model.ClassificationResult, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClassificationResult), args.Error(1)
}

func (m *mockML) Forecast(ctx context.Context, userID string, months int) ([]model.ForecastPoint, error) {
	args := m.Called(ctx, userID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ForecastPoint), args.Error(1)
}

func (m *mockML) DetectAnomaly(ctx context.Context, userID string, tx model.Transaction) (*model.AnomalyResult, error) {
	args := m.Called(ctx, userID, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnomalyResult), args.Error(1)
}

// --- Notifier Mock ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, userID, title, message string, typ notify.NotificationType) error {
	args := m.Called(ctx, userID, title, message, typ)
	return args.Error(0)
}

// --- Reasoning Provider Mock ---

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Chat(ctx context.Context, req reasoning.Request) (*reasoning.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reasoning.Response), args.Error(1)
}

func (m *mockProvider) AnalyzeBudgets(ctx context.Context, userID string, budgets []model.Budget) (*reasoning.Response, error) {
	args := m.Called(ctx, userID, budgets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reasoning.Response), args.Error(1)
}

func (m *mockProvider) SavingsPlan(ctx context.Context, targetAmount float64, months int) (*reasoning.Response, error) {
	args := m.Called(ctx, targetAmount, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reasoning.Response), args.Error(1)
}

// --- OCR Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, documentURL string) (*ocr.Extraction, error) {
	args := m.Called(ctx, documentURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ocr.Extraction), args.Error(1)
}
