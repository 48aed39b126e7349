package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

func TestAuditBudget_ThreeBudgets_Success(t *testing.T) {
	o, m := newTestOrchestrator(t)

	budgets := []model.Budget{
		{ID: "b1", Category: "Food", LimitAmount: 300},
		{ID: "b2", Category: "Transport", LimitAmount: 100},
		{ID: "b3", Category: "Health", LimitAmount: 150},
	}
	m.ledger.On("ListBudgets", mock.Anything, "123").Return(budgets, nil)
	m.reasoner.On("AnalyzeBudgets", mock.Anything, "123", budgets).
		Return(&reasoning.Response{Content: "All budgets look healthy.", Provider: reasoning.ProviderMock}, nil)

	out, err := o.AuditBudget(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeSuccess, out.Status)
	assert.Equal(t, 3, out.Payload["budgetsReviewed"])
	assert.Equal(t, "All budgets look healthy.", out.Payload["analysis"])
	m.assertExpectations(t)
}

func TestAuditBudget_LedgerDown_Failed(t *testing.T) {
	o, m := newTestOrchestrator(t)

	m.ledger.On("ListBudgets", mock.Anything, "123").
		Return(nil, resilience.NewBackendUnavailable("ledger", errors.New("connection refused")))

	out, err := o.AuditBudget(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFailed, out.Status)
	assert.Nil(t, out.Payload)

	require.Len(t, out.Steps, 3)
	assert.Equal(t, model.StepFailed, out.Steps[0].Status)
	assert.Equal(t, model.StepSkipped, out.Steps[1].Status)
	assert.Equal(t, model.StepSkipped, out.Steps[2].Status)
	m.assertExpectations(t)
}

func TestAuditBudget_AlertInAnalysis_SendsWarning(t *testing.T) {
	o, m := newTestOrchestrator(t)

	budgets := []model.Budget{{ID: "b1", Category: "Food", LimitAmount: 300}}
	m.ledger.On("ListBudgets", mock.Anything, "u1").Return(budgets, nil)
	m.reasoner.On("AnalyzeBudgets", mock.Anything, "u1", budgets).
		Return(&reasoning.Response{Content: "Alert: Food budget exceeded by 40.", Provider: reasoning.ProviderMock}, nil)
	m.notifier.On("Send", mock.Anything, "u1", "Budget Alert", mock.Anything, notify.TypeWarning).Return(nil)

	out, err := o.AuditBudget(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeSuccess, out.Status)
	m.assertExpectations(t)
}

func TestAuditBudget_NotifyFails_Partial(t *testing.T) {
	o, m := newTestOrchestrator(t)

	budgets := []model.Budget{{ID: "b1", Category: "Food", LimitAmount: 300}}
	m.ledger.On("ListBudgets", mock.Anything, "u1").Return(budgets, nil)
	m.reasoner.On("AnalyzeBudgets", mock.Anything, "u1", budgets).
		Return(&reasoning.Response{Content: "Budget exceeded.", Provider: reasoning.ProviderMock}, nil)
	m.notifier.On("Send", mock.Anything, "u1", "Budget Alert", mock.Anything, notify.TypeWarning).
		Return(resilience.NewBackendUnavailable("notification", errors.New("503")))

	out, err := o.AuditBudget(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomePartial, out.Status)
	assert.Equal(t, 1, out.Payload["budgetsReviewed"])
	m.assertExpectations(t)
}

func TestAuditBudget_EmptyUserID_ValidationError(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	_, err := o.AuditBudget(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, resilience.IsValidation(err))
}
