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

func TestSavingsPlan_MonthlyFigure(t *testing.T) {
	o, m := newTestOrchestrator(t)

	m.reasoner.On("SavingsPlan", mock.Anything, 5000.0, 12).
		Return(&reasoning.Response{
			Content:  "Monthly savings required: $416.67\n\nSet aside the amount at the start of each month.",
			Provider: reasoning.ProviderMock,
		}, nil)
	m.notifier.On("Send", mock.Anything, "u1", "Savings Plan Ready", mock.Anything, notify.TypeInfo).Return(nil)

	out, err := o.SavingsPlan(context.Background(), "u1", 5000, 12)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeSuccess, out.Status)
	assert.Contains(t, out.Payload["plan"], "416.67")
	assert.Equal(t, 416.67, out.Payload["monthlySavings"])
	assert.Equal(t, 5000.0, out.Payload["target"])
	assert.Equal(t, 12, out.Payload["months"])
	m.assertExpectations(t)
}

func TestSavingsPlan_InvalidInputs(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	tests := []struct {
		name   string
		target float64
		months int
	}{
		{"zero target", 0, 12},
		{"negative target", -100, 12},
		{"zero months", 5000, 0},
		{"negative months", 5000, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.SavingsPlan(context.Background(), "u1", tt.target, tt.months)
			require.Error(t, err)
			assert.True(t, resilience.IsValidation(err))
		})
	}
}

func TestSavingsPlan_NotifyFails_Partial(t *testing.T) {
	o, m := newTestOrchestrator(t)

	m.reasoner.On("SavingsPlan", mock.Anything, 1200.0, 6).
		Return(&reasoning.Response{Content: "Monthly savings required: $200.00", Provider: reasoning.ProviderMock}, nil)
	m.notifier.On("Send", mock.Anything, "u1", "Savings Plan Ready", mock.Anything, notify.TypeInfo).
		Return(resilience.NewBackendUnavailable("notification", errors.New("down")))

	out, err := o.SavingsPlan(context.Background(), "u1", 1200, 6)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomePartial, out.Status)
	assert.Equal(t, 200.0, out.Payload["monthlySavings"])
	m.assertExpectations(t)
}

func TestSavingsPlan_ProviderFails_Failed(t *testing.T) {
	o, m := newTestOrchestrator(t)

	m.reasoner.On("SavingsPlan", mock.Anything, 5000.0, 12).
		Return(nil, resilience.NewProviderUnavailable("reasoning", resilience.ReasonServer, errors.New("mock misconfigured")))

	out, err := o.SavingsPlan(context.Background(), "u1", 5000, 12)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFailed, out.Status)
	assert.NotContains(t, out.Payload, "plan")
	m.assertExpectations(t)
}
