package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

func TestFinancialInsights_AllCallsSucceed(t *testing.T) {
	o, m := newTestOrchestrator(t)

	forecast := []model.ForecastPoint{
		{Month: 10, Year: 2026, PredictedAmount: 820.50, Trend: "rising"},
		{Month: 11, Year: 2026, PredictedAmount: 790.00, Trend: "stable"},
	}
	m.ml.On("Forecast", mock.Anything, "u1", forecastMonths).Return(forecast, nil)
	m.ml.On("DetectAnomaly", mock.Anything, "u1", model.Transaction{}).
		Return(&model.AnomalyResult{IsAnomaly: false, Score: 0.1}, nil)
	m.reasoner.On("Chat", mock.Anything, mock.Anything).
		Return(&reasoning.Response{Content: "Spending is trending up slightly.", Provider: reasoning.ProviderMock}, nil)
	m.notifier.On("Send", mock.Anything, "u1", "Financial Report", mock.Anything, notify.TypeInfo).Return(nil)

	out, err := o.FinancialInsights(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeSuccess, out.Status)
	assert.Equal(t, "Spending is trending up slightly.", out.Payload["analysis"])
	assert.Contains(t, out.Payload, "forecast")
	m.assertExpectations(t)
}

func TestFinancialInsights_ForecastFails_PartialSynthesis(t *testing.T) {
	o, m := newTestOrchestrator(t)

	m.ml.On("Forecast", mock.Anything, "u1", forecastMonths).
		Return(nil, resilience.NewBackendUnavailable("ml", errors.New("timeout")))
	m.ml.On("DetectAnomaly", mock.Anything, "u1", model.Transaction{}).
		Return(&model.AnomalyResult{IsAnomaly: true, Score: 0.8, Description: "unusual weekend spending"}, nil)
	m.reasoner.On("Chat", mock.Anything, mock.MatchedBy(func(req reasoning.Request) bool {
		// The synthesis prompt states the forecast gap instead of omitting it.
		return strings.Contains(req.Prompt, "No forecast available")
	})).Return(&reasoning.Response{Content: "Watch the weekend spending.", Provider: reasoning.ProviderMock}, nil)
	m.notifier.On("Send", mock.Anything, "u1", "Financial Report", mock.Anything, notify.TypeInfo).Return(nil)

	out, err := o.FinancialInsights(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomePartial, out.Status)
	assert.Equal(t, "Watch the weekend spending.", out.Payload["analysis"])
	assert.NotContains(t, out.Payload, "forecast")
	m.assertExpectations(t)
}

func TestFinancialInsights_SynthesisFails_Failed(t *testing.T) {
	o, m := newTestOrchestrator(t)

	m.ml.On("Forecast", mock.Anything, "u1", forecastMonths).Return([]model.ForecastPoint{}, nil)
	m.ml.On("DetectAnomaly", mock.Anything, "u1", model.Transaction{}).
		Return(&model.AnomalyResult{}, nil)
	m.reasoner.On("Chat", mock.Anything, mock.Anything).
		Return(nil, resilience.NewProviderUnavailable("reasoning", resilience.ReasonServer, errors.New("mock broken")))

	out, err := o.FinancialInsights(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFailed, out.Status)
	m.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestInsightsPrompt_StatesGaps(t *testing.T) {
	p := insightsPrompt(nil, nil)
	assert.Contains(t, p, "No forecast available")
	assert.Contains(t, p, "No anomaly data available")

	p = insightsPrompt([]model.ForecastPoint{{Month: 1, Year: 2027, PredictedAmount: 100, Trend: "flat"}},
		&model.AnomalyResult{IsAnomaly: true, Score: 0.9, Description: "spike"})
	assert.Contains(t, p, "1/2027")
	assert.Contains(t, p, "spike")
}
