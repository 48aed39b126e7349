package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

// forecastMonths is how far ahead the insights forecast looks.
const forecastMonths = 3

// FinancialInsights fans out the ML forecast and a recent-activity anomaly
// scan concurrently, synthesizes a narrative from whatever came back, and
// delivers the report as a notification.
func (o *Orchestrator) FinancialInsights(ctx context.Context, userID string) (*model.WorkflowOutcome, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, resilience.NewValidationError("userId", "must not be empty")
	}

	runID := o.startRun(ctx, "financial_insights", userID)
	t := o.newTracker("financial_insights", userID)

	var forecast []model.ForecastPoint
	var anomaly *model.AnomalyResult

	// Forecast and anomaly detection hit different backends with no data
	// dependency, so they run concurrently.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t.run("forecast", false, func() error {
			var err error
			forecast, err = o.ml.Forecast(gCtx, userID, forecastMonths)
			return err
		})
		return nil
	})
	g.Go(func() error {
		t.run("detect_anomaly", false, func() error {
			var err error
			anomaly, err = o.ml.DetectAnomaly(gCtx, userID, model.Transaction{})
			return err
		})
		return nil
	})
	_ = g.Wait()

	var analysis string
	var provider string
	if ok := t.run("synthesize", true, func() error {
		resp, err := o.reasoner.Chat(ctx, reasoning.Request{Prompt: insightsPrompt(forecast, anomaly)})
		if err != nil {
			return err
		}
		analysis = resp.Content
		provider = string(resp.Provider)
		return nil
	}); !ok {
		t.skip("notify")
		out := t.outcome(nil)
		o.finishRun(ctx, runID, out)
		return out, nil
	}

	t.run("notify", false, func() error {
		return o.notifier.Send(ctx, userID, "Financial Report",
			"Your personalized financial analysis is ready. Review the insights and recommendations.",
			notify.TypeInfo)
	})

	payload := map[string]any{
		"analysis":    analysis,
		"provider":    provider,
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if forecast != nil {
		payload["forecast"] = forecast
	}
	if anomaly != nil {
		payload["anomaly"] = anomaly
	}
	out := t.outcome(payload)
	o.finishRun(ctx, runID, out)
	return out, nil
}

// insightsPrompt builds the synthesis prompt from whichever ML results are
// available. Missing results are stated as unavailable rather than omitted,
// so the narrative acknowledges the gap.
func insightsPrompt(forecast []model.ForecastPoint, anomaly *model.AnomalyResult) string {
	var b strings.Builder
	b.WriteString("You are a financial advisor. Produce a short report with key insights and actionable recommendations from this data.\n\n")

	b.WriteString("SPENDING FORECAST:\n")
	if len(forecast) == 0 {
		b.WriteString("No forecast available.\n")
	}
	for _, f := range forecast {
		fmt.Fprintf(&b, "- %d/%d: %.2f (trend: %s)\n", f.Month, f.Year, f.PredictedAmount, f.Trend)
	}

	b.WriteString("\nANOMALY SCAN:\n")
	switch {
	case anomaly == nil:
		b.WriteString("No anomaly data available.\n")
	case anomaly.IsAnomaly:
		fmt.Fprintf(&b, "Anomalous activity detected (score %.2f): %s\n", anomaly.Score, anomaly.Description)
	default:
		b.WriteString("No anomalous activity detected.\n")
	}
	return b.String()
}
