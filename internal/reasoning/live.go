package reasoning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/anthropic"
)

const systemPrompt = "You are a concise financial advisor. Answer with " +
	"concrete, actionable recommendations grounded in the data you are given."

// LiveProvider adapts the Anthropic client to the Provider contract. Every
// failure mode (API error, timeout, empty body) is normalized into a
// ProviderUnavailableError so the failover layer can treat them uniformly.
type LiveProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// NewLive creates a live reasoning provider.
func NewLive(client anthropic.Client, modelID string, maxTokens int64, timeout time.Duration) *LiveProvider {
	return &LiveProvider{
		client:    client,
		model:     modelID,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

func (l *LiveProvider) Chat(ctx context.Context, req Request) (*Response, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	msgReq := anthropic.MessageRequest{
		Model:     l.model,
		MaxTokens: l.maxTokens,
		System:    systemPrompt,
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			msgReq.System = m.Content
		case RoleModel:
			msgReq.Messages = append(msgReq.Messages, anthropic.Message{Role: "assistant", Content: m.Content})
		default:
			msgReq.Messages = append(msgReq.Messages, anthropic.Message{Role: "user", Content: m.Content})
		}
	}

	resp, err := l.client.CreateMessage(ctx, msgReq)
	if err != nil {
		return nil, l.classify(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, resilience.NewProviderUnavailable("anthropic", resilience.ReasonServer,
			fmt.Errorf("empty response body"))
	}

	return &Response{Content: text, Provider: ProviderLive}, nil
}

func (l *LiveProvider) AnalyzeBudgets(ctx context.Context, userID string, budgets []model.Budget) (*Response, error) {
	var sb strings.Builder
	sb.WriteString("Analyze the following budgets and produce concrete recommendations.\n\nBudgets:\n")
	for _, b := range budgets {
		fmt.Fprintf(&sb, "- %s: limit $%.2f (%s to %s)\n",
			b.Category, b.LimitAmount,
			b.PeriodStart.Format("2006-01-02"), b.PeriodEnd.Format("2006-01-02"))
	}
	sb.WriteString("\nRespond with: detected alerts, practical recommendations, and a brief summary.")

	return l.Chat(ctx, Request{Prompt: sb.String()})
}

func (l *LiveProvider) SavingsPlan(ctx context.Context, targetAmount float64, months int) (*Response, error) {
	monthly := MonthlySavings(targetAmount, months)

	prompt := fmt.Sprintf(
		"The user wants to save $%.2f over %d months, which requires $%.2f per month. "+
			"Produce a realistic monthly savings plan: how to automate the transfer, "+
			"where to cut spending, and how to track progress.",
		targetAmount, months, monthly,
	)

	resp, err := l.Chat(ctx, Request{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	// The monthly figure is part of the plan contract; the model narrative is
	// appended to the computed header rather than trusted to restate it.
	resp.Content = fmt.Sprintf("Monthly savings required: $%.2f\n\n%s", monthly, resp.Content)
	return resp, nil
}

// classify maps a client error into the provider-unavailable taxonomy. API
// status codes outside the unavailable class (e.g., 400) pass through
// unchanged so genuine request bugs are not masked by failover.
func (l *LiveProvider) classify(err error) error {
	if code := anthropic.StatusCode(err); code != 0 {
		if reason := resilience.ProviderReasonFromStatus(code); reason != "" {
			return resilience.NewProviderUnavailable("anthropic", reason, err)
		}
		return err
	}
	if resilience.IsProviderUnavailable(err) {
		return resilience.NewProviderUnavailable("anthropic", resilience.ReasonTimeout, err)
	}
	return err
}
