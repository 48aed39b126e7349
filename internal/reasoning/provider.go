// Package reasoning provides the uniform contract for generative reasoning
// calls, with a live Anthropic-backed provider and a deterministic mock, plus
// the failover layer that substitutes the mock when the live provider is
// unavailable.
package reasoning

import (
	"context"
	"math"
	"strings"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/resilience"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a reasoning call: either an ordered message sequence or a
// one-shot prompt, never both. Normalize enforces the rule and the request
// is not mutated afterwards.
type Request struct {
	Messages []Message `json:"messages,omitempty"`
	Prompt   string    `json:"prompt,omitempty"`
}

// Normalize validates the request and canonicalizes the prompt form into a
// single user message.
func (r Request) Normalize() (Request, error) {
	hasMessages := len(r.Messages) > 0
	hasPrompt := strings.TrimSpace(r.Prompt) != ""

	switch {
	case hasMessages && hasPrompt:
		return Request{}, resilience.NewValidationError("request", "messages and prompt are mutually exclusive")
	case !hasMessages && !hasPrompt:
		return Request{}, resilience.NewValidationError("request", "either messages or a prompt is required")
	case hasPrompt:
		return Request{
			Messages: []Message{{Role: RoleUser, Content: strings.TrimSpace(r.Prompt)}},
		}, nil
	}

	for i, m := range r.Messages {
		switch m.Role {
		case RoleUser, RoleModel, RoleSystem:
		default:
			return Request{}, resilience.NewValidationError("messages", "role must be user, model, or system")
		}
		if strings.TrimSpace(m.Content) == "" {
			return Request{}, resilience.NewValidationError("messages", "content must not be empty")
		}
		r.Messages[i].Content = strings.TrimSpace(m.Content)
	}
	return Request{Messages: r.Messages}, nil
}

// LastUserMessage returns the content of the most recent user message, or "".
func (r Request) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// ProviderKind tags which provider produced a response, so callers can
// observe whether fallback occurred.
type ProviderKind string

const (
	ProviderLive ProviderKind = "live"
	ProviderMock ProviderKind = "mock"
)

// Response is the result of a reasoning call.
type Response struct {
	Content    string       `json:"content"`
	Provider   ProviderKind `json:"provider"`
	Confidence *float64     `json:"confidence,omitempty"`
}

// Provider answers free-text and structured financial questions.
type Provider interface {
	Chat(ctx context.Context, req Request) (*Response, error)
	AnalyzeBudgets(ctx context.Context, userID string, budgets []model.Budget) (*Response, error)
	SavingsPlan(ctx context.Context, targetAmount float64, months int) (*Response, error)
}

// MonthlySavings computes the required monthly amount for a savings target,
// rounded to 2 decimals. Both live and mock paths use this same arithmetic.
func MonthlySavings(targetAmount float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	return math.Round(targetAmount/float64(months)*100) / 100
}
