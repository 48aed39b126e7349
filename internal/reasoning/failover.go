package reasoning

import (
	"context"

	"go.uber.org/zap"

	"github.com/Oliver369X/agents-service/internal/config"
	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/anthropic"
)

// Resolve selects the reasoning provider once at request entry. An empty
// credential selects the mock directly, with no network attempt; otherwise
// the live provider runs behind single-substitution failover to the mock.
func Resolve(cfg config.AnthropicConfig, timeout config.AgentConfig) Provider {
	if cfg.Key == "" {
		zap.L().Debug("reasoning: no credential configured, using mock provider")
		return NewMock()
	}
	live := NewLive(anthropic.NewClient(cfg.Key), cfg.Model, cfg.MaxTokens, timeout.CallTimeout())
	return NewFailover(live, NewMock())
}

// Failover runs the live provider and substitutes the mock exactly once when
// the live call fails with a provider-unavailable error. A failure after
// substitution surfaces to the caller; there is no retry loop.
type Failover struct {
	live Provider
	mock Provider
}

// NewFailover wraps live with mock substitution.
func NewFailover(live, mock Provider) *Failover {
	return &Failover{live: live, mock: mock}
}

func (f *Failover) Chat(ctx context.Context, req Request) (*Response, error) {
	resp, err := f.live.Chat(ctx, req)
	if f.substitute(err, "chat") {
		return f.mock.Chat(ctx, req)
	}
	return resp, err
}

func (f *Failover) AnalyzeBudgets(ctx context.Context, userID string, budgets []model.Budget) (*Response, error) {
	resp, err := f.live.AnalyzeBudgets(ctx, userID, budgets)
	if f.substitute(err, "analyze_budgets") {
		return f.mock.AnalyzeBudgets(ctx, userID, budgets)
	}
	return resp, err
}

func (f *Failover) SavingsPlan(ctx context.Context, targetAmount float64, months int) (*Response, error) {
	resp, err := f.live.SavingsPlan(ctx, targetAmount, months)
	if f.substitute(err, "savings_plan") {
		return f.mock.SavingsPlan(ctx, targetAmount, months)
	}
	return resp, err
}

// substitute reports whether the failed live call should be re-issued to the
// mock. Validation errors and other non-availability failures pass through.
func (f *Failover) substitute(err error, op string) bool {
	if err == nil || !resilience.IsProviderUnavailable(err) {
		return false
	}
	zap.L().Warn("reasoning: live provider unavailable, substituting mock",
		zap.String("op", op),
		zap.Error(err),
	)
	return true
}
