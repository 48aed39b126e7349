package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/Oliver369X/agents-service/internal/backends"
	"github.com/Oliver369X/agents-service/internal/ocr"
	"github.com/Oliver369X/agents-service/internal/orchestrator"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/runlog"
	"github.com/Oliver369X/agents-service/pkg/gateway"
	"github.com/Oliver369X/agents-service/pkg/notify"
)

// agentEnv holds the initialized clients, providers, and orchestrator
// shared by the serve and one-shot workflow commands.
type agentEnv struct {
	Orchestrator *orchestrator.Orchestrator
	Runs         runlog.Store
}

// Close releases resources held by the environment.
func (e *agentEnv) Close() {
	if e.Runs != nil {
		_ = e.Runs.Close()
	}
}

// initEnv wires the backend clients, resolves the reasoning and OCR
// providers from credentials, opens the run log, and builds the
// orchestrator. Callers should defer env.Close().
func initEnv(ctx context.Context) (*agentEnv, error) {
	gw := gateway.NewClient(gateway.WithBaseURL(cfg.Gateway.URL))
	nc := notify.NewClient(notify.WithBaseURL(cfg.Notification.URL))

	timeout := cfg.Agent.CallTimeout()
	ledger := backends.NewGatewayLedger(gw, timeout)
	ml := backends.NewGatewayML(gw, timeout)
	notifier := backends.NewNotifyService(nc, timeout)

	reasoner := reasoning.Resolve(cfg.Anthropic, cfg.Agent)
	extractor := ocr.NewExtractor(cfg.OCR, timeout)

	runs, err := runlog.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		// The run log is observational; a missing store degrades, it does
		// not block startup.
		zap.L().Warn("cmd: run log unavailable", zap.Error(err))
		runs = nil
	} else if err := runs.Migrate(ctx); err != nil {
		zap.L().Warn("cmd: run log migrate failed", zap.Error(err))
		_ = runs.Close()
		runs = nil
	}

	orch := orchestrator.New(cfg, ledger, ml, notifier, reasoner, extractor, runs)
	return &agentEnv{Orchestrator: orch, Runs: runs}, nil
}
