// Package orchestrator sequences the backend and reasoning calls that make
// up each financial workflow, applies the decision thresholds, and
// aggregates per-step results into a single WorkflowOutcome.
package orchestrator

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Oliver369X/agents-service/internal/backends"
	"github.com/Oliver369X/agents-service/internal/config"
	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/ocr"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/runlog"
)

// Orchestrator coordinates one workflow invocation at a time over immutable,
// startup-constructed dependencies. It holds no request state; every
// invocation owns its own tracker and outcome.
type Orchestrator struct {
	cfg       *config.Config
	ledger    backends.Ledger
	ml        backends.ML
	notifier  backends.Notifier
	reasoner  reasoning.Provider
	extractor ocr.Extractor
	runs      runlog.Store // optional; nil disables the run log
}

// New creates an Orchestrator with all dependencies.
func New(
	cfg *config.Config,
	ledger backends.Ledger,
	ml backends.ML,
	notifier backends.Notifier,
	reasoner reasoning.Provider,
	extractor ocr.Extractor,
	runs runlog.Store,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		ledger:    ledger,
		ml:        ml,
		notifier:  notifier,
		reasoner:  reasoner,
		extractor: extractor,
		runs:      runs,
	}
}

// Chat forwards a free-form reasoning request through the resolved provider.
func (o *Orchestrator) Chat(ctx context.Context, req reasoning.Request) (*reasoning.Response, error) {
	return o.reasoner.Chat(ctx, req)
}

// ExtractDocument runs OCR extraction outside of any workflow.
func (o *Orchestrator) ExtractDocument(ctx context.Context, documentURL string) (*ocr.Extraction, error) {
	return o.extractor.Extract(ctx, documentURL)
}

// tracker accumulates step results for one workflow invocation. Safe for
// concurrent use by fan-out steps.
type tracker struct {
	workflow string
	log      *zap.Logger

	mu    sync.Mutex
	steps []model.StepResult
}

func (o *Orchestrator) newTracker(workflow, userID string) *tracker {
	return &tracker{
		workflow: workflow,
		log: zap.L().With(
			zap.String("workflow", workflow),
			zap.String("user_id", userID),
		),
	}
}

// run executes one step, records its result, and reports success. Critical
// marks the step that produces the workflow's primary payload.
func (t *tracker) run(name string, critical bool, fn func() error) bool {
	err := fn()

	step := model.StepResult{Name: name, Status: model.StepSuccess, Critical: critical}
	if err != nil {
		step.Status = model.StepFailed
		step.Error = err.Error()
		t.log.Error("workflow: step failed",
			zap.String("step", name),
			zap.Bool("critical", critical),
			zap.Error(err),
		)
	} else {
		t.log.Debug("workflow: step complete", zap.String("step", name))
	}

	t.mu.Lock()
	t.steps = append(t.steps, step)
	t.mu.Unlock()
	return err == nil
}

// skip records a step that did not need to run.
func (t *tracker) skip(name string) {
	t.mu.Lock()
	t.steps = append(t.steps, model.StepResult{Name: name, Status: model.StepSkipped})
	t.mu.Unlock()
}

// outcome derives the final WorkflowOutcome from the recorded steps.
func (t *tracker) outcome(payload map[string]any) *model.WorkflowOutcome {
	t.mu.Lock()
	steps := make([]model.StepResult, len(t.steps))
	copy(steps, t.steps)
	t.mu.Unlock()

	out := &model.WorkflowOutcome{
		Workflow: t.workflow,
		Status:   model.ComputeStatus(steps),
		Steps:    steps,
		Payload:  payload,
	}
	t.log.Info("workflow: complete",
		zap.String("status", string(out.Status)),
		zap.Int("steps", len(steps)),
	)
	return out
}

// startRun opens a run-log record. Best effort: a run-log failure never
// affects the workflow.
func (o *Orchestrator) startRun(ctx context.Context, workflow, userID string) string {
	if o.runs == nil {
		return ""
	}
	run, err := o.runs.CreateRun(ctx, workflow, userID)
	if err != nil {
		zap.L().Warn("workflow: run log create failed", zap.Error(err))
		return ""
	}
	return run.ID
}

// finishRun closes a run-log record. Best effort.
func (o *Orchestrator) finishRun(ctx context.Context, runID string, outcome *model.WorkflowOutcome) {
	if o.runs == nil || runID == "" {
		return
	}
	if err := o.runs.CompleteRun(ctx, runID, outcome); err != nil {
		zap.L().Warn("workflow: run log complete failed", zap.Error(err))
	}
}
