// Package runlog persists an audit trail of workflow invocations. It is
// strictly observational: workflows write to it but never read from it, so
// no business state crosses request boundaries.
package runlog

import (
	"context"
	"time"

	"github.com/Oliver369X/agents-service/internal/model"
)

// Run is one recorded workflow invocation.
type Run struct {
	ID        string                 `json:"id"`
	Workflow  string                 `json:"workflow"`
	UserID    string                 `json:"user_id"`
	Status    string                 `json:"status"`
	Outcome   *model.WorkflowOutcome `json:"outcome,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Filter specifies criteria for listing runs.
type Filter struct {
	Workflow string `json:"workflow,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Status   string `json:"status,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the workflow run log.
type Store interface {
	CreateRun(ctx context.Context, workflow, userID string) (*Run, error)
	CompleteRun(ctx context.Context, runID string, outcome *model.WorkflowOutcome) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter Filter) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// statusRunning marks a run whose workflow has not finished yet.
const statusRunning = "running"
