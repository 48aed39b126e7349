package model

// OutcomeStatus is the terminal state of a workflow invocation.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "SUCCESS"
	OutcomePartial OutcomeStatus = "PARTIAL"
	OutcomeFailed  OutcomeStatus = "FAILED"
)

// StepStatus is the terminal state of a single workflow step.
type StepStatus string

const (
	StepSuccess StepStatus = "success"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepResult records the outcome of one workflow step. Critical marks the
// step that produces the workflow's primary payload: its failure fails the
// whole workflow, anything else degrades to PARTIAL.
type StepResult struct {
	Name     string     `json:"name"`
	Status   StepStatus `json:"status"`
	Error    string     `json:"error,omitempty"`
	Critical bool       `json:"critical,omitempty"`
}

// WorkflowOutcome is the aggregated result of one workflow invocation.
// Status is always derived from Steps via ComputeStatus, never set directly.
type WorkflowOutcome struct {
	Workflow string         `json:"workflow"`
	Status   OutcomeStatus  `json:"status"`
	Steps    []StepResult   `json:"steps"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// ComputeStatus derives the workflow status from its steps: SUCCESS when no
// step failed, FAILED when a critical step failed, PARTIAL otherwise.
// Skipped steps count as neither.
func ComputeStatus(steps []StepResult) OutcomeStatus {
	anyFailed := false
	for _, s := range steps {
		if s.Status != StepFailed {
			continue
		}
		if s.Critical {
			return OutcomeFailed
		}
		anyFailed = true
	}
	if anyFailed {
		return OutcomePartial
	}
	return OutcomeSuccess
}
