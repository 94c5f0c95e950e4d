// Package sagalog defines the audit trail of checkout sagas.
//
// Every checkout attempt appends one entry per state transition: started,
// each step done, compensating, failed or completed. The log answers "what
// happened to this customer's order" without the order backend, and each
// entry carries the trace of the request that produced it.
package sagalog

import "time"

// Status represents the lifecycle state of a saga execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// SagaLog is one transition of one checkout.
type SagaLog struct {
	// SagaID is the checkout idempotency key.
	SagaID string

	Status Status

	// CurrentStep is the step that just executed or failed. Empty for
	// STARTED and COMPLETED.
	CurrentStep string

	// Payload is the JSON order payload, stored on STARTED only.
	Payload string

	// ErrorMessages is a JSON array of step and compensation failures.
	ErrorMessages string

	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
