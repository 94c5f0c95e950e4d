package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/salad-storefront/internal/coordinator/sagalog"
)

// Step represents a single unit of work in a checkout saga.
// Compensate undoes the effects of a successful Execute.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator runs Steps in order and records every transition in the
// saga log.
type Orchestrator struct {
	sagaID  string
	payload string
	steps   []Step
	log     sagalog.Repository // nil-safe: transitions are not recorded if nil
}

func NewOrchestrator(sagaID string, steps []Step, repo sagalog.Repository) *Orchestrator {
	return &Orchestrator{sagaID: sagaID, steps: steps, log: repo}
}

// WithPayload sets the JSON input stored with the STARTED entry.
func (o *Orchestrator) WithPayload(payload string) *Orchestrator {
	o.payload = payload
	return o
}

// Start runs the saga steps sequentially.
// If a step fails, it triggers the compensation of all previously successful steps.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.record(ctx, sagalog.StatusStarted, "", o.payload, nil)

	var successfulSteps []Step

	for _, step := range o.steps {
		slog.DebugContext(ctx, "executing step", "saga_id", o.sagaID, "step", step.Name())
		if err := step.Execute(ctx); err != nil {
			slog.WarnContext(ctx, "step failed, starting rollback", "saga_id", o.sagaID, "step", step.Name(), "error", err)
			errs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}
			o.record(ctx, sagalog.StatusCompensating, step.Name(), "", errs)
			errs = append(errs, o.rollback(ctx, successfulSteps)...)
			o.record(ctx, sagalog.StatusFailed, step.Name(), "", errs)
			return err
		}
		o.record(ctx, sagalog.StatusStepDone, step.Name(), "", nil)
		// Track successful step for potential compensation (LIFO)
		successfulSteps = append(successfulSteps, step)
	}

	o.record(ctx, sagalog.StatusCompleted, "", "", nil)
	slog.DebugContext(ctx, "saga completed", "saga_id", o.sagaID)
	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step) []string {
	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.DebugContext(ctx, "compensating step", "saga_id", o.sagaID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate step", "saga_id", o.sagaID, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status sagalog.Status, step, payload string, errs []string) {
	if o.log == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.sagaID, status, step, payload, errs)
	if err := o.log.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "saga log write failed", "saga_id", o.sagaID, "status", status, "error", err)
	}
}
