package transaction

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SagaStep is one unit of work in a saga: an action plus the compensation
// that undoes it. Compensation runs only for steps whose action succeeded.
type SagaStep struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error // nil for steps with nothing to undo
}

// CompensationFailure records a compensation that itself failed
type CompensationFailure struct {
	Step string
	Err  error
}

// SagaError reports a failed saga: the original cause plus any compensations
// that could not be applied. Compensation failures never mask the cause.
type SagaError struct {
	Step                 string
	Cause                error
	CompensationFailures []CompensationFailure
}

// Error implements the error interface
func (e *SagaError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "saga failed at step %q: %v", e.Step, e.Cause)
	if len(e.CompensationFailures) > 0 {
		fmt.Fprintf(&sb, " (and %d compensation(s) failed)", len(e.CompensationFailures))
	}
	return sb.String()
}

// Unwrap exposes the original cause for errors.Is/As
func (e *SagaError) Unwrap() error {
	return e.Cause
}

// Saga executes an ordered list of steps, compensating in reverse order when
// one fails
type Saga struct {
	steps          []SagaStep
	bulkCompensate func(ctx context.Context) error
	logger         *zap.Logger
}

// NewSaga creates a saga with the given logger
func NewSaga(logger *zap.Logger) *Saga {
	return &Saga{logger: logger}
}

// AddStep appends a step to the saga
func (s *Saga) AddStep(step SagaStep) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// WithBulkCompensation registers a single server-side undo that is tried
// before the per-step compensations. When it succeeds the per-step path is
// skipped entirely; when it fails the saga falls back to per-step
// compensation.
func (s *Saga) WithBulkCompensation(fn func(ctx context.Context) error) *Saga {
	s.bulkCompensate = fn
	return s
}

// Execute runs the steps in order. On the first action failure, the
// compensations of all previously completed steps run in reverse order;
// compensation errors are logged and collected, never re-raised on their own.
func (s *Saga) Execute(ctx context.Context) error {
	completed := make([]SagaStep, 0, len(s.steps))

	for _, step := range s.steps {
		if err := step.Action(ctx); err != nil {
			s.logger.Error("saga step failed, compensating",
				zap.String("step", step.Name),
				zap.Int("completed_steps", len(completed)),
				zap.Error(err))
			if s.bulkCompensate != nil {
				if bulkErr := s.bulkCompensate(ctx); bulkErr == nil {
					s.logger.Info("saga rolled back server-side", zap.String("step", step.Name))
					return &SagaError{Step: step.Name, Cause: err}
				} else {
					s.logger.Warn("server-side rollback unavailable, compensating per step",
						zap.String("step", step.Name),
						zap.Error(bulkErr))
				}
			}
			failures := s.compensate(ctx, completed)
			return &SagaError{Step: step.Name, Cause: err, CompensationFailures: failures}
		}
		completed = append(completed, step)
	}

	return nil
}

func (s *Saga) compensate(ctx context.Context, completed []SagaStep) []CompensationFailure {
	var failures []CompensationFailure
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("saga compensation failed",
				zap.String("step", step.Name),
				zap.Error(err))
			failures = append(failures, CompensationFailure{Step: step.Name, Err: err})
			continue
		}
		s.logger.Info("saga step compensated", zap.String("step", step.Name))
	}
	return failures
}
