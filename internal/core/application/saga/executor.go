// Package saga drives the multi-step financial transactions against the
// customer/picker stores and the payment ledger. A saga is a named ordered
// list of steps, each with a forward action and an optional compensating
// action; no step starts before the previous one is acknowledged, and a
// failed step triggers compensation of the completed steps in reverse order.
package saga

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is one unit of a saga: a forward action and an optional compensation
// undoing it. Compensate is only invoked for steps whose Run succeeded.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga is an ordered list of steps executed strictly in sequence.
type Saga struct {
	name  string
	steps []Step
}

// New creates a saga with the given name and steps.
func New(name string, steps ...Step) *Saga {
	return &Saga{name: name, steps: steps}
}

// Execute runs the forward actions in order. On the first failure it runs the
// compensations of the already completed steps in reverse order and returns
// the failing step's error. Compensation failures cannot be recovered from
// here; they are logged and swallowed.
func (s *Saga) Execute(ctx context.Context, logger *slog.Logger) error {
	completed := make([]Step, 0, len(s.steps))

	for _, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			s.compensate(ctx, logger, completed)
			return fmt.Errorf("saga %s, step %s: %w", s.name, step.Name, err)
		}
		completed = append(completed, step)
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, logger *slog.Logger, completed []Step) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}

		logger.Info("compensating saga step", "saga", s.name, "step", step.Name)
		if err := step.Compensate(ctx); err != nil {
			logger.Error("saga compensation failed",
				"saga", s.name, "step", step.Name, "error", err)
		}
	}
}
