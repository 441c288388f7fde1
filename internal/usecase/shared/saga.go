package shared

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// Step is one write of a multi-document operation.
// Undo reverses Do and may be nil when nothing can be reversed.
type Step struct {
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
	Name string
}

// Saga runs steps in order. When a step fails, the Undo of every completed
// step runs in reverse order and the step's error is returned.
// Failed compensations are logged; the documents they touch may drift.
type Saga struct {
	logger domain.Logger
	name   string
	steps  []Step
}

// NewSaga creates an empty saga. logger may be nil.
func NewSaga(name string, logger domain.Logger) *Saga {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Saga{name: name, logger: logger}
}

// Add appends a step.
func (s *Saga) Add(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Run executes the steps.
func (s *Saga) Run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Do(ctx); err != nil {
			s.compensate(ctx, i)
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, failed int) {
	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Undo == nil {
			continue
		}
		if err := step.Undo(ctx); err != nil {
			s.logger.Warn(s.name, fmt.Sprintf("undo %s: %v", step.Name, err))
		}
	}
}
