package pipesmith

import (
	"github.com/pkg/errors"
)

// Model holds the declared steps and conditions of a grid. It is read-only once built and safe for concurrent use.
type Model[T any] struct {
	steps      []Step[T]
	conditions []Condition
	rules      []rule
	index      map[string]int
}

// New validates steps and conditions and builds a Model.
//
// Every problem found is reported in a single ConfigurationError: empty or duplicate step labels, nil conditions,
// label conditions without tags and conditions naming unknown steps.
func New[T any](steps []Step[T], conditions []Condition) (*Model[T], error) {
	var problems []error

	owned := make([]Step[T], len(steps))
	index := make(map[string]int, len(steps))
	for pos, step := range steps {
		owned[pos] = Step[T]{
			Label:    step.Label,
			Variants: append([]Variant[T](nil), step.Variants...),
		}
		if step.Label == "" {
			problems = append(problems, errors.Wrapf(ErrEmptyLabel, "step %d", pos))
			continue
		}
		if prev, ok := index[step.Label]; ok {
			problems = append(problems, errors.Wrapf(ErrDuplicateStep, "step %d: %q already declared at %d", pos, step.Label, prev))
			continue
		}
		index[step.Label] = pos
	}

	rules := make([]rule, 0, len(conditions))
	for pos, cond := range conditions {
		compiled, condProblems := compileCondition(pos, cond, index)
		if len(condProblems) > 0 {
			problems = append(problems, condProblems...)
			continue
		}
		rules = append(rules, compiled)
	}

	if err := NewConfigurationError(problems...); err != nil {
		return nil, err
	}

	return &Model[T]{
		steps:      owned,
		conditions: append([]Condition(nil), conditions...),
		rules:      rules,
		index:      index,
	}, nil
}

// IndexOf returns the position of the step labelled label. The boolean is false for unknown labels.
func (m *Model[T]) IndexOf(label string) (int, bool) {
	pos, ok := m.index[label]
	return pos, ok
}

// Labels returns the step labels in declaration order.
func (m *Model[T]) Labels() []string {
	labels := make([]string, len(m.steps))
	for i, step := range m.steps {
		labels[i] = step.Label
	}

	return labels
}

// Steps returns a copy of the declared steps.
func (m *Model[T]) Steps() []Step[T] {
	steps := make([]Step[T], len(m.steps))
	for i, step := range m.steps {
		steps[i] = Step[T]{
			Label:    step.Label,
			Variants: append([]Variant[T](nil), step.Variants...),
		}
	}

	return steps
}

// Conditions returns the declared conditions in order.
func (m *Model[T]) Conditions() []Condition {
	return append([]Condition(nil), m.conditions...)
}

// IsValid reports whether a complete assignment satisfies every condition.
func (m *Model[T]) IsValid(slots []Variant[T]) bool {
	_, ok := m.Check(slots)
	return ok
}

// Check evaluates the conditions in declaration order and stops at the first one failing.
// It returns the position of that condition, or -1 and true when the assignment is valid.
// An assignment whose length differs from the number of steps is rejected with -1.
func (m *Model[T]) Check(slots []Variant[T]) (int, bool) {
	if len(slots) != len(m.steps) {
		return -1, false
	}
	for pos := range m.rules {
		if !holds(&m.rules[pos], slots) {
			return pos, false
		}
	}

	return -1, true
}
