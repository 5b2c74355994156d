package pipesmith

import (
	"github.com/pkg/errors"
)

// Combinations returns every valid combination. The last step varies fastest, so the order is the lexicographic
// order of variant positions. A step without variants yields no combination.
func (m *Model[T]) Combinations() []Combination[T] {
	var res []Combination[T]
	_ = m.Walk(func(comb Combination[T]) error {
		res = append(res, comb)
		return nil
	})

	return res
}

// Walk calls fn with each valid combination, in the order of Combinations.
// Returning ErrStopWalk from fn stops the walk and Walk returns nil. Any other error stops the walk and is returned.
func (m *Model[T]) Walk(fn func(Combination[T]) error) error {
	err := m.descend(0, make([]Variant[T], 0, len(m.steps)), func(slots []Variant[T]) error {
		if !m.IsValid(slots) {
			return nil
		}
		return fn(newCombination(slots))
	})
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "unable to walk combinations")
	}

	return nil
}

// descend visits every complete assignment extending buf, from step depth on.
// buf is reused between branches: visit must copy what it keeps.
func (m *Model[T]) descend(depth int, buf []Variant[T], visit func([]Variant[T]) error) error {
	if depth == len(m.steps) {
		return visit(buf)
	}
	for _, variant := range m.steps[depth].Variants {
		err := m.descend(depth+1, append(buf[:depth], variant), visit)
		if err != nil {
			return err
		}
	}

	return nil
}
