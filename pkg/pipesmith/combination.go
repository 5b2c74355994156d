package pipesmith

import "strings"

// Combination is one accepted choice of variant per step, in step order. It never changes once built.
type Combination[T any] struct {
	slots []Variant[T]
}

func newCombination[T any](slots []Variant[T]) Combination[T] {
	return Combination[T]{slots: append([]Variant[T](nil), slots...)}
}

// Len is the number of steps of the combination.
func (c Combination[T]) Len() int {
	return len(c.slots)
}

// At returns the implementation chosen for the step at pos and whether the step is present.
func (c Combination[T]) At(pos int) (T, bool) {
	return c.slots[pos].Impl()
}

// Variant returns the variant chosen for the step at pos.
func (c Combination[T]) Variant(pos int) Variant[T] {
	return c.slots[pos]
}

// Variants returns a copy of the chosen variants.
func (c Combination[T]) Variants() []Variant[T] {
	return append([]Variant[T](nil), c.slots...)
}

// Implementations returns the present implementations in step order, the order a caller runs them in.
func (c Combination[T]) Implementations() []T {
	impls := make([]T, 0, len(c.slots))
	for _, slot := range c.slots {
		if impl, ok := slot.Impl(); ok {
			impls = append(impls, impl)
		}
	}

	return impls
}

func (c Combination[T]) String() string {
	return formatSlots(c.slots)
}

func formatSlots[T any](slots []Variant[T]) string {
	parts := make([]string, len(slots))
	for i, slot := range slots {
		parts[i] = slot.String()
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
