package pipesmith

import (
	"fmt"
	"reflect"
	"strings"
)

// Tags annotate a variant. They are only used to match conditions.
type Tags map[string]any

// Contains reports whether every key of subset is present in t with an equal value.
// An empty subset is contained in any tags.
func (t Tags) Contains(subset Tags) bool {
	for key, want := range subset {
		got, ok := t[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}

	return true
}

func (t Tags) clone() Tags {
	if len(t) == 0 {
		return nil
	}
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}

	return out
}

// Variant is one candidate implementation of a step.
// The zero value is the absent variant: the step is skipped in the combinations using it.
type Variant[T any] struct {
	impl    T
	tags    Tags
	present bool
}

// NewVariant returns a present variant. tags may be nil.
func NewVariant[T any](impl T, tags Tags) Variant[T] {
	return Variant[T]{
		impl:    impl,
		tags:    tags.clone(),
		present: true,
	}
}

// Absent returns the variant skipping a step. It never carries tags.
func Absent[T any]() Variant[T] {
	return Variant[T]{}
}

// Impl returns the implementation handle and whether the variant is present.
func (v Variant[T]) Impl() (T, bool) {
	return v.impl, v.present
}

// IsAbsent reports whether v skips its step.
func (v Variant[T]) IsAbsent() bool {
	return !v.present
}

// Tags returns a copy of the variant tags.
func (v Variant[T]) Tags() Tags {
	return v.tags.clone()
}

func (v Variant[T]) String() string {
	if !v.present {
		return "<absent>"
	}
	if len(v.tags) == 0 {
		return fmt.Sprintf("%v", v.impl)
	}

	return fmt.Sprintf("%v%s", v.impl, strings.TrimPrefix(fmt.Sprint(map[string]any(v.tags)), "map"))
}

// Step is a named slot of the pipeline with its ordered menu of variants.
type Step[T any] struct {
	Label    string
	Variants []Variant[T]
}

// NewStep is a shorthand to declare a step.
func NewStep[T any](label string, variants ...Variant[T]) Step[T] {
	return Step[T]{
		Label:    label,
		Variants: variants,
	}
}
