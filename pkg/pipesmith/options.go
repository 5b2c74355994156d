package pipesmith

import (
	"log/slog"

	"github.com/askiada/go-pipesmith/pkg/pipesmith/model"
)

// GeneratorOption configures a Generator.
type GeneratorOption[T any] func(g *Generator[T])

// GeneratorConcurrency splits the run across the variants of the first step, with at most concurrent subtrees
// explored at once. The order of the result does not depend on it.
func GeneratorConcurrency[T any](concurrent int) GeneratorOption[T] {
	return func(g *Generator[T]) {
		g.concurrent = concurrent
	}
}

// GeneratorLogger sets the logger receiving a debug line per rejected combination and a summary per run.
// A nil logger keeps the default, which discards everything.
func GeneratorLogger[T any](logger *slog.Logger) GeneratorOption[T] {
	return func(g *Generator[T]) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// GeneratorHooks registers grid options notified during the run, in the given order.
func GeneratorHooks[T any](opts ...model.GridOption) GeneratorOption[T] {
	return func(g *Generator[T]) {
		g.opts = append(g.opts, opts...)
	}
}
