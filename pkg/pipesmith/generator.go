package pipesmith

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-pipesmith/pkg/pipesmith/model"
)

// Generator runs the enumeration of a model with hooks, logging and optional concurrency.
type Generator[T any] struct {
	model      *Model[T]
	logger     *slog.Logger
	opts       []model.GridOption
	concurrent int
}

type counters struct {
	evaluated atomic.Int64
	accepted  atomic.Int64
}

// NewGenerator creates a new generator for m.
func NewGenerator[T any](m *Model[T], opts ...GeneratorOption[T]) (*Generator[T], error) {
	if m == nil {
		return nil, ErrModelMustBeSet
	}

	gen := &Generator[T]{
		model:      m,
		logger:     slog.New(slog.DiscardHandler),
		concurrent: 1,
	}
	for _, opt := range opts {
		opt(gen)
	}
	if gen.concurrent < 1 {
		gen.concurrent = 1
	}

	return gen, nil
}

// Run enumerates the valid combinations in the same order as Model.Combinations.
// It stops on the first hook error or when ctx is done.
func (g *Generator[T]) Run(ctx context.Context) ([]Combination[T], error) {
	start := time.Now()
	cnt := &counters{}

	err := g.prepare()
	if err != nil {
		return nil, err
	}

	var res []Combination[T]
	if g.concurrent > 1 && len(g.model.steps) > 0 {
		res, err = g.runConcurrent(ctx, cnt)
	} else {
		err = g.model.descend(0, make([]Variant[T], 0, len(g.model.steps)), g.leaf(ctx, cnt, &res))
	}
	if err != nil {
		return nil, err
	}

	run := &model.RunInfo{
		Evaluated: cnt.evaluated.Load(),
		Accepted:  cnt.accepted.Load(),
		Duration:  time.Since(start),
	}
	for _, opt := range g.opts {
		err := opt.Finish(run)
		if err != nil {
			return nil, errors.Wrap(err, "unable to finish grid option")
		}
	}

	g.logger.Info("enumeration finished",
		"steps", len(g.model.steps),
		"conditions", len(g.model.rules),
		"evaluated", run.Evaluated,
		"accepted", run.Accepted,
		"elapsed", run.Duration,
	)

	return res, nil
}

func (g *Generator[T]) prepare() error {
	for _, opt := range g.opts {
		err := opt.New()
		if err != nil {
			return errors.Wrap(err, "unable to apply grid option")
		}
	}

	for pos, step := range g.model.steps {
		info := &model.StepInfo{
			Label:    step.Label,
			Index:    pos,
			Variants: len(step.Variants),
		}
		for _, variant := range step.Variants {
			if variant.IsAbsent() {
				info.Absent++
			}
		}
		for _, opt := range g.opts {
			err := opt.PrepareStep(info)
			if err != nil {
				return errors.Wrapf(err, "unable to prepare step %s", step.Label)
			}
		}
	}

	for pos, cond := range g.model.conditions {
		info := &model.ConditionInfo{
			Index:      pos,
			Kind:       string(cond.Kind()),
			Target:     cond.TargetStep(),
			Dependents: append([]string(nil), cond.DependentSteps()...),
			Label:      g.model.rules[pos].label.clone(),
		}
		for _, opt := range g.opts {
			err := opt.PrepareCondition(info)
			if err != nil {
				return errors.Wrapf(err, "unable to prepare condition %d", pos)
			}
		}
	}

	return nil
}

// runConcurrent explores the subtree of each variant of the first step in its own goroutine.
// Results are stitched back in variant order.
func (g *Generator[T]) runConcurrent(ctx context.Context, cnt *counters) ([]Combination[T], error) {
	first := g.model.steps[0].Variants
	parts := make([][]Combination[T], len(first))

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(g.concurrent)
	for idx, variant := range first {
		errGrp.Go(func() error {
			buf := make([]Variant[T], 1, len(g.model.steps))
			buf[0] = variant
			return g.model.descend(1, buf, g.leaf(dCtx, cnt, &parts[idx]))
		})
	}
	err := errGrp.Wait()
	if err != nil {
		return nil, err
	}

	var res []Combination[T]
	for _, part := range parts {
		res = append(res, part...)
	}

	return res, nil
}

func (g *Generator[T]) leaf(ctx context.Context, cnt *counters, out *[]Combination[T]) func([]Variant[T]) error {
	return func(slots []Variant[T]) error {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "enumeration interrupted")
		default:
		}

		cnt.evaluated.Add(1)
		failed, ok := g.model.Check(slots)
		if ok {
			cnt.accepted.Add(1)
			*out = append(*out, newCombination(slots))
		} else {
			g.logger.Debug("combination rejected",
				"combination", formatSlots(slots),
				"condition", failed,
				"kind", g.model.rules[failed].kind,
			)
		}

		return g.notify(slots, failed, ok)
	}
}

func (g *Generator[T]) notify(slots []Variant[T], failed int, accepted bool) error {
	if len(g.opts) == 0 {
		return nil
	}

	info := &model.CombinationInfo{
		Present:         make([]string, 0, len(slots)),
		FailedCondition: failed,
		Accepted:        accepted,
	}
	for pos, slot := range slots {
		if !slot.IsAbsent() {
			info.Present = append(info.Present, g.model.steps[pos].Label)
		}
	}
	for _, opt := range g.opts {
		err := opt.OnCombination(info)
		if err != nil {
			return errors.Wrap(err, "unable to run combination hook")
		}
	}

	return nil
}
