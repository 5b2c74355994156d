package pipesmith_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipesmith/pkg/pipesmith"
	"github.com/askiada/go-pipesmith/pkg/pipesmith/model"
)

type recorder struct {
	mu     sync.Mutex
	events []string
	failOn string
}

func (r *recorder) record(event string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if event == r.failOn {
		return assert.AnError
	}

	return nil
}

func (r *recorder) New() error {
	return r.record("new")
}

func (r *recorder) PrepareStep(step *model.StepInfo) error {
	return r.record(fmt.Sprintf("step:%s:%d/%d", step.Label, step.Absent, step.Variants))
}

func (r *recorder) PrepareCondition(cond *model.ConditionInfo) error {
	return r.record(fmt.Sprintf("condition:%d:%s:%s->%s", cond.Index, cond.Kind, cond.Target, strings.Join(cond.Dependents, ",")))
}

func (r *recorder) OnCombination(comb *model.CombinationInfo) error {
	return r.record(fmt.Sprintf("combination:%s:%t:%d", strings.Join(comb.Present, "+"), comb.Accepted, comb.FailedCondition))
}

func (r *recorder) Finish(run *model.RunInfo) error {
	return r.record(fmt.Sprintf("finish:%d/%d", run.Accepted, run.Evaluated))
}

var _ model.GridOption = (*recorder)(nil)

func TestNewGeneratorNilModel(t *testing.T) {
	t.Parallel()

	_, err := pipesmith.NewGenerator[string](nil)
	assert.ErrorIs(t, err, pipesmith.ErrModelMustBeSet)
}

func TestGeneratorRunHooks(t *testing.T) {
	t.Parallel()

	m := mustModel(t, twoSteps(), pipesmith.RequireIfPresent{Target: "a", RequiredSteps: []string{"b"}})
	rec := &recorder{}
	gen, err := pipesmith.NewGenerator(m, pipesmith.GeneratorHooks[string](rec))
	require.NoError(t, err)

	combs, err := gen.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, implNames(t, m.Combinations()), implNames(t, combs))
	assert.Equal(t, []string{
		"new",
		"step:a:1/2",
		"step:b:1/2",
		"condition:0:require_if_present:a->b",
		"combination:a+b:true:-1",
		"combination:a:false:0",
		"combination:b:true:-1",
		"combination::true:-1",
		"finish:3/4",
	}, rec.events)
}

func TestGeneratorRunConcurrentKeepsOrder(t *testing.T) {
	t.Parallel()

	steps := []pipesmith.Step[string]{
		pipesmith.NewStep("a", use("A1"), use("A2"), useTagged("A3", pipesmith.Tags{"k": "x"}), skip()),
		pipesmith.NewStep("b", use("B1"), use("B2"), skip()),
		pipesmith.NewStep("c", use("C1"), skip()),
		pipesmith.NewStep("d", use("D1"), use("D2"), skip()),
	}
	m := mustModel(t, steps,
		pipesmith.RequireIfPresent{Target: "b", RequiredSteps: []string{"c"}},
		pipesmith.SkipIfLabel{Target: "a", Label: pipesmith.Tags{"k": "x"}, SkipSteps: []string{"d"}},
	)
	expected := implNames(t, m.Combinations())

	tcs := map[string]struct {
		concurrent int
	}{
		"sequential":     {concurrent: 1},
		"sequential v2":  {concurrent: 0},
		"concurrent 2":   {concurrent: 2},
		"concurrent 100": {concurrent: 100},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			gen, err := pipesmith.NewGenerator(m,
				pipesmith.GeneratorConcurrency[string](tc.concurrent),
				pipesmith.GeneratorHooks[string](rec),
			)
			require.NoError(t, err)

			combs, err := gen.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, expected, implNames(t, combs))
			assert.Equal(t, fmt.Sprintf("finish:%d/%d", len(expected), 4*3*2*3), rec.events[len(rec.events)-1])
		})
	}
}

func TestGeneratorRunCancelled(t *testing.T) {
	t.Parallel()

	for _, concurrent := range []int{1, 3} {
		t.Run(fmt.Sprintf("concurrent %d", concurrent), func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			gen, err := pipesmith.NewGenerator(mustModel(t, twoSteps()), pipesmith.GeneratorConcurrency[string](concurrent))
			require.NoError(t, err)
			combs, err := gen.Run(ctx)
			require.ErrorIs(t, err, context.Canceled)
			assert.Nil(t, combs)
		})
	}
}

func TestGeneratorRunHookError(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"new":         "new",
		"step":        "step:b:1/2",
		"condition":   "condition:0:require_if_present:a->b",
		"combination": "combination:a:false:0",
		"finish":      "finish:3/4",
	}

	for name, failOn := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := mustModel(t, twoSteps(), pipesmith.RequireIfPresent{Target: "a", RequiredSteps: []string{"b"}})
			rec := &recorder{failOn: failOn}
			gen, err := pipesmith.NewGenerator(m, pipesmith.GeneratorHooks[string](rec))
			require.NoError(t, err)

			_, err = gen.Run(context.Background())
			require.ErrorIs(t, err, assert.AnError)
			assert.Equal(t, failOn, rec.events[len(rec.events)-1])
		})
	}
}

func TestGeneratorLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := mustModel(t, twoSteps(), pipesmith.RequireIfPresent{Target: "a", RequiredSteps: []string{"b"}})
	gen, err := pipesmith.NewGenerator(m, pipesmith.GeneratorLogger[string](logger))
	require.NoError(t, err)

	_, err = gen.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="combination rejected" combination="(A1, <absent>)" condition=0 kind=require_if_present`)
	assert.Contains(t, out, `msg="enumeration finished" steps=2 conditions=1 evaluated=4 accepted=3`)
}

func TestGeneratorRunTwice(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	gen, err := pipesmith.NewGenerator(mustModel(t, twoSteps()), pipesmith.GeneratorHooks[string](rec))
	require.NoError(t, err)

	first, err := gen.Run(context.Background())
	require.NoError(t, err)
	second, err := gen.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, implNames(t, first), implNames(t, second))
	assert.Equal(t, "finish:4/4", rec.events[len(rec.events)-1])
}
