package measure_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipesmith/pkg/pipesmith"
	"github.com/askiada/go-pipesmith/pkg/pipesmith/measure"
)

func TestDefaultMetric(t *testing.T) {
	t.Parallel()

	mt := &measure.DefaultMetric{}
	assert.Zero(t, mt.AcceptanceRate())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(accepted bool) {
			defer wg.Done()
			mt.Observe(accepted)
		}(i%4 == 0)
	}
	wg.Wait()

	assert.Equal(t, int64(100), mt.Evaluated())
	assert.Equal(t, int64(25), mt.Accepted())
	assert.Equal(t, int64(75), mt.Rejected())
	assert.InDelta(t, 0.25, mt.AcceptanceRate(), 1e-9)
}

func TestDefaultMeasure(t *testing.T) {
	t.Parallel()

	m := measure.NewDefaultMeasure()
	first := m.AddMetric("a")
	assert.Same(t, first, m.AddMetric("a"))
	assert.Same(t, first, m.GetMetric("a"))
	assert.Nil(t, m.GetMetric("b"))
	assert.Len(t, m.AllMetrics(), 1)

	m.SetTotalDuration(1500 * time.Microsecond)
	assert.Equal(t, 1500*time.Microsecond, m.GetTotalDuration())
	m.SetTotalDuration(2*time.Second + 345678*time.Microsecond)
	assert.Equal(t, 2*time.Second+346*time.Millisecond, m.GetTotalDuration())
}

func TestGridMeasure(t *testing.T) {
	t.Parallel()

	steps := []pipesmith.Step[string]{
		pipesmith.NewStep("a", pipesmith.NewVariant("A1", pipesmith.Tags{"k": "x"}), pipesmith.Absent[string]()),
		pipesmith.NewStep("b", pipesmith.NewVariant("B1", nil), pipesmith.Absent[string]()),
		pipesmith.NewStep("c", pipesmith.NewVariant("C1", nil), pipesmith.Absent[string]()),
	}
	model, err := pipesmith.New(steps, []pipesmith.Condition{
		pipesmith.RequireIfPresent{Target: "a", RequiredSteps: []string{"b"}},
		pipesmith.SkipIfLabel{Target: "a", Label: pipesmith.Tags{"k": "x"}, SkipSteps: []string{"c"}},
	})
	require.NoError(t, err)

	for _, concurrent := range []int{1, 2} {
		msr := measure.NewDefaultMeasure()
		gen, err := pipesmith.NewGenerator(model,
			pipesmith.GeneratorConcurrency[string](concurrent),
			pipesmith.GeneratorHooks[string](measure.GridMeasure(msr)),
		)
		require.NoError(t, err)

		combs, err := gen.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, combs, 5)

		total := msr.GetMetric(measure.TotalMetricName)
		require.NotNil(t, total)
		assert.Equal(t, int64(8), total.Evaluated())
		assert.Equal(t, int64(5), total.Accepted())

		// (A1,B1,-) is the only accepted combination with a.
		stepA := msr.GetMetric(measure.StepMetricName("a"))
		assert.Equal(t, int64(4), stepA.Evaluated())
		assert.Equal(t, int64(1), stepA.Accepted())

		stepC := msr.GetMetric(measure.StepMetricName("c"))
		assert.Equal(t, int64(4), stepC.Evaluated())
		assert.Equal(t, int64(2), stepC.Accepted())

		// (A1,-,C1) and (A1,-,-) fail the first condition, (A1,B1,C1) the second.
		assert.Equal(t, int64(2), msr.GetMetric(measure.ConditionMetricName(0)).Rejected())
		assert.Equal(t, int64(1), msr.GetMetric(measure.ConditionMetricName(1)).Rejected())

		assert.Len(t, msr.AllMetrics(), 1+3+2)
	}
}
