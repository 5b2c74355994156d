package measure

import (
	"github.com/askiada/go-pipesmith/pkg/pipesmith/model"
)

type gridMeasure struct {
	Measure
}

func (gm *gridMeasure) New() error {
	gm.AddMetric(TotalMetricName)
	return nil
}

func (gm *gridMeasure) PrepareStep(step *model.StepInfo) error {
	gm.AddMetric(StepMetricName(step.Label))
	return nil
}

func (gm *gridMeasure) PrepareCondition(cond *model.ConditionInfo) error {
	gm.AddMetric(ConditionMetricName(cond.Index))
	return nil
}

// OnCombination observes the combination on the total metric and on the metric of each present step.
// Condition metrics only observe the combinations they rejected.
func (gm *gridMeasure) OnCombination(comb *model.CombinationInfo) error {
	gm.GetMetric(TotalMetricName).Observe(comb.Accepted)
	for _, label := range comb.Present {
		gm.GetMetric(StepMetricName(label)).Observe(comb.Accepted)
	}
	if !comb.Accepted && comb.FailedCondition >= 0 {
		gm.GetMetric(ConditionMetricName(comb.FailedCondition)).Observe(false)
	}

	return nil
}

func (gm *gridMeasure) Finish(run *model.RunInfo) error {
	gm.SetTotalDuration(run.Duration)
	return nil
}

// GridMeasure returns a grid option recording the run into measure.
func GridMeasure(measure Measure) model.GridOption {
	return &gridMeasure{measure}
}
