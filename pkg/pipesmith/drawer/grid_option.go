package drawer

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-pipesmith/pkg/pipesmith/measure"
	"github.com/askiada/go-pipesmith/pkg/pipesmith/model"
)

type gridDrawer struct {
	Drawer
	m measure.Measure
}

func (gd *gridDrawer) New() error {
	return nil
}

func (gd *gridDrawer) PrepareStep(step *model.StepInfo) error {
	return gd.AddStep(step.Label)
}

func (gd *gridDrawer) PrepareCondition(cond *model.ConditionInfo) error {
	for _, dependent := range cond.Dependents {
		err := gd.AddLink(cond.Target, dependent, cond.Kind)
		if err != nil {
			return errors.Wrapf(err, "unable to draw condition %d", cond.Index)
		}
	}

	return nil
}

func (gd *gridDrawer) OnCombination(comb *model.CombinationInfo) error {
	return nil
}

// Finish annotates the graph with the measure, if any, and draws it. The measure option must be registered
// before the drawer so that its totals are final.
func (gd *gridDrawer) Finish(run *model.RunInfo) error {
	if gd.m != nil {
		err := gd.AddMeasure(gd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := gd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw grid")
	}

	return nil
}

// GridDrawer returns a grid option drawing the rule graph once the run is finished. msr may be nil.
func GridDrawer(drawer Drawer, msr measure.Measure) model.GridOption {
	return &gridDrawer{drawer, msr}
}
