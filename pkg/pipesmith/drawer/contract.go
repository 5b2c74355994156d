package drawer

import (
	"github.com/askiada/go-pipesmith/pkg/pipesmith/measure"
)

// Drawer is an interface that defines the methods for drawing the rule graph of a grid.
type Drawer interface {
	// AddStep adds a step to the drawer.
	AddStep(label string) error
	// AddLink adds a link from the target step of a condition to one of its dependent steps.
	AddLink(targetStep, dependentStep, kind string) error
	// Draw writes the graph.
	Draw() error
	// AddMeasure annotates the steps with the metrics of a run.
	AddMeasure(measure measure.Measure) error
}
