package model

// GridOption defines the interface for options observing a generation run.
//
// When the generator runs concurrently, OnCombination is called from several goroutines and implementations must
// be safe for concurrent use.
type GridOption interface {
	// New initialises the grid option. It runs first, once per run.
	New() error
	// PrepareStep runs once for every declared step, in step order.
	PrepareStep(step *StepInfo) error
	// PrepareCondition runs once for every declared condition, in declaration order.
	PrepareCondition(cond *ConditionInfo) error
	// OnCombination runs every time a complete combination has been evaluated, accepted or not.
	OnCombination(comb *CombinationInfo) error
	// Finish runs after the last combination has been evaluated.
	Finish(run *RunInfo) error
}
