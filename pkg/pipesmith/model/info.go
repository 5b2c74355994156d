package model

import "time"

// StepInfo describes a declared step.
type StepInfo struct {
	Label    string
	Index    int
	Variants int
	Absent   int
}

// ConditionInfo describes a declared condition.
type ConditionInfo struct {
	Kind       string
	Target     string
	Dependents []string
	Label      map[string]any
	Index      int
}

// CombinationInfo describes an evaluated combination.
type CombinationInfo struct {
	// Present lists the labels of the steps present in the combination, in step order.
	Present []string
	// FailedCondition is the index of the condition that rejected the combination, -1 when accepted.
	FailedCondition int
	Accepted        bool
}

// RunInfo summarises a generation run.
type RunInfo struct {
	Evaluated int64
	Accepted  int64
	Duration  time.Duration
}
