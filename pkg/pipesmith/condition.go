package pipesmith

import (
	"github.com/pkg/errors"
)

// ConditionKind names one of the three condition shapes.
type ConditionKind string

const (
	RequireIfLabelKind   ConditionKind = "require_if_label"
	SkipIfLabelKind      ConditionKind = "skip_if_label"
	RequireIfPresentKind ConditionKind = "require_if_present"
)

// ParseConditionKind maps a condition name to its kind.
func ParseConditionKind(name string) (ConditionKind, error) {
	switch kind := ConditionKind(name); kind {
	case RequireIfLabelKind, SkipIfLabelKind, RequireIfPresentKind:
		return kind, nil
	default:
		return "", errors.Wrapf(ErrUnknownCondition, "%q", name)
	}
}

// Condition is a rule spanning several steps. It is implemented by RequireIfLabel, SkipIfLabel and
// RequireIfPresent only.
type Condition interface {
	Kind() ConditionKind
	// TargetStep is the step whose chosen variant triggers the condition.
	TargetStep() string
	// DependentSteps are the steps constrained once the condition fires.
	DependentSteps() []string

	condition()
}

// RequireIfLabel requires RequiredSteps to be present when the variant chosen for Target is present and its tags
// contain Label.
type RequireIfLabel struct {
	Target        string
	Label         Tags
	RequiredSteps []string
}

func (RequireIfLabel) Kind() ConditionKind        { return RequireIfLabelKind }
func (c RequireIfLabel) TargetStep() string       { return c.Target }
func (c RequireIfLabel) DependentSteps() []string { return c.RequiredSteps }
func (RequireIfLabel) condition()                 {}

// SkipIfLabel requires SkipSteps to be absent when the variant chosen for Target is present and its tags contain
// Label.
type SkipIfLabel struct {
	Target    string
	Label     Tags
	SkipSteps []string
}

func (SkipIfLabel) Kind() ConditionKind        { return SkipIfLabelKind }
func (c SkipIfLabel) TargetStep() string       { return c.Target }
func (c SkipIfLabel) DependentSteps() []string { return c.SkipSteps }
func (SkipIfLabel) condition()                 {}

// RequireIfPresent requires RequiredSteps to be present when Target is present.
type RequireIfPresent struct {
	Target        string
	RequiredSteps []string
}

func (RequireIfPresent) Kind() ConditionKind        { return RequireIfPresentKind }
func (c RequireIfPresent) TargetStep() string       { return c.Target }
func (c RequireIfPresent) DependentSteps() []string { return c.RequiredSteps }
func (RequireIfPresent) condition()                 {}

// rule is a condition resolved against the step positions of a model.
type rule struct {
	kind        ConditionKind
	target      int
	label       Tags
	deps        []int
	wantPresent bool
}

// holds evaluates the rule against a complete assignment.
func holds[T any](r *rule, slots []Variant[T]) bool {
	chosen := slots[r.target]
	if !chosen.present {
		return true
	}
	if r.label != nil && !chosen.tags.Contains(r.label) {
		return true
	}
	for _, dep := range r.deps {
		if slots[dep].present != r.wantPresent {
			return false
		}
	}

	return true
}

func conditionProblem(pos int, err error) error {
	return &ConditionError{Position: pos, Err: err}
}

// compileCondition resolves cond against the step index. Every problem found is returned.
func compileCondition(pos int, cond Condition, index map[string]int) (rule, []error) {
	var (
		problems []error
		label    Tags
		res      rule
	)

	switch c := cond.(type) {
	case nil:
		return res, []error{conditionProblem(pos, ErrNilCondition)}
	case *RequireIfLabel:
		if c == nil {
			return res, []error{conditionProblem(pos, ErrNilCondition)}
		}
		return compileCondition(pos, *c, index)
	case *SkipIfLabel:
		if c == nil {
			return res, []error{conditionProblem(pos, ErrNilCondition)}
		}
		return compileCondition(pos, *c, index)
	case *RequireIfPresent:
		if c == nil {
			return res, []error{conditionProblem(pos, ErrNilCondition)}
		}
		return compileCondition(pos, *c, index)
	case RequireIfLabel:
		label = c.Label
		res.wantPresent = true
	case SkipIfLabel:
		label = c.Label
	case RequireIfPresent:
		res.wantPresent = true
	default:
		return res, []error{conditionProblem(pos, errors.Wrapf(ErrUnknownCondition, "%T", cond))}
	}

	res.kind = cond.Kind()
	if res.kind != RequireIfPresentKind {
		if len(label) == 0 {
			problems = append(problems, conditionProblem(pos, errors.Wrapf(ErrMissingTags, "%s", res.kind)))
		}
		res.label = label.clone()
	}

	target, ok := index[cond.TargetStep()]
	if !ok {
		problems = append(problems, conditionProblem(pos, errors.Wrapf(ErrUnknownStep, "%s: target step %q", res.kind, cond.TargetStep())))
	}
	res.target = target

	deps := cond.DependentSteps()
	res.deps = make([]int, 0, len(deps))
	for _, dep := range deps {
		idx, ok := index[dep]
		if !ok {
			problems = append(problems, conditionProblem(pos, errors.Wrapf(ErrUnknownStep, "%s: dependent step %q", res.kind, dep)))
			continue
		}
		res.deps = append(res.deps, idx)
	}

	return res, problems
}
