package config

import (
	"math"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipesmith/pkg/pipesmith"
)

// Build resolves the implementation names of grid with reg and builds the model.
//
// Problems found in the file itself (unknown implementation names, malformed variants, unknown condition kinds and
// fields that do not belong to a condition kind) are reported together with those found by pipesmith.New in a
// single pipesmith.ConfigurationError.
func Build[T any](grid *Grid, reg *Registry[T]) (*pipesmith.Model[T], error) {
	if grid == nil {
		return nil, errors.New("grid must be set")
	}
	if reg == nil {
		return nil, errors.New("registry must be set")
	}

	var problems []error

	steps := make([]pipesmith.Step[T], 0, len(grid.Steps))
	for _, sc := range grid.Steps {
		step := pipesmith.Step[T]{
			Label:    sc.Label,
			Variants: make([]pipesmith.Variant[T], 0, len(sc.Variants)),
		}
		for pos, vc := range sc.Variants {
			variant, err := buildVariant(vc, reg)
			if err != nil {
				problems = append(problems, errors.Wrapf(err, "step %q: variant %d", sc.Label, pos))
				continue
			}
			step.Variants = append(step.Variants, variant)
		}
		steps = append(steps, step)
	}

	// positions[i] is the place in the file of the i-th condition handed to pipesmith.New.
	conditions := make([]pipesmith.Condition, 0, len(grid.Conditions))
	positions := make([]int, 0, len(grid.Conditions))
	for pos, cc := range grid.Conditions {
		cond, condProblems := buildCondition(cc)
		for _, problem := range condProblems {
			problems = append(problems, &pipesmith.ConditionError{Position: pos, Err: problem})
		}
		if cond != nil {
			conditions = append(conditions, cond)
			positions = append(positions, pos)
		}
	}

	m, err := pipesmith.New(steps, conditions)
	if err != nil {
		problems = append(problems, filePositions(err, positions))
	}
	if err := pipesmith.NewConfigurationError(problems...); err != nil {
		return nil, err
	}

	return m, nil
}

// filePositions renumbers the condition problems of err with the position of each condition in the file.
func filePositions(err error, positions []int) error {
	var cfgErr *pipesmith.ConfigurationError
	if !errors.As(err, &cfgErr) {
		return err
	}

	problems := make([]error, len(cfgErr.Problems))
	for i, problem := range cfgErr.Problems {
		condErr, ok := problem.(*pipesmith.ConditionError)
		if !ok || condErr.Position < 0 || condErr.Position >= len(positions) {
			problems[i] = problem
			continue
		}
		problems[i] = &pipesmith.ConditionError{Position: positions[condErr.Position], Err: condErr.Err}
	}

	return pipesmith.NewConfigurationError(problems...)
}

func buildVariant[T any](vc VariantConfig, reg *Registry[T]) (pipesmith.Variant[T], error) {
	if vc.IsAbsent() {
		if vc.Impl != "" || len(vc.Tags) > 0 {
			return pipesmith.Variant[T]{}, errors.Wrap(pipesmith.ErrInvalidVariant, "an absent variant carries neither implementation nor tags")
		}
		return pipesmith.Absent[T](), nil
	}
	if vc.Impl == "" {
		return pipesmith.Variant[T]{}, errors.Wrap(pipesmith.ErrInvalidVariant, "tags without implementation")
	}

	impl, ok := reg.Resolve(vc.Impl)
	if !ok {
		return pipesmith.Variant[T]{}, errors.Wrapf(pipesmith.ErrUnknownImplementation, "%q", vc.Impl)
	}

	return pipesmith.NewVariant(impl, normalizeTags(vc.Tags)), nil
}

// buildCondition returns a nil condition when its kind is unknown.
func buildCondition(cc ConditionConfig) (pipesmith.Condition, []error) {
	kind, err := pipesmith.ParseConditionKind(cc.Condition)
	if err != nil {
		return nil, []error{err}
	}

	var problems []error
	unexpected := func(field string) {
		problems = append(problems, errors.Wrapf(pipesmith.ErrInvalidCondition, "%s does not accept %s", kind, field))
	}

	switch kind {
	case pipesmith.RequireIfLabelKind:
		if len(cc.SkipSteps) > 0 {
			unexpected("skip_steps")
		}
		return pipesmith.RequireIfLabel{
			Target:        cc.TargetStep,
			Label:         normalizeTags(cc.Label),
			RequiredSteps: cc.RequiredSteps,
		}, problems
	case pipesmith.SkipIfLabelKind:
		if len(cc.RequiredSteps) > 0 {
			unexpected("required_steps")
		}
		return pipesmith.SkipIfLabel{
			Target:    cc.TargetStep,
			Label:     normalizeTags(cc.Label),
			SkipSteps: cc.SkipSteps,
		}, problems
	default:
		if len(cc.Label) > 0 {
			unexpected("label")
		}
		if len(cc.SkipSteps) > 0 {
			unexpected("skip_steps")
		}
		return pipesmith.RequireIfPresent{
			Target:        cc.TargetStep,
			RequiredSteps: cc.RequiredSteps,
		}, problems
	}
}

// normalizeTags turns whole floats into ints so that tags compare the same whatever the file format.
func normalizeTags(in map[string]any) pipesmith.Tags {
	if len(in) == 0 {
		return nil
	}
	out := make(pipesmith.Tags, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}

	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int(v)
		}
		return v
	case int64:
		return int(v)
	case uint64:
		if v <= math.MaxInt64 {
			return int(v)
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = normalizeValue(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[key] = normalizeValue(elem)
		}
		return out
	default:
		return value
	}
}
