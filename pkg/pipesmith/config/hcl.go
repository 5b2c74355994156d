package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

type hclGridFile struct {
	Steps      []*hclStep      `hcl:"step,block"`
	Conditions []*hclCondition `hcl:"condition,block"`
}

type hclStep struct {
	Label    string        `hcl:"label,label"`
	Variants []*hclVariant `hcl:"variant,block"`
}

type hclVariant struct {
	Impl   string         `hcl:"impl,optional"`
	Tags   hcl.Expression `hcl:"tags,optional"`
	Absent bool           `hcl:"absent,optional"`
}

type hclCondition struct {
	Kind          string         `hcl:"kind,label"`
	TargetStep    string         `hcl:"target_step"`
	Label         hcl.Expression `hcl:"label,optional"`
	RequiredSteps []string       `hcl:"required_steps,optional"`
	SkipSteps     []string       `hcl:"skip_steps,optional"`
}

// ParseHCL decodes a grid written with step and condition blocks. filename is only used in diagnostics.
func ParseHCL(filename string, src []byte) (*Grid, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "unable to parse hcl file %s", filename)
	}

	var parsed hclGridFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "unable to decode hcl file %s", filename)
	}

	grid := &Grid{
		Steps:      make([]StepConfig, 0, len(parsed.Steps)),
		Conditions: make([]ConditionConfig, 0, len(parsed.Conditions)),
	}
	for _, step := range parsed.Steps {
		sc := StepConfig{
			Label:    step.Label,
			Variants: make([]VariantConfig, 0, len(step.Variants)),
		}
		for pos, variant := range step.Variants {
			tags, err := expressionTags(variant.Tags)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: step %s: variant %d", filename, step.Label, pos)
			}
			sc.Variants = append(sc.Variants, VariantConfig{
				Impl:   variant.Impl,
				Tags:   tags,
				Absent: variant.Absent,
			})
		}
		grid.Steps = append(grid.Steps, sc)
	}

	for pos, cond := range parsed.Conditions {
		label, err := expressionTags(cond.Label)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: condition %d", filename, pos)
		}
		grid.Conditions = append(grid.Conditions, ConditionConfig{
			Condition:     cond.Kind,
			TargetStep:    cond.TargetStep,
			Label:         label,
			RequiredSteps: cond.RequiredSteps,
			SkipSteps:     cond.SkipSteps,
		})
	}

	return grid, nil
}

// expressionTags evaluates a static object expression into tags. A missing attribute gives nil tags.
func expressionTags(expr hcl.Expression) (map[string]any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, "unable to evaluate tags")
	}
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, errors.Wrapf(ErrInvalidTags, "got %s", ty.FriendlyName())
	}

	native, err := ctyToNative(val)
	if err != nil {
		return nil, err
	}
	tags, _ := native.(map[string]any)

	return tags, nil
}

// ctyToNative converts a cty value to plain Go values. Whole numbers become int, other numbers float64.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			var i int
			if err := gocty.FromCtyValue(v, &i); err == nil {
				return i, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, errors.Wrap(err, "unable to convert number")
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, errors.Wrapf(err, "in attribute %q", key.AsString())
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, errors.Errorf("unsupported tag value type %s", ty.FriendlyName())
	}
}
