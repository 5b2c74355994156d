package config

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Grid is the declarative form of a grid, as found in a file.
type Grid struct {
	Steps      []StepConfig      `yaml:"steps" json:"steps"`
	Conditions []ConditionConfig `yaml:"conditions" json:"conditions"`
}

type StepConfig struct {
	Label    string          `yaml:"label" json:"label"`
	Variants []VariantConfig `yaml:"variants" json:"variants"`
}

// VariantConfig is absent when Absent is set or when it names no implementation and carries no tag.
type VariantConfig struct {
	Impl   string         `yaml:"impl" json:"impl"`
	Tags   map[string]any `yaml:"tags" json:"tags"`
	Absent bool           `yaml:"absent" json:"absent"`
}

// IsAbsent reports whether the variant skips its step.
func (v VariantConfig) IsAbsent() bool {
	return v.Absent || (v.Impl == "" && len(v.Tags) == 0)
}

type variantFields VariantConfig

// variantKeys lists the keys a variant mapping may carry.
var variantKeys = map[string]bool{"impl": true, "tags": true, "absent": true}

// UnmarshalYAML accepts a bare implementation name as well as a mapping.
func (v *VariantConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = VariantConfig{}
		if node.ShortTag() != "!!null" {
			v.Impl = node.Value
		}
		return nil
	}

	if node.Kind == yaml.MappingNode {
		for i := 0; i < len(node.Content); i += 2 {
			key := node.Content[i]
			if !variantKeys[key.Value] {
				return errors.Wrapf(ErrUnknownField, "line %d: %s in variant", key.Line, key.Value)
			}
		}
	}

	var fields variantFields
	err := node.Decode(&fields)
	if err != nil {
		return errors.Wrapf(err, "line %d: unable to decode variant", node.Line)
	}
	*v = VariantConfig(fields)

	return nil
}

// UnmarshalJSON accepts a bare implementation name, null, or an object.
func (v *VariantConfig) UnmarshalJSON(data []byte) error {
	var name *string
	if err := json.Unmarshal(data, &name); err == nil {
		*v = VariantConfig{}
		if name != nil {
			v.Impl = *name
		}
		return nil
	}

	var fields variantFields
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(&fields)
	if err != nil {
		return errors.Wrap(err, "unable to decode variant")
	}
	*v = VariantConfig(fields)

	return nil
}

// ConditionConfig uses the condition vocabulary of grid files. Condition is one of require_if_label,
// skip_if_label and require_if_present.
type ConditionConfig struct {
	Condition     string         `yaml:"condition" json:"condition"`
	TargetStep    string         `yaml:"target_step" json:"target_step"`
	Label         map[string]any `yaml:"label" json:"label"`
	RequiredSteps []string       `yaml:"required_steps" json:"required_steps"`
	SkipSteps     []string       `yaml:"skip_steps" json:"skip_steps"`
}
