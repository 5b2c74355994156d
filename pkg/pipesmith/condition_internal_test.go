package pipesmith

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCondition(t *testing.T) {
	t.Parallel()

	index := map[string]int{"a": 0, "b": 1, "c": 2}

	tcs := map[string]struct {
		cond     Condition
		expected rule
	}{
		"require if label": {
			cond: RequireIfLabel{Target: "b", Label: Tags{"k": "x"}, RequiredSteps: []string{"a", "c"}},
			expected: rule{
				kind:        RequireIfLabelKind,
				target:      1,
				label:       Tags{"k": "x"},
				deps:        []int{0, 2},
				wantPresent: true,
			},
		},
		"skip if label": {
			cond: SkipIfLabel{Target: "c", Label: Tags{"k": "x"}, SkipSteps: []string{"a"}},
			expected: rule{
				kind:   SkipIfLabelKind,
				target: 2,
				label:  Tags{"k": "x"},
				deps:   []int{0},
			},
		},
		"require if present": {
			cond: RequireIfPresent{Target: "a", RequiredSteps: []string{}},
			expected: rule{
				kind:        RequireIfPresentKind,
				target:      0,
				deps:        []int{},
				wantPresent: true,
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, problems := compileCondition(0, tc.cond, index)
			require.Empty(t, problems)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRuleHolds(t *testing.T) {
	t.Parallel()

	tagged := NewVariant("A1", Tags{"k": "x"})
	plain := NewVariant("A2", nil)
	present := NewVariant("B1", nil)
	absent := Absent[string]()

	requireLabel := &rule{kind: RequireIfLabelKind, target: 0, label: Tags{"k": "x"}, deps: []int{1}, wantPresent: true}
	skipLabel := &rule{kind: SkipIfLabelKind, target: 0, label: Tags{"k": "x"}, deps: []int{1}}
	requirePresent := &rule{kind: RequireIfPresentKind, target: 0, deps: []int{1}, wantPresent: true}

	tcs := map[string]struct {
		rule     *rule
		slots    []Variant[string]
		expected bool
	}{
		"require label fires":          {rule: requireLabel, slots: []Variant[string]{tagged, absent}},
		"require label satisfied":      {rule: requireLabel, slots: []Variant[string]{tagged, present}, expected: true},
		"require label without tags":   {rule: requireLabel, slots: []Variant[string]{plain, absent}, expected: true},
		"require label target absent":  {rule: requireLabel, slots: []Variant[string]{absent, absent}, expected: true},
		"skip label fires":             {rule: skipLabel, slots: []Variant[string]{tagged, present}},
		"skip label satisfied":         {rule: skipLabel, slots: []Variant[string]{tagged, absent}, expected: true},
		"skip label without tags":      {rule: skipLabel, slots: []Variant[string]{plain, present}, expected: true},
		"require present fires":        {rule: requirePresent, slots: []Variant[string]{plain, absent}},
		"require present tags ignored": {rule: requirePresent, slots: []Variant[string]{tagged, absent}},
		"require present satisfied":    {rule: requirePresent, slots: []Variant[string]{plain, present}, expected: true},
		"require present target absent": {
			rule:     requirePresent,
			slots:    []Variant[string]{absent, absent},
			expected: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, holds(tc.rule, tc.slots))
		})
	}
}

func TestDescendReusesBuffer(t *testing.T) {
	t.Parallel()

	m, err := New([]Step[int]{
		NewStep("a", NewVariant(1, nil), NewVariant(2, nil)),
		NewStep("b", NewVariant(10, nil), Absent[int]()),
	}, nil)
	require.NoError(t, err)

	var got [][]string
	err = m.descend(0, make([]Variant[int], 0, 2), func(slots []Variant[int]) error {
		got = append(got, []string{slots[0].String(), slots[1].String()})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"1", "10"},
		{"1", "<absent>"},
		{"2", "10"},
		{"2", "<absent>"},
	}, got)
}
