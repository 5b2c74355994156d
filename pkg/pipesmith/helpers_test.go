package pipesmith_test

import (
	"testing"

	"github.com/askiada/go-pipesmith/pkg/pipesmith"
)

const absent = "-"

// implNames lists each combination as its implementation names, absent steps shown as "-".
func implNames(t *testing.T, combs []pipesmith.Combination[string]) [][]string {
	t.Helper()
	res := make([][]string, 0, len(combs))
	for _, comb := range combs {
		row := make([]string, comb.Len())
		for i := range row {
			impl, ok := comb.At(i)
			if !ok {
				impl = absent
			}
			row[i] = impl
		}
		res = append(res, row)
	}

	return res
}

func use(impl string) pipesmith.Variant[string] {
	return pipesmith.NewVariant(impl, nil)
}

func useTagged(impl string, tags pipesmith.Tags) pipesmith.Variant[string] {
	return pipesmith.NewVariant(impl, tags)
}

func skip() pipesmith.Variant[string] {
	return pipesmith.Absent[string]()
}

// twoSteps is a: [A1, absent], b: [B1, absent].
func twoSteps() []pipesmith.Step[string] {
	return []pipesmith.Step[string]{
		pipesmith.NewStep("a", use("A1"), skip()),
		pipesmith.NewStep("b", use("B1"), skip()),
	}
}

func mustModel(t *testing.T, steps []pipesmith.Step[string], conditions ...pipesmith.Condition) *pipesmith.Model[string] {
	t.Helper()
	m, err := pipesmith.New(steps, conditions)
	if err != nil {
		t.Fatalf("unable to build model: %v", err)
	}

	return m
}
