package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memberOutput builds a dataset shaped like one model run: time x hru.
func memberOutput(t *testing.T, swe []float64) *Dataset {
	t.Helper()
	ds := New()
	require.NoError(t, ds.AddVar("time", &Variable{
		Dims:   []string{"time"},
		Shape:  []int{len(swe)},
		Values: []float64{0, 1, 2},
	}))
	require.NoError(t, ds.AddVar("scalarSWE", &Variable{
		Dims:   []string{"time", "hru"},
		Shape:  []int{len(swe), 1},
		Values: swe,
	}))
	return ds
}

func TestAddVarValidatesShape(t *testing.T) {
	ds := New()
	err := ds.AddVar("bad", &Variable{Dims: []string{"time"}, Shape: []int{3}, Values: []float64{1}})
	assert.Error(t, err, "value count must match shape")

	require.NoError(t, ds.AddVar("time", &Variable{
		Dims: []string{"time"}, Shape: []int{3}, Values: []float64{0, 1, 2},
	}))
	err = ds.AddVar("conflict", &Variable{
		Dims: []string{"time"}, Shape: []int{4}, Values: []float64{0, 1, 2, 3},
	})
	assert.Error(t, err, "dimension size conflict must be rejected")
}

func TestVariableAt(t *testing.T) {
	v := &Variable{
		Dims:   []string{"time", "hru"},
		Shape:  []int{2, 3},
		Values: []float64{0, 1, 2, 10, 11, 12},
	}
	got, err := v.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got)

	_, err = v.At(2, 0)
	assert.Error(t, err)
	_, err = v.At(0)
	assert.Error(t, err)
}

func TestConcatStacksAlongNewDimension(t *testing.T) {
	a := memberOutput(t, []float64{1, 2, 3})
	b := memberOutput(t, []float64{4, 5, 6})
	c := memberOutput(t, []float64{7, 8, 9})

	merged, err := Concat("run", []string{"k=1", "k=2", "k=3"}, []*Dataset{a, b, c})
	require.NoError(t, err)

	assert.Equal(t, 3, merged.Dims["run"])
	assert.Equal(t, []string{"k=1", "k=2", "k=3"}, merged.Labels["run"])

	swe, ok := merged.Var("scalarSWE")
	require.True(t, ok)
	assert.Equal(t, []string{"run", "time", "hru"}, swe.Dims)
	assert.Equal(t, []int{3, 3, 1}, swe.Shape)

	got, err := swe.At(1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)
}

func TestConcatSkipsAbsentVariables(t *testing.T) {
	a := memberOutput(t, []float64{1, 2, 3})
	b := memberOutput(t, []float64{4, 5, 6})
	// An extra variable in only one member must not appear in the merge.
	require.NoError(t, a.AddVar("extra", &Variable{
		Dims: []string{"time"}, Shape: []int{3}, Values: []float64{9, 9, 9},
	}))

	merged, err := Concat("run", []string{"a", "b"}, []*Dataset{a, b})
	require.NoError(t, err)
	_, ok := merged.Var("extra")
	assert.False(t, ok)
	_, ok = merged.Var("scalarSWE")
	assert.True(t, ok)
}

func TestConcatRejectsShapeDisagreement(t *testing.T) {
	// Runs whose output diverged (e.g. a different layer count) must fail
	// loudly instead of quietly dropping the variable.
	a := New()
	require.NoError(t, a.AddVar("scalarSWE", &Variable{
		Dims: []string{"time"}, Shape: []int{3}, Values: []float64{1, 2, 3},
	}))
	b := New()
	require.NoError(t, b.AddVar("scalarSWE", &Variable{
		Dims: []string{"time"}, Shape: []int{2}, Values: []float64{4, 5},
	}))

	_, err := Concat("run", []string{"a", "b"}, []*Dataset{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scalarSWE")
}

func TestConcatErrors(t *testing.T) {
	_, err := Concat("run", nil, nil)
	assert.Error(t, err, "empty input must fail")

	a := memberOutput(t, []float64{1, 2, 3})
	_, err = Concat("run", []string{"x", "y"}, []*Dataset{a})
	assert.Error(t, err, "label/dataset count mismatch must fail")

	_, err = Concat("time", []string{"x"}, []*Dataset{a})
	assert.Error(t, err, "existing dimension name must fail")
}
