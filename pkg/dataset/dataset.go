// Package dataset provides a small labeled multi-dimensional array container
// for model output: named dimensions, coordinate values and float64 data
// variables, with concatenation along a new labeled dimension for ensemble
// merging.
package dataset

import (
	"fmt"
	"sort"
)

// Variable is one labeled array: dimension names, their sizes and the data
// in row-major order.
type Variable struct {
	Dims   []string
	Shape  []int
	Values []float64
}

// Len returns the number of elements the shape implies.
func (v *Variable) Len() int {
	n := 1
	for _, s := range v.Shape {
		n *= s
	}
	return n
}

// At returns the element at the given index along each dimension.
func (v *Variable) At(idx ...int) (float64, error) {
	if len(idx) != len(v.Shape) {
		return 0, fmt.Errorf("variable has %d dimensions, got %d indexes", len(v.Shape), len(idx))
	}
	flat := 0
	for d, i := range idx {
		if i < 0 || i >= v.Shape[d] {
			return 0, fmt.Errorf("index %d out of range for dimension %s (size %d)", i, v.Dims[d], v.Shape[d])
		}
		flat = flat*v.Shape[d] + i
	}
	return v.Values[flat], nil
}

// sameShape reports whether two variables agree on dimensions and sizes.
func (v *Variable) sameShape(other *Variable) bool {
	if len(v.Dims) != len(other.Dims) {
		return false
	}
	for i := range v.Dims {
		if v.Dims[i] != other.Dims[i] || v.Shape[i] != other.Shape[i] {
			return false
		}
	}
	return true
}

// Dataset is an ordered collection of variables sharing named dimensions.
// Labels holds string-valued coordinates, such as the run identifiers of a
// merged ensemble.
type Dataset struct {
	Path   string
	Dims   map[string]int
	Vars   map[string]*Variable
	Labels map[string][]string
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{
		Dims:   make(map[string]int),
		Vars:   make(map[string]*Variable),
		Labels: make(map[string][]string),
	}
}

// Var returns a data variable by name.
func (d *Dataset) Var(name string) (*Variable, bool) {
	v, ok := d.Vars[name]
	return v, ok
}

// VarNames returns the variable names in lexical order.
func (d *Dataset) VarNames() []string {
	names := make([]string, 0, len(d.Vars))
	for name := range d.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddVar registers a variable and its dimensions, validating sizes against
// dimensions already present.
func (d *Dataset) AddVar(name string, v *Variable) error {
	if len(v.Dims) != len(v.Shape) {
		return fmt.Errorf("variable %s: %d dims but %d shape entries", name, len(v.Dims), len(v.Shape))
	}
	if v.Len() != len(v.Values) {
		return fmt.Errorf("variable %s: shape implies %d values, have %d", name, v.Len(), len(v.Values))
	}
	for i, dim := range v.Dims {
		if size, ok := d.Dims[dim]; ok && size != v.Shape[i] {
			return fmt.Errorf("variable %s: dimension %s has size %d, dataset says %d",
				name, dim, v.Shape[i], size)
		}
	}
	for i, dim := range v.Dims {
		d.Dims[dim] = v.Shape[i]
	}
	d.Vars[name] = v
	return nil
}

// Concat stacks datasets along a new leading dimension with the given string
// labels, one per dataset. Variables absent from some datasets are skipped;
// a variable present everywhere but with disagreeing shapes is an error.
func Concat(dim string, labels []string, sets []*Dataset) (*Dataset, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("nothing to concatenate along %s", dim)
	}
	if len(labels) != len(sets) {
		return nil, fmt.Errorf("%d labels for %d datasets", len(labels), len(sets))
	}
	for _, ds := range sets {
		if _, taken := ds.Dims[dim]; taken {
			return nil, fmt.Errorf("dimension %s already exists in input dataset", dim)
		}
	}

	merged := New()
	merged.Dims[dim] = len(sets)
	merged.Labels[dim] = append([]string(nil), labels...)

	for _, name := range sets[0].VarNames() {
		first := sets[0].Vars[name]
		shared := true
		for i, ds := range sets[1:] {
			other, ok := ds.Vars[name]
			if !ok {
				shared = false
				break
			}
			if !other.sameShape(first) {
				return nil, fmt.Errorf("variable %s: dataset %s has dims %v shape %v, %s has dims %v shape %v",
					name, labels[0], first.Dims, first.Shape, labels[i+1], other.Dims, other.Shape)
			}
		}
		if !shared {
			continue
		}
		stacked := &Variable{
			Dims:   append([]string{dim}, first.Dims...),
			Shape:  append([]int{len(sets)}, first.Shape...),
			Values: make([]float64, 0, len(sets)*first.Len()),
		}
		for _, ds := range sets {
			stacked.Values = append(stacked.Values, ds.Vars[name].Values...)
		}
		if err := merged.AddVar(name, stacked); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
