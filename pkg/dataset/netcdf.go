package dataset

import (
	"fmt"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
)

// Open reads a NetCDF file into a Dataset. Numeric variables are converted
// to float64; character and string variables are skipped, as are variables
// whose nesting does not match their declared dimensions.
func Open(path string) (*Dataset, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer nc.Close()

	ds := New()
	ds.Path = path
	for _, name := range nc.ListVariables() {
		vr, err := nc.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("reading variable %s from %s: %w", name, path, err)
		}
		values, shape, ok := flattenNumeric(vr.Values)
		if !ok || len(shape) != len(vr.Dimensions) {
			continue
		}
		v := &Variable{
			Dims:   append([]string(nil), vr.Dimensions...),
			Shape:  shape,
			Values: values,
		}
		if err := ds.AddVar(name, v); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return ds, nil
}

// flattenNumeric walks an arbitrarily nested slice of numeric values and
// returns the row-major flattened data plus the nesting shape.
func flattenNumeric(raw interface{}) ([]float64, []int, bool) {
	rv := reflect.ValueOf(raw)
	shape, ok := sliceShape(rv)
	if !ok {
		return nil, nil, false
	}
	out := make([]float64, 0, totalSize(shape))
	if !appendValues(rv, &out) {
		return nil, nil, false
	}
	return out, shape, true
}

func sliceShape(rv reflect.Value) ([]int, bool) {
	var shape []int
	for rv.Kind() == reflect.Slice {
		shape = append(shape, rv.Len())
		if rv.Len() == 0 {
			return shape, true
		}
		rv = rv.Index(0)
	}
	if !isNumericKind(rv.Kind()) {
		return nil, false
	}
	return shape, true
}

func appendValues(rv reflect.Value, out *[]float64) bool {
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if !appendValues(rv.Index(i), out) {
				return false
			}
		}
		return true
	}
	switch {
	case rv.CanFloat():
		*out = append(*out, rv.Float())
	case rv.CanInt():
		*out = append(*out, float64(rv.Int()))
	case rv.CanUint():
		*out = append(*out, float64(rv.Uint()))
	default:
		return false
	}
	return true
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func totalSize(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
