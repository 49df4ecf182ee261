package config

import "fmt"

// maxSnowLayers is the number of explicit snow layers SUMMA parameterizes.
const maxSnowLayers = 5

// LayerBounds holds the combining thresholds for one snow layer: the minimum
// thickness below which the layer merges (zminLayer<k>) and the maximum
// thickness above which it splits (zmaxLayer<k>_upper).
type LayerBounds struct {
	Lower float64
	Upper float64
}

// ValidateLayerBounds checks that consecutive layer thresholds form a
// monotonic, non-overlapping partition: within each layer the lower bound
// must not exceed the upper bound, and each upper bound must not exceed the
// next layer's lower bound.
func ValidateLayerBounds(layers []LayerBounds) error {
	for i, layer := range layers {
		k := i + 1
		if layer.Lower > layer.Upper {
			return &LayerConfigError{
				Layer:  k,
				Reason: fmt.Sprintf("lower bound %g exceeds upper bound %g", layer.Lower, layer.Upper),
			}
		}
		if i+1 < len(layers) && layer.Upper > layers[i+1].Lower {
			return &LayerConfigError{
				Layer:  k,
				Reason: fmt.Sprintf("upper bound %g overlaps layer %d lower bound %g",
					layer.Upper, k+1, layers[i+1].Lower),
			}
		}
	}
	return nil
}

// ValidateLayerParams reads the zminLayer<k> / zmaxLayer<k>_upper thresholds
// out of a parameter table and validates them as a partition. Layers whose
// thresholds are absent from the table end the sequence.
func ValidateLayerParams(p *TrialParams) error {
	var layers []LayerBounds
	for k := 1; k <= maxSnowLayers; k++ {
		lower, err := p.Values(fmt.Sprintf("zminLayer%d", k))
		if err != nil {
			break
		}
		bounds := LayerBounds{Lower: lower[0]}
		upper, err := p.Values(fmt.Sprintf("zmaxLayer%d_upper", k))
		if err != nil {
			// The deepest layer has no split threshold; close the
			// partition at its lower bound.
			bounds.Upper = bounds.Lower
			layers = append(layers, bounds)
			break
		}
		bounds.Upper = upper[0]
		layers = append(layers, bounds)
	}
	return ValidateLayerBounds(layers)
}
