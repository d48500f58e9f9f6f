package timeseries

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// nodeValue resolves the concrete value of a parameter node,
// preferring an entry in point keyed by the node's name over the
// node's own value.
func nodeValue(n *G.Node, point map[string]G.Value) (G.Value, error) {
	if point != nil {
		if v, ok := point[n.Name()]; ok {
			return v, nil
		}
	}

	if v := n.Value(); v != nil {
		return v, nil
	}

	return nil, fmt.Errorf("node %v has no value and no entry in point", n)
}

// toFloat64s expands a scalar or length-n vector value to a float64
// slice of length n.
func toFloat64s(v G.Value, n int) ([]float64, error) {
	switch data := v.Data().(type) {
	case float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = data
		}
		return out, nil

	case []float64:
		if len(data) != n {
			return nil, fmt.Errorf("expected %v elements but got %v", n,
				len(data))
		}
		out := make([]float64, n)
		copy(out, data)
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported data type %T", data)
	}
}
