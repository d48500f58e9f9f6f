package timeseries

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// ResolveScale canonicalizes the precision/standard-deviation duality
// of an innovation scale. Exactly one of tau and sigma may be non-nil;
// the missing parameterization is derived on-graph so that both forms
// are always available:
//
//	tau   = 1 / sigma²
//	sigma = 1 / sqrt(tau)
//
// Giving both or neither is a configuration error.
func ResolveScale(tau, sigma *G.Node) (*G.Node, *G.Node, error) {
	switch {
	case tau == nil && sigma == nil:
		return nil, nil, fmt.Errorf("resolveScale: one of tau or sigma " +
			"must be given")

	case tau != nil && sigma != nil:
		return nil, nil, fmt.Errorf("resolveScale: only one of tau or " +
			"sigma may be given")

	case tau != nil:
		sigma = G.Must(G.Inverse(G.Must(G.Sqrt(tau))))

	default:
		tau = G.Must(G.Inverse(G.Must(G.Square(sigma))))
	}

	return tau, sigma, nil
}
