package timeseries

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Flat is an improper, uninformative prior whose log density is zero
// everywhere. It is the default initial-value distribution for the
// time-series distributions in this package.
//
// The returned nodes are built as 0*x rather than fresh constants so
// that the value stays connected to the graph and has a (zero)
// gradient.
type Flat struct{}

// NewFlat returns a new Flat.
func NewFlat() *Flat { return &Flat{} }

// LogProb returns a node of zeros with the shape of x.
func (f *Flat) LogProb(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("logProb: nil input node")
	}

	zero := x.Graph().Constant(G.NewF64(0.0))
	return G.HadamardProd(x, zero)
}

// LogProbSum returns a scalar zero node connected to x.
func (f *Flat) LogProbSum(x *G.Node) (*G.Node, error) {
	lp, err := f.LogProb(x)
	if err != nil {
		return nil, fmt.Errorf("logProbSum: %v", err)
	}

	if lp.IsScalar() {
		return lp, nil
	}
	return G.Sum(lp)
}

func (f *Flat) String() string { return "Flat()" }
