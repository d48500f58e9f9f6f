package timeseries

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// AR1 is an autoregressive process with a single lag:
//
//	x[t] ~ Normal(k*x[t-1], tau=tauE)
//
// where k is the effect of the lagged value on the current value and
// tauE is the precision of the innovations. The first value of the
// sequence is scored under Normal(0, tau=tauE).
type AR1 struct {
	k    *G.Node
	tauE *G.Node
	tau  *G.Node
}

// NewAR1 returns a new AR1 with lag coefficient k and innovation
// precision tauE. Both must be scalar nodes on the same graph.
func NewAR1(k, tauE *G.Node) (*AR1, error) {
	if k == nil || tauE == nil {
		return nil, fmt.Errorf("newAR1: k and tauE must both be given")
	}

	// Stationary precision tau = tauE * (1 - k²)
	one := k.Graph().Constant(G.NewF64(1.0))
	tau := G.Must(G.Square(k))
	tau = G.Must(G.Sub(one, tau))
	tau = G.Must(G.HadamardProd(tauE, tau))

	return &AR1{k: k, tauE: tauE, tau: tau}, nil
}

// Tau returns the stationary precision tauE * (1 - k²) of the process.
func (a *AR1) Tau() *G.Node { return a.tau }

// LogProb returns the total log density of the sequence x as a scalar
// node. The sequence must be a vector of at least two elements.
func (a *AR1) LogProb(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("logProb: nil input node")
	}
	if x.Dims() != 1 || x.Shape()[0] < 2 {
		return nil, fmt.Errorf("logProb: expected a vector of at least "+
			"2 elements but got shape %v", x.Shape())
	}
	t := x.Shape()[0]

	xIm1 := G.Must(G.Slice(x, G.S(0, t-1)))
	xI := G.Must(G.Slice(x, G.S(1, t)))
	x0 := G.Must(G.Slice(x, G.S(0)))

	zero := x.Graph().Constant(G.NewF64(0.0))
	boundary, err := NewNormalTau(zero, a.tauE)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	innov, err := NewNormalTau(G.Must(G.HadamardProd(a.k, xIm1)), a.tauE)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	boundaryLike, err := boundary.LogProbSum(x0)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}
	innovLike, err := innov.LogProbSum(xI)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	return G.Add(boundaryLike, innovLike)
}

func (a *AR1) String() string {
	return fmt.Sprintf("AR1(k=%v, tau_e=%v)", a.k, a.tauE)
}
