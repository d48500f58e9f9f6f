package timeseries

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// SDEFn returns the drift and diffusion coefficients of a stochastic
// differential equation at the states x. It must be built from
// differentiable graph operations only. The extra arguments are the
// SDE parameters passed to NewEulerMaruyama.
type SDEFn func(x *G.Node, args ...*G.Node) (drift, diffusion *G.Node,
	err error)

// EulerMaruyama is a stochastic differential equation discretized
// with the Euler-Maruyama method: given drift f and diffusion g,
//
//	x[t+1] ~ Normal(x[t] + dt*f(x[t]), dt*g(x[t])²)
type EulerMaruyama struct {
	dt      *G.Node
	sdeFn   SDEFn
	sdePars []*G.Node
}

// NewEulerMaruyama returns a new EulerMaruyama with time step dt. The
// sdePars are passed through to sdeFn on every evaluation.
func NewEulerMaruyama(dt *G.Node, sdeFn SDEFn,
	sdePars ...*G.Node) (*EulerMaruyama, error) {
	if dt == nil {
		return nil, fmt.Errorf("newEulerMaruyama: dt must be given")
	}
	if sdeFn == nil {
		return nil, fmt.Errorf("newEulerMaruyama: sdeFn must be given")
	}

	return &EulerMaruyama{dt: dt, sdeFn: sdeFn, sdePars: sdePars}, nil
}

// LogProb returns the total log density of the sequence x as a scalar
// node. The sequence must be a vector of at least two elements.
func (e *EulerMaruyama) LogProb(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("logProb: nil input node")
	}
	if x.Dims() != 1 || x.Shape()[0] < 2 {
		return nil, fmt.Errorf("logProb: expected a vector of at least "+
			"2 elements but got shape %v", x.Shape())
	}
	t := x.Shape()[0]

	xt := G.Must(G.Slice(x, G.S(0, t-1)))
	xI := G.Must(G.Slice(x, G.S(1, t)))

	f, g, err := e.sdeFn(xt, e.sdePars...)
	if err != nil {
		return nil, fmt.Errorf("logProb: sdeFn: %v", err)
	}

	mu := G.Must(G.Add(xt, G.Must(G.HadamardProd(e.dt, f))))
	sd := G.Must(G.HadamardProd(G.Must(G.Sqrt(e.dt)), g))

	n, err := NewNormal(mu, sd)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	return n.LogProbSum(xI)
}

func (e *EulerMaruyama) String() string {
	return fmt.Sprintf("EulerMaruyama(dt=%v)", e.dt)
}
