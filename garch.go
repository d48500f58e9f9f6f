package timeseries

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// GARCH11 is a GARCH(1,1) process with normal innovations:
//
//	x[t] = vol[t] * z[t],  z[t] iid Normal(0, 1)
//	vol[t]² = omega + alpha1*x[t-1]² + beta1*vol[t-1]²
//
// seeded with vol[0] = initialVol. Stationarity requires
// alpha1 + beta1 < 1, which is not enforced here.
type GARCH11 struct {
	omega      *G.Node
	alpha1     *G.Node
	beta1      *G.Node
	initialVol *G.Node
}

// NewGARCH11 returns a new GARCH11. All parameters must be scalar
// nodes on the same graph.
func NewGARCH11(omega, alpha1, beta1, initialVol *G.Node) (*GARCH11,
	error) {
	if omega == nil || alpha1 == nil || beta1 == nil || initialVol == nil {
		return nil, fmt.Errorf("newGARCH11: omega, alpha1, beta1, and " +
			"initialVol must all be given")
	}

	return &GARCH11{
		omega:      omega,
		alpha1:     alpha1,
		beta1:      beta1,
		initialVol: initialVol,
	}, nil
}

// Volatility returns the volatility sequence of x as a vector node
// with the shape of x. The recurrence is strictly sequential: each
// step's volatility depends on the previous step's, so the graph is
// built as an unrolled left-to-right scan. The operation order inside
// each step (omega + alpha1*x², then + beta1*vol², then sqrt) is fixed
// for reproducible floating-point results.
func (g *GARCH11) Volatility(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("volatility: nil input node")
	}
	if x.Dims() != 1 || x.Shape()[0] < 1 {
		return nil, fmt.Errorf("volatility: expected a non-empty vector "+
			"but got shape %v", x.Shape())
	}
	t := x.Shape()[0]

	vol := g.initialVol
	vols := make([]*G.Node, 0, t)
	vols = append(vols, G.Must(G.Reshape(vol, []int{1})))

	for i := 0; i < t-1; i++ {
		xi := G.Must(G.Slice(x, G.S(i)))

		step := G.Must(G.Add(g.omega,
			G.Must(G.HadamardProd(g.alpha1, G.Must(G.Square(xi))))))
		step = G.Must(G.Add(step,
			G.Must(G.HadamardProd(g.beta1, G.Must(G.Square(vol))))))
		vol = G.Must(G.Sqrt(step))

		vols = append(vols, G.Must(G.Reshape(vol, []int{1})))
	}

	if len(vols) == 1 {
		return vols[0], nil
	}
	return G.Concat(0, vols...)
}

// LogProb returns the total log density of the sequence x as a scalar
// node, scoring x elementwise under Normal(0, vol).
func (g *GARCH11) LogProb(x *G.Node) (*G.Node, error) {
	vol, err := g.Volatility(x)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	zero := x.Graph().Constant(G.NewF64(0.0))
	n, err := NewNormal(zero, vol)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	return n.LogProbSum(x)
}

func (g *GARCH11) String() string {
	return fmt.Sprintf("GARCH(1, 1, omega=%v, alpha_1=%v, beta_1=%v)",
		g.omega, g.alpha1, g.beta1)
}
