package timeseries

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// MvRandomWalk is a multivariate random walk: the first row of the
// walk is scored under the init distribution and the row-to-row
// differences are scored under an injected innovation distribution.
// The innovation variant is selected by the constructor; the scoring
// logic is shared.
type MvRandomWalk struct {
	init  Distribution
	innov Distribution
}

// NewMvGaussianRandomWalk returns a random walk with multivariate
// normal innovations. The covariance parameterization is as in
// NewMvNormal. A nil init defaults to Flat.
func NewMvGaussianRandomWalk(mu *G.Node, cov, tau, chol *tensor.Dense,
	lower bool, init Distribution) (*MvRandomWalk, error) {
	innov, err := NewMvNormal(mu, cov, tau, chol, lower)
	if err != nil {
		return nil, fmt.Errorf("newMvGaussianRandomWalk: %v", err)
	}

	if init == nil {
		init = NewFlat()
	}
	return &MvRandomWalk{init: init, innov: innov}, nil
}

// NewMvStudentTRandomWalk returns a random walk with multivariate
// Student-T innovations with nu degrees of freedom.
func NewMvStudentTRandomWalk(nu float64, mu *G.Node, cov, tau,
	chol *tensor.Dense, lower bool, init Distribution) (*MvRandomWalk,
	error) {
	innov, err := NewMvStudentT(nu, mu, cov, tau, chol, lower)
	if err != nil {
		return nil, fmt.Errorf("newMvStudentTRandomWalk: %v", err)
	}

	if init == nil {
		init = NewFlat()
	}
	return &MvRandomWalk{init: init, innov: innov}, nil
}

// LogProb returns the total log density of the walk x as a scalar
// node. x must be a (T, d) matrix with T >= 2, holding one
// d-dimensional state per time step.
func (rw *MvRandomWalk) LogProb(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("logProb: nil input node")
	}
	if x.Dims() != 2 || x.Shape()[0] < 2 {
		return nil, fmt.Errorf("logProb: expected a matrix of at least "+
			"2 rows but got shape %v", x.Shape())
	}
	t := x.Shape()[0]

	x0 := G.Must(G.Slice(x, G.S(0)))
	xIm1 := G.Must(G.Slice(x, G.S(0, t-1)))
	xI := G.Must(G.Slice(x, G.S(1, t)))
	diff := G.Must(G.Sub(xI, xIm1))

	initLike, err := rw.init.LogProbSum(x0)
	if err != nil {
		return nil, fmt.Errorf("logProb: could not score initial value "+
			"under init: %v", err)
	}

	innovLike, err := rw.innov.LogProbSum(diff)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	return G.Add(initLike, innovLike)
}

func (rw *MvRandomWalk) String() string {
	return fmt.Sprintf("MvRandomWalk(innov=%v)", rw.innov)
}
