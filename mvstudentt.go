package timeseries

import (
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// MvStudentT is a multivariate Student-T density with nu degrees of
// freedom and the same covariance parameterizations as MvNormal. It
// is the heavy-tailed innovation variant for MvRandomWalk.
type MvStudentT struct {
	nu  float64
	mu  *G.Node
	cov *covFactor
}

// NewMvStudentT returns a new MvStudentT with nu > 0 degrees of
// freedom. The remaining parameters are as in NewMvNormal.
func NewMvStudentT(nu float64, mu *G.Node, cov, tau, chol *tensor.Dense,
	lower bool) (*MvStudentT, error) {
	if nu <= 0 {
		return nil, fmt.Errorf("newMvStudentT: nu must be positive but "+
			"got %v", nu)
	}
	if mu == nil {
		return nil, fmt.Errorf("newMvStudentT: mu must be given")
	}

	factor, err := newCovFactor(mu.Graph(), cov, tau, chol, lower)
	if err != nil {
		return nil, fmt.Errorf("newMvStudentT: %v", err)
	}

	if !mu.IsScalar() &&
		(mu.Dims() != 1 || mu.Shape()[0] != factor.dim) {
		return nil, fmt.Errorf("newMvStudentT: expected mu to be a "+
			"scalar or vector of %v elements but got shape %v", factor.dim,
			mu.Shape())
	}

	return &MvStudentT{nu: nu, mu: mu, cov: factor}, nil
}

// Dim returns the event size of the distribution.
func (m *MvStudentT) Dim() int { return m.cov.dim }

// Nu returns the degrees of freedom.
func (m *MvStudentT) Nu() float64 { return m.nu }

// LogProb returns the log density of x: a scalar node for a single
// d-vector, a length-T vector node for a (T, d) matrix of
// observations.
func (m *MvStudentT) LogProb(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("logProb: nil input node")
	}

	q, err := m.cov.mahalanobis(x, m.mu)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	d := float64(m.cov.dim)
	lgNuD, _ := math.Lgamma((m.nu + d) / 2)
	lgNu, _ := math.Lgamma(m.nu / 2)
	norm := lgNuD - lgNu - 0.5*d*math.Log(m.nu*math.Pi) - m.cov.logDet

	g := x.Graph()
	one := g.Constant(G.NewF64(1.0))
	invNu := g.Constant(G.NewF64(1.0 / m.nu))
	negHalfNuD := g.Constant(G.NewF64(-(m.nu + d) / 2))
	normNode := g.Constant(G.NewF64(norm))

	// -(nu+d)/2 * log(1 + q/nu) + norm
	lp := G.Must(G.HadamardProd(q, invNu))
	lp = G.Must(G.Add(one, lp))
	lp = G.Must(G.Log(lp))
	lp = G.Must(G.HadamardProd(negHalfNuD, lp))
	lp = G.Must(G.Add(lp, normNode))

	return lp, nil
}

// LogProbSum returns the log density of x summed over all
// observations, as a scalar node.
func (m *MvStudentT) LogProbSum(x *G.Node) (*G.Node, error) {
	lp, err := m.LogProb(x)
	if err != nil {
		return nil, fmt.Errorf("logProbSum: %v", err)
	}

	if lp.IsScalar() {
		return lp, nil
	}
	return G.Sum(lp)
}

func (m *MvStudentT) String() string {
	return fmt.Sprintf("MvStudentT(nu=%v, dim=%v)", m.nu, m.cov.dim)
}
