package timeseries

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gop"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// covFactor is the canonical form of a covariance parameterization:
// the lower Cholesky factor L of the covariance matrix, resolved once
// at construction. The factor enters the graph as constants, so log
// densities built from it are differentiable in the value and mean
// but not in the covariance.
type covFactor struct {
	dim      int
	cholInvT *G.Node // (L⁻¹)ᵀ
	logDet   float64 // Σ log L_ii = ½ log |Σ|
}

// newCovFactor resolves exactly one of cov, tau (inverse covariance),
// or chol (Cholesky factor, lower triangular unless lower is false)
// to a lower Cholesky factor. Giving any other combination is a
// configuration error.
func newCovFactor(g *G.ExprGraph, cov, tau, chol *tensor.Dense,
	lower bool) (*covFactor, error) {
	given := 0
	for _, m := range []*tensor.Dense{cov, tau, chol} {
		if m != nil {
			given++
		}
	}
	if given != 1 {
		return nil, fmt.Errorf("newCovFactor: exactly one of cov, tau, " +
			"or chol must be given")
	}

	var l mat.TriDense
	switch {
	case chol != nil:
		d, data, err := squareData(chol)
		if err != nil {
			return nil, fmt.Errorf("newCovFactor: chol: %v", err)
		}
		dense := mat.NewDense(d, d, data)
		var src mat.Matrix = dense
		if !lower {
			src = dense.T()
		}
		l = *mat.NewTriDense(d, mat.Lower, nil)
		for i := 0; i < d; i++ {
			for j := 0; j <= i; j++ {
				l.SetTri(i, j, src.At(i, j))
			}
		}

	case cov != nil:
		d, data, err := squareData(cov)
		if err != nil {
			return nil, fmt.Errorf("newCovFactor: cov: %v", err)
		}
		var ch mat.Cholesky
		if !ch.Factorize(mat.NewSymDense(d, data)) {
			return nil, fmt.Errorf("newCovFactor: cov is not positive " +
				"definite")
		}
		ch.LTo(&l)

	default:
		d, data, err := squareData(tau)
		if err != nil {
			return nil, fmt.Errorf("newCovFactor: tau: %v", err)
		}
		var ch mat.Cholesky
		if !ch.Factorize(mat.NewSymDense(d, data)) {
			return nil, fmt.Errorf("newCovFactor: tau is not positive " +
				"definite")
		}
		var sigma mat.SymDense
		if err := ch.InverseTo(&sigma); err != nil {
			return nil, fmt.Errorf("newCovFactor: could not invert tau: "+
				"%v", err)
		}
		var chSigma mat.Cholesky
		if !chSigma.Factorize(&sigma) {
			return nil, fmt.Errorf("newCovFactor: inverse of tau is not " +
				"positive definite")
		}
		chSigma.LTo(&l)
	}

	d, _ := l.Dims()
	logDet := 0.0
	for i := 0; i < d; i++ {
		lii := l.At(i, i)
		if lii <= 0 {
			return nil, fmt.Errorf("newCovFactor: Cholesky factor has "+
				"non-positive diagonal element %v at %v", lii, i)
		}
		logDet += math.Log(lii)
	}

	var linv mat.Dense
	if err := linv.Inverse(&l); err != nil {
		return nil, fmt.Errorf("newCovFactor: could not invert Cholesky "+
			"factor: %v", err)
	}
	linvT := mat.DenseCopyOf(linv.T())

	backing := make([]float64, d*d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			backing[i*d+j] = linvT.At(i, j)
		}
	}
	cholInvT := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(d, d),
		G.WithValue(tensor.NewDense(
			tensor.Float64,
			[]int{d, d},
			tensor.WithBacking(backing),
		)),
		G.WithName(gop.UnixNano("cholInvT")),
	)

	return &covFactor{dim: d, cholInvT: cholInvT, logDet: logDet}, nil
}

// squareData returns the order and a copy of the backing data of a
// square matrix tensor.
func squareData(t *tensor.Dense) (int, []float64, error) {
	shape := t.Shape()
	if len(shape) != 2 || shape[0] != shape[1] {
		return 0, nil, fmt.Errorf("expected a square matrix but got "+
			"shape %v", shape)
	}

	raw, ok := t.Data().([]float64)
	if !ok {
		return 0, nil, fmt.Errorf("expected dtype %v but got %v",
			tensor.Float64, t.Dtype())
	}

	data := make([]float64, len(raw))
	copy(data, raw)
	return shape[0], data, nil
}

// mahalanobis returns the squared Mahalanobis distance of each row of
// x from mu: a scalar node for a vector x, a length-T vector node for
// a (T, dim) matrix x.
func (c *covFactor) mahalanobis(x, mu *G.Node) (*G.Node, error) {
	if x.Dims() != 1 && x.Dims() != 2 {
		return nil, fmt.Errorf("mahalanobis: expected a vector or matrix "+
			"but got shape %v", x.Shape())
	}
	if x.Shape()[x.Dims()-1] != c.dim {
		return nil, fmt.Errorf("mahalanobis: expected event size %v but "+
			"got shape %v", c.dim, x.Shape())
	}

	var diff *G.Node
	var err error
	if x.Dims() == 2 && !mu.IsScalar() {
		diff, err = G.BroadcastSub(x, mu, nil, []byte{0})
	} else {
		diff, err = G.Sub(x, mu)
	}
	if err != nil {
		return nil, fmt.Errorf("mahalanobis: %v", err)
	}

	z := G.Must(G.Mul(diff, c.cholInvT))
	zsq := G.Must(G.Square(z))

	if x.Dims() == 2 {
		return gop.ReduceAdd(zsq, 1, true)
	}
	return G.Sum(zsq)
}

// MvNormal is a multivariate normal density whose covariance may be
// parameterized by a covariance matrix cov, an inverse covariance
// matrix tau, or a Cholesky factor chol. It is used as the innovation
// distribution of MvRandomWalk.
type MvNormal struct {
	mu  *G.Node
	cov *covFactor
}

// NewMvNormal returns a new MvNormal with mean mu, a scalar or
// length-d vector node. Exactly one of cov, tau, and chol must be
// non-nil; lower reports whether chol is lower triangular.
func NewMvNormal(mu *G.Node, cov, tau, chol *tensor.Dense,
	lower bool) (*MvNormal, error) {
	if mu == nil {
		return nil, fmt.Errorf("newMvNormal: mu must be given")
	}

	factor, err := newCovFactor(mu.Graph(), cov, tau, chol, lower)
	if err != nil {
		return nil, fmt.Errorf("newMvNormal: %v", err)
	}

	if !mu.IsScalar() &&
		(mu.Dims() != 1 || mu.Shape()[0] != factor.dim) {
		return nil, fmt.Errorf("newMvNormal: expected mu to be a scalar "+
			"or vector of %v elements but got shape %v", factor.dim,
			mu.Shape())
	}

	return &MvNormal{mu: mu, cov: factor}, nil
}

// Dim returns the event size of the distribution.
func (m *MvNormal) Dim() int { return m.cov.dim }

// LogProb returns the log density of x: a scalar node for a single
// d-vector, a length-T vector node for a (T, d) matrix of
// observations.
func (m *MvNormal) LogProb(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("logProb: nil input node")
	}

	q, err := m.cov.mahalanobis(x, m.mu)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	negativeHalf := x.Graph().Constant(G.NewF64(-0.5))
	norm := x.Graph().Constant(G.NewF64(m.cov.logDet +
		0.5*float64(m.cov.dim)*math.Log(2*math.Pi)))

	lp := G.Must(G.HadamardProd(negativeHalf, q))
	lp = G.Must(G.Sub(lp, norm))

	return lp, nil
}

// LogProbSum returns the log density of x summed over all
// observations, as a scalar node.
func (m *MvNormal) LogProbSum(x *G.Node) (*G.Node, error) {
	lp, err := m.LogProb(x)
	if err != nil {
		return nil, fmt.Errorf("logProbSum: %v", err)
	}

	if lp.IsScalar() {
		return lp, nil
	}
	return G.Sum(lp)
}

func (m *MvNormal) String() string {
	return fmt.Sprintf("MvNormal(dim=%v)", m.cov.dim)
}
