package timeseries

import (
	"fmt"

	expRand "golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GaussianRandomWalk is a random walk with normal innovations:
//
//	x[t] - x[t-1] ~ Normal(mu, sigma²)
//
// The innovation scale may be given either as a precision tau or a
// standard deviation sigma, never both. The drift mu and scale may be
// scalars or vectors; vector-valued parameters must have length equal
// to the number of steps, and their first element is dropped when
// scoring since there is no innovation at the first time step. The
// first value of the walk is scored under the init distribution,
// which defaults to an improper flat prior.
type GaussianRandomWalk struct {
	mu    *G.Node
	tau   *G.Node
	sigma *G.Node
	init  Distribution
	steps int
	seed  uint64
}

// NewGaussianRandomWalk returns a new GaussianRandomWalk over a walk
// of the given number of steps, which must be at least 1. Exactly one
// of tau and sigma must be non-nil. A nil mu defaults to zero drift
// and a nil init defaults to Flat. The seed is used only by Random.
func NewGaussianRandomWalk(steps int, mu, tau, sigma *G.Node,
	init Distribution, seed uint64) (*GaussianRandomWalk, error) {
	if steps < 1 {
		return nil, fmt.Errorf("newGaussianRandomWalk: must be supplied "+
			"a non-zero number of steps but got %v", steps)
	}

	tau, sigma, err := ResolveScale(tau, sigma)
	if err != nil {
		return nil, fmt.Errorf("newGaussianRandomWalk: %v", err)
	}

	if mu == nil {
		mu = sigma.Graph().Constant(G.NewF64(0.0))
	}
	if init == nil {
		init = NewFlat()
	}

	return &GaussianRandomWalk{
		mu:    mu,
		tau:   tau,
		sigma: sigma,
		init:  init,
		steps: steps,
		seed:  seed,
	}, nil
}

// Tau returns the innovation precision.
func (g *GaussianRandomWalk) Tau() *G.Node { return g.tau }

// Sigma returns the innovation standard deviation.
func (g *GaussianRandomWalk) Sigma() *G.Node { return g.sigma }

// truncated drops the leading element of vector-valued parameters.
// There is no innovation at the first time step, so only elements
// 1..t-1 of a vector drift or scale apply to the t-1 increments.
func (g *GaussianRandomWalk) truncated(t int) (mu, sigma *G.Node) {
	mu, sigma = g.mu, g.sigma
	if !mu.IsScalar() {
		mu = G.Must(G.Slice(mu, G.S(1, t)))
	}
	if !sigma.IsScalar() {
		sigma = G.Must(G.Slice(sigma, G.S(1, t)))
	}
	return mu, sigma
}

// LogProb returns the total log density of the walk x as a scalar
// node. A scalar x is scored under the init distribution alone;
// otherwise x must be a vector of at least two elements and the
// increments x[1:] - x[:-1] are scored under the innovation normal.
func (g *GaussianRandomWalk) LogProb(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("logProb: nil input node")
	}

	if x.IsScalar() {
		return g.init.LogProbSum(x)
	}

	if x.Dims() != 1 || x.Shape()[0] < 2 {
		return nil, fmt.Errorf("logProb: expected a vector of at least "+
			"2 elements but got shape %v", x.Shape())
	}
	t := x.Shape()[0]

	xIm1 := G.Must(G.Slice(x, G.S(0, t-1)))
	xI := G.Must(G.Slice(x, G.S(1, t)))
	x0 := G.Must(G.Slice(x, G.S(0)))

	mu, sigma := g.truncated(t)

	innov, err := NewNormal(G.Must(G.Add(xIm1, mu)), sigma)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}
	innovLike, err := innov.LogProbSum(xI)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	initLike, err := g.init.LogProbSum(x0)
	if err != nil {
		return nil, fmt.Errorf("logProb: could not score initial value "+
			"under init: %v", err)
	}

	return G.Add(initLike, innovLike)
}

// Random draws sample paths from the walk as a cumulative sum of
// normal increments. Parameters that are themselves random variables
// are resolved against point, a map from node name to value, falling
// back to the node's current value. Each path is shifted to start at
// zero rather than drawn from init; this is a known approximation of
// the initial-value distribution.
//
// The returned tensor has shape (steps) if size <= 1 and
// (size, steps) otherwise.
func (g *GaussianRandomWalk) Random(point map[string]G.Value,
	size int) (*tensor.Dense, error) {
	muVal, err := nodeValue(g.mu, point)
	if err != nil {
		return nil, fmt.Errorf("random: could not resolve mu: %v", err)
	}
	sigmaVal, err := nodeValue(g.sigma, point)
	if err != nil {
		return nil, fmt.Errorf("random: could not resolve sigma: %v", err)
	}

	mu, err := toFloat64s(muVal, g.steps)
	if err != nil {
		return nil, fmt.Errorf("random: mu: %v", err)
	}
	sigma, err := toFloat64s(sigmaVal, g.steps)
	if err != nil {
		return nil, fmt.Errorf("random: sigma: %v", err)
	}

	if size < 1 {
		size = 1
	}

	src := expRand.NewSource(g.seed)
	backing := make([]float64, size*g.steps)
	for i := 0; i < size; i++ {
		path := backing[i*g.steps : (i+1)*g.steps]
		sum := 0.0
		for t := 0; t < g.steps; t++ {
			rv := distuv.Normal{Mu: mu[t], Sigma: sigma[t], Src: src}
			sum += rv.Rand()
			path[t] = sum
		}
		start := path[0]
		for t := range path {
			path[t] -= start
		}
	}

	if size == 1 {
		return tensor.NewDense(tensor.Float64, []int{g.steps},
			tensor.WithBacking(backing)), nil
	}
	return tensor.NewDense(tensor.Float64, []int{size, g.steps},
		tensor.WithBacking(backing)), nil
}

func (g *GaussianRandomWalk) String() string {
	return fmt.Sprintf("GaussianRandomWalk(mu=%v, sigma=%v)", g.mu, g.sigma)
}
