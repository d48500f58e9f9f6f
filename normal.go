package timeseries

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gop"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Normal is the univariate normal density primitive shared by every
// time-series distribution in this package. The mean and standard
// deviation are graph nodes and may be scalars or tensors; a scalar
// parameter broadcasts against a tensor-valued input natively. When
// both parameters are tensors they must have the same shape, and any
// tensor-valued input must match that shape.
//
// Only tensor.Float64 is supported.
type Normal struct {
	mean   *G.Node
	stddev *G.Node
}

// NewNormal returns a Normal with the given mean and standard
// deviation.
func NewNormal(mean, stddev *G.Node) (*Normal, error) {
	if mean == nil || stddev == nil {
		return nil, fmt.Errorf("newNormal: mean and stddev must both be " +
			"given")
	}

	if mean.Dtype() != tensor.Float64 || stddev.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("newNormal: expected dtype %v but got %v "+
			"and %v", tensor.Float64, mean.Dtype(), stddev.Dtype())
	}

	if !mean.IsScalar() && !stddev.IsScalar() &&
		!mean.Shape().Eq(stddev.Shape()) {
		return nil, fmt.Errorf("newNormal: expected mean and stddev to "+
			"have the same shape but got %v and %v", mean.Shape(),
			stddev.Shape())
	}

	return &Normal{mean: mean, stddev: stddev}, nil
}

// NewNormalTau returns a Normal parameterized by its precision
// tau = 1/sigma² instead of its standard deviation.
func NewNormalTau(mean, tau *G.Node) (*Normal, error) {
	if tau == nil {
		return nil, fmt.Errorf("newNormalTau: tau must be given")
	}

	stddev, err := G.Sqrt(tau)
	if err != nil {
		return nil, fmt.Errorf("newNormalTau: %v", err)
	}
	stddev, err = G.Inverse(stddev)
	if err != nil {
		return nil, fmt.Errorf("newNormalTau: %v", err)
	}

	return NewNormal(mean, stddev)
}

// LogProb returns the elementwise log density of x.
func (n *Normal) LogProb(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("logProb: nil input node")
	}

	negativeHalf := x.Graph().Constant(G.NewF64(-0.5))
	lnRootTwoPi := x.Graph().Constant(G.NewF64(math.Log(math.Sqrt(
		math.Pi * 2.))))

	x = G.Must(G.Sub(x, n.mean))
	x = G.Must(G.HadamardDiv(x, n.stddev))
	x = G.Must(G.Square(x))
	x = G.Must(G.HadamardProd(negativeHalf, x))
	lnStd := G.Must(G.Log(n.stddev))
	x = G.Must(G.Sub(x, lnStd))
	x = G.Must(G.Sub(x, lnRootTwoPi))

	return x, nil
}

// LogProbSum returns the log density of x summed over every element,
// as a scalar node.
func (n *Normal) LogProbSum(x *G.Node) (*G.Node, error) {
	lp, err := n.LogProb(x)
	if err != nil {
		return nil, fmt.Errorf("logProbSum: %v", err)
	}

	if lp.IsScalar() {
		return lp, nil
	}
	return G.Sum(lp)
}

// Cdf returns the elementwise cumulative distribution function of x.
func (n *Normal) Cdf(x *G.Node) (*G.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("cdf: nil input node")
	}

	rootTwo := x.Graph().Constant(G.NewF64(math.Sqrt(2.0)))
	one := x.Graph().Constant(G.NewF64(1.0))
	half := x.Graph().Constant(G.NewF64(0.5))

	x = G.Must(G.Sub(x, n.mean))
	x = G.Must(G.HadamardDiv(x, rootTwo))
	x = G.Must(G.HadamardDiv(x, n.stddev))

	x, err := gop.Erf(x)
	if err != nil {
		return nil, fmt.Errorf("cdf: %v", err)
	}

	x = G.Must(G.Add(one, x))
	x = G.Must(G.HadamardProd(half, x))

	return x, nil
}

// Mean returns the mean of the distribution.
func (n *Normal) Mean() *G.Node { return n.mean }

// StdDev returns the standard deviation of the distribution.
func (n *Normal) StdDev() *G.Node { return n.stddev }

// Variance returns the variance of the distribution.
func (n *Normal) Variance() *G.Node {
	return G.Must(G.Square(n.stddev))
}

// Entropy returns the entropy of the distribution.
func (n *Normal) Entropy() *G.Node {
	half := n.stddev.Graph().Constant(G.NewF64(0.5))
	twoPi := n.stddev.Graph().Constant(G.NewF64(math.Pi * 2.0))

	entropy := G.Must(G.Square(n.stddev))
	entropy = G.Must(G.HadamardProd(entropy, twoPi))
	entropy = G.Must(G.Log(entropy))
	entropy = G.Must(G.HadamardProd(half, entropy))
	entropy = G.Must(G.Add(entropy, half))

	return entropy
}

func (n *Normal) String() string {
	return fmt.Sprintf("Normal(mu=%v, sigma=%v)", n.mean.Shape(),
		n.stddev.Shape())
}
