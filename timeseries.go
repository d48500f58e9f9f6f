// Package timeseries provides time-series probability distributions
// built on Gorgonia expression graphs. Each distribution constructs
// the graph of its log density over an observed or latent sequence, so
// the result is differentiable end-to-end and can be consumed directly
// by a gradient-based sampler or optimizer.
package timeseries

import (
	G "gorgonia.org/gorgonia"
)

// Distribution is a density over graph nodes. It is the contract used
// for initial-value priors and for the innovation terms of the random
// walks in this package.
type Distribution interface {
	// LogProb returns the elementwise log density of x. The returned
	// node has the batch shape of x.
	LogProb(x *G.Node) (*G.Node, error)

	// LogProbSum returns the log density of x summed over all
	// elements, as a scalar node.
	LogProbSum(x *G.Node) (*G.Node, error)
}
