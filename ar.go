package timeseries

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// AR is an autoregressive process with p lags:
//
//	x[t] = rho[0] + rho[1]*x[t-1] + ... + rho[p]*x[t-p] + eps[t]
//	eps[t] ~ Normal(0, sigma²)
//
// when a constant (intercept) term is included, or
//
//	x[t] = rho[0]*x[t-1] + ... + rho[p-1]*x[t-p] + eps[t]
//
// when it is not. The innovation scale may be given either as a
// precision tau or a standard deviation sigma, never both. The first
// p values of the sequence are scored under the init distribution,
// which defaults to an improper flat prior.
type AR struct {
	rho      *G.Node
	tau      *G.Node
	sigma    *G.Node
	constant bool
	p        int
	init     Distribution
}

// NewAR returns a new AR. The lag order p is inferred from the leading
// dimension of rho; when constant is true the first element of rho is
// the intercept and the effective lag order is one less. Exactly one
// of tau and sigma must be non-nil. A nil init defaults to Flat.
func NewAR(rho, tau, sigma *G.Node, constant bool,
	init Distribution) (*AR, error) {
	if rho == nil {
		return nil, fmt.Errorf("newAR: rho must be given")
	}

	tau, sigma, err := ResolveScale(tau, sigma)
	if err != nil {
		return nil, fmt.Errorf("newAR: %v", err)
	}

	var p int
	if rho.IsScalar() {
		p = 1
	} else if rho.Dims() == 1 {
		p = rho.Shape()[0]
	} else {
		return nil, fmt.Errorf("newAR: expected rho to be a scalar or "+
			"vector but got shape %v", rho.Shape())
	}

	if constant {
		p--
	}
	if p < 1 {
		return nil, fmt.Errorf("newAR: effective lag order must be at "+
			"least 1 but got %v", p)
	}

	if init == nil {
		init = NewFlat()
	}

	return &AR{
		rho:      rho,
		tau:      tau,
		sigma:    sigma,
		constant: constant,
		p:        p,
		init:     init,
	}, nil
}

// P returns the effective lag order of the process.
func (a *AR) P() int { return a.p }

// Tau returns the innovation precision.
func (a *AR) Tau() *G.Node { return a.tau }

// Sigma returns the innovation standard deviation.
func (a *AR) Sigma() *G.Node { return a.sigma }

// LogProb returns the total log density of the sequence value as a
// scalar node. The sequence must be a vector strictly longer than the
// lag order p.
func (a *AR) LogProb(value *G.Node) (*G.Node, error) {
	if value == nil {
		return nil, fmt.Errorf("logProb: nil input node")
	}
	if value.Dims() != 1 || value.Shape()[0] <= a.p {
		return nil, fmt.Errorf("logProb: expected a vector of more than "+
			"%v elements but got shape %v", a.p, value.Shape())
	}
	t := value.Shape()[0]

	// One-step-ahead prediction from the p most recent lags. The
	// coefficient for lag i+1 multiplies value[p-(i+1) : t-(i+1)].
	var pred *G.Node
	offset := 0
	if a.constant {
		offset = 1
	}
	if a.p == 1 && a.rho.IsScalar() {
		pred = G.Must(G.HadamardProd(a.rho,
			G.Must(G.Slice(value, G.S(0, t-1)))))
	} else {
		for i := 0; i < a.p; i++ {
			ri := G.Must(G.Slice(a.rho, G.S(i+offset)))
			lag := G.Must(G.Slice(value, G.S(a.p-(i+1), t-(i+1))))
			term := G.Must(G.HadamardProd(ri, lag))
			if pred == nil {
				pred = term
			} else {
				pred = G.Must(G.Add(pred, term))
			}
		}
	}

	eps := G.Must(G.Sub(G.Must(G.Slice(value, G.S(a.p, t))), pred))
	if a.constant {
		rho0 := G.Must(G.Slice(a.rho, G.S(0)))
		eps = G.Must(G.Sub(eps, rho0))
	}

	zero := value.Graph().Constant(G.NewF64(0.0))
	innov, err := NewNormalTau(zero, a.tau)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}
	innovLike, err := innov.LogProbSum(eps)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	initLike, err := a.init.LogProbSum(G.Must(G.Slice(value, G.S(0, a.p))))
	if err != nil {
		return nil, fmt.Errorf("logProb: could not score initial values "+
			"under init: %v", err)
	}

	return G.Add(innovLike, initLike)
}

func (a *AR) String() string {
	return fmt.Sprintf("AR(p=%v, constant=%v)", a.p, a.constant)
}
