package timeseries

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
)

// TestEulerMaruyamaReducesToRandomWalk checks that with zero drift,
// unit diffusion, and dt = 1 the discretization scores exactly like a
// standard Gaussian random walk with a flat init.
func TestEulerMaruyamaReducesToRandomWalk(t *testing.T) {
	const threshold = 0.00001

	xBacking := []float64{0.0, 0.5, -0.2, 1.3, 0.7}

	g := G.NewGraph()
	sde := func(x *G.Node, args ...*G.Node) (*G.Node, *G.Node, error) {
		zero := x.Graph().Constant(G.NewF64(0.0))
		one := x.Graph().Constant(G.NewF64(1.0))
		return zero, one, nil
	}

	em, err := NewEulerMaruyama(newScalar(g, 1.0, "dt"), sde)
	if err != nil {
		t.Fatal(err)
	}
	rw, err := NewGaussianRandomWalk(len(xBacking), nil, nil,
		newScalar(g, 1.0, "sigma"), nil, 11)
	if err != nil {
		t.Fatal(err)
	}

	x := newVec(g, xBacking, "x")
	lpEM, err := em.LogProb(x)
	if err != nil {
		t.Fatal(err)
	}
	lpRW, err := rw.LogProb(x)
	if err != nil {
		t.Fatal(err)
	}

	diff := G.Must(G.Sub(lpEM, lpRW))
	if out := scalarOf(t, run(t, g, diff)); math.Abs(out) > threshold {
		t.Errorf("Euler-Maruyama and random walk disagree by %v", out)
	}
}

// TestEulerMaruyamaOrnsteinUhlenbeck checks the one-step densities of
// a mean-reverting SDE dx = theta*(m - x)dt + s*dW against a direct
// computation.
func TestEulerMaruyamaOrnsteinUhlenbeck(t *testing.T) {
	const threshold = 0.00001

	theta, m, s, dt := 0.8, 0.3, 0.5, 0.1
	xBacking := []float64{0.0, 0.2, 0.5, 0.4, 0.9}

	expected := 0.0
	for i := 1; i < len(xBacking); i++ {
		mean := xBacking[i-1] + dt*theta*(m-xBacking[i-1])
		dist := distuv.Normal{Mu: mean, Sigma: math.Sqrt(dt) * s}
		expected += dist.LogProb(xBacking[i])
	}

	g := G.NewGraph()
	sde := func(x *G.Node, args ...*G.Node) (*G.Node, *G.Node, error) {
		theta, m, s := args[0], args[1], args[2]
		drift := G.Must(G.HadamardProd(theta, G.Must(G.Sub(m, x))))
		return drift, s, nil
	}

	em, err := NewEulerMaruyama(newScalar(g, dt, "dt"), sde,
		newScalar(g, theta, "theta"), newScalar(g, m, "m"),
		newScalar(g, s, "s"))
	if err != nil {
		t.Fatal(err)
	}

	lp, err := em.LogProb(newVec(g, xBacking, "x"))
	if err != nil {
		t.Fatal(err)
	}

	if out := scalarOf(t, run(t, g, lp)); math.Abs(out-expected) > threshold {
		t.Errorf("expected: %v received: %v", expected, out)
	}
}

func TestEulerMaruyamaValidation(t *testing.T) {
	g := G.NewGraph()
	dt := newScalar(g, 0.1, "dt")

	if _, err := NewEulerMaruyama(dt, nil); err == nil {
		t.Error("expected an error for a nil sdeFn")
	}
	if _, err := NewEulerMaruyama(nil, func(x *G.Node,
		args ...*G.Node) (*G.Node, *G.Node, error) {
		return x, x, nil
	}); err == nil {
		t.Error("expected an error for a nil dt")
	}
}
