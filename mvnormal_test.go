package timeseries

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func newMat(rows, cols int, backing []float64) *tensor.Dense {
	return tensor.NewDense(tensor.Float64, []int{rows, cols},
		tensor.WithBacking(backing))
}

// newMatNode adds a float64 matrix node to g.
func newMatNode(g *G.ExprGraph, rows, cols int, backing []float64,
	name string) *G.Node {
	return G.NewMatrix(g, tensor.Float64, G.WithShape(rows, cols),
		G.WithValue(newMat(rows, cols, backing)), G.WithName(name))
}

// tauChol derives the precision matrix and lower Cholesky factor of
// cov for cross-parameterization tests.
func tauChol(t *testing.T, d int, cov []float64) (tau,
	chol []float64) {
	t.Helper()

	var ch mat.Cholesky
	if !ch.Factorize(mat.NewSymDense(d, cov)) {
		t.Fatal("test covariance is not positive definite")
	}

	var prec mat.SymDense
	if err := ch.InverseTo(&prec); err != nil {
		t.Fatal(err)
	}

	var l mat.TriDense
	ch.LTo(&l)

	tau = make([]float64, d*d)
	chol = make([]float64, d*d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			tau[i*d+j] = prec.At(i, j)
			chol[i*d+j] = l.At(i, j)
		}
	}
	return tau, chol
}

func TestMvNormalLogProb(t *testing.T) {
	const threshold = 0.00001
	const d = 2

	mu := []float64{0.3, -0.2}
	cov := []float64{2.0, 0.5, 0.5, 1.0}
	xBacking := []float64{
		0.0, 0.0,
		1.0, -0.5,
		-0.3, 2.0,
	}

	ref, ok := distmv.NewNormal(mu, mat.NewSymDense(d, cov), nil)
	if !ok {
		t.Fatal("could not build reference density")
	}
	expected := make([]float64, 3)
	for i := range expected {
		expected[i] = ref.LogProb(xBacking[i*d : (i+1)*d])
	}

	g := G.NewGraph()
	mvn, err := NewMvNormal(newVec(g, mu, "mu"), newMat(d, d, cov), nil,
		nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if mvn.Dim() != d {
		t.Fatalf("expected dim %v but got %v", d, mvn.Dim())
	}

	lp, err := mvn.LogProb(newMatNode(g, 3, d, xBacking, "x"))
	if err != nil {
		t.Fatal(err)
	}

	out := run(t, g, lp).Data().([]float64)
	for i := range out {
		if math.Abs(out[i]-expected[i]) > threshold {
			t.Errorf("expected: %v received: %v at row %v", expected[i],
				out[i], i)
		}
	}
}

// TestMvNormalParameterizations checks that cov, tau, and chol give
// the same density.
func TestMvNormalParameterizations(t *testing.T) {
	const threshold = 0.00001
	const d = 2

	mu := []float64{0.0, 0.0}
	cov := []float64{2.0, 0.5, 0.5, 1.0}
	tau, chol := tauChol(t, d, cov)
	xBacking := []float64{1.0, -0.5}

	logps := make([]*G.Node, 3)
	g := G.NewGraph()
	x := newVec(g, xBacking, "x")

	for i, build := range []func() (*MvNormal, error){
		func() (*MvNormal, error) {
			return NewMvNormal(newVec(g, mu, "muCov"), newMat(d, d, cov),
				nil, nil, true)
		},
		func() (*MvNormal, error) {
			return NewMvNormal(newVec(g, mu, "muTau"), nil,
				newMat(d, d, tau), nil, true)
		},
		func() (*MvNormal, error) {
			return NewMvNormal(newVec(g, mu, "muChol"), nil, nil,
				newMat(d, d, chol), true)
		},
	} {
		mvn, err := build()
		if err != nil {
			t.Fatal(err)
		}
		logps[i], err = mvn.LogProbSum(x)
		if err != nil {
			t.Fatal(err)
		}
	}

	diffTau := G.Must(G.Sub(logps[0], logps[1]))
	diffChol := G.Must(G.Sub(logps[0], logps[2]))
	sum := G.Must(G.Add(G.Must(G.Square(diffTau)),
		G.Must(G.Square(diffChol))))

	if out := scalarOf(t, run(t, g, sum)); math.Abs(out) > threshold {
		t.Errorf("parameterizations disagree, squared error %v", out)
	}
}

// TestMvNormalUpperChol checks that an upper triangular factor with
// lower=false matches the equivalent lower factor.
func TestMvNormalUpperChol(t *testing.T) {
	const threshold = 0.00001
	const d = 2

	mu := []float64{0.0, 0.0}
	cov := []float64{2.0, 0.5, 0.5, 1.0}
	_, chol := tauChol(t, d, cov)

	upper := make([]float64, d*d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			upper[j*d+i] = chol[i*d+j]
		}
	}

	xBacking := []float64{1.0, -0.5}

	g := G.NewGraph()
	x := newVec(g, xBacking, "x")

	lowerDist, err := NewMvNormal(newVec(g, mu, "muL"), nil, nil,
		newMat(d, d, chol), true)
	if err != nil {
		t.Fatal(err)
	}
	upperDist, err := NewMvNormal(newVec(g, mu, "muU"), nil, nil,
		newMat(d, d, upper), false)
	if err != nil {
		t.Fatal(err)
	}

	lpLower, err := lowerDist.LogProbSum(x)
	if err != nil {
		t.Fatal(err)
	}
	lpUpper, err := upperDist.LogProbSum(x)
	if err != nil {
		t.Fatal(err)
	}

	diff := G.Must(G.Sub(lpLower, lpUpper))
	if out := scalarOf(t, run(t, g, diff)); math.Abs(out) > threshold {
		t.Errorf("upper and lower factors disagree by %v", out)
	}
}

func TestMvNormalValidation(t *testing.T) {
	const d = 2
	cov := []float64{2.0, 0.5, 0.5, 1.0}

	g := G.NewGraph()
	mu := newVec(g, []float64{0, 0}, "mu")

	if _, err := NewMvNormal(mu, nil, nil, nil, true); err == nil {
		t.Error("expected an error when no covariance is given")
	}
	if _, err := NewMvNormal(mu, newMat(d, d, cov), newMat(d, d, cov),
		nil, true); err == nil {
		t.Error("expected an error when two covariances are given")
	}
	if _, err := NewMvNormal(newVec(g, []float64{0, 0, 0}, "mu3"),
		newMat(d, d, cov), nil, nil, true); err == nil {
		t.Error("expected an error for a mu of the wrong length")
	}
	if _, err := NewMvNormal(mu, newMat(d, d, []float64{1, 0, 0, -1}),
		nil, nil, true); err == nil {
		t.Error("expected an error for a non positive definite cov")
	}
}
