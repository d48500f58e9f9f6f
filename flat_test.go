package timeseries

import (
	"testing"

	G "gorgonia.org/gorgonia"
)

func TestFlatLogProbSumIsZero(t *testing.T) {
	g := G.NewGraph()
	flat := NewFlat()

	lp, err := flat.LogProbSum(newVec(g, []float64{-3.0, 0.0, 12.5}, "x"))
	if err != nil {
		t.Fatal(err)
	}

	if out := scalarOf(t, run(t, g, lp)); out != 0 {
		t.Errorf("expected zero log density but got %v", out)
	}
}

func TestFlatLogProbScalar(t *testing.T) {
	g := G.NewGraph()
	flat := NewFlat()

	lp, err := flat.LogProbSum(newScalar(g, 42.0, "x"))
	if err != nil {
		t.Fatal(err)
	}

	if out := scalarOf(t, run(t, g, lp)); out != 0 {
		t.Errorf("expected zero log density but got %v", out)
	}
}
