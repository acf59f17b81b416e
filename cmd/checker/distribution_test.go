package checker

import (
	"math"
	"testing"
)

func TestSummarizeEmptyPool(t *testing.T) {
	got := Summarize(nil, TypeFloat64)
	if !got.Empty() {
		t.Errorf("Summarize(nil) = %+v, want zero summary", got)
	}
	if got.Mean != 0 || got.StdDev != 0 {
		t.Errorf("empty summary carries stats: %+v", got)
	}
}

func TestSummarizeSingleValue(t *testing.T) {
	got := Summarize([]float64{42}, TypeFloat64)
	if got.Count != 1 {
		t.Errorf("Count = %d, want 1", got.Count)
	}
	if got.StdDev != 0 {
		t.Errorf("StdDev = %v, want 0 for a single value", got.StdDev)
	}
}

func TestSummarizeBoolPool(t *testing.T) {
	// 3 false, 1 true over the fixed [0, 2) binning
	got := Summarize([]float64{0, 0, 0, 1}, TypeBool)
	if got.Count != 4 {
		t.Fatalf("Count = %d, want 4", got.Count)
	}

	// Bin centers are 0.5 and 1.5: mean = (3*0.5 + 1*1.5) / 4
	wantMean := 0.75
	if math.Abs(got.Mean-wantMean) > 1e-12 {
		t.Errorf("Mean = %v, want %v", got.Mean, wantMean)
	}
}

func TestSummarizeMaxValueStaysInRange(t *testing.T) {
	// The max value lands in the last bin instead of overflowing,
	// so the count covers the whole pool
	values := []float64{0, 25, 50, 75, 100}
	got := Summarize(values, TypeFloat64)
	if got.Count != 5 {
		t.Errorf("Count = %d, want 5", got.Count)
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i) * 1.5
	}

	a := Summarize(values, TypeFloat64)
	b := Summarize(values, TypeFloat64)
	if !a.Equal(b) {
		t.Errorf("identical pools summarize differently: %+v vs %+v", a, b)
	}
}

func TestSummarizeStatsAreBinDerived(t *testing.T) {
	// Two well-separated values with 100 bins: each occupies one bin,
	// so the mean comes from bin centers, not raw values
	values := []float64{0, 100}
	got := Summarize(values, TypeFloat64)

	if got.Count != 2 {
		t.Fatalf("Count = %d, want 2", got.Count)
	}
	// Bin width 1: centers 0.5 and 99.5
	wantMean := 50.0
	if math.Abs(got.Mean-wantMean) > 1e-9 {
		t.Errorf("Mean = %v, want %v", got.Mean, wantMean)
	}
}

func TestChiSquareIdenticalPools(t *testing.T) {
	values := make([]float64, 500)
	for i := range values {
		values[i] = float64(i % 37)
	}

	chi2, ok := ChiSquare(values, values, TypeFloat64)
	if !ok {
		t.Fatal("ChiSquare() not computed for non-empty pools")
	}
	if chi2 != 0 {
		t.Errorf("ChiSquare(identical) = %v, want exactly 0", chi2)
	}
}

func TestChiSquareDisjointPools(t *testing.T) {
	a := []float64{0, 1, 2, 3, 4}
	b := []float64{100, 101, 102, 103, 104}

	chi2, ok := ChiSquare(a, b, TypeFloat64)
	if !ok {
		t.Fatal("ChiSquare() not computed for non-empty pools")
	}
	if chi2 <= 0 {
		t.Errorf("ChiSquare(disjoint) = %v, want > 0", chi2)
	}
}

func TestChiSquareEmptyPool(t *testing.T) {
	if _, ok := ChiSquare(nil, []float64{1}, TypeFloat64); ok {
		t.Error("ChiSquare() computed against an empty pool")
	}
	if _, ok := ChiSquare([]float64{1}, nil, TypeFloat64); ok {
		t.Error("ChiSquare() computed against an empty pool")
	}
}

func TestChiSquareBoolPools(t *testing.T) {
	a := []float64{0, 0, 1, 1}
	b := []float64{0, 0, 1, 1}
	chi2, ok := ChiSquare(a, b, TypeBool)
	if !ok || chi2 != 0 {
		t.Errorf("ChiSquare(equal bool pools) = %v, %v, want 0, true", chi2, ok)
	}

	c := []float64{1, 1, 1, 1}
	chi2, ok = ChiSquare(a, c, TypeBool)
	if !ok || chi2 <= 0 {
		t.Errorf("ChiSquare(different bool pools) = %v, %v, want > 0, true", chi2, ok)
	}
}
