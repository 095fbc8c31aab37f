package percentile

import (
	"math"
	"testing"
)

func testEstimator() *Estimator {
	return New(
		map[string]string{
			"2026-01-21|Shift 1": "2025-01-22|Shift 1",
		},
		map[string][]Point{
			"2025-01-22|Shift 1": {
				{Marks: 72, Percentile: 90},
				{Marks: 76, Percentile: 91},
				{Marks: 0, Percentile: 2},
				{Marks: 40, Percentile: 60},
			},
		},
	)
}

func TestEstimateInterpolation(t *testing.T) {
	res := testEstimator().Estimate(74, "2026-01-21", "Shift 1")
	if res.Percentile == nil {
		t.Fatal("expected a percentile")
	}
	if math.Abs(*res.Percentile-90.5) > 1e-9 {
		t.Errorf("percentile = %v, want 90.5", *res.Percentile)
	}
	if res.Display != "90.50" {
		t.Errorf("display = %q", res.Display)
	}
	if res.IsBelow || res.IsAbove {
		t.Errorf("flags should be clear: %+v", res)
	}
	if res.MappedShift != "2025-01-22|Shift 1" {
		t.Errorf("mapped shift = %q", res.MappedShift)
	}
}

func TestEstimateExactPoint(t *testing.T) {
	res := testEstimator().Estimate(72, "2026-01-21", "Shift 1")
	if res.Percentile == nil || *res.Percentile != 90 {
		t.Errorf("exact table point: %+v", res)
	}
}

func TestEstimateClamps(t *testing.T) {
	e := testEstimator()

	below := e.Estimate(-50, "2026-01-21", "Shift 1")
	if below.Percentile == nil || *below.Percentile != 2 || !below.IsBelow {
		t.Errorf("below: %+v", below)
	}
	if below.Display != "< 2.00" {
		t.Errorf("below display = %q", below.Display)
	}

	above := e.Estimate(300, "2026-01-21", "Shift 1")
	if above.Percentile == nil || *above.Percentile != 91 || !above.IsAbove {
		t.Errorf("above: %+v", above)
	}
	if above.Display != "> 91.00" {
		t.Errorf("above display = %q", above.Display)
	}
}

func TestEstimateShiftMappingMiss(t *testing.T) {
	res := testEstimator().Estimate(100, "1999-01-01", "Shift 2")
	if res.Percentile != nil || res.Display != "N/A" {
		t.Errorf("unmapped shift must yield N/A: %+v", res)
	}
}

func TestDefaultDataLoads(t *testing.T) {
	e, err := Default()
	if err != nil {
		t.Fatalf("embedded data: %v", err)
	}
	if len(e.ShiftMap) == 0 || len(e.Tables) == 0 {
		t.Fatal("embedded data is empty")
	}
	// Every mapped target must have a table.
	for from, to := range e.ShiftMap {
		if len(e.Tables[to]) == 0 {
			t.Errorf("mapping %q -> %q has no table", from, to)
		}
	}
	// Spot check: a mid-range score interpolates to something sane.
	res := e.Estimate(120, "2026-01-21", "Shift 1")
	if res.Percentile == nil {
		t.Fatalf("expected percentile: %+v", res)
	}
	if *res.Percentile < 90 || *res.Percentile > 100 {
		t.Errorf("implausible percentile for 120 marks: %v", *res.Percentile)
	}
}
