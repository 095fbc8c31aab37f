// Package percentile estimates a JEE Main percentile from total marks by
// piecewise-linear interpolation over reference tables from a prior cycle.
// The estimate is statistical, not official.
package percentile

import (
	_ "embed"
	"fmt"
	"math"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Point is one marks→percentile sample of a reference table.
type Point struct {
	Marks      float64 `yaml:"marks" json:"marks"`
	Percentile float64 `yaml:"percentile" json:"percentile"`
}

// Result is always renderable; a missing mapping or table is expressed as
// Percentile == nil with Display "N/A", never as an error.
type Result struct {
	Percentile *float64 `json:"percentile"`
	Display    string   `json:"display_value"`
	// MappedShift is the reference-table key ("YYYY-MM-DD|Shift N") the
	// estimate was computed against.
	MappedShift string `json:"mapped_2025_shift,omitempty"`
	IsBelow     bool   `json:"is_below,omitempty"`
	IsAbove     bool   `json:"is_above,omitempty"`
}

// Estimator holds the shift-mapping dictionary and the per-shift tables.
// Both are content (hand-curated per exam cycle), not configuration.
type Estimator struct {
	// ShiftMap maps this cycle's "date|shift" key to a reference cycle's.
	ShiftMap map[string]string
	// Tables holds the reference cycle's marks→percentile points per shift.
	Tables map[string][]Point
}

// New builds an estimator over explicit data; used directly in tests.
func New(shiftMap map[string]string, tables map[string][]Point) *Estimator {
	return &Estimator{ShiftMap: shiftMap, Tables: tables}
}

//go:embed data/jee_reference.yaml
var referenceYAML []byte

var (
	defaultOnce sync.Once
	defaultEst  *Estimator
	defaultErr  error
)

// Default returns the estimator backed by the embedded reference data.
func Default() (*Estimator, error) {
	defaultOnce.Do(func() {
		var doc struct {
			ShiftMap map[string]string  `yaml:"shift_map"`
			Tables   map[string][]Point `yaml:"tables"`
		}
		if err := yaml.Unmarshal(referenceYAML, &doc); err != nil {
			defaultErr = fmt.Errorf("decode percentile reference data: %w", err)
			return
		}
		defaultEst = New(doc.ShiftMap, doc.Tables)
	})
	return defaultEst, defaultErr
}

func notAvailable() Result {
	return Result{Display: "N/A"}
}

// Estimate interpolates total marks against the reference table mapped from
// (examDate, shift). Marks outside the table's domain clamp to its edge
// percentiles with IsBelow/IsAbove set.
func (e *Estimator) Estimate(totalMarks int, examDate, shift string) Result {
	key := examDate + "|" + shift
	mapped, ok := e.ShiftMap[key]
	if !ok {
		return notAvailable()
	}
	points := e.Tables[mapped]
	if len(points) == 0 {
		return notAvailable()
	}

	pts := make([]Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Marks < pts[j].Marks })

	marks := float64(totalMarks)
	res := Result{MappedShift: mapped}

	if marks < pts[0].Marks {
		p := pts[0].Percentile
		res.Percentile = &p
		res.IsBelow = true
		res.Display = fmt.Sprintf("< %.2f", p)
		return res
	}
	if marks > pts[len(pts)-1].Marks {
		p := pts[len(pts)-1].Percentile
		res.Percentile = &p
		res.IsAbove = true
		res.Display = fmt.Sprintf("> %.2f", p)
		return res
	}

	// Linear scan for the bracketing pair; tables are small.
	for i := 0; i < len(pts)-1; i++ {
		lo, hi := pts[i], pts[i+1]
		if marks < lo.Marks || marks > hi.Marks {
			continue
		}
		p := lo.Percentile
		if hi.Marks != lo.Marks {
			p = lo.Percentile + (marks-lo.Marks)/(hi.Marks-lo.Marks)*(hi.Percentile-lo.Percentile)
		}
		p = math.Round(p*100) / 100
		res.Percentile = &p
		res.Display = fmt.Sprintf("%.2f", p)
		return res
	}
	return notAvailable()
}
