// Package score turns catalog outcomes into weighted assignment scores.
package score

import (
	"sort"

	"github.com/dkoosis/tcpgrade/internal/config"
	"github.com/dkoosis/tcpgrade/pkg/catalog"
	"github.com/dkoosis/tcpgrade/pkg/testreport"
)

// CategoryScore is the score tuple for one category.
type CategoryScore struct {
	ID     string
	Name   string
	Passed int
	Failed int
	Total  int
	Score  float64
	Points float64
}

// AssignmentScore holds an assignment's category scores in declared order.
type AssignmentScore struct {
	Name       string
	Points     float64
	Score      float64
	Categories []CategoryScore
}

// Result is the aggregate of one grading run.
type Result struct {
	Assignments []AssignmentScore
	// NotRun lists declared test ids that never appeared in the report, sorted.
	NotRun []string
	// Declared is the number of distinct declared test ids.
	Declared int
}

// Aggregate scores every assignment in cfg. It does not modify its inputs.
// A test that was not run counts exactly like a failed one.
func Aggregate(cfg *config.Config, cat *catalog.Catalog, run testreport.RunSet) *Result {
	res := &Result{
		Assignments: make([]AssignmentScore, 0, len(cfg.Assignments)),
		Declared:    cat.Len(),
	}

	for _, a := range cfg.Assignments {
		as := AssignmentScore{
			Name:       a.Name,
			Points:     a.Points,
			Categories: make([]CategoryScore, 0, len(a.Categories)),
		}
		for _, c := range a.Categories {
			cs := Category(c, cat.Passed(c.ID), cat.Total(c.ID))
			as.Score += cs.Score
			as.Categories = append(as.Categories, cs)
		}
		res.Assignments = append(res.Assignments, as)
	}

	for _, id := range cat.DeclaredIDs() {
		if !run.Has(id) {
			res.NotRun = append(res.NotRun, id)
		}
	}
	sort.Strings(res.NotRun)
	return res
}

// Category computes the score tuple for one category.
// A category with no declared tests scores 0.
func Category(c config.Category, passed, total int) CategoryScore {
	cs := CategoryScore{
		ID:     c.ID,
		Name:   c.DisplayName(),
		Passed: passed,
		Failed: total - passed,
		Total:  total,
		Points: c.Points,
	}
	if total > 0 {
		// Conversion keeps the product from fusing into the caller's sum.
		cs.Score = float64(float64(passed) / float64(total) * c.Points)
	}
	return cs
}

// Totals returns each assignment's score in declaration order.
func (r *Result) Totals() []float64 {
	out := make([]float64, len(r.Assignments))
	for i, a := range r.Assignments {
		out[i] = a.Score
	}
	return out
}

// Sum returns the sum of all assignment scores.
func (r *Result) Sum() float64 {
	var s float64
	for _, a := range r.Assignments {
		s += a.Score
	}
	return s
}

// AllRun reports whether every declared test appeared in the report.
func (r *Result) AllRun() bool {
	return len(r.NotRun) == 0
}
