package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/dkoosis/tcpgrade/pkg/score"
)

const visible = "visible"

// Gradescope renders the Gradescope autograder results payload.
type Gradescope struct {
	// Assignment selects a single 1-based assignment; 0 combines all of them.
	Assignment int
}

// NewGradescope creates a Gradescope renderer for the given selector.
func NewGradescope(assignment int) *Gradescope {
	return &Gradescope{Assignment: assignment}
}

// Float is a score that encodes in JSON like a Python float, so a whole
// score stays "20.0" rather than "20".
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("unsupported score %v", v)
	}
	return []byte(FormatScore(v)), nil
}

// GradescopeResult is the top-level Gradescope results document.
type GradescopeResult struct {
	Tests            []GradescopeTest `json:"tests"`
	Output           string           `json:"output,omitempty"`
	Score            Float            `json:"score"`
	Visibility       string           `json:"visibility"`
	StdoutVisibility string           `json:"stdout_visibility"`
}

// GradescopeTest is one category entry in the payload.
type GradescopeTest struct {
	Score    Float   `json:"score"`
	MaxScore float64 `json:"max_score"`
	Name     string  `json:"name"`
}

// Build assembles the payload without writing it.
func (g *Gradescope) Build(res *score.Result) (*GradescopeResult, error) {
	if g.Assignment < 0 || g.Assignment > len(res.Assignments) {
		return nil, fmt.Errorf("gradescope assignment %d out of range (1-%d)", g.Assignment, len(res.Assignments))
	}

	out := &GradescopeResult{
		Tests:            []GradescopeTest{},
		Visibility:       visible,
		StdoutVisibility: visible,
	}
	if !res.AllRun() {
		out.Output = NotRunMessage
	}

	for i, a := range res.Assignments {
		if g.Assignment != 0 && g.Assignment != i+1 {
			continue
		}
		for _, c := range a.Categories {
			out.Tests = append(out.Tests, GradescopeTest{
				Score:    Float(c.Score),
				MaxScore: c.Points,
				Name:     c.Name,
			})
		}
		out.Score += Float(a.Score)
	}
	return out, nil
}

// Render writes the payload as indented JSON.
func (g *Gradescope) Render(w io.Writer, res *score.Result) error {
	out, err := g.Build(res)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode gradescope results: %w", err)
	}
	return nil
}
