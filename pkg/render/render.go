// Package render presents aggregated scores as a text table, a CSV line or a
// Gradescope JSON payload.
package render

import (
	"fmt"
	"io"

	"github.com/dkoosis/tcpgrade/pkg/score"
)

// Renderer writes a scored result to w.
type Renderer interface {
	Render(w io.Writer, res *score.Result) error
}

// NotRunMessage is the Gradescope output text used when tests did not run.
const NotRunMessage = "We were unable to run some or all of the tests due to an error in your code."

// Warning returns the missing-results warning, or "" when every declared test ran.
func Warning(res *score.Result) string {
	if res.AllRun() {
		return ""
	}
	return fmt.Sprintf("WARNING: Missing results from %d tests (out of %d possible tests)", len(res.NotRun), res.Declared)
}
