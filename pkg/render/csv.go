package render

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dkoosis/tcpgrade/pkg/score"
)

// CSV renders assignment totals as a single comma-separated line.
type CSV struct{}

// NewCSV creates a CSV renderer.
func NewCSV() *CSV {
	return &CSV{}
}

// Render writes one line with every assignment total and nothing else.
func (c *CSV) Render(w io.Writer, res *score.Result) error {
	totals := res.Totals()
	fields := make([]string, len(totals))
	for i, v := range totals {
		fields[i] = FormatScore(v)
	}
	_, err := io.WriteString(w, strings.Join(fields, ",")+"\n")
	return err
}

// FormatScore formats v the way Python prints a float: shortest round-trip
// digits, a fractional part always kept (30 -> "30.0"), and exponent
// notation once the decimal exponent is below -4 or at least 16
// (0.00001 -> "1e-05", 1e16 -> "1e+16").
func FormatScore(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	e := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err == nil && v != 0 && (exp < -4 || exp >= 16) {
		return e
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
