package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/tcpgrade/pkg/score"
)

const (
	tableWidth = 78
	nameWidth  = 40
)

// Text renders one aligned table per assignment.
type Text struct {
	theme Theme
}

// NewText creates a text renderer with the given theme.
func NewText(theme Theme) *Text {
	return &Text{theme: theme}
}

// Render writes the warning (if any) followed by every assignment table.
func (t *Text) Render(w io.Writer, res *score.Result) error {
	var sb strings.Builder
	if msg := Warning(res); msg != "" {
		sb.WriteString(t.theme.Warning.Render(msg))
		sb.WriteString("\n\n")
	}
	for _, a := range res.Assignments {
		t.renderAssignment(&sb, a)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *Text) renderAssignment(sb *strings.Builder, a score.AssignmentScore) {
	double := strings.Repeat("=", tableWidth)
	single := strings.Repeat("-", tableWidth)

	line(sb, t.theme.Heading, a.Name)
	line(sb, t.theme.Rule, double)
	line(sb, t.theme.Heading, fmt.Sprintf("%s %-6s / %-10s  %-6s / %-10s",
		padName("Category"), "Passed", "Total", "Score", "Points"))
	line(sb, t.theme.Rule, single)
	for _, c := range a.Categories {
		line(sb, t.scoreStyle(c), fmt.Sprintf("%s %-6d / %-10d  %-6.2f / %-10.2f",
			padName(c.Name), c.Passed, c.Total, c.Score, c.Points))
	}
	line(sb, t.theme.Rule, single)
	line(sb, t.theme.Total, fmt.Sprintf("%59s = %-6.2f / %-10s", "TOTAL", a.Score, formatPoints(a.Points)))
	line(sb, t.theme.Rule, double)
	sb.WriteString("\n")
}

func (t *Text) scoreStyle(c score.CategoryScore) lipgloss.Style {
	switch {
	case c.Total > 0 && c.Passed == c.Total:
		return t.theme.Full
	case c.Passed > 0:
		return t.theme.Partial
	default:
		return t.theme.Zero
	}
}

func line(sb *strings.Builder, style lipgloss.Style, s string) {
	sb.WriteString(style.Render(s))
	sb.WriteString("\n")
}

// padName left-aligns s in the category column by display width.
func padName(s string) string {
	return runewidth.FillRight(s, nameWidth)
}

// formatPoints prints whole points without decimals.
func formatPoints(p float64) string {
	if p == math.Trunc(p) {
		return strconv.FormatFloat(p, 'f', 0, 64)
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}
