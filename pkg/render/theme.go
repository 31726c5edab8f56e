package render

import "github.com/charmbracelet/lipgloss"

// Theme defines the styles used by the text table.
type Theme struct {
	Name    string
	Heading lipgloss.Style
	Rule    lipgloss.Style
	Full    lipgloss.Style // category scored all of its points
	Partial lipgloss.Style
	Zero    lipgloss.Style
	Total   lipgloss.Style
	Warning lipgloss.Style
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")), // blue
		Rule:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),           // gray
		Full:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),            // green
		Partial: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),           // orange
		Zero:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),           // red
		Total:   lipgloss.NewStyle().Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")), // pale blue
		Rule:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),           // lighter gray
		Full:    lipgloss.NewStyle().Foreground(lipgloss.Color("108")),           // sage green
		Partial: lipgloss.NewStyle().Foreground(lipgloss.Color("179")),           // muted gold
		Zero:    lipgloss.NewStyle().Foreground(lipgloss.Color("167")),           // muted red
		Total:   lipgloss.NewStyle().Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
	}
}

// MonoTheme returns a monochrome theme that only uses bold.
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Heading: lipgloss.NewStyle().Bold(true),
		Rule:    lipgloss.NewStyle(),
		Full:    lipgloss.NewStyle(),
		Partial: lipgloss.NewStyle(),
		Zero:    lipgloss.NewStyle(),
		Total:   lipgloss.NewStyle().Bold(true),
		Warning: lipgloss.NewStyle(),
	}
}

// PlainTheme applies no styling at all. Used when output is not a terminal.
func PlainTheme() Theme {
	return Theme{
		Name:    "plain",
		Heading: lipgloss.NewStyle(),
		Rule:    lipgloss.NewStyle(),
		Full:    lipgloss.NewStyle(),
		Partial: lipgloss.NewStyle(),
		Zero:    lipgloss.NewStyle(),
		Total:   lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	case "plain":
		return PlainTheme()
	default:
		return DefaultTheme()
	}
}
