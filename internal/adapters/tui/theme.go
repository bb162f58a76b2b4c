package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors of the timer screens.
type Theme struct {
	ColorTitle  string
	ColorWork   string
	ColorBreak  string
	ColorPaused string
	ColorIdle   string
	ColorHelp   string
	ColorError  string

	WorkGradientStart   string
	WorkGradientEnd     string
	BreakGradientStart  string
	BreakGradientEnd    string
	PausedGradientStart string
	PausedGradientEnd   string
}

// DefaultTheme returns the built-in colors.
func DefaultTheme() Theme {
	return Theme{
		ColorTitle:  "#7D56F4",
		ColorWork:   "#FF6B6B",
		ColorBreak:  "#4ECDC4",
		ColorPaused: "#FFE66D",
		ColorIdle:   "#A0A0A0",
		ColorHelp:   "#626262",
		ColorError:  "#FF5F87",

		WorkGradientStart:   "#FF6B6B",
		WorkGradientEnd:     "#FFA07A",
		BreakGradientStart:  "#4ECDC4",
		BreakGradientEnd:    "#A8E6CF",
		PausedGradientStart: "#FFE66D",
		PausedGradientEnd:   "#F9D56E",
	}
}

func (t Theme) style(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
