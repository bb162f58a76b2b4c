package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphRows is the height of the countdown font.
const glyphRows = 3

// glyphs draws digits and the colon with half blocks, three rows high.
var glyphs = map[rune][glyphRows]string{
	'0': {"█▀█", "█ █", "▀▀▀"},
	'1': {"▀█ ", " █ ", "▀▀▀"},
	'2': {"▀▀█", "█▀▀", "▀▀▀"},
	'3': {"▀▀█", " ▀█", "▀▀▀"},
	'4': {"█ █", "▀▀█", "  ▀"},
	'5': {"█▀▀", "▀▀█", "▀▀▀"},
	'6': {"█▀▀", "█▀█", "▀▀▀"},
	'7': {"▀▀█", "  █", "  ▀"},
	'8': {"█▀█", "█▀█", "▀▀▀"},
	'9': {"█▀█", "▀▀█", "▀▀▀"},
	':': {"▄", " ", "▀"},
}

// renderBigTime draws an MM:SS clock in the block font. Narrow terminals,
// and minute counts too long to fit, get a single bold line instead.
func renderBigTime(clock string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < 40 || bigWidth(clock) > width-4 {
		return style.Render(clock)
	}

	var rows [glyphRows]strings.Builder
	for i, ch := range []rune(clock) {
		glyph, ok := glyphs[ch]
		if !ok {
			continue
		}
		for r := range rows {
			if i > 0 {
				rows[r].WriteByte(' ')
			}
			rows[r].WriteString(glyph[r])
		}
	}

	lines := make([]string, glyphRows)
	for r := range rows {
		lines[r] = style.Render(rows[r].String())
	}
	return strings.Join(lines, "\n")
}

// bigWidth returns the cell width of clock in the block font.
func bigWidth(clock string) int {
	w := 0
	for i, ch := range []rune(clock) {
		if i > 0 {
			w++
		}
		w += lipgloss.Width(glyphs[ch][0])
	}
	return w
}
