package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/media"
)

// viewBreak renders the break panel. It has no close control: the panel
// goes away only when the break ends.
func (m Model) viewBreak() string {
	theme := m.opts.Theme
	accent := theme.style(theme.ColorBreak).Bold(true)
	dim := theme.style(theme.ColorHelp)
	sel := m.brk.sel

	var lines []string
	lines = append(lines, accent.Render("Break time: "+minutesLabel(m.snap.Settings.BreakMinutes)))
	lines = append(lines, "")

	switch sel.Visual {
	case media.VisualAnimation:
		lines = append(lines, fmt.Sprintf("Animation  %s", filepath.Base(sel.Path)))
		lines = append(lines, dim.Render(fmt.Sprintf("frame %d/%d  %s", m.brk.frame.Index+1, max(m.brk.frame.Count, 1), playState(m.brk.playing))))
	case media.VisualImage:
		lines = append(lines, fmt.Sprintf("Image  %s", filepath.Base(sel.Path)))
	case media.VisualVideo:
		lines = append(lines, fmt.Sprintf("Video  %s", filepath.Base(sel.Path)))
		lines = append(lines, dim.Render(fmt.Sprintf("%s played  %s", domain.FormatClock(m.brk.frame.Index), playState(m.brk.playing))))
	default:
		lines = append(lines, sel.Text)
	}

	if sel.Fallback != "" {
		lines = append(lines, dim.Render("("+sel.Fallback+")"))
	}
	if sel.HasAudio() {
		lines = append(lines, dim.Render("♪ "+filepath.Base(sel.AudioLoop)))
	}

	lines = append(lines, "", dim.Render("[e] end break"))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColorBreak)).
		Padding(1, 3).
		Align(lipgloss.Center)
	return panel.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func playState(playing bool) string {
	if playing {
		return "playing · [v] pause"
	}
	return "paused · [v] play"
}
