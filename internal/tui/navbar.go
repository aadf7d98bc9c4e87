package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderNavbar draws the screen title on the left and the feed status on the
// right.
func renderNavbar(title, status string, width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Italic(true).Foreground(ink)
	statusStyle := lipgloss.NewStyle().Foreground(muted)

	left := " " + titleStyle.Render(title)
	right := statusStyle.Render(status)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	padding := lipgloss.NewStyle().Width(gap)

	return left + padding.Render("") + right + " "
}
