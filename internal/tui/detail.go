package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/lotas/salonreviews/internal/reviews"
	"github.com/lotas/salonreviews/internal/types"
)

// reviewMarkdown is the markdown shown in the detail overlay.
func reviewMarkdown(r types.Review, artist string) string {
	var b strings.Builder
	name := r.UserName
	if name == "" {
		name = "Anonymous"
	}
	fmt.Fprintf(&b, "## %s\n\n", name)
	fmt.Fprintf(&b, "%s · **%s**", reviews.Stars(r.Rating), artist)
	if r.Service != "" {
		fmt.Fprintf(&b, " · %s", r.Service)
	}
	fmt.Fprintf(&b, " · %s\n\n", r.Date.Format("Jan 2, 2006"))
	if r.Text != "" {
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(r.Text, "\n", "\n> "))
	}
	if r.HasPhoto {
		b.WriteString("_Includes customer photos._\n\n")
	}
	switch r.HelpfulCount {
	case 0:
	case 1:
		b.WriteString("1 person found this helpful.\n")
	default:
		fmt.Fprintf(&b, "%d people found this helpful.\n", r.HelpfulCount)
	}
	return b.String()
}

// renderDetail renders a review through glamour inside a bordered overlay.
// The plain markdown is shown if glamour fails.
func renderDetail(r types.Review, artist string, width, height int) string {
	w := min(max(width*2/3, 30), width-4)
	raw := reviewMarkdown(r, artist)

	body := raw
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(w-4),
	)
	if err == nil {
		if rendered, err := renderer.Render(raw); err == nil {
			body = strings.Trim(rendered, "\n")
		}
	}

	hint := lipgloss.NewStyle().Foreground(muted).Render("esc close")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(w).
		MaxHeight(max(height-2, 5)).
		Render(body + "\n\n" + hint)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
