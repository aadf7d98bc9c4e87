package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lotas/salonreviews/internal/reviews"
	"github.com/lotas/salonreviews/internal/types"
)

var (
	accent      = lipgloss.Color("173") // bronze
	ink         = lipgloss.Color("223")
	muted       = lipgloss.Color("242")
	cardBorder  = lipgloss.Color("238")
	focusBorder = lipgloss.Color("173")
)

// renderCards renders one card per review and returns the rendered list and
// the line each card starts at.
func renderCards(rs []types.Review, cursor, width int, now time.Time) (string, []int) {
	if len(rs) == 0 {
		return renderEmpty(width), nil
	}
	var b strings.Builder
	starts := make([]int, 0, len(rs))
	line := 0
	for i, r := range rs {
		card := renderCard(r, i == cursor, width, now)
		starts = append(starts, line)
		b.WriteString(card)
		b.WriteByte('\n')
		line += lipgloss.Height(card)
	}
	return strings.TrimSuffix(b.String(), "\n"), starts
}

func renderCard(r types.Review, focused bool, width int, now time.Time) string {
	border := cardBorder
	if focused {
		border = focusBorder
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(width-2, 10))
	inner := max(width-6, 8)

	name := r.UserName
	if name == "" {
		name = "Anonymous"
	}
	initial := lipgloss.NewStyle().Bold(true).Foreground(ink).Render("(" + string([]rune(name)[0]) + ")")
	who := lipgloss.NewStyle().Bold(true).Render(name) + lipgloss.NewStyle().Foreground(accent).Render(" ✓")
	date := lipgloss.NewStyle().Foreground(muted).Render(strings.ToUpper(age(r.Date, now)))
	left := ansi.Truncate(initial+" "+who, inner-lipgloss.Width(date)-1, "…")
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(date), 1)
	header := left + strings.Repeat(" ", gap) + date

	stars := lipgloss.NewStyle().Foreground(accent).Render(reviews.Stars(r.Rating))
	if r.Service != "" {
		tag := lipgloss.NewStyle().Foreground(ink).Render("✦ " + strings.ToUpper(r.Service))
		stars += "  " + ansi.Truncate(tag, inner-types.MaxRating-2, "…")
	}

	lines := []string{header, stars}
	if r.Text != "" {
		quote := lipgloss.NewStyle().Italic(true).Width(inner).Render("“" + r.Text + "”")
		lines = append(lines, quote)
	}
	if r.HasPhoto {
		lines = append(lines, lipgloss.NewStyle().Foreground(muted).Render("▣ ▣  customer photos"))
	}
	if r.HelpfulCount > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(muted).Render(fmt.Sprintf("▲ %d found this helpful", r.HelpfulCount)))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func renderEmpty(width int) string {
	st := lipgloss.NewStyle().Width(max(width, 1)).Align(lipgloss.Center)
	return "\n" + st.Foreground(accent).Render("☆") + "\n" +
		st.Italic(true).Foreground(muted).Render("No reviews yet for this stylist…") + "\n" +
		st.Foreground(cardBorder).Render("Be the first to share your experience") + "\n"
}

// age formats how long ago t was, in the card's short style.
func age(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return "just now"
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 14*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 60*24*time.Hour:
		return fmt.Sprintf("%d weeks ago", int(d.Hours()/24/7))
	default:
		return t.Format("Jan 2, 2006")
	}
}
