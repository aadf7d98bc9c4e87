package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/lotas/salonreviews/internal/reviews"
	"github.com/lotas/salonreviews/internal/types"
)

// Markdown formats the reviews shown for artistID ("" for all) as a
// markdown document, one section per artist.
func Markdown(cat *types.Catalog, artistID string) string {
	var b strings.Builder
	shown := reviews.Filter(cat.Reviews, artistID)

	fmt.Fprintf(&b, "# %s\n", heading(cat, artistID))
	fmt.Fprintf(&b, "> Exported %s · ★ %s · %s\n",
		time.Now().Format("2006-01-02 15:04"), reviews.Average(shown), plural(len(shown), "review"))

	for _, a := range cat.Artists {
		if artistID != "" && a.ID != artistID {
			continue
		}
		own := reviews.Filter(shown, a.ID)
		fmt.Fprintf(&b, "\n## %s (%s, ★ %s)\n\n", a.Name, plural(len(own), "review"), reviews.Average(own))
		if len(own) == 0 {
			b.WriteString("_No reviews yet._\n")
			continue
		}
		for _, r := range own {
			name := r.UserName
			if name == "" {
				name = "Anonymous"
			}
			fmt.Fprintf(&b, "- %s **%s**", reviews.Stars(r.Rating), name)
			if r.Service != "" {
				fmt.Fprintf(&b, " · %s", r.Service)
			}
			fmt.Fprintf(&b, " · %s\n", relativeTime(r.Date))
			if r.Text != "" {
				fmt.Fprintf(&b, "  > %s\n", strings.ReplaceAll(r.Text, "\n", " "))
			}
		}
	}

	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
