package snapshot

import (
	"fmt"
	"strings"

	"github.com/lotas/salonreviews/internal/types"
)

// Entry is one artist or review in a diff result.
type Entry struct {
	ID     string
	Label  string // artist name, or reviewer name for reviews
	Artist string // owning artist id; empty for artist entries
}

// Result holds the difference between two catalogs. Entries keep catalog
// order.
type Result struct {
	ArtistsAdded   []Entry
	ArtistsRemoved []Entry
	ArtistsChanged []Entry // same id, different name or avatar
	ReviewsAdded   []Entry
	ReviewsRemoved []Entry
	Reordered      bool // same artists in a different tab order
}

// Empty reports whether the catalogs hold the same artists and reviews.
func (d *Result) Empty() bool {
	return len(d.ArtistsAdded) == 0 && len(d.ArtistsRemoved) == 0 &&
		len(d.ArtistsChanged) == 0 && len(d.ReviewsAdded) == 0 &&
		len(d.ReviewsRemoved) == 0 && !d.Reordered
}

// Diff compares the stored catalog against an incoming one. Artists are
// compared by id, reviews by id. A nil catalog counts as empty.
func Diff(stored, incoming *types.Catalog) *Result {
	if stored == nil {
		stored = &types.Catalog{}
	}
	if incoming == nil {
		incoming = &types.Catalog{}
	}
	d := &Result{}

	old := make(map[string]types.Artist, len(stored.Artists))
	for _, a := range stored.Artists {
		old[a.ID] = a
	}
	cur := make(map[string]bool, len(incoming.Artists))
	for _, a := range incoming.Artists {
		cur[a.ID] = true
		prev, ok := old[a.ID]
		switch {
		case !ok:
			d.ArtistsAdded = append(d.ArtistsAdded, Entry{ID: a.ID, Label: a.Name})
		case prev != a:
			d.ArtistsChanged = append(d.ArtistsChanged, Entry{ID: a.ID, Label: a.Name})
		}
	}
	for _, a := range stored.Artists {
		if !cur[a.ID] {
			d.ArtistsRemoved = append(d.ArtistsRemoved, Entry{ID: a.ID, Label: a.Name})
		}
	}
	if len(d.ArtistsAdded) == 0 && len(d.ArtistsRemoved) == 0 {
		for i := range stored.Artists {
			if stored.Artists[i].ID != incoming.Artists[i].ID {
				d.Reordered = true
				break
			}
		}
	}

	oldReviews := make(map[string]bool, len(stored.Reviews))
	for _, r := range stored.Reviews {
		oldReviews[r.ID] = true
	}
	curReviews := make(map[string]bool, len(incoming.Reviews))
	for _, r := range incoming.Reviews {
		curReviews[r.ID] = true
		if !oldReviews[r.ID] {
			d.ReviewsAdded = append(d.ReviewsAdded, reviewEntry(r))
		}
	}
	for _, r := range stored.Reviews {
		if !curReviews[r.ID] {
			d.ReviewsRemoved = append(d.ReviewsRemoved, reviewEntry(r))
		}
	}
	return d
}

func reviewEntry(r types.Review) Entry {
	name := r.UserName
	if name == "" {
		name = "Anonymous"
	}
	return Entry{ID: r.ID, Label: name, Artist: r.ArtistID}
}

// Format returns a human-readable summary of a Result.
func Format(d *Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Stylists: +%d -%d ~%d  Reviews: +%d -%d\n",
		len(d.ArtistsAdded), len(d.ArtistsRemoved), len(d.ArtistsChanged),
		len(d.ReviewsAdded), len(d.ReviewsRemoved))

	section := func(title, mark string, es []Entry) {
		if len(es) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n%s (%d):\n", title, len(es))
		for _, e := range es {
			if e.Artist != "" {
				fmt.Fprintf(&sb, "  %s %s [%s]\n", mark, e.Label, e.Artist)
			} else {
				fmt.Fprintf(&sb, "  %s %s (%s)\n", mark, e.Label, e.ID)
			}
		}
	}
	section("+ Stylists added", "+", d.ArtistsAdded)
	section("- Stylists removed", "-", d.ArtistsRemoved)
	section("~ Stylists changed", "~", d.ArtistsChanged)
	section("+ Reviews added", "+", d.ReviewsAdded)
	section("- Reviews removed", "-", d.ReviewsRemoved)

	if d.Reordered {
		sb.WriteString("\nTab order changed.\n")
	}
	if d.Empty() {
		sb.WriteString("\nNo changes.\n")
	}
	return sb.String()
}
