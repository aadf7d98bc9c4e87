// Package reviews derives what the reviews box shows for a selection.
package reviews

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/lotas/salonreviews/internal/types"
)

// Filter returns the reviews for an artist, or all of them when artistID is
// empty. Input order is kept.
func Filter(all []types.Review, artistID string) []types.Review {
	if artistID == "" {
		return all
	}
	var out []types.Review
	for _, r := range all {
		if r.ArtistID == artistID {
			out = append(out, r)
		}
	}
	return out
}

// Average returns the mean rating with one decimal, "0.0" when empty.
func Average(rs []types.Review) string {
	if len(rs) == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", Mean(rs))
}

// Mean returns the unrounded mean rating, 0 when empty.
func Mean(rs []types.Review) float64 {
	if len(rs) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rs {
		sum += r.Rating
	}
	return float64(sum) / float64(len(rs))
}

// Heading returns the box title: "All Reviews", or the artist's short name
// ("Mia S." becomes "Mia S. Reviews").
func Heading(artist *types.Artist) string {
	if artist == nil {
		return "All Reviews"
	}
	short, _, _ := strings.Cut(artist.Name, ".")
	return strings.TrimSpace(short) + ". Reviews"
}

// Stars renders a 1-5 rating as filled and empty stars.
func Stars(rating int) string {
	rating = max(0, min(rating, types.MaxRating))
	return strings.Repeat("★", rating) + strings.Repeat("☆", types.MaxRating-rating)
}

// maxSuggestDistance bounds how far a typo may be from a name to still be
// suggested.
const maxSuggestDistance = 3

// MatchArtist finds an artist by id or case-insensitive name. When nothing
// matches exactly, the closest name within a small edit distance is
// returned as a suggestion with exact=false.
func MatchArtist(artists []types.Artist, query string) (a types.Artist, exact bool, found bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return types.Artist{}, false, false
	}
	for _, art := range artists {
		if art.ID == query || strings.ToLower(art.Name) == q {
			return art, true, true
		}
	}

	best, bestDist := -1, maxSuggestDistance+1
	for i, art := range artists {
		for _, cand := range []string{strings.ToLower(art.Name), strings.ToLower(art.ID)} {
			if d := levenshtein.ComputeDistance(q, cand); d < bestDist {
				best, bestDist = i, d
			}
		}
	}
	if best < 0 {
		return types.Artist{}, false, false
	}
	return artists[best], false, true
}
