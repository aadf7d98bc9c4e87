package export

import (
	"strings"
	"testing"
	"time"

	"github.com/lotas/salonreviews/internal/types"
)

func TestMarkdown_AllArtists(t *testing.T) {
	result := Markdown(testCatalog(time.Now()), "")

	if !strings.HasPrefix(result, "# All Reviews\n") {
		t.Errorf("missing header, got:\n%s", result)
	}
	if !strings.Contains(result, "★ 4.0 · 3 reviews") {
		t.Errorf("missing summary line, got:\n%s", result)
	}
	if !strings.Contains(result, "## Mia S. (2 reviews, ★ 4.5)") {
		t.Errorf("missing Mia section, got:\n%s", result)
	}
	if !strings.Contains(result, "## Leo R. (1 review, ★ 3.0)") {
		t.Errorf("missing Leo section, got:\n%s", result)
	}
	if !strings.Contains(result, "- ★★★★★ **Ana** · Balayage · 3d ago") {
		t.Errorf("missing review line, got:\n%s", result)
	}
	if !strings.Contains(result, "  > Lovely") {
		t.Errorf("missing quoted text, got:\n%s", result)
	}
}

func TestMarkdown_SingleArtistWithoutReviews(t *testing.T) {
	cat := testCatalog(time.Now())
	cat.Artists = append(cat.Artists, types.Artist{ID: "zoe", Name: "Zoe K."})

	result := Markdown(cat, "zoe")
	if !strings.HasPrefix(result, "# Zoe K. Reviews\n") {
		t.Errorf("missing header, got:\n%s", result)
	}
	if strings.Contains(result, "## Mia S.") {
		t.Errorf("other artists should be omitted, got:\n%s", result)
	}
	if !strings.Contains(result, "_No reviews yet._") {
		t.Errorf("missing empty state, got:\n%s", result)
	}
}

func TestMarkdown_AnonymousReviewer(t *testing.T) {
	cat := &types.Catalog{
		Artists: []types.Artist{{ID: "mia", Name: "Mia S."}},
		Reviews: []types.Review{{ID: "r", ArtistID: "mia", Rating: 2, Date: time.Now()}},
	}
	result := Markdown(cat, "")
	if !strings.Contains(result, "**Anonymous** · just now") {
		t.Errorf("expected anonymous fallback, got:\n%s", result)
	}
}
