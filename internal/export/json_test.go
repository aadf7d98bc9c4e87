package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lotas/salonreviews/internal/types"
)

func testCatalog(now time.Time) *types.Catalog {
	return &types.Catalog{
		Artists: []types.Artist{
			{ID: "mia", Name: "Mia S.", Avatar: "mia.jpg"},
			{ID: "leo", Name: "Leo R."},
		},
		Reviews: []types.Review{
			{ID: "r1", ArtistID: "mia", UserName: "Ana", Rating: 5, Date: now.Add(-3 * 24 * time.Hour), Service: "Balayage", HasPhoto: true},
			{ID: "r2", ArtistID: "leo", UserName: "Ben", Rating: 3, Date: now.Add(-5 * time.Hour)},
			{ID: "r3", ArtistID: "mia", UserName: "Cleo", Rating: 4, Date: now.Add(-24 * time.Hour), Text: "Lovely", HelpfulCount: 2},
		},
	}
}

func TestJSON_AllReviews(t *testing.T) {
	result, err := JSON(testCatalog(time.Now()), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed jsonExport
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v\noutput:\n%s", err, result)
	}

	if parsed.Heading != "All Reviews" {
		t.Errorf("expected heading 'All Reviews', got %q", parsed.Heading)
	}
	if parsed.Average != "4.0" {
		t.Errorf("expected average 4.0, got %q", parsed.Average)
	}
	if len(parsed.Artists) != 2 || len(parsed.Reviews) != 3 {
		t.Fatalf("expected 2 artists and 3 reviews, got %d/%d", len(parsed.Artists), len(parsed.Reviews))
	}

	r0 := parsed.Reviews[0]
	if r0.ArtistName != "Mia S." {
		t.Errorf("expected artist_name 'Mia S.', got %q", r0.ArtistName)
	}
	if r0.DatePretty != "3d ago" {
		t.Errorf("expected date_pretty '3d ago', got %q", r0.DatePretty)
	}
	if !r0.HasPhoto {
		t.Error("expected has_photo")
	}
	if parsed.Reviews[1].DatePretty != "5h ago" {
		t.Errorf("expected '5h ago', got %q", parsed.Reviews[1].DatePretty)
	}
}

func TestJSON_SingleArtist(t *testing.T) {
	result, err := JSON(testCatalog(time.Now()), "mia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var parsed jsonExport
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Heading != "Mia S. Reviews" {
		t.Errorf("heading = %q", parsed.Heading)
	}
	if parsed.Average != "4.5" || len(parsed.Reviews) != 2 {
		t.Errorf("average %q over %d reviews, want 4.5 over 2", parsed.Average, len(parsed.Reviews))
	}
}

func TestJSON_EmptyCatalog(t *testing.T) {
	result, err := JSON(&types.Catalog{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var parsed jsonExport
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Average != "0.0" {
		t.Errorf("expected average '0.0', got %q", parsed.Average)
	}
	if parsed.Reviews == nil || len(parsed.Reviews) != 0 {
		t.Errorf("expected empty reviews array, got %v", parsed.Reviews)
	}
}

func TestParseJSON_RoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	orig := testCatalog(now)
	doc, err := JSON(orig, "")
	if err != nil {
		t.Fatal(err)
	}

	cat, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(cat.Artists) != 2 || cat.Artists[0].Avatar != "mia.jpg" {
		t.Errorf("artists = %+v", cat.Artists)
	}
	if len(cat.Reviews) != 3 {
		t.Fatalf("reviews = %d, want 3", len(cat.Reviews))
	}
	if cat.Reviews[2].HelpfulCount != 2 || !cat.Reviews[2].Date.Equal(orig.Reviews[2].Date) {
		t.Errorf("review fields lost: %+v", cat.Reviews[2])
	}
}

func TestParseJSON_UnknownArtist(t *testing.T) {
	doc := `{"artists":[{"id":"mia","name":"Mia"}],"reviews":[{"id":"x","artist_id":"ghost","rating":4}]}`
	if _, err := ParseJSON([]byte(doc)); err == nil {
		t.Error("expected error for review of unknown artist")
	}
}
