package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lotas/salonreviews/internal/reviews"
	"github.com/lotas/salonreviews/internal/types"
)

type jsonExport struct {
	Heading    string       `json:"heading"`
	ExportedAt time.Time    `json:"exported_at"`
	Average    string       `json:"average"`
	Artists    []jsonArtist `json:"artists"`
	Reviews    []jsonReview `json:"reviews"`
}

type jsonArtist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type jsonReview struct {
	ID           string    `json:"id"`
	ArtistID     string    `json:"artist_id"`
	ArtistName   string    `json:"artist_name,omitempty"`
	UserName     string    `json:"user_name"`
	Rating       int       `json:"rating"`
	Date         time.Time `json:"date"`
	DatePretty   string    `json:"date_pretty"`
	Service      string    `json:"service,omitempty"`
	Text         string    `json:"text,omitempty"`
	HasPhoto     bool      `json:"has_photo,omitempty"`
	HelpfulCount int       `json:"helpful_count,omitempty"`
}

// JSON formats the reviews shown for artistID ("" for all) as a JSON
// document. All artists are included so the file can be imported again.
func JSON(cat *types.Catalog, artistID string) (string, error) {
	shown := reviews.Filter(cat.Reviews, artistID)
	out := jsonExport{
		Heading:    heading(cat, artistID),
		ExportedAt: time.Now(),
		Average:    reviews.Average(shown),
		Artists:    make([]jsonArtist, 0, len(cat.Artists)),
		Reviews:    make([]jsonReview, 0, len(shown)),
	}

	names := make(map[string]string, len(cat.Artists))
	for _, a := range cat.Artists {
		names[a.ID] = a.Name
		out.Artists = append(out.Artists, jsonArtist{ID: a.ID, Name: a.Name, Avatar: a.Avatar})
	}
	for _, r := range shown {
		out.Reviews = append(out.Reviews, jsonReview{
			ID:           r.ID,
			ArtistID:     r.ArtistID,
			ArtistName:   names[r.ArtistID],
			UserName:     r.UserName,
			Rating:       r.Rating,
			Date:         r.Date,
			DatePretty:   relativeTime(r.Date),
			Service:      r.Service,
			Text:         r.Text,
			HasPhoto:     r.HasPhoto,
			HelpfulCount: r.HelpfulCount,
		})
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

// ParseJSON reads a document written by JSON back into a Catalog.
func ParseJSON(data []byte) (*types.Catalog, error) {
	var in jsonExport
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	cat := &types.Catalog{LoadedAt: time.Now()}
	for _, a := range in.Artists {
		if a.ID == "" {
			return nil, fmt.Errorf("artist %q has no id", a.Name)
		}
		cat.Artists = append(cat.Artists, types.Artist{ID: a.ID, Name: a.Name, Avatar: a.Avatar})
	}
	for _, r := range in.Reviews {
		if cat.ArtistIndex(r.ArtistID) < 0 {
			return nil, fmt.Errorf("review %q references unknown artist %q", r.ID, r.ArtistID)
		}
		cat.Reviews = append(cat.Reviews, types.Review{
			ID:           r.ID,
			ArtistID:     r.ArtistID,
			UserName:     r.UserName,
			Rating:       r.Rating,
			Date:         r.Date,
			Service:      r.Service,
			Text:         r.Text,
			HasPhoto:     r.HasPhoto,
			HelpfulCount: r.HelpfulCount,
		})
	}
	return cat, nil
}

func heading(cat *types.Catalog, artistID string) string {
	if a, ok := cat.FindArtist(artistID); ok {
		return reviews.Heading(&a)
	}
	return reviews.Heading(nil)
}
