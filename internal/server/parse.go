package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lotas/salonreviews/internal/types"
)

type wireArtist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type wireReview struct {
	ID           string `json:"id"`
	ArtistID     string `json:"artistId"`
	UserName     string `json:"userName"`
	Rating       int    `json:"rating"`
	Date         string `json:"date"`
	Service      string `json:"service"`
	Text         string `json:"text"`
	HasPhoto     bool   `json:"hasPhoto"`
	HelpfulCount int    `json:"helpfulCount"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "Jan 2, 2006", "January 2, 2006"}

// ParseDate accepts RFC 3339 timestamps and a few calendar date formats.
// An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseSnapshot converts an IncomingMsg of type "snapshot" into a Catalog.
// Reviews of artists missing from the snapshot are dropped.
func ParseSnapshot(msg IncomingMsg) (*types.Catalog, error) {
	var artists []wireArtist
	if err := json.Unmarshal(msg.Artists, &artists); err != nil {
		return nil, fmt.Errorf("parse artists: %w", err)
	}
	var reviews []json.RawMessage
	if len(msg.Reviews) > 0 {
		if err := json.Unmarshal(msg.Reviews, &reviews); err != nil {
			return nil, fmt.Errorf("parse reviews: %w", err)
		}
	}

	cat := &types.Catalog{LoadedAt: time.Now()}
	known := make(map[string]bool, len(artists))
	for _, wa := range artists {
		a, err := toArtist(wa)
		if err != nil {
			return nil, err
		}
		if known[a.ID] {
			return nil, fmt.Errorf("duplicate artist %q", a.ID)
		}
		known[a.ID] = true
		cat.Artists = append(cat.Artists, a)
	}
	for _, raw := range reviews {
		r, err := ParseReview(raw)
		if err != nil {
			return nil, err
		}
		if !known[r.ArtistID] {
			continue
		}
		cat.Reviews = append(cat.Reviews, *r)
	}
	return cat, nil
}

// ParseArtist converts a raw JSON artist.
func ParseArtist(raw json.RawMessage) (*types.Artist, error) {
	var wa wireArtist
	if err := json.Unmarshal(raw, &wa); err != nil {
		return nil, fmt.Errorf("parse artist: %w", err)
	}
	a, err := toArtist(wa)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func toArtist(wa wireArtist) (types.Artist, error) {
	if wa.ID == "" {
		return types.Artist{}, fmt.Errorf("artist %q has no id", wa.Name)
	}
	name := wa.Name
	if name == "" {
		name = wa.ID
	}
	return types.Artist{ID: wa.ID, Name: name, Avatar: wa.Avatar}, nil
}

// ParseReview converts a raw JSON review. Reviews without an id get a fresh
// UUID; a missing date means now.
func ParseReview(raw json.RawMessage) (*types.Review, error) {
	var wr wireReview
	if err := json.Unmarshal(raw, &wr); err != nil {
		return nil, fmt.Errorf("parse review: %w", err)
	}
	if wr.ArtistID == "" {
		return nil, fmt.Errorf("review %q has no artistId", wr.ID)
	}
	if wr.Rating < types.MinRating || wr.Rating > types.MaxRating {
		return nil, fmt.Errorf("review %q: rating %d out of range", wr.ID, wr.Rating)
	}
	date, err := ParseDate(wr.Date)
	if err != nil {
		return nil, fmt.Errorf("review %q: %w", wr.ID, err)
	}
	if date.IsZero() {
		date = time.Now()
	}
	id := wr.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &types.Review{
		ID:           id,
		ArtistID:     wr.ArtistID,
		UserName:     wr.UserName,
		Rating:       wr.Rating,
		Date:         date,
		Service:      wr.Service,
		Text:         wr.Text,
		HasPhoto:     wr.HasPhoto,
		HelpfulCount: wr.HelpfulCount,
	}, nil
}
