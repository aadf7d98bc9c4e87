package types

import "time"

// Artist is a stylist shown as a tab. Slice order is display order.
type Artist struct {
	ID     string
	Name   string
	Avatar string // avatar reference (URL or path); not rendered in the terminal
}

// Review is a single customer review of an artist.
type Review struct {
	ID           string
	ArtistID     string
	UserName     string
	Rating       int // 1-5
	Date         time.Time
	Service      string
	Text         string
	HasPhoto     bool
	HelpfulCount int
}

// Catalog holds everything the reviews screen renders.
type Catalog struct {
	Artists  []Artist
	Reviews  []Review
	LoadedAt time.Time
}

// MinRating and MaxRating bound Review.Rating.
const (
	MinRating = 1
	MaxRating = 5
)

// ArtistIndex returns the position of the artist with the given id, or -1.
func (c *Catalog) ArtistIndex(id string) int {
	for i, a := range c.Artists {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// FindArtist returns the artist with the given id.
func (c *Catalog) FindArtist(id string) (Artist, bool) {
	if i := c.ArtistIndex(id); i >= 0 {
		return c.Artists[i], true
	}
	return Artist{}, false
}
