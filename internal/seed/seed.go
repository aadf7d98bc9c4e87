// Package seed provides a small demo salon.
package seed

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lotas/salonreviews/internal/applog"
	"github.com/lotas/salonreviews/internal/storage"
	"github.com/lotas/salonreviews/internal/types"
)

// Catalog returns the demo artists and reviews, dated relative to now.
func Catalog(now time.Time) *types.Catalog {
	ago := func(days int) time.Time { return now.AddDate(0, 0, -days).Truncate(time.Hour) }
	return &types.Catalog{
		Artists: []types.Artist{
			{ID: "mia", Name: "Mia S.", Avatar: "https://images.example.com/stylists/mia.jpg"},
			{ID: "leo", Name: "Leo R.", Avatar: "https://images.example.com/stylists/leo.jpg"},
			{ID: "noor", Name: "Noor A.", Avatar: "https://images.example.com/stylists/noor.jpg"},
			{ID: "jules", Name: "Jules", Avatar: "https://images.example.com/stylists/jules.jpg"},
		},
		Reviews: []types.Review{
			{ID: "seed-1", ArtistID: "mia", UserName: "Hannah K.", Rating: 5, Date: ago(2), Service: "Balayage",
				Text: "Mia listened to every detail and the colour is exactly what I had in mind. Soft, natural and it grows out beautifully.", HasPhoto: true, HelpfulCount: 4},
			{ID: "seed-2", ArtistID: "leo", UserName: "Marcus T.", Rating: 5, Date: ago(4), Service: "Skin Fade",
				Text: "Cleanest fade I have had in years. Leo is quick without ever feeling rushed."},
			{ID: "seed-3", ArtistID: "mia", UserName: "Sofia L.", Rating: 4, Date: ago(9), Service: "Cut & Blow Dry",
				Text: "Great cut, the blow dry held for three days. Booking was a bit tricky but worth it."},
			{ID: "seed-4", ArtistID: "noor", UserName: "Priya N.", Rating: 5, Date: ago(12), Service: "Bridal Styling",
				Text: "Noor styled me and four bridesmaids and every look survived the dance floor. Calm, kind and incredibly talented.", HasPhoto: true, HelpfulCount: 7},
			{ID: "seed-5", ArtistID: "leo", UserName: "Daniel O.", Rating: 3, Date: ago(20), Service: "Beard Trim",
				Text: "Good trim, but I waited twenty minutes past my slot."},
			{ID: "seed-6", ArtistID: "noor", UserName: "Elena V.", Rating: 4, Date: ago(31), Service: "Keratin Treatment",
				Text: "Hair feels amazing. Took longer than quoted, so plan your afternoon around it."},
		},
		LoadedAt: now,
	}
}

// IfEmpty stores the demo catalog when the database has no artists yet and
// reports whether it did.
func IfEmpty(db *sql.DB) (bool, error) {
	artists, err := storage.ListArtists(db)
	if err != nil {
		return false, err
	}
	if len(artists) > 0 {
		return false, nil
	}
	return true, Load(db)
}

// Load replaces the stored catalog with the demo one.
func Load(db *sql.DB) error {
	cat := Catalog(time.Now())
	if err := storage.ReplaceCatalog(db, cat.Artists, cat.Reviews); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	applog.Info("seed.load", "artists", len(cat.Artists), "reviews", len(cat.Reviews))
	return nil
}
