// Package snapshot applies whole-catalog snapshots, from the live feed or an
// import file, to the database.
package snapshot

import (
	"database/sql"
	"fmt"

	"github.com/lotas/salonreviews/internal/applog"
	"github.com/lotas/salonreviews/internal/storage"
	"github.com/lotas/salonreviews/internal/types"
)

// Apply replaces the stored catalog with cat. It first compares against
// what is stored and skips the write if nothing changed. Returns whether
// the catalog was written and the diff against the stored one.
func Apply(db *sql.DB, cat *types.Catalog) (applied bool, diff *Result, err error) {
	stored, err := storage.LoadCatalog(db)
	if err != nil {
		return false, nil, fmt.Errorf("load catalog: %w", err)
	}

	diff = Diff(stored, cat)
	if diff.Empty() {
		applog.Info("snapshot.skipped", "artists", len(cat.Artists), "reviews", len(cat.Reviews))
		return false, diff, nil
	}

	if err := storage.ReplaceCatalog(db, cat.Artists, cat.Reviews); err != nil {
		return false, diff, err
	}
	applog.Info("snapshot.applied",
		"artists_added", len(diff.ArtistsAdded), "artists_removed", len(diff.ArtistsRemoved),
		"reviews_added", len(diff.ReviewsAdded), "reviews_removed", len(diff.ReviewsRemoved))
	return true, diff, nil
}
