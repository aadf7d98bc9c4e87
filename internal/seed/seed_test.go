package seed

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lotas/salonreviews/internal/indicator"
	"github.com/lotas/salonreviews/internal/storage"
	"github.com/lotas/salonreviews/internal/types"
)

func TestCatalogIsConsistent(t *testing.T) {
	cat := Catalog(time.Now())
	if len(cat.Artists) == 0 || len(cat.Reviews) == 0 {
		t.Fatal("demo catalog is empty")
	}
	seen := map[string]bool{}
	for _, a := range cat.Artists {
		if a.ID == "" || a.ID == indicator.AllKey || seen[a.ID] {
			t.Errorf("bad artist id %q", a.ID)
		}
		seen[a.ID] = true
	}
	for _, r := range cat.Reviews {
		if !seen[r.ArtistID] {
			t.Errorf("review %s references unknown artist %q", r.ID, r.ArtistID)
		}
		if r.Rating < types.MinRating || r.Rating > types.MaxRating {
			t.Errorf("review %s rating %d out of range", r.ID, r.Rating)
		}
	}
	// Jules has no reviews so the empty state is reachable.
	if idx := cat.ArtistIndex("jules"); idx < 0 {
		t.Error("expected an artist without reviews")
	}
}

func TestIfEmpty(t *testing.T) {
	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	seeded, err := IfEmpty(db)
	if err != nil || !seeded {
		t.Fatalf("first IfEmpty = %v, %v; want true, nil", seeded, err)
	}
	seeded, err = IfEmpty(db)
	if err != nil || seeded {
		t.Fatalf("second IfEmpty = %v, %v; want false, nil", seeded, err)
	}

	cat, err := storage.LoadCatalog(db)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	want := Catalog(time.Now())
	if len(cat.Artists) != len(want.Artists) || len(cat.Reviews) != len(want.Reviews) {
		t.Errorf("stored %d/%d, want %d/%d", len(cat.Artists), len(cat.Reviews), len(want.Artists), len(want.Reviews))
	}
}
