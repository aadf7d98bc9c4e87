package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lotas/salonreviews/internal/types"
)

// testDB creates a temporary database for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func day(d int) time.Time {
	return time.Date(2026, 2, d, 12, 0, 0, 0, time.UTC)
}

func seedTwo(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, a := range []types.Artist{{ID: "mia", Name: "Mia S."}, {ID: "leo", Name: "Leo R."}} {
		if err := UpsertArtist(db, a); err != nil {
			t.Fatalf("UpsertArtist(%s): %v", a.ID, err)
		}
	}
	for _, r := range []types.Review{
		{ID: "r1", ArtistID: "mia", UserName: "Ana", Rating: 5, Date: day(1), Service: "Balayage"},
		{ID: "r2", ArtistID: "leo", UserName: "Ben", Rating: 3, Date: day(3), Service: "Fade"},
		{ID: "r3", ArtistID: "mia", UserName: "Cleo", Rating: 4, Date: day(2), HasPhoto: true},
	} {
		if err := InsertReview(db, r); err != nil {
			t.Fatalf("InsertReview(%s): %v", r.ID, err)
		}
	}
}

func TestOpenDB(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "salonreviews.db")

	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file not found: %v", err)
	}

	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != migrations[len(migrations)-1].Version {
		t.Errorf("schema version = %d, want %d", v, migrations[len(migrations)-1].Version)
	}
}

func TestOpenDB_IdempotentMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "twice.db")

	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("first OpenDB: %v", err)
	}
	if err := UpsertArtist(db, types.Artist{ID: "mia", Name: "Mia S."}); err != nil {
		t.Fatalf("UpsertArtist: %v", err)
	}
	db.Close()

	db2, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("second OpenDB: %v", err)
	}
	defer db2.Close()

	var count int
	db2.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if count != len(migrations) {
		t.Errorf("expected %d migrations recorded, got %d", len(migrations), count)
	}
	artists, err := ListArtists(db2)
	if err != nil || len(artists) != 1 {
		t.Errorf("ListArtists after reopen = %v, %v", artists, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if !strings.HasSuffix(p, filepath.Join("salonreviews", "salonreviews.db")) {
		t.Errorf("unexpected default path %q", p)
	}
}

func TestUpsertArtist_OrderAndUpdate(t *testing.T) {
	db := testDB(t)
	seedTwo(t, db)

	if err := UpsertArtist(db, types.Artist{ID: "mia", Name: "Mia Sommer", Avatar: "mia.png"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := UpsertArtist(db, types.Artist{ID: "zoe", Name: "Zoe K."}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	artists, err := ListArtists(db)
	if err != nil {
		t.Fatalf("ListArtists: %v", err)
	}
	var ids []string
	for _, a := range artists {
		ids = append(ids, a.ID)
	}
	if strings.Join(ids, ",") != "mia,leo,zoe" {
		t.Errorf("display order = %v, want mia,leo,zoe", ids)
	}
	if artists[0].Name != "Mia Sommer" || artists[0].Avatar != "mia.png" {
		t.Errorf("update not applied: %+v", artists[0])
	}
}

func TestUpsertArtist_RejectsReservedIDs(t *testing.T) {
	db := testDB(t)
	for _, id := range []string{"", "_all"} {
		err := UpsertArtist(db, types.Artist{ID: id, Name: "x"})
		if !errors.Is(err, ErrReservedID) {
			t.Errorf("UpsertArtist(%q) err = %v, want ErrReservedID", id, err)
		}
	}
}

func TestListReviews(t *testing.T) {
	db := testDB(t)
	seedTwo(t, db)

	all, err := ListReviews(db, "")
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(all) != 3 || all[0].ID != "r2" || all[2].ID != "r1" {
		t.Errorf("expected newest first r2,r3,r1, got %+v", all)
	}

	mia, err := ListReviews(db, "mia")
	if err != nil {
		t.Fatalf("ListReviews(mia): %v", err)
	}
	if len(mia) != 2 {
		t.Fatalf("expected 2 reviews for mia, got %d", len(mia))
	}
	if !mia[0].HasPhoto || !mia[0].Date.Equal(day(2)) {
		t.Errorf("round trip lost fields: %+v", mia[0])
	}
}

func TestInsertReview_Validation(t *testing.T) {
	db := testDB(t)
	seedTwo(t, db)

	if err := InsertReview(db, types.Review{ID: "bad", ArtistID: "mia", UserName: "x", Rating: 6}); err == nil {
		t.Error("expected error for rating 6")
	}
	if err := InsertReview(db, types.Review{ID: "orphan", ArtistID: "ghost", UserName: "x", Rating: 4}); err == nil {
		t.Error("expected foreign key error for unknown artist")
	}
	if err := InsertReview(db, types.Review{ID: "r1", ArtistID: "mia", UserName: "x", Rating: 4}); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestDeleteArtist_CascadesReviews(t *testing.T) {
	db := testDB(t)
	seedTwo(t, db)

	if err := DeleteArtist(db, "mia"); err != nil {
		t.Fatalf("DeleteArtist: %v", err)
	}
	n, err := CountReviews(db)
	if err != nil {
		t.Fatalf("CountReviews: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 review left, got %d", n)
	}
	if err := DeleteArtist(db, "mia"); err == nil {
		t.Error("expected not found error on second delete")
	}
	if _, err := GetArtist(db, "mia"); err == nil {
		t.Error("GetArtist should fail after delete")
	}
}

func TestMarkHelpful(t *testing.T) {
	db := testDB(t)
	seedTwo(t, db)

	for want := 1; want <= 2; want++ {
		n, err := MarkHelpful(db, "r3")
		if err != nil {
			t.Fatalf("MarkHelpful: %v", err)
		}
		if n != want {
			t.Errorf("helpful count = %d, want %d", n, want)
		}
	}
	if _, err := MarkHelpful(db, "nope"); err == nil {
		t.Error("expected not found error")
	}
}

func TestReplaceCatalog(t *testing.T) {
	db := testDB(t)
	seedTwo(t, db)

	err := ReplaceCatalog(db,
		[]types.Artist{{ID: "zoe", Name: "Zoe K."}, {ID: "ivy", Name: "Ivy M."}},
		[]types.Review{{ID: "z1", ArtistID: "ivy", UserName: "Dan", Rating: 5, Date: day(4)}},
	)
	if err != nil {
		t.Fatalf("ReplaceCatalog: %v", err)
	}

	cat, err := LoadCatalog(db)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(cat.Artists) != 2 || cat.Artists[0].ID != "zoe" || cat.Artists[1].ID != "ivy" {
		t.Errorf("artists = %+v", cat.Artists)
	}
	if len(cat.Reviews) != 1 || cat.Reviews[0].ID != "z1" {
		t.Errorf("reviews = %+v", cat.Reviews)
	}

	// A bad batch leaves the previous catalog in place.
	err = ReplaceCatalog(db, []types.Artist{{ID: "_all", Name: "All"}}, nil)
	if !errors.Is(err, ErrReservedID) {
		t.Fatalf("expected ErrReservedID, got %v", err)
	}
	cat, _ = LoadCatalog(db)
	if len(cat.Artists) != 2 {
		t.Errorf("rollback failed, artists = %+v", cat.Artists)
	}
}
