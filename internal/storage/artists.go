package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lotas/salonreviews/internal/indicator"
	"github.com/lotas/salonreviews/internal/types"
)

// ErrReservedID is returned for artist ids that collide with the "All" tab.
var ErrReservedID = errors.New("artist id is reserved")

func checkArtistID(id string) error {
	if id == "" || id == indicator.AllKey {
		return fmt.Errorf("%w: %q", ErrReservedID, id)
	}
	return nil
}

// UpsertArtist inserts an artist at the end of the display order, or updates
// name and avatar of an existing one in place.
func UpsertArtist(db *sql.DB, a types.Artist) error {
	if err := checkArtistID(a.ID); err != nil {
		return err
	}
	_, err := db.Exec(
		`INSERT INTO artists (id, name, avatar, position)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM artists))
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, avatar = excluded.avatar`,
		a.ID, a.Name, a.Avatar,
	)
	if err != nil {
		return fmt.Errorf("upsert artist %q: %w", a.ID, err)
	}
	return nil
}

// DeleteArtist removes an artist. Their reviews are cascade-deleted.
// Returns an error if the artist does not exist.
func DeleteArtist(db *sql.DB, id string) error {
	res, err := db.Exec("DELETE FROM artists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("artist %q not found", id)
	}
	return nil
}

// ListArtists returns all artists in display order.
func ListArtists(db *sql.DB) ([]types.Artist, error) {
	rows, err := db.Query("SELECT id, name, avatar FROM artists ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("query artists: %w", err)
	}
	defer rows.Close()

	var result []types.Artist
	for rows.Next() {
		var a types.Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Avatar); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return result, nil
}

// GetArtist loads one artist by id.
func GetArtist(db *sql.DB, id string) (types.Artist, error) {
	var a types.Artist
	err := db.QueryRow("SELECT id, name, avatar FROM artists WHERE id = ?", id).Scan(&a.ID, &a.Name, &a.Avatar)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Artist{}, fmt.Errorf("artist %q not found", id)
		}
		return types.Artist{}, fmt.Errorf("query artist: %w", err)
	}
	return a, nil
}

// ReplaceCatalog swaps the stored artists and reviews for the given ones in
// a single transaction. Artist positions follow slice order.
func ReplaceCatalog(db *sql.DB, artists []types.Artist, reviews []types.Review) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM reviews"); err != nil {
		return fmt.Errorf("clear reviews: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM artists"); err != nil {
		return fmt.Errorf("clear artists: %w", err)
	}
	for i, a := range artists {
		if err := checkArtistID(a.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO artists (id, name, avatar, position) VALUES (?, ?, ?, ?)",
			a.ID, a.Name, a.Avatar, i,
		); err != nil {
			return fmt.Errorf("insert artist %q: %w", a.ID, err)
		}
	}
	for _, r := range reviews {
		if err := insertReview(tx, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LoadCatalog reads every artist and review.
func LoadCatalog(db *sql.DB) (*types.Catalog, error) {
	artists, err := ListArtists(db)
	if err != nil {
		return nil, err
	}
	reviews, err := ListReviews(db, "")
	if err != nil {
		return nil, err
	}
	return &types.Catalog{Artists: artists, Reviews: reviews, LoadedAt: now()}, nil
}
