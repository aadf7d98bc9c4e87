package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lotas/salonreviews/internal/types"
)

var now = time.Now

// execer is the part of *sql.DB and *sql.Tx used for writes.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertReview(ex execer, r types.Review) error {
	if r.Rating < types.MinRating || r.Rating > types.MaxRating {
		return fmt.Errorf("review %q: rating %d out of range", r.ID, r.Rating)
	}
	if r.Date.IsZero() {
		r.Date = now()
	}
	_, err := ex.Exec(
		`INSERT INTO reviews (id, artist_id, user_name, rating, date, service, text, has_photo, helpful_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ArtistID, r.UserName, r.Rating, r.Date.UTC(), r.Service, r.Text, r.HasPhoto, r.HelpfulCount,
	)
	if err != nil {
		return fmt.Errorf("insert review %q: %w", r.ID, err)
	}
	return nil
}

// InsertReview stores a new review. The artist must exist.
func InsertReview(db *sql.DB, r types.Review) error {
	return insertReview(db, r)
}

// ListReviews returns reviews newest first. If artistID is non-empty, only
// that artist's reviews are returned.
func ListReviews(db *sql.DB, artistID string) ([]types.Review, error) {
	query := `SELECT id, artist_id, user_name, rating, date, service, text, has_photo, helpful_count
		FROM reviews WHERE 1=1`
	var args []any
	if artistID != "" {
		query += " AND artist_id = ?"
		args = append(args, artistID)
	}
	query += " ORDER BY date DESC, id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var result []types.Review
	for rows.Next() {
		var r types.Review
		if err := rows.Scan(&r.ID, &r.ArtistID, &r.UserName, &r.Rating, &r.Date,
			&r.Service, &r.Text, &r.HasPhoto, &r.HelpfulCount); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return result, nil
}

// MarkHelpful increments a review's helpful count and returns the new value.
func MarkHelpful(db *sql.DB, id string) (int, error) {
	var n int
	err := db.QueryRow(
		"UPDATE reviews SET helpful_count = helpful_count + 1 WHERE id = ? RETURNING helpful_count", id,
	).Scan(&n)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("review %q not found", id)
		}
		return 0, fmt.Errorf("mark helpful: %w", err)
	}
	return n, nil
}

// CountReviews returns the number of stored reviews.
func CountReviews(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM reviews").Scan(&n); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}
