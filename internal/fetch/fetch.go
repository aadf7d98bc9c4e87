// Package fetch imports reviews published on web pages.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lotas/salonreviews/internal/applog"
	"github.com/lotas/salonreviews/internal/types"
)

const (
	maxTextLen   = 2000
	defaultLimit = 4
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var client = &http.Client{Timeout: 15 * time.Second}

// Readable fetches a page and extracts its title and readable text.
// Only http and https URLs are accepted.
func Readable(ctx context.Context, rawURL string) (title, text string, err error) {
	u, err := nurl.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse %s: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", fmt.Errorf("skipping non-HTTP URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, u)
	if err != nil {
		return "", "", fmt.Errorf("extract readable content from %s: %w", rawURL, err)
	}
	return article.Title, article.TextContent, nil
}

// Request describes one review to import from a page.
type Request struct {
	URL      string
	ArtistID string
	Rating   int
	Service  string
	UserName string // defaults to the page host
}

// Review fetches req.URL and turns its readable text into a review.
func Review(ctx context.Context, req Request) (*types.Review, error) {
	if req.Rating < types.MinRating || req.Rating > types.MaxRating {
		return nil, fmt.Errorf("rating %d out of range %d-%d", req.Rating, types.MinRating, types.MaxRating)
	}
	title, text, err := Readable(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	text = clean(text)
	if text == "" {
		text = clean(title)
	}
	if text == "" {
		return nil, fmt.Errorf("no readable text at %s", req.URL)
	}

	user := req.UserName
	if user == "" {
		if u, err := nurl.Parse(req.URL); err == nil {
			user = u.Hostname()
		}
	}
	return &types.Review{
		ID:       uuid.NewString(),
		ArtistID: req.ArtistID,
		UserName: user,
		Rating:   req.Rating,
		Date:     time.Now(),
		Service:  req.Service,
		Text:     text,
	}, nil
}

// Reviews fetches every request concurrently, at most limit at a time
// (limit <= 0 means a small default). Results keep request order. The
// first failure cancels the remaining fetches.
func Reviews(ctx context.Context, reqs []Request, limit int) ([]types.Review, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	out := make([]types.Review, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			r, err := Review(ctx, req)
			if err != nil {
				applog.Error("fetch.review", err, "url", req.URL)
				return err
			}
			applog.Info("fetch.review", "url", req.URL, "chars", len(r.Text))
			out[i] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// clean collapses whitespace and caps the length of extracted text.
func clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxTextLen {
		s = strings.TrimSpace(string(r[:maxTextLen])) + "…"
	}
	return s
}
