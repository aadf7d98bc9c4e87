package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const reviewPage = `<!DOCTYPE html>
<html><head><title>Best balayage in town</title></head>
<body>
<article>
<h1>Best balayage in town</h1>
<p>Mia took the time to understand exactly what I wanted and the colour came out even better than the reference photo. The salon was calm and the coffee was great.</p>
<p>I have had my hair done in many places over the years and this was by far the most relaxed appointment. Booking again for the autumn refresh without a doubt.</p>
</article>
</body></html>`

func pageServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(reviewPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReadable(t *testing.T) {
	srv := pageServer(t, nil)

	title, text, err := Readable(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title == "" {
		t.Error("expected non-empty title")
	}
	if !strings.Contains(text, "understand exactly what I wanted") {
		t.Errorf("expected article text, got %q", text)
	}
}

func TestReadable_SkipsNonHTTP(t *testing.T) {
	for _, u := range []string{"about:blank", "file:///tmp/review.html", "data:text/html,hi"} {
		if _, _, err := Readable(context.Background(), u); err == nil {
			t.Errorf("expected error for %q, got nil", u)
		}
	}
}

func TestReadable_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><head><title>T</title></head><body><p>text</p></body></html>`))
	}))
	defer srv.Close()

	Readable(context.Background(), srv.URL)
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("expected browser-like User-Agent, got %q", gotUA)
	}
}

func TestReview(t *testing.T) {
	srv := pageServer(t, nil)

	r, err := Review(context.Background(), Request{URL: srv.URL, ArtistID: "mia", Rating: 5, Service: "Balayage"})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if r.ID == "" || r.ArtistID != "mia" || r.Rating != 5 || r.Service != "Balayage" {
		t.Errorf("unexpected review %+v", r)
	}
	if r.UserName != "127.0.0.1" {
		t.Errorf("user name = %q, want page host", r.UserName)
	}
	if strings.Contains(r.Text, "\n") {
		t.Error("text should have collapsed whitespace")
	}
}

func TestReview_RejectsBadRating(t *testing.T) {
	if _, err := Review(context.Background(), Request{URL: "http://example.invalid", Rating: 7}); err == nil {
		t.Error("expected rating error")
	}
}

func TestReviews_KeepsOrderAndFailsFast(t *testing.T) {
	var hits atomic.Int32
	srv := pageServer(t, &hits)

	reqs := []Request{
		{URL: srv.URL + "/a", ArtistID: "mia", Rating: 5, UserName: "Ana"},
		{URL: srv.URL + "/b", ArtistID: "leo", Rating: 4, UserName: "Ben"},
	}
	got, err := Reviews(context.Background(), reqs, 2)
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if len(got) != 2 || got[0].UserName != "Ana" || got[1].UserName != "Ben" {
		t.Errorf("unexpected order: %+v", got)
	}

	reqs = append(reqs, Request{URL: srv.URL + "/missing", ArtistID: "mia", Rating: 3})
	if _, err := Reviews(context.Background(), reqs, 0); err == nil {
		t.Error("expected error for 404 page")
	}
}

func TestClean(t *testing.T) {
	if got := clean("  a \n\n b\tc "); got != "a b c" {
		t.Errorf("clean = %q", got)
	}
	long := strings.Repeat("x", maxTextLen+10)
	if got := clean(long); len([]rune(got)) != maxTextLen+1 {
		t.Errorf("clean length = %d, want %d", len([]rune(got)), maxTextLen+1)
	}
}
