package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/discograph/pkg/integrations"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{BaseURL: server.URL, Token: "tok", Timeout: time.Second})
}

func TestNewClient(t *testing.T) {
	c := NewClient(Options{})
	if c.Client == nil {
		t.Error("expected client to be initialized")
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
}

func TestClientHeaders(t *testing.T) {
	var auth, ua string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		ua = r.Header.Get("User-Agent")
		if r.URL.Query().Get("token") != "" {
			t.Error("token must not be sent in the query string")
		}
		json.NewEncoder(w).Encode(searchResponse{})
	})

	if _, err := c.SearchArtists(context.Background(), "x"); err != nil {
		t.Fatalf("SearchArtists failed: %v", err)
	}
	if auth != "Discogs token=tok" {
		t.Errorf("Authorization = %q", auth)
	}
	if !strings.HasPrefix(ua, "discograph/") {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestClient_SearchArtists(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/database/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Boards of Canada" || q.Get("type") != "artist" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(searchResponse{Results: []SearchResult{
			{ID: 123, Type: "artist", Title: "Boards Of Canada", Thumb: "t.jpg"},
			{ID: 9, Type: "release", Title: "Geogaddi"},
			{ID: 456, Type: "artist", Title: "Boards Of Canada Tribute"},
		}})
	})

	got, err := c.SearchArtists(context.Background(), "Boards of Canada")
	if err != nil {
		t.Fatalf("SearchArtists failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 artists", len(got))
	}
	if got[0].ID != 123 || got[1].ID != 456 {
		t.Errorf("results = %+v", got)
	}
}

func TestClient_SearchArtistsEmpty(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	})

	got, err := c.SearchArtists(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("SearchArtists failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestClient_FetchArtist(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/artists/123":
			w.Write([]byte(`{
				"id": 123,
				"name": "Boards of Canada",
				"profile": "Scottish duo",
				"releases_url": "https://api.discogs.com/artists/123/releases",
				"images": [
					{"type": "primary", "resource_url": "https://img/1.jpg"},
					{"type": "secondary", "resource_url": "https://img/2.jpg"}
				]
			}`))
		case "/artists/7":
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	a, err := c.FetchArtist(context.Background(), "123")
	if err != nil {
		t.Fatalf("FetchArtist failed: %v", err)
	}
	if a.Name != "Boards of Canada" || a.Profile != "Scottish duo" {
		t.Errorf("artist = %+v", a)
	}
	if a.CoverImage() != "https://img/1.jpg" {
		t.Errorf("CoverImage() = %q", a.CoverImage())
	}

	for _, id := range []string{"7", "999"} {
		if _, err := c.FetchArtist(context.Background(), id); !errors.Is(err, integrations.ErrNotFound) {
			t.Errorf("FetchArtist(%s) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestArtistCoverImageNoImages(t *testing.T) {
	a := &Artist{ID: 1}
	if a.CoverImage() != "" {
		t.Errorf("CoverImage() = %q, want empty", a.CoverImage())
	}
}

func TestClient_FetchArtistReleases(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artists/123/releases" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		q := r.URL.Query()
		if q.Get("sort") != "year" || q.Get("sort_order") != "desc" {
			t.Errorf("query = %v, want year desc", q)
		}
		w.Write([]byte(`{
			"pagination": {"page": 1, "pages": 1},
			"releases": [
				{"id": 2, "title": "Tomorrow's Harvest", "year": 2013, "label": "Warp", "thumb": "a.jpg", "genre": ["Electronic"]},
				{"id": 1, "title": "Geogaddi", "year": 2002}
			]
		}`))
	})

	got, err := c.FetchArtistReleases(context.Background(), 123)
	if err != nil {
		t.Fatalf("FetchArtistReleases failed: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Tomorrow's Harvest" {
		t.Fatalf("releases = %+v", got)
	}
	if got[1].Genre != nil {
		t.Errorf("missing genre should decode as nil, got %v", got[1].Genre)
	}

	none, err := c.FetchArtistReleases(context.Background(), 5)
	if err != nil {
		t.Fatalf("FetchArtistReleases(5) failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("missing listing = %v, want empty slice", none)
	}
}

func TestClient_FetchRelease(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/releases/1":
			w.Write([]byte(`{"id": 1, "title": "Geogaddi", "videos": [
				{"uri": "https://youtu.be/a", "title": "Music Is Math", "duration": 321},
				{"uri": "https://youtu.be/b", "title": "Dawn Chorus"}
			]}`))
		case "/releases/2":
			w.Write([]byte(`{"id": 2, "title": "Empty", "videos": []}`))
		case "/releases/3":
			w.Write([]byte(`{"id": 3, "title": "No Field"}`))
		case "/releases/500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	r, err := c.FetchRelease(ctx, "1")
	if err != nil {
		t.Fatalf("FetchRelease failed: %v", err)
	}
	if r.Videos == nil || len(*r.Videos) != 2 || (*r.Videos)[0].Duration != 321 {
		t.Errorf("videos = %+v", r.Videos)
	}

	r, _ = c.FetchRelease(ctx, "2")
	if r.Videos == nil || len(*r.Videos) != 0 {
		t.Errorf("empty videos field should decode to empty slice, got %v", r.Videos)
	}

	r, _ = c.FetchRelease(ctx, "3")
	if r.Videos != nil {
		t.Errorf("absent videos field should decode to nil, got %v", *r.Videos)
	}

	if _, err := c.FetchRelease(ctx, "404"); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if _, err := c.FetchRelease(ctx, "500"); !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}
