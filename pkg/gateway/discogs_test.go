package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/integrations/discogs"
)

// fakeDiscogs serves a tiny slice of the Discogs API.
func fakeDiscogs(t *testing.T, calls *atomic.Int32) *Discogs {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/database/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "nobody" {
			w.Write([]byte(`{"results": []}`))
			return
		}
		w.Write([]byte(`{"results": [
			{"id": 123, "type": "artist", "title": "Boards Of Canada", "thumb": "t.jpg", "cover_image": "c.jpg"},
			{"id": 5, "type": "master", "title": "Music Has The Right To Children"}
		]}`))
	})
	mux.HandleFunc("/artists/123", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 123, "name": "Boards of Canada", "profile": "duo",
			"images": [{"resource_url": "https://img/boc.jpg"}]}`))
	})
	mux.HandleFunc("/artists/123/releases", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"releases": [
			{"id": 11, "title": "Tomorrow's Harvest", "year": 2013, "label": "Warp", "thumb": "th.jpg", "genre": ["Electronic"]},
			{"id": 10, "title": "Geogaddi", "year": 2002}
		]}`))
	})
	mux.HandleFunc("/artists/42", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 42, "name": "Nobody Yet"}`))
	})
	mux.HandleFunc("/artists/42/releases", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"releases": []}`))
	})
	mux.HandleFunc("/artists/500", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/releases/10", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 10, "videos": [
			{"uri": "https://youtu.be/a", "title": "Music Is Math", "description": "d", "duration": 321},
			{"uri": "https://youtu.be/b", "title": "Dawn Chorus"}
		]}`))
	})
	mux.HandleFunc("/releases/11", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 11, "videos": []}`))
	})
	mux.HandleFunc("/releases/12", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 12}`))
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	return NewDiscogs(discogs.NewClient(discogs.Options{BaseURL: server.URL, Timeout: time.Second}))
}

func TestDiscogsSearchArtists(t *testing.T) {
	g := fakeDiscogs(t, nil)

	got, err := g.SearchArtists(context.Background(), "Boards of Canada")
	if err != nil {
		t.Fatalf("SearchArtists failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].ID != 123 || got[0].Title != "Boards Of Canada" || got[0].CoverImage != "c.jpg" {
		t.Errorf("candidate = %+v", got[0])
	}

	none, err := g.SearchArtists(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("SearchArtists(nobody) failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("zero matches = %v, want empty slice", none)
	}
}

func TestDiscogsSearchBlankNameMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	g := fakeDiscogs(t, &calls)

	_, err := g.SearchArtists(context.Background(), "  ")
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
	if calls.Load() != 0 {
		t.Errorf("upstream called %d times, want 0", calls.Load())
	}
}

func TestDiscogsGetArtistDetail(t *testing.T) {
	g := fakeDiscogs(t, nil)

	d, err := g.GetArtistDetail(context.Background(), "123")
	if err != nil {
		t.Fatalf("GetArtistDetail failed: %v", err)
	}
	if d.ID != 123 || d.Name != "Boards of Canada" || d.CoverImage != "https://img/boc.jpg" {
		t.Errorf("detail = %+v", d)
	}
	if len(d.Releases) != 2 {
		t.Fatalf("releases = %d, want 2", len(d.Releases))
	}
	first := d.Releases[0]
	if first.ID != 11 || first.Label != "Warp" || first.CoverImage != "th.jpg" || first.Year != 2013 {
		t.Errorf("first release = %+v", first)
	}
	if d.Releases[1].Genres == nil {
		t.Error("missing genres should become an empty slice")
	}
}

func TestDiscogsGetArtistDetailNoReleases(t *testing.T) {
	g := fakeDiscogs(t, nil)

	d, err := g.GetArtistDetail(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetArtistDetail failed: %v", err)
	}
	if d.Releases == nil || len(d.Releases) != 0 {
		t.Errorf("releases = %v, want empty slice", d.Releases)
	}
}

func TestDiscogsErrors(t *testing.T) {
	g := fakeDiscogs(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want apperr.Code
	}{
		{"unknown artist", func() error { _, err := g.GetArtistDetail(ctx, "999"); return err }, apperr.ErrCodeNotFound},
		{"upstream 500", func() error { _, err := g.GetArtistDetail(ctx, "500"); return err }, apperr.ErrCodeUpstream},
		{"bad artist id", func() error { _, err := g.GetArtistDetail(ctx, "abc"); return err }, apperr.ErrCodeInvalidInput},
		{"unknown release", func() error { _, err := g.GetReleaseVideos(ctx, "999"); return err }, apperr.ErrCodeNotFound},
		{"release without videos field", func() error { _, err := g.GetReleaseVideos(ctx, "12"); return err }, apperr.ErrCodeNotFound},
		{"bad release id", func() error { _, err := g.GetReleaseVideos(ctx, "release-0"); return err }, apperr.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if got := apperr.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestDiscogsGetReleaseVideos(t *testing.T) {
	g := fakeDiscogs(t, nil)

	videos, err := g.GetReleaseVideos(context.Background(), "10")
	if err != nil {
		t.Fatalf("GetReleaseVideos failed: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("videos = %d, want 2", len(videos))
	}
	if videos[0].Title != "Music Is Math" || videos[0].Duration != 321 || videos[1].URI != "https://youtu.be/b" {
		t.Errorf("videos = %+v", videos)
	}

	empty, err := g.GetReleaseVideos(context.Background(), "11")
	if err != nil {
		t.Fatalf("GetReleaseVideos(11) failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty videos = %v, want empty slice", empty)
	}
}
