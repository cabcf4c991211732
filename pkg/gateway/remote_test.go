package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/discograph/pkg/catalog"
	apperr "github.com/matzehuels/discograph/pkg/errors"
)

func TestRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/artist/Boards of Canada":
			json.NewEncoder(w).Encode([]catalog.ArtistSummary{{ID: 123, Title: "Boards Of Canada"}})
		case "/artist-details/123":
			json.NewEncoder(w).Encode(catalog.NewArtistDetailResponse(catalog.ArtistDetail{
				ID:       123,
				Name:     "Boards of Canada",
				Releases: []catalog.ReleaseSummary{{ID: 10, Title: "Geogaddi"}},
			}))
		case "/release-details/10":
			json.NewEncoder(w).Encode(catalog.ReleaseDetailResponse{Videos: []catalog.VideoRef{{Title: "a"}}})
		case "/artist-details/500":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "failed"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "not found"}`))
		}
	}))
	defer server.Close()

	g := NewRemote(server.URL+"/", time.Second)
	ctx := context.Background()

	hits, err := g.SearchArtists(ctx, "Boards of Canada")
	if err != nil || len(hits) != 1 || hits[0].ID != 123 {
		t.Fatalf("SearchArtists = %v, %v", hits, err)
	}

	d, err := g.GetArtistDetail(ctx, "123")
	if err != nil {
		t.Fatalf("GetArtistDetail failed: %v", err)
	}
	if d.Name != "Boards of Canada" || len(d.Releases) != 1 || d.Releases[0].ID != 10 {
		t.Errorf("detail = %+v", d)
	}

	videos, err := g.GetReleaseVideos(ctx, "10")
	if err != nil || len(videos) != 1 {
		t.Errorf("GetReleaseVideos = %v, %v", videos, err)
	}

	if _, err := g.GetArtistDetail(ctx, "500"); !apperr.Is(err, apperr.ErrCodeUpstream) {
		t.Errorf("500 error = %v, want UPSTREAM_ERROR", err)
	}
	if _, err := g.GetReleaseVideos(ctx, "77"); !apperr.Is(err, apperr.ErrCodeNotFound) {
		t.Errorf("404 error = %v, want NOT_FOUND", err)
	}
}
