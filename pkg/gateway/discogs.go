package gateway

import (
	"context"

	"github.com/matzehuels/discograph/pkg/catalog"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/integrations/discogs"
)

// Discogs is a [Gateway] backed by the Discogs API.
type Discogs struct {
	client *discogs.Client
}

// NewDiscogs creates a Gateway that calls Discogs through client.
func NewDiscogs(client *discogs.Client) *Discogs {
	return &Discogs{client: client}
}

// SearchArtists implements [Gateway].
func (g *Discogs) SearchArtists(ctx context.Context, name string) ([]catalog.ArtistSummary, error) {
	if err := apperr.ValidateArtistName(name); err != nil {
		return nil, err
	}
	hits, err := g.client.SearchArtists(ctx, name)
	if err != nil {
		return nil, classify(err, "search artists %q", name)
	}

	out := make([]catalog.ArtistSummary, 0, len(hits))
	for _, h := range hits {
		out = append(out, catalog.ArtistSummary{
			ID:         h.ID,
			Title:      h.Title,
			Thumb:      h.Thumb,
			CoverImage: h.CoverImage,
		})
	}
	return out, nil
}

// GetArtistDetail implements [Gateway].
func (g *Discogs) GetArtistDetail(ctx context.Context, artistID string) (*catalog.ArtistDetail, error) {
	if err := apperr.ValidateID("artist", artistID); err != nil {
		return nil, err
	}
	a, err := g.client.FetchArtist(ctx, artistID)
	if err != nil {
		return nil, classify(err, "fetch artist %s", artistID)
	}
	entries, err := g.client.FetchArtistReleases(ctx, a.ID)
	if err != nil {
		return nil, classify(err, "fetch releases of artist %s", artistID)
	}

	releases := make([]catalog.ReleaseSummary, 0, len(entries))
	for _, e := range entries {
		genres := e.Genre
		if genres == nil {
			genres = []string{}
		}
		releases = append(releases, catalog.ReleaseSummary{
			ID:         e.ID,
			Title:      e.Title,
			Year:       e.Year,
			Label:      e.Label,
			Genres:     genres,
			CoverImage: e.Thumb,
		})
	}
	return &catalog.ArtistDetail{
		ID:         a.ID,
		Name:       a.Name,
		Profile:    a.Profile,
		CoverImage: a.CoverImage(),
		Releases:   releases,
	}, nil
}

// GetReleaseVideos implements [Gateway].
func (g *Discogs) GetReleaseVideos(ctx context.Context, releaseID string) ([]catalog.VideoRef, error) {
	if err := apperr.ValidateID("release", releaseID); err != nil {
		return nil, err
	}
	r, err := g.client.FetchRelease(ctx, releaseID)
	if err != nil {
		return nil, classify(err, "fetch release %s", releaseID)
	}
	if r.Videos == nil {
		return nil, apperr.New(apperr.ErrCodeNotFound, "release %s has no video data", releaseID)
	}

	videos := make([]catalog.VideoRef, 0, len(*r.Videos))
	for _, v := range *r.Videos {
		videos = append(videos, catalog.VideoRef{
			Title:       v.Title,
			URI:         v.URI,
			Description: v.Description,
			Duration:    v.Duration,
		})
	}
	return videos, nil
}
