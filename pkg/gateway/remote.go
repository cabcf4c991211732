package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/discograph/pkg/buildinfo"
	"github.com/matzehuels/discograph/pkg/catalog"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/integrations"
)

// Remote is a [Gateway] that talks to a running discograph server.
// It lets the CLI share one server's upstream token and configuration.
type Remote struct {
	client  *integrations.Client
	baseURL string
}

// NewRemote creates a Gateway for the discograph server at baseURL
// (e.g. "http://localhost:4000").
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	return &Remote{
		client:  integrations.NewClient(timeout, 0, headers),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchArtists implements [Gateway].
func (g *Remote) SearchArtists(ctx context.Context, name string) ([]catalog.ArtistSummary, error) {
	if err := apperr.ValidateArtistName(name); err != nil {
		return nil, err
	}
	var out []catalog.ArtistSummary
	if err := g.client.Get(ctx, g.baseURL+"/artist/"+integrations.PathEscape(name), &out); err != nil {
		return nil, classify(err, "search artists %q", name)
	}
	if out == nil {
		out = []catalog.ArtistSummary{}
	}
	return out, nil
}

// GetArtistDetail implements [Gateway].
func (g *Remote) GetArtistDetail(ctx context.Context, artistID string) (*catalog.ArtistDetail, error) {
	if err := apperr.ValidateID("artist", artistID); err != nil {
		return nil, err
	}
	var resp catalog.ArtistDetailResponse
	if err := g.client.Get(ctx, g.baseURL+"/artist-details/"+artistID, &resp); err != nil {
		return nil, classify(err, "fetch artist %s", artistID)
	}
	d := resp.Detail()
	if d.Releases == nil {
		d.Releases = []catalog.ReleaseSummary{}
	}
	return &d, nil
}

// GetReleaseVideos implements [Gateway].
func (g *Remote) GetReleaseVideos(ctx context.Context, releaseID string) ([]catalog.VideoRef, error) {
	if err := apperr.ValidateID("release", releaseID); err != nil {
		return nil, err
	}
	var resp catalog.ReleaseDetailResponse
	if err := g.client.Get(ctx, g.baseURL+"/release-details/"+releaseID, &resp); err != nil {
		return nil, classify(err, "fetch release %s", releaseID)
	}
	if resp.Videos == nil {
		return []catalog.VideoRef{}, nil
	}
	return resp.Videos, nil
}
