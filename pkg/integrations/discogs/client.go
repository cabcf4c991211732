package discogs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/matzehuels/discograph/pkg/buildinfo"
	"github.com/matzehuels/discograph/pkg/integrations"
)

// DefaultBaseURL is the public Discogs API endpoint.
const DefaultBaseURL = "https://api.discogs.com"

// releasesPerPage is the Discogs maximum page size for artist release listings.
const releasesPerPage = 100

// Options configures a [Client].
type Options struct {
	BaseURL   string        // API root; defaults to DefaultBaseURL
	Token     string        // Personal access token (optional, raises rate limits)
	UserAgent string        // Required by Discogs; defaults to discograph/<version>
	Timeout   time.Duration // Per-request timeout; defaults to integrations.DefaultTimeout
	Retries   int           // Extra attempts on transient failures; 0 disables retries
}

// Client provides access to the Discogs database API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Discogs client.
//
// The token is sent in the Authorization header rather than the query string
// so that it never appears in request logs.
func NewClient(opts Options) *Client {
	ua := opts.UserAgent
	if ua == "" {
		ua = buildinfo.UserAgent()
	}
	headers := map[string]string{
		"User-Agent": ua,
		"Accept":     "application/vnd.discogs.v2.discogs+json",
	}
	if opts.Token != "" {
		headers["Authorization"] = "Discogs token=" + opts.Token
	}

	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(opts.Timeout, opts.Retries, headers),
		baseURL: base,
	}
}

// SearchArtists runs a database search for name restricted to artists.
//
// Returns an empty (non-nil) slice when nothing matches. Results of other
// types that the upstream sometimes mixes in are dropped.
func (c *Client) SearchArtists(ctx context.Context, name string) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("type", "artist")

	var data searchResponse
	if err := c.Get(ctx, c.baseURL+"/database/search?"+q.Encode(), &data); err != nil {
		return nil, err
	}

	artists := make([]SearchResult, 0, len(data.Results))
	for _, r := range data.Results {
		if r.Type == "artist" {
			artists = append(artists, r)
		}
	}
	return artists, nil
}

// FetchArtist retrieves a single artist.
//
// Returns [integrations.ErrNotFound] if the artist doesn't exist or the
// payload carries no id.
func (c *Client) FetchArtist(ctx context.Context, id string) (*Artist, error) {
	var a Artist
	if err := c.Get(ctx, fmt.Sprintf("%s/artists/%s", c.baseURL, integrations.PathEscape(id)), &a); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: artist %s", err, id)
		}
		return nil, err
	}
	if a.ID == 0 {
		return nil, fmt.Errorf("%w: artist %s", integrations.ErrNotFound, id)
	}
	return &a, nil
}

// FetchArtistReleases retrieves the first page of an artist's releases,
// newest year first.
//
// The listing URL is built from the configured base URL rather than the
// releases_url returned upstream, so requests never leave the configured host.
func (c *Client) FetchArtistReleases(ctx context.Context, artistID int) ([]ReleaseEntry, error) {
	q := url.Values{}
	q.Set("sort", "year")
	q.Set("sort_order", "desc")
	q.Set("per_page", fmt.Sprint(releasesPerPage))

	var data releasesResponse
	u := fmt.Sprintf("%s/artists/%d/releases?%s", c.baseURL, artistID, q.Encode())
	if err := c.Get(ctx, u, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return []ReleaseEntry{}, nil
		}
		return nil, err
	}
	if data.Releases == nil {
		return []ReleaseEntry{}, nil
	}
	return data.Releases, nil
}

// FetchRelease retrieves a single release including its videos.
func (c *Client) FetchRelease(ctx context.Context, id string) (*Release, error) {
	var r Release
	if err := c.Get(ctx, fmt.Sprintf("%s/releases/%s", c.baseURL, integrations.PathEscape(id)), &r); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: release %s", err, id)
		}
		return nil, err
	}
	return &r, nil
}
