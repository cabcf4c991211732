// Package gateway resolves artist names and catalog ids into discograph's
// catalog records.
//
// A [Gateway] hides where the data comes from. [Discogs] talks to the
// upstream API directly and reshapes its payloads; [Remote] talks to a running
// discograph server's pass-through endpoints, which already serve the
// reshaped records.
//
// # Errors
//
// Every failure is a *errors.Error carrying one of:
//
//   - NOT_FOUND: the request was valid but nothing matched
//   - UPSTREAM_ERROR: transport failure, timeout or 5xx upstream
//   - INVALID_INPUT: a malformed id, rejected before any request
//
// A search with zero matches is not an error: it yields an empty slice.
package gateway

import (
	"context"
	"errors"

	"github.com/matzehuels/discograph/pkg/catalog"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/integrations"
)

// Gateway resolves catalog lookups. Implementations are safe for concurrent use.
type Gateway interface {
	// SearchArtists returns artist candidates for a free-text name, in
	// upstream relevance order. Zero matches yield an empty slice.
	SearchArtists(ctx context.Context, name string) ([]catalog.ArtistSummary, error)

	// GetArtistDetail returns an artist and its releases, newest first.
	GetArtistDetail(ctx context.Context, artistID string) (*catalog.ArtistDetail, error)

	// GetReleaseVideos returns the videos attached to a release. A release
	// without any video data is NOT_FOUND; an empty video list is not.
	GetReleaseVideos(ctx context.Context, releaseID string) ([]catalog.VideoRef, error)
}

// classify converts a transport-level error into a coded error.
func classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var coded *apperr.Error
	if errors.As(err, &coded) {
		return err
	}
	if errors.Is(err, integrations.ErrNotFound) {
		return apperr.Wrap(apperr.ErrCodeNotFound, err, format, args...)
	}
	return apperr.Wrap(apperr.ErrCodeUpstream, err, format, args...)
}
