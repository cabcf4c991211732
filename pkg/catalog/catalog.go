// Package catalog defines the stable schema for music-catalog records.
//
// These types sit at the boundary between the upstream metadata service and
// the rest of discograph. Upstream payloads are reshaped into them by
// [github.com/matzehuels/discograph/pkg/gateway], served as JSON by the HTTP
// surface and consumed by the graph model.
//
// # Records
//
//   - [ArtistSummary]: one candidate from a name search (ephemeral)
//   - [ArtistDetail]: an artist and its ordered [ReleaseSummary] list
//   - [ReleaseDetail]: the videos of one release, fetched on expansion
//   - [VideoRef]: a single video attached to a release
//
// The JSON field names are part of the wire contract with browser clients
// and must not change.
package catalog

// ArtistSummary is a search candidate for a free-text artist name.
type ArtistSummary struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`                 // Display title, e.g. "Boards Of Canada"
	Thumb      string `json:"thumb,omitempty"`       // Small image URL
	CoverImage string `json:"cover_image,omitempty"` // Large image URL
}

// ArtistDetail is an artist together with its releases.
// Releases keep upstream order (newest year first).
type ArtistDetail struct {
	ID         int              `json:"id"`
	Name       string           `json:"name"`
	Profile    string           `json:"profile,omitempty"`
	CoverImage string           `json:"cover_image,omitempty"`
	Releases   []ReleaseSummary `json:"-"`
}

// ReleaseSummary is one entry of an artist's discography.
type ReleaseSummary struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Year       int      `json:"year,omitempty"`
	Label      string   `json:"label,omitempty"`
	Genres     []string `json:"genres"`
	CoverImage string   `json:"cover_image,omitempty"`
}

// ReleaseDetail lists the videos attached to a release.
type ReleaseDetail struct {
	ReleaseID int        `json:"release_id"`
	Videos    []VideoRef `json:"videos"`
}

// VideoRef is a single video attached to a release.
type VideoRef struct {
	Title       string `json:"title"`
	URI         string `json:"uri"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration,omitempty"` // Seconds
}

// ArtistDetailResponse is the body of GET /artist-details/{id}.
type ArtistDetailResponse struct {
	Artist   ArtistDetail     `json:"artist"`
	Releases []ReleaseSummary `json:"releases"`
}

// ReleaseDetailResponse is the body of GET /release-details/{id}.
type ReleaseDetailResponse struct {
	Videos []VideoRef `json:"videos"`
}

// NewArtistDetailResponse splits d into the wire shape where releases sit
// next to the artist rather than inside it. A nil release list is encoded as [].
func NewArtistDetailResponse(d ArtistDetail) ArtistDetailResponse {
	releases := d.Releases
	if releases == nil {
		releases = []ReleaseSummary{}
	}
	return ArtistDetailResponse{Artist: d, Releases: releases}
}

// Detail joins a wire response back into a single ArtistDetail.
func (r ArtistDetailResponse) Detail() ArtistDetail {
	d := r.Artist
	d.Releases = r.Releases
	return d
}
