// Package discogs provides an HTTP client for the Discogs database API.
//
// # Overview
//
// This package fetches artist, release and video metadata from Discogs
// (https://api.discogs.com). It returns upstream-shaped records; reshaping
// into discograph's own schema happens in the gateway package.
//
// # Usage
//
//	client := discogs.NewClient(discogs.Options{Token: os.Getenv("DISCOGS_TOKEN")})
//
//	hits, err := client.SearchArtists(ctx, "Boards of Canada")
//	artist, err := client.FetchArtist(ctx, "123")
//	releases, err := client.FetchArtistReleases(ctx, artist.ID)
//	release, err := client.FetchRelease(ctx, "456")
//
// # Authentication
//
// Discogs accepts anonymous requests at a low rate limit. A personal token
// is sent as "Authorization: Discogs token=...". Every request carries a
// User-Agent, which Discogs requires.
//
// # Releases
//
// Artist release listings are sorted by year, newest first, and only the
// first page (up to 100 entries) is fetched. An artist without a release
// listing yields an empty slice.
//
// # Videos
//
// [Release.Videos] distinguishes a payload without a videos field (nil) from
// one with an empty list. Callers use the difference to tell "no video data"
// apart from "no videos".
package discogs
