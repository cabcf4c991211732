package discogs

// SearchResult is one hit from the database search endpoint.
// Only results whose Type is "artist" are returned by [Client.SearchArtists].
type SearchResult struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`  // "artist", "release", "master" or "label"
	Title       string `json:"title"` // Display title
	Thumb       string `json:"thumb"`
	CoverImage  string `json:"cover_image"`
	ResourceURL string `json:"resource_url"`
}

// Artist is the payload of /artists/{id}.
type Artist struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Profile     string  `json:"profile"`
	ReleasesURL string  `json:"releases_url"`
	Images      []Image `json:"images"`
}

// CoverImage returns the resource URL of the artist's first image, or "".
func (a *Artist) CoverImage() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0].ResourceURL
}

// Image is an artist or release image.
type Image struct {
	Type        string `json:"type"` // "primary" or "secondary"
	URI         string `json:"uri"`
	ResourceURL string `json:"resource_url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// ReleaseEntry is one item of an artist's release listing.
type ReleaseEntry struct {
	ID     int      `json:"id"`
	Type   string   `json:"type"` // "release" or "master"
	Title  string   `json:"title"`
	Year   int      `json:"year"`
	Label  string   `json:"label"`
	Genre  []string `json:"genre"`
	Thumb  string   `json:"thumb"`
	Role   string   `json:"role"`
	Artist string   `json:"artist"`
}

// Release is the payload of /releases/{id}.
//
// Videos is nil when the payload carries no videos field at all, and points
// to an empty slice when the field is present but empty.
type Release struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Year   int      `json:"year"`
	Videos *[]Video `json:"videos"`
}

// Video is a single video attached to a release.
type Video struct {
	URI         string `json:"uri"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"` // Seconds
	Embed       bool   `json:"embed"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

type releasesResponse struct {
	Pagination struct {
		Page  int `json:"page"`
		Pages int `json:"pages"`
	} `json:"pagination"`
	Releases []ReleaseEntry `json:"releases"`
}
