package graph

import (
	"fmt"
	"strconv"
)

// ArtistNodeID returns the node id of the artist with upstream id id.
func ArtistNodeID(id int) string { return strconv.Itoa(id) }

// ReleaseNodeID returns the node id of the release at index i of the artist's listing.
func ReleaseNodeID(i int) string { return fmt.Sprintf("release-%d", i) }

// VideoNodeID returns the node id of the i-th video of a release node.
func VideoNodeID(releaseNodeID string, i int) string {
	return fmt.Sprintf("video-%s-%d", releaseNodeID, i)
}
