// Package graph holds the incrementally built artist → release → video graph.
//
// # Overview
//
// A [State] is a forest with a single root: the currently selected artist.
// Release nodes hang off the artist, and video nodes hang off the release
// they were expanded from. Every node is keyed by a stable identifier so the
// same data can be merged any number of times without creating duplicates.
//
// # Lifecycle
//
//	Empty ──ResetWithArtist──▶ Seeded ──ExpandRelease──▶ Expanded
//	  ▲                          ▲                          │
//	  └── New                    └──────ResetWithArtist─────┘
//
// [ResetWithArtist] discards any previous graph. [State.ExpandRelease] only
// ever appends. Nothing is removed until the next reset.
//
// # Values, not handles
//
// States are copy-on-write. Every mutation returns a new *State and leaves
// the receiver untouched, so a state can be handed to a renderer or a layout
// engine while the owner keeps mutating its own copy:
//
//	s := graph.ResetWithArtist(artist)
//	s2, err := s.ExpandRelease("release-0", videos)
//	// s still has no video nodes
//
// # Identifiers
//
//	artist:  decimal upstream id                 "123"
//	release: release-<index in artist listing>   "release-0"
//	video:   video-<release node id>-<index>     "video-release-0-1"
//
// Release nodes carry the upstream release id under [MetaReleaseID] so that
// expansion can fetch the release detail.
//
// # Serialization
//
// [State] marshals to the node/link JSON consumed by browser clients:
//
//	{
//	  "phase": "seeded",
//	  "root": "123",
//	  "nodes": [{"id": "123", "kind": "artist", "name": "Boards of Canada"}, ...],
//	  "links": [{"source": "123", "target": "release-0"}, ...]
//	}
//
// Use [WriteGraph] and [ReadGraph] for streams. [ReadGraph] validates the
// decoded graph and rejects anything that is not a well-formed forest.
package graph
