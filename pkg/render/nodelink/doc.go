// Package nodelink renders discograph graphs as node-link diagrams.
//
// # Overview
//
// This package produces static diagrams of an artist's graph using Graphviz:
// the artist as an ellipse, releases as rounded boxes and videos as notes,
// connected by parent → child arrows.
//
// # Usage
//
//	dot := nodelink.ToDOT(state, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Positions
//
// A state whose nodes all carry positions (after
// [graph.State.WithPlacements] with a settled force layout) is rendered with
// those positions pinned, so the image matches what an interactive client
// would show. Otherwise Graphviz's dot engine lays the tree out top to
// bottom.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
//
// [graph.State.WithPlacements]: github.com/matzehuels/discograph/pkg/graph.State.WithPlacements
package nodelink
