// Package pkg provides the core libraries for discograph.
//
// # Overview
//
// Discograph proxies the Discogs catalog and turns an artist into an
// explorable graph: the artist at the root, one node per release, and one
// node per video under each release the user expands. A force simulation
// keeps the graph laid out while it grows.
//
// # Architecture
//
// The data flow from a user action to pixels:
//
//	Discogs API
//	     ↓
//	[integrations/discogs] (HTTP client, wire types)
//	     ↓
//	[gateway] (reshape into [catalog] records, classify errors)
//	     ↓
//	[controller] (search, select, click; discard stale results)
//	     ↓
//	[graph] (immutable states: reset with an artist, expand a release)
//	     ↓
//	[layout] (force simulation → positions)
//	     ↓
//	websocket snapshots, or [render] to JSON/DOT/SVG/PDF/PNG
//
// # Main Packages
//
// [catalog] - Artist, release and video records shared by every layer.
//
// [gateway] - The catalog interface. [gateway.Discogs] talks to Discogs and
// [gateway.Remote] to another discograph server.
//
// [graph] - Graph states, node ids, JSON encoding and validation.
//
// [layout] - Force-directed layout engine with drag support.
//
// [controller] - Serializes user actions against one graph and converts
// failures into user notices.
//
// [session] - Per-client controller and layout pairs with idle expiry.
//
// [render] - Static exports; [render/nodelink] builds Graphviz diagrams.
//
// ## Infrastructure
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Coded errors, HTTP status mapping and input validators.
//
// [httputil] - Retry with exponential backoff for upstream calls.
//
// [integrations] - Shared HTTP client used by the Discogs client.
//
// [observability] - Hooks for graph and upstream HTTP events.
//
// [buildinfo] - Version information set at build time.
//
// # Quick Start
//
//	client := discogs.NewClient(discogs.Options{Token: os.Getenv("DISCOGS_TOKEN")})
//	ctl := controller.New(gateway.NewDiscogs(client), nil, nil)
//
//	hits, _ := ctl.Search(ctx, "Boards of Canada")
//	state, _ := ctl.SelectArtist(ctx, strconv.Itoa(hits[0].ID))
//	state, _ = ctl.ClickNode(ctx, "release-0")
//
//	dot := nodelink.ToDOT(state, nodelink.Options{})
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/catalog
// [gateway]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/gateway
// [gateway.Discogs]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/gateway#Discogs
// [gateway.Remote]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/gateway#Remote
// [graph]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/layout
// [controller]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/controller
// [session]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/session
// [render]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/render/nodelink
// [config]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/httputil
// [integrations]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/integrations
// [integrations/discogs]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/integrations/discogs
// [observability]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/buildinfo
package pkg
