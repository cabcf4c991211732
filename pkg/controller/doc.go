// Package controller turns user actions into graph changes.
//
// # Actions
//
//   - [Controller.Search]: free-text artist search, no graph change
//   - [Controller.SelectArtist]: replace the graph with an artist and its releases
//   - [Controller.ClickNode]: expand a release into its videos
//
// Each action makes at most one blocking gateway round trip and returns the
// resulting graph together with a coded error. [NoticeFor] turns that error
// into the message a user should see, if any.
//
// # Ordering
//
// Selections are numbered. A response that arrives after a newer selection
// has started is dropped with SUPERSEDED, so the graph always shows the
// artist the user picked last, regardless of the order in which upstream
// responses arrive. Expansions belong to the selection they started under
// and are dropped the same way.
//
// # Usage
//
//	engine := layout.New(layout.DefaultConfig())
//	c := controller.New(gateway.NewDiscogs(client), engine, logger)
//
//	hits, err := c.Search(ctx, "Boards of Canada")
//	state, err := c.SelectArtist(ctx, strconv.Itoa(hits[0].ID))
//	state, err = c.ClickNode(ctx, "release-0")
//	if n := controller.NoticeFor(err); !n.IsZero() {
//	    fmt.Println(n.Message)
//	}
package controller
