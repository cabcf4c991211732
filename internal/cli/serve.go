package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/discograph/internal/server"
	"github.com/matzehuels/discograph/pkg/buildinfo"
	"github.com/matzehuels/discograph/pkg/config"
	"github.com/matzehuels/discograph/pkg/session"
)

// serveOpts holds flags that override the [server] config section.
type serveOpts struct {
	addr      string
	staticDir string
	ttl       time.Duration
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Discogs proxy and graph session server",
		Long: `Serve the catalog pass-through endpoints (/artist, /artist-details,
/release-details) together with per-client graph sessions that stream layout
snapshots over a websocket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, opts)
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&opts.staticDir, "static", "", "directory of client files served at /")
	cmd.Flags().DurationVar(&opts.ttl, "session-ttl", 0, "idle time before a session expires")

	return cmd
}

// applyServeFlags copies explicitly set flags over cfg.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config, opts serveOpts) {
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = opts.addr
	}
	if cmd.Flags().Changed("static") {
		cfg.Server.StaticDir = opts.staticDir
	}
	if cmd.Flags().Changed("session-ttl") {
		cfg.Server.SessionTTL.Duration = opts.ttl
	}
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	logger := loggerFromContext(ctx)
	gw := c.newGateway(cfg)
	store := session.NewMemoryStore(gw, cfg.LayoutConfig(), cfg.Server.SessionTTL.Duration, logger)
	srv := server.New(gw, store, server.Options{
		Addr:        cfg.Server.Addr,
		StaticDir:   cfg.Server.StaticDir,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	})

	printSuccess("%s %s listening on %s", appName, buildinfo.Version, StyleHighlight.Render("http://"+cfg.Server.Addr))
	if cfg.Discogs.Token == "" && c.serverURL == "" {
		printWarning("no Discogs token set; requests are rate limited (set %s)", config.EnvDiscogsToken)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	g.Go(func() error { return store.Run(ctx, cfg.Server.CleanupInterval.Duration) })
	return g.Wait()
}
