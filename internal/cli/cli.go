// Package cli implements the discograph command-line interface.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/discograph/pkg/buildinfo"
	"github.com/matzehuels/discograph/pkg/config"
	"github.com/matzehuels/discograph/pkg/gateway"
	"github.com/matzehuels/discograph/pkg/integrations/discogs"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "discograph"

	// remoteTimeout bounds calls to a discograph server given with --server.
	remoteTimeout = 15 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config
	serverURL  string // --server
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Discograph explores an artist's releases and videos as a graph",
		Long: `Discograph proxies the Discogs catalog and builds an interactive graph of an
artist, their releases and the videos attached to each release.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/discograph/config.toml)")
	root.PersistentFlags().StringVar(&c.serverURL, "server", "", "query a running discograph server instead of Discogs")
	_ = root.MarkPersistentFlagFilename("config", "toml")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, path, exists, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		c.Logger.Debug("loaded config", "path", path)
	} else {
		c.Logger.Debug("no config file, using defaults", "path", path)
	}
	return cfg, nil
}

// newGateway returns the catalog source for commands: a remote discograph
// server when --server is set, Discogs otherwise.
func (c *CLI) newGateway(cfg *config.Config) gateway.Gateway {
	if c.serverURL != "" {
		c.Logger.Debug("using remote gateway", "server", c.serverURL)
		return gateway.NewRemote(c.serverURL, remoteTimeout)
	}
	return gateway.NewDiscogs(discogs.NewClient(cfg.DiscogsOptions()))
}
