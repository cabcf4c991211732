package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/discograph/pkg/controller"
)

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [artist name]",
		Short: "Explore an artist's releases and videos interactively",
		Long: `Search for an artist, pick one, and walk their releases as a tree.
Pressing enter on a release fetches its videos.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			// Logs would tear the alt screen.
			c.SetLogLevel(LogError)

			ctl := controller.New(c.newGateway(cfg), nil, c.Logger)
			model := NewBrowseModel(cmd.Context(), ctl, strings.Join(args, " "))
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
