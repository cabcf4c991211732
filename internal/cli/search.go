package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/discograph/pkg/catalog"
	"github.com/matzehuels/discograph/pkg/controller"
)

func (c *CLI) searchCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "search <artist name>",
		Short:   "Search the catalog for artists by name",
		Example: `  discograph search "Boards of Canada"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctl := controller.New(c.newGateway(cfg), nil, c.Logger)
			return runSearch(cmd.Context(), ctl, strings.Join(args, " "), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON results")

	return cmd
}

func runSearch(ctx context.Context, ctl *controller.Controller, name string, asJSON bool) error {
	prog := newProgress(loggerFromContext(ctx))
	hits, err := spin(ctx, "Searching "+name, func(ctx context.Context) ([]catalog.ArtistSummary, error) {
		return ctl.Search(ctx, name)
	})
	if err != nil {
		if n := controller.NoticeFor(err); !n.IsZero() && !asJSON {
			printNotice(n)
			return nil
		}
		return err
	}
	prog.done(fmt.Sprintf("Found %d artists", len(hits)))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	fmt.Println(artistTable(hits))
	if len(hits) > 0 {
		printNextStep("Build a graph", fmt.Sprintf("%s graph %d", appName, hits[0].ID))
	}
	return nil
}

// artistTable renders search hits as a bordered table.
func artistTable(hits []catalog.ArtistSummary) string {
	rows := make([][]string, len(hits))
	for i, h := range hits {
		rows[i] = []string{strconv.Itoa(h.ID), h.Title}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Artist").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}
