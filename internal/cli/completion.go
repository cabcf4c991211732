package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints a completion script for the requested shell.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for discograph.

Completions cover subcommands, the graph export formats (-f svg,<TAB>) and
--expand all.

  $ source <(discograph completion bash)
  $ discograph completion zsh > "${fpath[1]}/_discograph"
  $ discograph completion fish > ~/.config/fish/completions/discograph.fish
  PS> discograph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// registerGraphCompletions wires flag completion for the graph command.
func registerGraphCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("expand", completeExpand)
	_ = cmd.MarkFlagFilename("input", "json")
}

// completeFormats completes the last entry of a comma-separated format list,
// leaving out formats already given.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	var used []string
	for _, f := range strings.Split(prefix, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			used = append(used, f)
		}
	}

	var out []string
	for _, f := range validFormats {
		if slices.Contains(used, f) || !strings.HasPrefix(f, strings.ToLower(last)) {
			continue
		}
		out = append(out, prefix+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeExpand offers "all". Release node ids depend on the artist and are
// not known until it is fetched.
func completeExpand(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if strings.HasPrefix(expandAll, toComplete) {
		return []string{expandAll + "\texpand every release"}, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
