// Package completion provides the shell completion command.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

type shell struct {
	name  string
	usage string
	gen   func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		usage: `  source <(eventmap completion bash)

  # Every new session (Linux)
  eventmap completion bash > /etc/bash_completion.d/eventmap`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	},
	{
		name: "zsh",
		usage: `  source <(eventmap completion zsh)

  # Every new session
  eventmap completion zsh > "${fpath[1]}/_eventmap"`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name: "fish",
		usage: `  eventmap completion fish | source

  # Every new session
  eventmap completion fish > ~/.config/fish/completions/eventmap.fish`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name:  "powershell",
		usage: `  eventmap completion powershell | Out-String | Invoke-Expression`,
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCommand creates the completion command with one subcommand per shell.
// It replaces Cobra's generated completion command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Completion writes the autocompletion script for a shell to stdout.

Event ids, categories and decades are completed from the collection file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	for _, sh := range shells {
		cmd.AddCommand(&cobra.Command{
			Use:                   sh.name,
			Short:                 "Generate " + sh.name + " completion script",
			Long:                  "Generate the autocompletion script for " + sh.name + ".\n\nTo load completions in your current shell session:\n\n" + sh.usage,
			DisableFlagsInUseLine: true,
			Args:                  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return sh.gen(cmd.Root(), cmd.OutOrStdout())
			},
		})
	}

	return cmd
}
