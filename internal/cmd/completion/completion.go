// Package completion provides shell completion generation commands.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

type shell struct {
	name    string
	install string
	example string
	gen     func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		install: `To load completions in your current shell session:

  source <(rtx completion bash)

To load completions for every new session:

  # Linux
  rtx completion bash > /etc/bash_completion.d/rtx

  # macOS (requires bash-completion)
  rtx completion bash > $(brew --prefix)/etc/bash_completion.d/rtx`,
		example: `  # Load in current session
  source <(rtx completion bash)`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletionV2(w, true)
		},
	},
	{
		name: "zsh",
		install: `If shell completion is not already enabled in your environment,
enable it by adding to your ~/.zshrc:

  autoload -U compinit; compinit

To load completions for every new session:

  rtx completion zsh > "${fpath[1]}/_rtx"`,
		example: `  # Install for every session
  rtx completion zsh > "${fpath[1]}/_rtx"`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
	},
	{
		name: "fish",
		install: `To load completions in your current shell session:

  rtx completion fish | source

To load completions for every new session:

  rtx completion fish > ~/.config/fish/completions/rtx.fish`,
		example: `  # Load in current session
  rtx completion fish | source`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
	},
	{
		name: "powershell",
		install: `To load completions in your current shell session:

  rtx completion powershell | Out-String | Invoke-Expression

To load completions for every new session, add the output to your profile.`,
		example: `  # Load in current session
  rtx completion powershell | Out-String | Invoke-Expression`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rtx.

These scripts enable tab-completion for commands, flags, and arguments.
See each sub-command's help for installation instructions.`,
	}

	for _, s := range shells {
		cmd.AddCommand(newCmdShell(s))
	}

	return cmd
}

func newCmdShell(s shell) *cobra.Command {
	return &cobra.Command{
		Use:                   s.name,
		Short:                 "Generate " + s.name + " completion script",
		Long:                  "Generate " + s.name + " completion script for rtx.\n\n" + s.install,
		Example:               s.example,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// RegisterValues completes a string flag from a fixed list. Flags the command does
// not define are skipped.
func RegisterValues(cmd *cobra.Command, flag string, values ...string) {
	if cmd.Flags().Lookup(flag) == nil && cmd.PersistentFlags().Lookup(flag) == nil {
		return
	}
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}
