// Package selector provides the selector commands.
package selector

import (
	"github.com/spf13/cobra"
)

// NewCmdSelector creates the selector command.
func NewCmdSelector() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "selector",
		Aliases: []string{"sel"},
		Short:   "Parse and build entity selectors",
		Long:    `Commands for reading and writing entity selectors such as @a[tag=vip,r=10].`,
	}

	cmd.AddCommand(NewCmdParse())
	cmd.AddCommand(NewCmdBuild())

	return cmd
}
