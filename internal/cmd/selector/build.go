package selector

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

type buildOptions struct {
	*cmdutil.Options
	base   string
	params []string
}

// NewCmdBuild creates the selector build command.
func NewCmdBuild() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a canonical selector",
		Long: `Build an entity selector from a base and key=value arguments.

Arguments keep the order given. A tag value holding a comma list is expanded
into one tag argument per element.`,
		Example: `  # All players tagged vip within 10 blocks
  rtx selector build --base @a --param tag=vip --param r=10

  # Entities holding an apple
  rtx selector build --base e --param 'hasitem={item=apple}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			return runBuild(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.base, "base", "b", "@p", "Selector base: "+strings.Join(rawtext.Bases, ", "))
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "Argument as key=value (repeatable)")

	return cmd
}

func runBuild(opts *buildOptions) error {
	renderer, err := opts.Renderer(view.FormatPlain)
	if err != nil {
		return err
	}

	params, err := parseParamFlags(opts.params)
	if err != nil {
		return err
	}
	sel, err := rawtext.BuildSelector(opts.base, params)
	if err != nil {
		return err
	}

	if renderer.Format() == view.FormatJSON {
		renderer.RenderKeyValue("selector", sel)
		return nil
	}
	renderer.RenderText(sel)
	return nil
}

// parseParamFlags splits each key=value on the first "=".
func parseParamFlags(flags []string) ([]rawtext.Param, error) {
	params := make([]rawtext.Param, 0, len(flags))
	for _, f := range flags {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", f)
		}
		params = append(params, rawtext.Param{Key: key, Value: value})
	}
	return params, nil
}
