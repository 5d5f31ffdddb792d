package selector

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

type parseOptions struct {
	*cmdutil.Options
}

type parseResult struct {
	Base      string          `json:"base"`
	Params    []rawtext.Param `json:"params"`
	Canonical string          `json:"canonical"`
}

// NewCmdParse creates the selector parse command.
func NewCmdParse() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <selector>",
		Short: "Parse a selector into its base and arguments",
		Long: `Parse an entity selector and list its arguments.

hasitem and scores values are checked against their nested grammar.`,
		Example: `  # Show the arguments of a selector
  rtx selector parse '@a[tag=vip,r=10]'

  # As JSON
  rtx selector parse '@e[hasitem={item=apple,quantity=1..}]' -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			return runParse(args[0], opts)
		},
	}

	return cmd
}

func runParse(input string, opts *parseOptions) error {
	defer opts.Sync()

	log, err := opts.Log()
	if err != nil {
		return err
	}
	renderer, err := opts.Renderer(view.FormatPretty)
	if err != nil {
		return err
	}

	sel, err := rawtext.ParseSelector(input)
	if err != nil {
		return err
	}
	if !rawtext.IsKnownBase(sel.Base) {
		log.Warn("unknown selector base", zap.String("base", sel.Base))
	}

	if renderer.Format() == view.FormatJSON {
		params := sel.Params
		if params == nil {
			params = []rawtext.Param{}
		}
		return renderer.RenderJSON(parseResult{Base: sel.Base, Params: params, Canonical: sel.String()})
	}

	renderer.RenderKeyValue("base", sel.Base)
	if len(sel.Params) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(sel.Params))
	for _, p := range sel.Params {
		value := p.Value
		if renderer.Format() == view.FormatPretty {
			value = view.Truncate(value, 60)
		}
		rows = append(rows, []string{p.Key, value})
	}
	renderer.RenderTable([]string{"KEY", "VALUE"}, rows)
	return nil
}
