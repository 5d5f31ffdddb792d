// Package translate provides the translate command.
package translate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

type translateOptions struct {
	*cmdutil.Options
	mode  string
	with  string
	style string
}

type translateResult struct {
	Component json.RawMessage `json:"component"`
	Preview   string          `json:"preview"`
}

// NewCmdTranslate creates the translate command.
func NewCmdTranslate() *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate <key>",
		Short: "Build a translate component",
		Long: `Resolve translate parameters and print the component with a preview.

Parameter modes:
  simple    comma separated text: A,B,C
  visual    typed entries: 文本:A,计分板:@p|money,选择器:@a
  advanced  a JSON component or array of components`,
		Example: `  # Plain text parameters
  rtx translate '%%s bought %%s' --with Steve,bread

  # A score and a selector
  rtx translate '%%s has %%s' --mode visual --with '选择器:@p,计分板:@p|money'

  # JSON parameters as a bare array
  rtx translate '%%s' --mode advanced --with '[{"selector":"@r"}]' --style array`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			return runTranslate(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Parameter mode: simple, visual, advanced (default from config)")
	cmd.Flags().StringVarP(&opts.with, "with", "w", "", "Parameters in the chosen mode")
	cmd.Flags().StringVar(&opts.style, "style", "", "Wire shape of the parameters: rawtext, array, strings (default from config)")

	return cmd
}

func runTranslate(key string, opts *translateOptions) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	renderer, err := opts.Renderer(view.FormatPretty)
	if err != nil {
		return err
	}

	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty translate key", rawtext.ErrInvalidParams)
	}
	mode, err := cfg.Mode()
	if opts.mode != "" {
		mode, err = rawtext.ParseMode(opts.mode)
	}
	if err != nil {
		return err
	}
	style, err := cfg.Style()
	if opts.style != "" {
		style, err = rawtext.ParseWithStyle(opts.style)
	}
	if err != nil {
		return err
	}

	params, err := rawtext.ParseParams(mode, opts.with)
	if err != nil {
		return err
	}
	comps := params.Components()
	var with *rawtext.With
	if len(comps) > 0 {
		with = rawtext.NewWith(style, comps)
	}
	component := rawtext.NewTranslate(key, with)
	preview := rawtext.Substitute(key, comps)

	switch renderer.Format() {
	case view.FormatJSON:
		data, err := component.Encode(0)
		if err != nil {
			return err
		}
		return renderer.RenderJSON(translateResult{Component: data, Preview: preview})
	case view.FormatPlain:
		data, err := component.Encode(0)
		if err != nil {
			return err
		}
		renderer.RenderRaw(data)
		renderer.RenderText(preview)
		return nil
	}

	data, err := component.Encode(cfg.Indent)
	if err != nil {
		return err
	}
	renderer.RenderRaw(data)
	renderer.RenderKeyValue("preview", preview)
	return nil
}
