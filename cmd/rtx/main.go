package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/root"
)

func main() {
	cmd := root.NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		red := color.New(color.FgRed)
		_, _ = red.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
