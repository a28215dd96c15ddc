package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-charstage/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default engine config",
	Long: `Print the built-in engine configuration as YAML. Save it as
~/.charstage/configs/engine.yaml or ./configs/engine.yaml to customize the
view window, refresh interval and glyph colors.

Examples:
  charstage config > ~/.charstage/configs/engine.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, _ []string) {
	if _, err := os.Stdout.Write(config.DefaultYAML()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
