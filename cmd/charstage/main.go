// charstage is a character-cell stage for small terminal games built from
// points, lines, rectangles and groups.
//
// Usage:
//
//	charstage list              - List available games
//	charstage play <game>       - Play a game
//	charstage menu              - Start menu to pick games interactively
//	charstage scores <game>     - Show high scores for a game
//	charstage config            - Print the default engine config
//
// Global flags:
//
//	--refresh <ms>   - Override the refresh interval
//	--config <path>  - Engine config YAML (default: search ~/.charstage/configs)
//	--db <path>      - Set database path (default: ~/.charstage/scores.db)
//	--log <path>     - Write debug logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-charstage/internal/config"

	// Import games to register them
	_ "github.com/vovakirdan/tui-charstage/internal/games/sketch"
	_ "github.com/vovakirdan/tui-charstage/internal/games/wanderwall"
)

var (
	// Global flags
	flagRefresh int
	flagConfig  string
	flagDBPath  string
	flagLogPath string

	logFile *os.File
)

func main() {
	defer closeLog()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		closeLog()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "charstage",
	Short: "Charstage - shape-based games in your terminal",
	Long: `Charstage draws scenes made of points, lines, rectangles and groups
onto a character grid and runs small games on top of them.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  scores   - View high scores
  config   - Print the default engine config

Examples:
  charstage list
  charstage play wanderwall
  charstage play wanderwall --raw
  charstage play sketch --refresh 50
  charstage menu
  charstage scores wanderwall`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setupLogger()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagRefresh, "refresh", 0, "Refresh interval in milliseconds (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.charstage/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogger routes the default logger to --log. The terminal belongs to
// the game while it runs, so without a file logs are discarded.
func setupLogger() error {
	var w io.Writer = io.Discard
	if flagLogPath != "" {
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		w = f
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "charstage",
	})
	if flagLogPath != "" {
		logger.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger)
	return nil
}

func closeLog() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// loadEngine loads the engine config and applies --refresh.
func loadEngine() config.EngineConfig {
	engine, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		engine = config.DefaultEngineConfig()
	}
	if flagRefresh > 0 {
		engine.RefreshMS = flagRefresh
	}
	log.Debug("engine config", "view", engine.View, "refresh", engine.Refresh())
	return engine
}

// terminalSize returns the size of stdout, 80x24 when it is not a terminal.
func terminalSize() (width, height int) {
	width, height = 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// clampSize fits a terminal dimension into the engine's coordinate range.
func clampSize(n int) uint16 {
	switch {
	case n < 1:
		return 1
	case n > 0xFFFF:
		return 0xFFFF
	}
	return uint16(n)
}
