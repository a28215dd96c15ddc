package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-charstage/internal/config"
	"github.com/vovakirdan/tui-charstage/internal/games/wanderwall"
	"github.com/vovakirdan/tui-charstage/internal/platform/term"
	"github.com/vovakirdan/tui-charstage/internal/platform/tui"
	"github.com/vovakirdan/tui-charstage/internal/registry"
	"github.com/vovakirdan/tui-charstage/internal/sink"
	"github.com/vovakirdan/tui-charstage/internal/storage"
)

var (
	flagScene string
	flagRaw   bool
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Wanderwall controls:
  Arrows     - Move
  Esc        - Quit (asks for confirmation)
  R/Enter    - Restart (after game over)

Sketch controls:
  Arrows     - Move cursor
  Letters    - Type at the cursor
  Backspace  - Erase the last letter
  Enter      - Bring back the last erased letter
  Esc        - Quit (asks for confirmation)

Ctrl+C quits any game immediately.

Ctrl+S saves a screenshot in the Bubble Tea host.

Examples:
  charstage play wanderwall
  charstage play wanderwall --scene ./my-maze.yaml
  charstage play sketch --raw
  charstage play wanderwall --refresh 60`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagScene, "scene", "", "Path to custom wanderwall scene YAML")
	playCmd.Flags().BoolVar(&flagRaw, "raw", false, "Draw directly with tcell instead of Bubble Tea")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'charstage list' to see available games.")
		os.Exit(1)
	}

	wanderwall.SetScenePath(flagScene)

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	engine := loadEngine()
	width, height := terminalSize()
	log.Info("starting game", "game", gameID, "raw", flagRaw, "width", width, "height", height)

	if flagRaw {
		err = playRaw(game, store, engine, clampSize(width), clampSize(height))
	} else {
		err = tui.Run(game, store, engine, clampSize(width), clampSize(height))
	}

	if store != nil {
		store.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// playRaw runs game on a tcell screen until it quits or the process is
// interrupted.
func playRaw(game registry.Game, store *storage.Store, engine config.EngineConfig, width, height uint16) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	screen, err := sink.NewTerminal(width, height)
	if err != nil {
		return err
	}
	defer screen.Close()
	screen.SetTheme(term.ThemeStyles(engine.ThemeColors()))

	return term.Run(ctx, game, screen, store, engine.Runtime(width, height))
}
