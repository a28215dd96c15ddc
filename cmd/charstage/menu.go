package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-charstage/internal/games/wanderwall"
	"github.com/vovakirdan/tui-charstage/internal/platform/tui"
	"github.com/vovakirdan/tui-charstage/internal/registry"
	"github.com/vovakirdan/tui-charstage/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start charstage with a game picker menu",
	Long: `Start charstage in interactive menu mode.

After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  charstage menu
  charstage menu --refresh 60
  charstage menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	engine := loadEngine()
	width, height := terminalSize()
	wanderwall.SetScenePath("")

	for {
		result, err := tui.RunMenu(store, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		width, height = result.Width, result.Height

		if result.Quit {
			break
		}

		if result.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, width, height)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		if result.GameID == "" {
			break
		}

		game, err := registry.Create(result.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		if err := tui.Run(game, store, engine, clampSize(width), clampSize(height)); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}

	if store != nil {
		store.Close()
	}
}
