package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-charstage/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available games",
	Long:  `Display all games that can be played with 'charstage play <game>'.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()
	for _, g := range games {
		fmt.Printf("  %-12s  %s\n", g.ID, g.Title)
	}
	fmt.Println()
	fmt.Println("Play with: charstage play <game>")
}
