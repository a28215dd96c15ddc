package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW uint16        // Sink width in characters
	ScreenH uint16        // Sink height in characters
	ViewX   uint16        // Column where the scene region starts on the sink
	ViewY   uint16        // Row where the scene region starts on the sink
	ViewW   uint16        // Scene region width
	ViewH   uint16        // Scene region height
	Refresh time.Duration // Time between ticks
}

// DefaultConfig returns the classic 80x24 layout: two HUD rows above an
// 80x22 scene region, refreshed every 125ms.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		ViewX:   0,
		ViewY:   2,
		ViewW:   80,
		ViewH:   22,
		Refresh: 125 * time.Millisecond,
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score      int  // Current score
	GameOver   bool // Whether the game has ended
	Confirming bool // Quit prompt is open; the host may block for the answer
	Quit       bool // The game asked the host to stop
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
