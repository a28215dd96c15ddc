// Package registry provides a global registry for frame drivers.
// Drivers register themselves in init() functions, so hosts can discover
// and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-charstage/internal/core"
	"github.com/vovakirdan/tui-charstage/internal/sink"
)

// Game is a frame driver: it owns a compositor and its shapes and advances
// them one tick at a time. Games never read keys or sleep themselves; the
// host maps keys into an input frame and schedules ticks.
type Game interface {
	// ID returns a unique identifier (e.g. "wanderwall").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset builds the scene from scratch.
	// Called once at start and again when restarting.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one tick.
	Step(in core.InputFrame) core.StepResult

	// Render writes the current frame to the sink: the scene region through
	// the compositor, then any HUD rows.
	Render(dst sink.Sink) error

	// State returns the current game state.
	State() core.GameState
}

// MoveCounter is implemented by games that count player moves. The count
// breaks ties between equal scores.
type MoveCounter interface {
	Moves() int
}

// SceneNamer is implemented by games built from a scene file.
type SceneNamer interface {
	SceneName() string
}

// Moves returns the game's move count, or 0 if it does not count moves.
func Moves(g Game) int {
	if mc, ok := g.(MoveCounter); ok {
		return mc.Moves()
	}
	return 0
}

// SceneName returns the name of the game's scene, or "".
func SceneName(g Game) string {
	if sn, ok := g.(SceneNamer); ok {
		return sn.SceneName()
	}
	return ""
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
