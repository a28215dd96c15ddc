package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-charstage/internal/config"
	"github.com/vovakirdan/tui-charstage/internal/core"
	"github.com/vovakirdan/tui-charstage/internal/registry"
	"github.com/vovakirdan/tui-charstage/internal/sink"
	"github.com/vovakirdan/tui-charstage/internal/storage"
)

// helpRows is the height of the help footer below the grid.
const helpRows = 1

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	grid       *sink.Grid
	store      *storage.Store
	engine     config.EngineConfig
	config     core.RuntimeConfig
	theme      Theme
	keys       GameKeyMap
	help       help.Model
	inputFrame *core.InputFrame
	gameState  core.GameState
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game on a
// width x height terminal.
func NewModel(game registry.Game, store *storage.Store, engine config.EngineConfig, width, height uint16) Model {
	frame := core.NewInputFrame()
	m := Model{
		game:       game,
		store:      store,
		engine:     engine,
		theme:      NewTheme(engine.ThemeColors()),
		keys:       DefaultGameKeyMap(),
		help:       help.New(),
		inputFrame: &frame,
	}
	m.resize(width, height)
	return m
}

// resize replaces the grid and runtime config for a new terminal size.
func (m *Model) resize(width, height uint16) {
	gridH := height
	if gridH > helpRows {
		gridH -= helpRows
	}
	m.grid = sink.NewGrid(width, gridH)
	m.config = m.engine.Runtime(width, gridH)
	m.help.Width = int(width)
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.Refresh)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey collects keyboard input into the next frame.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		if path, err := m.saveScreenshot(); err != nil {
			log.Error("screenshot failed", "error", err)
		} else {
			log.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize restarts the game on a grid of the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	w, h := uint16(max(msg.Width, 0)), uint16(max(msg.Height, 0))
	if w == m.grid.Width() && h == m.grid.Height()+helpRows {
		return m, nil
	}

	m.resize(w, h)
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.scoreSaved = false
	return m, nil
}

// handleTick steps the game once with the input collected since the
// previous tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(*m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if m.gameState.GameOver {
		if !m.scoreSaved {
			m.saveScore()
			m.scoreSaved = true
		}
	} else {
		m.scoreSaved = false
	}

	if m.gameState.Quit {
		m.quitting = true
		return m, tea.Quit
	}

	if err := m.game.Render(m.grid); err != nil {
		log.Error("render failed", "game", m.game.ID(), "error", err)
	}

	return m, tickCmd(m.config.Refresh)
}

// saveScore records a finished run.
func (m Model) saveScore() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	_, err := m.store.SaveScore(m.game.ID(), m.gameState.Score, registry.Moves(m.game), registry.SceneName(m.game))
	if err != nil {
		log.Error("cannot save score", "game", m.game.ID(), "error", err)
	}
}

// saveScreenshot writes the current grid as plain text and returns the path.
func (m Model) saveScreenshot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	dir := filepath.Join(home, ".charstage", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.grid.String()+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// View renders the grid and the help footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderGrid(m.grid, m.theme) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// State returns the last game state seen by the model.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program for game on a width x height terminal.
func Run(game registry.Game, store *storage.Store, engine config.EngineConfig, width, height uint16) error {
	model := NewModel(game, store, engine, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
