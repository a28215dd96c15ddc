package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-charstage/internal/registry"
	"github.com/vovakirdan/tui-charstage/internal/storage"
)

var (
	menuBanner = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	menuHint   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuCursor = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuBest   = lipgloss.NewStyle().Foreground(lipgloss.Color("108"))
)

// MenuItem is one game in the picker.
type MenuItem struct {
	GameID string
	Title  string
	Best   int // 0 before the first saved run
}

// MenuModel lists the registered games and reports which one was picked.
type MenuModel struct {
	items  []MenuItem
	cursor int
	width  int
	height int
	keys   MenuKeyMap
	help   help.Model

	quitting   bool
	scoreboard bool
	selected   *MenuItem
}

// NewMenuModel builds the picker. Best scores come from store when it is
// not nil.
func NewMenuModel(store *storage.Store, width, height int) MenuModel {
	var items []MenuItem
	for _, g := range registry.List() {
		item := MenuItem{GameID: g.ID, Title: g.Title}
		if store != nil {
			item.Best, _ = store.HighScore(g.ID)
		}
		items = append(items, item)
	}
	return MenuModel{
		items:  items,
		width:  width,
		height: height,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
	}
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch m.keys.MapKeyToMenuAction(msg) {
		case MenuActionUp:
			m.cursor = max(m.cursor-1, 0)
		case MenuActionDown:
			m.cursor = min(m.cursor+1, max(len(m.items)-1, 0))
		case MenuActionSelect:
			if m.cursor < len(m.items) {
				picked := m.items[m.cursor]
				m.selected = &picked
				return m, tea.Quit
			}
		case MenuActionScoreboard:
			m.scoreboard = true
			return m, tea.Quit
		case MenuActionQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{menuBanner.Render("C H A R S T A G E"), menuHint.Render("pick a game"), ""}
	for i, item := range m.items {
		entry := "  " + item.Title
		if i == m.cursor {
			entry = menuCursor.Render("▸ " + item.Title)
		}
		if item.Best > 0 {
			entry += menuBest.Render("  best " + strconv.Itoa(item.Best))
		}
		lines = append(lines, entry)
	}
	lines = append(lines, "", menuHint.Render(m.help.View(m.keys)))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Selected returns the picked game, nil until one is picked.
func (m MenuModel) Selected() *MenuItem { return m.selected }

// IsQuitting reports whether the user left the menu.
func (m MenuModel) IsQuitting() bool { return m.quitting }

// WantsScoreboard reports whether the user asked for the scoreboard.
func (m MenuModel) WantsScoreboard() bool { return m.scoreboard }

// Size returns the terminal size last reported to the menu.
func (m MenuModel) Size() (width, height int) { return m.width, m.height }

// centerText pads text on the left so it sits in the middle of width
// columns.
func centerText(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

// MenuResult is what the user chose in the menu.
type MenuResult struct {
	GameID          string
	Width, Height   int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu shows the menu until the user picks something.
func RunMenu(store *storage.Store, width, height int) (MenuResult, error) {
	res := MenuResult{Width: width, Height: height}

	final, err := tea.NewProgram(NewMenuModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return res, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		res.Quit = true
		return res, nil
	}

	res.Width, res.Height = m.Size()
	switch {
	case m.WantsScoreboard():
		res.WantsScoreboard = true
	case m.Selected() != nil:
		res.GameID = m.Selected().GameID
	default:
		res.Quit = true
	}
	return res, nil
}
