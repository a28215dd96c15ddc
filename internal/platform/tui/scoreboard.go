package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-charstage/internal/registry"
	"github.com/vovakirdan/tui-charstage/internal/storage"
)

const (
	boardRuns     = 100 // rows loaded per game
	boardListW    = 20  // game list column
	boardListMinW = 80  // narrower windows hide the game list
	boardChromeH  = 9   // title, panel border, stats and help rows
)

var (
	boardTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardFaint  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardPanel  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	boardActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardEmpty  = boardFaint.Italic(true).Padding(2, 4)
)

// ScoreboardKeyMap holds the scoreboard bindings. Row scrolling is left
// to the table's own key map.
type ScoreboardKeyMap struct {
	table    table.KeyMap
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.table.LineUp, k.table.LineDown, k.NextGame, k.PrevGame, k.Back}
}

// FullHelp implements help.KeyMap.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Quit}}
}

// DefaultScoreboardKeyMap switches games with tab or left/right.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		table:    table.DefaultKeyMap(),
		NextGame: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next game")),
		PrevGame: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev game")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "menu")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel browses the stored runs of every registered game.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	store      *storage.Store
	scores     []storage.ScoreEntry
	stats      *storage.GameStats
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel opens on the first registered game. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = newScoreTable(height)
	m.reload()
	return m
}

func newScoreTable(height int) table.Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("240"))
	styles.Selected = styles.Selected.Bold(false).
		Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))

	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 8},
			{Title: "Moves", Width: 7},
			{Title: "Scene", Width: 12},
			{Title: "Date", Width: 14},
		}),
		table.WithHeight(max(height-boardChromeH, 3)),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
}

// reload fetches runs and stats of the selected game into the table.
func (m *ScoreboardModel) reload() {
	m.scores, m.stats = nil, nil
	if len(m.games) > 0 && m.store != nil {
		id := m.games[m.gameCursor].ID
		var err error
		if m.scores, err = m.store.TopScores(id, boardRuns); err != nil {
			log.Error("scoreboard: cannot load runs", "game", id, "error", err)
		}
		if m.stats, err = m.store.GameStats(id); err != nil {
			log.Error("scoreboard: cannot load stats", "game", id, "error", err)
		}
	}
	m.table.SetRows(scoreRows(m.scores))
	m.table.GotoTop()
}

func scoreRows(entries []storage.ScoreEntry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		scene := e.Scene
		if scene == "" {
			scene = "-"
		}
		rows = append(rows, table.Row{
			"#" + strconv.Itoa(i+1),
			strconv.Itoa(e.Score),
			strconv.Itoa(e.Moves),
			scene,
			e.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	return rows
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextGame):
			m.switchGame(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevGame):
			m.switchGame(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = newScoreTable(msg.Height)
		m.table.SetRows(scoreRows(m.scores))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// switchGame moves the game cursor by delta, wrapping around.
func (m *ScoreboardModel) switchGame(delta int) {
	n := len(m.games)
	if n == 0 {
		return
	}
	m.gameCursor = ((m.gameCursor+delta)%n + n) % n
	m.reload()
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	heading := "Scoreboard"
	if len(m.games) > 0 {
		heading += ": " + m.games[m.gameCursor].Title
	}

	body := m.table.View()
	if len(m.scores) == 0 {
		body = boardEmpty.Render("Nothing recorded for this game yet.")
	}
	body = boardPanel.Render(body)
	if m.width >= boardListMinW {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.gameList(), "  ", body)
	}

	return strings.Join([]string{
		boardTitle.Render(centerText(heading, m.width)),
		"",
		body,
		boardFaint.Render(m.statsLine()),
		boardFaint.Render(m.help.View(m.keys)),
	}, "\n")
}

// gameList renders the registered games with the selected one marked.
func (m ScoreboardModel) gameList() string {
	lines := []string{"Games", strings.Repeat("─", boardListW-4)}
	for i, g := range m.games {
		name := g.Title
		if limit := boardListW - 6; len(name) > limit {
			name = name[:limit-1] + "…"
		}
		if i == m.gameCursor {
			lines = append(lines, boardActive.Render("▸ "+name))
			continue
		}
		lines = append(lines, "  "+name)
	}
	return boardPanel.Width(boardListW).Render(strings.Join(lines, "\n"))
}

// statsLine summarizes the selected game, empty before its first run.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("Runs: %d  Best: %d in %d moves  Average: %.1f  Last played: %s",
		m.stats.GamesCount, m.stats.HighScore, m.stats.FewestMove, m.stats.AvgScore,
		m.stats.LastPlayed.Format("Jan 02 15:04"))
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting reports whether the user asked to leave the program.
func (m ScoreboardModel) IsQuitting() bool { return m.quitting }

// RunScoreboard shows the scoreboard until the user leaves it. goBack is
// true when they asked for the menu rather than to quit.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(ScoreboardModel); ok {
		return m.IsGoingBack(), nil
	}
	return false, nil
}
