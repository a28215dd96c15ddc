package term

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-charstage/internal/core"
	"github.com/vovakirdan/tui-charstage/internal/sink"
	"github.com/vovakirdan/tui-charstage/internal/storage"
)

// promptGame opens its quit prompt on Esc and quits on 'y'. It also ends
// the game with a score once it has seen an Enter.
type promptGame struct {
	mu     sync.Mutex
	frames []core.InputFrame
	state  core.GameState
	start  core.GameState
}

func (g *promptGame) ID() string    { return "prompt" }
func (g *promptGame) Title() string { return "Prompt" }

func (g *promptGame) Reset(core.RuntimeConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = g.start
}

func (g *promptGame) Step(in core.InputFrame) core.StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	frame := core.NewInputFrame()
	for a, on := range in.Actions {
		if on {
			frame.Set(a)
		}
	}
	frame.Type(in.Runes...)
	g.frames = append(g.frames, frame)

	switch {
	case in.Has(core.ActionQuit):
		g.state.Quit = true
	case g.state.Confirming:
		if in.Typed('y') {
			g.state.Quit = true
		} else if !in.Empty() {
			g.state.Confirming = false
		}
	case in.Has(core.ActionBack):
		g.state.Confirming = true
	case in.Has(core.ActionConfirm):
		g.state.GameOver = true
		g.state.Score = 25
	}
	return core.StepResult{State: g.state}
}

func (g *promptGame) Render(dst sink.Sink) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	text := "playing"
	if g.state.Confirming {
		text = "Quit? [Y/N]"
	}
	return sink.WriteLine(dst, 0, text)
}

func (g *promptGame) State() core.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *promptGame) steps() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.frames)
}

func fastConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.Refresh = time.Millisecond
	return cfg
}

func runAsync(ctx context.Context, game *promptGame, dst sink.Sink, store *storage.Store) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, game, dst, store, fastConfig())
	}()
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return")
	}
}

func TestRunCollectsAllPendingKeys(t *testing.T) {
	grid := sink.NewGrid(20, 3)
	grid.PushKey(sink.KeyUp)
	grid.PushKey('a')
	grid.PushKey('b')
	grid.PushKey(sink.KeyCtrlC)

	game := &promptGame{}
	waitDone(t, runAsync(context.Background(), game, grid, nil))

	if game.steps() != 1 {
		t.Fatalf("game stepped %d times, expected 1", game.steps())
	}
	frame := game.frames[0]
	if !frame.Has(core.ActionUp) || !frame.Has(core.ActionQuit) || string(frame.Runes) != "ab" {
		t.Errorf("frame = %+v, expected every pending key", frame)
	}
}

func TestRunBlocksWhileConfirming(t *testing.T) {
	grid := sink.NewGrid(20, 3)
	game := &promptGame{start: core.GameState{Confirming: true}}
	done := runAsync(context.Background(), game, grid, nil)

	select {
	case <-done:
		t.Fatal("Run() returned while waiting on the quit prompt")
	case <-time.After(50 * time.Millisecond):
	}
	if game.steps() != 0 {
		t.Errorf("game stepped %d times while blocked, expected 0", game.steps())
	}

	grid.PushKey('y')
	waitDone(t, done)

	if !grid.RealTime() {
		t.Error("sink should be back in real-time mode")
	}
}

func TestRunPromptDeclined(t *testing.T) {
	grid := sink.NewGrid(20, 3)
	grid.PushKey(sink.KeyEscape)

	game := &promptGame{}
	done := runAsync(context.Background(), game, grid, nil)

	deadline := time.Now().Add(2 * time.Second)
	for !game.stateConfirming() {
		if time.Now().After(deadline) {
			t.Fatal("prompt never opened")
		}
		time.Sleep(time.Millisecond)
	}
	grid.PushKey('n')
	for game.stateConfirming() {
		if time.Now().After(deadline) {
			t.Fatal("prompt never closed")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	grid.PushKey(sink.KeyCtrlC)
	waitDone(t, done)

	if grid.Row(0)[:7] != "playing" {
		t.Errorf("Row(0) = %q, expected the game screen after declining", grid.Row(0))
	}
}

func TestRunDropsKeysTypedAheadOfPromptAnswer(t *testing.T) {
	grid := sink.NewGrid(20, 3)
	grid.PushKey('n')
	grid.PushKey('x')
	grid.PushKey('y')

	game := &promptGame{start: core.GameState{Confirming: true}}
	done := runAsync(context.Background(), game, grid, nil)

	deadline := time.Now().Add(2 * time.Second)
	for game.stateConfirming() {
		if time.Now().After(deadline) {
			t.Fatal("prompt never closed")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	grid.PushKey(sink.KeyCtrlC)
	waitDone(t, done)

	game.mu.Lock()
	defer game.mu.Unlock()
	if string(game.frames[0].Runes) != "n" {
		t.Errorf("first frame runes = %q, expected the prompt answer only", string(game.frames[0].Runes))
	}
	for i, frame := range game.frames[1:] {
		if len(frame.Runes) != 0 {
			t.Errorf("frame %d carried %q typed during the prompt", i+1, string(frame.Runes))
		}
	}
}

func (g *promptGame) stateConfirming() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Confirming
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	grid := sink.NewGrid(20, 3)
	game := &promptGame{}
	done := runAsync(ctx, game, grid, nil)

	time.Sleep(10 * time.Millisecond)
	cancel()
	waitDone(t, done)

	if game.steps() == 0 {
		t.Error("game never stepped before cancel")
	}
}

func TestRunCancelWakesPrompt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	grid := sink.NewGrid(20, 3)
	game := &promptGame{start: core.GameState{Confirming: true}}
	done := runAsync(ctx, game, grid, nil)

	time.Sleep(10 * time.Millisecond)
	cancel()
	waitDone(t, done)
}

func TestRunSavesScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	grid := sink.NewGrid(20, 3)
	grid.PushKey(sink.KeyEnter)
	game := &promptGame{}
	done := runAsync(context.Background(), game, grid, store)

	// Let a few game-over ticks pass, then quit.
	time.Sleep(20 * time.Millisecond)
	grid.PushKey(sink.KeyCtrlC)
	waitDone(t, done)

	scores, err := store.TopScores("prompt", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Score != 25 {
		t.Errorf("scores = %+v, expected one run of 25", scores)
	}
}

func TestRunRenderErrorStops(t *testing.T) {
	grid := sink.NewGrid(20, 0)
	err := Run(context.Background(), &promptGame{}, grid, nil, fastConfig())
	if err == nil {
		t.Error("Run() should report a render failure")
	}
}

func TestRunOnTerminal(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	terminal, err := sink.NewTerminalWithScreen(screen, 20, 3)
	if err != nil {
		t.Fatal(err)
	}
	screen.SetSize(20, 3)
	defer terminal.Close()

	game := &promptGame{start: core.GameState{Confirming: true}}
	done := runAsync(context.Background(), game, terminal, nil)

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	deadline := time.Now().Add(2 * time.Second)
	for game.stateConfirming() {
		if time.Now().After(deadline) {
			t.Fatal("Esc never reached the game")
		}
		time.Sleep(time.Millisecond)
	}
	// The frame shows once the loop has rendered after the answer.
	time.Sleep(20 * time.Millisecond)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	waitDone(t, done)

	cells, w, _ := screen.GetContents()
	var row []rune
	for x := 0; x < 7; x++ {
		if r := cells[x].Runes; len(r) > 0 {
			row = append(row, r[0])
		}
	}
	if string(row) != "playing" || w != 20 {
		t.Errorf("screen row 0 = %q, expected \"playing\"", string(row))
	}
}

func TestKeyToFrame(t *testing.T) {
	tests := []struct {
		key    sink.Key
		action core.Action
		r      rune
	}{
		{sink.KeyUp, core.ActionUp, 0},
		{sink.KeyDown, core.ActionDown, 0},
		{sink.KeyLeft, core.ActionLeft, 0},
		{sink.KeyRight, core.ActionRight, 0},
		{sink.KeyEnter, core.ActionConfirm, 0},
		{sink.KeyEscape, core.ActionBack, 0},
		{sink.KeyBackspace, core.ActionErase, 0},
		{sink.KeyCtrlC, core.ActionQuit, 0},
		{'x', core.ActionNone, 'x'},
		{' ', core.ActionNone, ' '},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			frame := core.NewInputFrame()
			KeyToFrame(tt.key, &frame)
			if tt.action != core.ActionNone && !frame.Has(tt.action) {
				t.Errorf("frame missing %v", tt.action)
			}
			if tt.r != 0 && !frame.Typed(tt.r) {
				t.Errorf("frame missing typed %q", tt.r)
			}
		})
	}

	frame := core.NewInputFrame()
	KeyToFrame(sink.KeyNone, &frame)
	KeyToFrame(sink.Key(1), &frame)
	if !frame.Empty() {
		t.Errorf("KeyNone and control keys should add nothing, got %+v", frame)
	}
}

func TestThemeStyles(t *testing.T) {
	styles := ThemeStyles(map[rune]core.Color{
		'*': core.ColorBrightYellow,
		'.': core.ColorDefault,
	})

	fg, _, _ := styles['*'].Decompose()
	if fg != tcell.PaletteColor(11) {
		t.Errorf("'*' foreground = %v, expected palette 11", fg)
	}
	if styles['.'] != tcell.StyleDefault {
		t.Error("default color should map to the default style")
	}
}
