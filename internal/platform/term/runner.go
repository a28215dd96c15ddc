// Package term runs games straight on a terminal through tcell, without
// Bubble Tea: one loop that polls keys, steps the game, renders and sleeps
// until the next tick.
package term

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-charstage/internal/core"
	"github.com/vovakirdan/tui-charstage/internal/registry"
	"github.com/vovakirdan/tui-charstage/internal/sink"
	"github.com/vovakirdan/tui-charstage/internal/storage"
)

// presenter is implemented by sinks that buffer writes until shown.
type presenter interface {
	Show()
}

// closer is implemented by sinks whose blocking GetKey can be woken.
type closer interface {
	Close()
}

// Run drives game on dst until the game asks to quit or ctx is cancelled.
// Each tick it collects every pending key into one input frame, steps the
// game, renders and presents. While the game is waiting on its quit
// prompt, the sink is switched to blocking mode and the loop waits for a
// single key; anything typed after that key is discarded. Finished runs are saved to store if it is not nil.
func Run(ctx context.Context, game registry.Game, dst sink.Sink, store *storage.Store, cfg core.RuntimeConfig) error {
	if c, ok := dst.(closer); ok {
		stop := context.AfterFunc(ctx, c.Close)
		defer stop()
	}

	refresh := cfg.Refresh
	if refresh <= 0 {
		refresh = core.DefaultConfig().Refresh
	}
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	game.Reset(cfg)
	dst.SetRealTime(true)
	defer dst.SetRealTime(true)

	frame := core.NewInputFrame()
	saved := false

	for {
		if game.State().Confirming {
			dst.SetRealTime(false)
			k := dst.GetKey()
			dst.SetRealTime(true)
			if ctx.Err() != nil {
				return nil
			}
			KeyToFrame(k, &frame)
			if n := dst.DrainKeys(); n > 0 {
				log.Debug("dropped keys typed ahead of the prompt answer", "count", n)
			}
		} else {
			collectKeys(dst, &frame)
		}

		state := game.Step(frame).State
		frame.Clear()

		switch {
		case state.GameOver && !saved:
			saveScore(store, game, state)
			saved = true
		case !state.GameOver:
			saved = false
		}

		if state.Quit {
			return nil
		}

		if err := game.Render(dst); err != nil {
			return fmt.Errorf("term: %s: %w", game.ID(), err)
		}
		if p, ok := dst.(presenter); ok {
			p.Show()
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// collectKeys moves every pending key into frame.
func collectKeys(src sink.Sink, frame *core.InputFrame) {
	for {
		k := src.GetKey()
		if k == sink.KeyNone {
			return
		}
		KeyToFrame(k, frame)
	}
}

// KeyToFrame adds one key press to an input frame.
func KeyToFrame(k sink.Key, frame *core.InputFrame) {
	switch k {
	case sink.KeyNone:
	case sink.KeyUp:
		frame.Set(core.ActionUp)
	case sink.KeyDown:
		frame.Set(core.ActionDown)
	case sink.KeyLeft:
		frame.Set(core.ActionLeft)
	case sink.KeyRight:
		frame.Set(core.ActionRight)
	case sink.KeyEnter:
		frame.Set(core.ActionConfirm)
	case sink.KeyEscape:
		frame.Set(core.ActionBack)
	case sink.KeyBackspace:
		frame.Set(core.ActionErase)
	case sink.KeyCtrlC:
		frame.Set(core.ActionQuit)
	default:
		if k.Printable() {
			frame.Type(rune(k))
		}
	}
}

func saveScore(store *storage.Store, game registry.Game, state core.GameState) {
	if store == nil || state.Score <= 0 {
		return
	}
	_, err := store.SaveScore(game.ID(), state.Score, registry.Moves(game), registry.SceneName(game))
	if err != nil {
		log.Error("cannot save score", "game", game.ID(), "error", err)
	}
}

// ThemeStyles converts glyph colors into tcell styles for sink.Terminal.
func ThemeStyles(colors map[rune]core.Color) map[rune]tcell.Style {
	styles := make(map[rune]tcell.Style, len(colors))
	for glyph, c := range colors {
		style := tcell.StyleDefault
		if code := c.ANSI(); code >= 0 {
			style = style.Foreground(tcell.PaletteColor(code))
		}
		styles[glyph] = style
	}
	return styles
}
