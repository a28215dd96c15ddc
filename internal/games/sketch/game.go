// Package sketch is a letter pad: move a cursor with the arrow keys and
// type characters onto the screen.
package sketch

import (
	"fmt"

	"github.com/vovakirdan/tui-charstage/internal/compositor"
	"github.com/vovakirdan/tui-charstage/internal/core"
	"github.com/vovakirdan/tui-charstage/internal/registry"
	"github.com/vovakirdan/tui-charstage/internal/shape"
	"github.com/vovakirdan/tui-charstage/internal/sink"
)

// CodeLetter is the collision code carried by every typed letter.
const CodeLetter uint32 = 0x4

// Game implements the sketch pad.
type Game struct {
	comp   *compositor.Compositor
	cursor core.Cursor
	undone []*shape.Point // popped letters, most recent last

	confirming bool
	quit       bool
}

// New creates a new sketch pad.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register("sketch", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "sketch" }

// Title returns the display name.
func (g *Game) Title() string { return "Sketch" }

// Reset clears the pad. Row 0 is the status line; the pad covers the
// rest of the screen.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if g.comp != nil {
		g.comp.Release()
	}

	h := cfg.ScreenH
	if h > 0 {
		h--
	}
	g.comp = compositor.New(cfg.ScreenW, h, compositor.WithViewOffset(0, 1))
	g.cursor = core.Cursor{}
	g.undone = nil
	g.confirming = false
	g.quit = false
}

// Step handles one tick of input.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	switch {
	case in.Has(core.ActionQuit):
		g.quit = true
	case g.confirming:
		if in.Typed('y') || in.Typed('Y') {
			g.quit = true
		} else if !in.Empty() {
			g.confirming = false
		}
	case in.Has(core.ActionBack):
		g.confirming = true
	default:
		g.edit(in)
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) edit(in core.InputFrame) {
	w, h := g.comp.Width(), g.comp.Height()

	switch {
	case in.Has(core.ActionUp):
		g.cursor.Move(0, -1, w, h)
	case in.Has(core.ActionDown):
		g.cursor.Move(0, 1, w, h)
	case in.Has(core.ActionLeft):
		g.cursor.Move(-1, 0, w, h)
	case in.Has(core.ActionRight):
		g.cursor.Move(1, 0, w, h)
	}

	if in.Has(core.ActionErase) {
		g.erase()
	}
	if in.Has(core.ActionConfirm) {
		g.restore()
	}

	for _, r := range in.Runes {
		g.put(r)
	}
}

// put places r at the cursor and advances it one cell.
func (g *Game) put(r rune) {
	if !core.InBounds(g.cursor.X, g.cursor.Y, g.comp.Width(), g.comp.Height()) {
		return
	}
	p := shape.NewPoint(CodeLetter, r, g.cursor.X, g.cursor.Y)
	g.comp.Add(p)
	g.comp.RasterizeShape(p)
	g.undone = g.undone[:0]
	g.cursor.Move(1, 0, g.comp.Width(), g.comp.Height())
}

// erase pops the most recent letter and moves the cursor onto its cell.
func (g *Game) erase() {
	s, ok := g.comp.Pop(g.comp.Len() - 1)
	if !ok {
		return
	}
	p := s.(*shape.Point)
	g.undone = append(g.undone, p)
	g.cursor.X, g.cursor.Y = p.Position()
	g.comp.Redraw()
}

// restore puts back the most recently erased letter.
func (g *Game) restore() {
	n := len(g.undone)
	if n == 0 {
		return
	}
	p := g.undone[n-1]
	g.undone = g.undone[:n-1]
	g.comp.Add(p)
	g.comp.RasterizeOne(g.comp.Len() - 1)
	x, y := p.Position()
	g.cursor = core.Cursor{X: x, Y: y}
	g.cursor.Move(1, 0, g.comp.Width(), g.comp.Height())
}

// Render flushes the pad, writes the status line and shows the cursor.
func (g *Game) Render(dst sink.Sink) error {
	if err := g.comp.Flush(dst); err != nil {
		return fmt.Errorf("sketch: render: %w", err)
	}

	status := fmt.Sprintf("POS: %d %d  Letters: %d", g.cursor.X, g.cursor.Y, g.comp.Len())
	if g.confirming {
		status = "Quit? [Y/N]"
	}
	if dst.Height() > 0 {
		if err := sink.WriteLine(dst, 0, status); err != nil {
			return fmt.Errorf("sketch: status: %w", err)
		}
	}

	vx, vy := g.comp.ViewOffset()
	if err := dst.SetCursor(vx+g.cursor.X, vy+g.cursor.Y); err != nil {
		dst.SetCursorVisible(false)
		return nil
	}
	dst.SetCursorVisible(true)
	return nil
}

// State reports the number of letters on the pad as the score.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:      g.comp.Len(),
		Confirming: g.confirming,
		Quit:       g.quit,
	}
}

// Cursor returns the pad cursor.
func (g *Game) Cursor() (x, y uint16) {
	return g.cursor.X, g.cursor.Y
}

// CharAt returns the glyph shown on the pad at (x, y).
func (g *Game) CharAt(x, y uint16) rune {
	return g.comp.CharAt(x, y)
}
