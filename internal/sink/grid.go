package sink

import (
	"strings"

	"github.com/vovakirdan/tui-charstage/internal/core"
)

// Grid is an in-memory sink. Keys are fed with PushKey.
type Grid struct {
	width, height uint16
	cells         [][]rune // [y][x]
	cursor        core.Cursor
	cursorVisible bool
	keys          keyQueue
}

var _ Sink = (*Grid)(nil)

// NewGrid creates a blank width x height grid in blocking input mode.
func NewGrid(width, height uint16) *Grid {
	g := &Grid{
		width:  width,
		height: height,
		keys:   newKeyQueue(),
	}
	g.cells = make([][]rune, height)
	for y := range g.cells {
		g.cells[y] = make([]rune, width)
	}
	g.Clear()
	return g
}

// Width returns the grid width in characters.
func (g *Grid) Width() uint16 { return g.width }

// Height returns the grid height in characters.
func (g *Grid) Height() uint16 { return g.height }

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y uint16) bool {
	return core.InBounds(x, y, g.width, g.height)
}

// WriteCell implements Sink.
func (g *Grid) WriteCell(x, y uint16, glyph rune) error {
	if !g.InBounds(x, y) {
		return outOfBounds(x, y)
	}
	g.cells[y][x] = glyph
	return nil
}

// WriteCellNR implements Sink.
func (g *Grid) WriteCellNR(x, y uint16, glyph rune) error {
	if err := g.WriteCell(x, y, glyph); err != nil {
		return err
	}
	g.cursor = core.Cursor{X: x, Y: y}
	return nil
}

// WriteChar implements Sink.
func (g *Grid) WriteChar(glyph rune) error {
	if err := g.WriteCell(g.cursor.X, g.cursor.Y, glyph); err != nil {
		return err
	}
	g.cursor.Move(1, 0, g.width, g.height)
	return nil
}

// WriteRun implements Sink.
func (g *Grid) WriteRun(x, y uint16, text string) error {
	runes, err := runLength(g.width, g.height, x, y, text)
	if err != nil {
		return err
	}
	copy(g.cells[y][x:], runes)
	return nil
}

// Clear implements Sink.
func (g *Grid) Clear() {
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x] = ' '
		}
	}
}

// Cursor implements Sink.
func (g *Grid) Cursor() (x, y uint16) { return g.cursor.X, g.cursor.Y }

// SetCursor implements Sink.
func (g *Grid) SetCursor(x, y uint16) error {
	if !g.InBounds(x, y) {
		return outOfBounds(x, y)
	}
	g.cursor = core.Cursor{X: x, Y: y}
	return nil
}

// MoveCursor implements Sink.
func (g *Grid) MoveCursor(dx, dy int16) bool {
	return g.cursor.Move(dx, dy, g.width, g.height)
}

// SetCursorVisible implements Sink.
func (g *Grid) SetCursorVisible(visible bool) { g.cursorVisible = visible }

// CursorVisible reports whether the cursor should be shown.
func (g *Grid) CursorVisible() bool { return g.cursorVisible }

// SetRealTime implements Sink.
func (g *Grid) SetRealTime(realTime bool) { g.keys.realTime = realTime }

// RealTime implements Sink.
func (g *Grid) RealTime() bool { return g.keys.realTime }

// GetKey implements Sink.
func (g *Grid) GetKey() Key { return g.keys.get() }

// DrainKeys implements Sink.
func (g *Grid) DrainKeys() int { return g.keys.drain() }

// PushKey queues a key press. Returns false if the queue is full.
func (g *Grid) PushKey(k Key) bool { return g.keys.push(k) }

// Close wakes any GetKey blocked waiting for input.
func (g *Grid) Close() { g.keys.close() }

// Cell returns the glyph at (x, y), or a space outside the grid.
func (g *Grid) Cell(x, y uint16) rune {
	if !g.InBounds(x, y) {
		return ' '
	}
	return g.cells[y][x]
}

// Row returns a copy of row y as a string.
func (g *Grid) Row(y uint16) string {
	if y >= g.height {
		return strings.Repeat(" ", int(g.width))
	}
	return string(g.cells[y])
}

// String returns the grid rows joined with newlines.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(int(g.width)*int(g.height) + int(g.height))
	for y := range g.cells {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(string(g.cells[y]))
	}
	return sb.String()
}
