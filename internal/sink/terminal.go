package sink

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-charstage/internal/core"
)

// Terminal is a sink backed by a tcell screen. Writes land in tcell's back
// buffer and become visible on Show.
type Terminal struct {
	screen        tcell.Screen
	width, height uint16
	cursor        core.Cursor
	cursorVisible bool
	keys          keyQueue
	style         tcell.Style
	styles        map[rune]tcell.Style
	closeOnce     sync.Once
}

var _ Sink = (*Terminal)(nil)

// NewTerminal opens the controlling terminal as a width x height sink.
func NewTerminal(width, height uint16) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("sink: cannot create terminal screen: %w", err)
	}
	return NewTerminalWithScreen(screen, width, height)
}

// NewTerminalWithScreen initializes screen and wraps it. Tests pass a
// tcell simulation screen.
func NewTerminalWithScreen(screen tcell.Screen, width, height uint16) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("sink: cannot init terminal: %w", err)
	}
	t := &Terminal{
		screen: screen,
		width:  width,
		height: height,
		keys:   newKeyQueue(),
		style:  tcell.StyleDefault,
	}
	screen.HideCursor()
	screen.Clear()
	go t.poll()
	return t, nil
}

// poll forwards key events to the key queue until the screen is finalized.
func (t *Terminal) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		if kev, ok := ev.(*tcell.EventKey); ok {
			if k := keyFromEvent(kev); k != KeyNone {
				t.keys.push(k)
			}
		}
	}
}

func keyFromEvent(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyCtrlC:
		return KeyCtrlC
	case tcell.KeyRune:
		return Key(ev.Rune())
	}
	return KeyNone
}

// SetTheme assigns a style to specific glyphs; others use the default.
func (t *Terminal) SetTheme(styles map[rune]tcell.Style) {
	t.styles = styles
}

func (t *Terminal) styleFor(glyph rune) tcell.Style {
	if s, ok := t.styles[glyph]; ok {
		return s
	}
	return t.style
}

func (t *Terminal) put(x, y uint16, glyph rune) {
	t.screen.SetContent(int(x), int(y), glyph, nil, t.styleFor(glyph))
}

// Width returns the sink width in characters.
func (t *Terminal) Width() uint16 { return t.width }

// Height returns the sink height in characters.
func (t *Terminal) Height() uint16 { return t.height }

// InBounds reports whether (x, y) is a cell of the sink.
func (t *Terminal) InBounds(x, y uint16) bool {
	return core.InBounds(x, y, t.width, t.height)
}

// WriteCell implements Sink.
func (t *Terminal) WriteCell(x, y uint16, glyph rune) error {
	if !t.InBounds(x, y) {
		return outOfBounds(x, y)
	}
	t.put(x, y, glyph)
	return nil
}

// WriteCellNR implements Sink.
func (t *Terminal) WriteCellNR(x, y uint16, glyph rune) error {
	if err := t.WriteCell(x, y, glyph); err != nil {
		return err
	}
	t.cursor = core.Cursor{X: x, Y: y}
	t.syncCursor()
	return nil
}

// WriteChar implements Sink.
func (t *Terminal) WriteChar(glyph rune) error {
	if err := t.WriteCell(t.cursor.X, t.cursor.Y, glyph); err != nil {
		return err
	}
	t.cursor.Move(1, 0, t.width, t.height)
	t.syncCursor()
	return nil
}

// WriteRun implements Sink.
func (t *Terminal) WriteRun(x, y uint16, text string) error {
	runes, err := runLength(t.width, t.height, x, y, text)
	if err != nil {
		return err
	}
	for i, r := range runes {
		t.put(x+uint16(i), y, r)
	}
	return nil
}

// Clear implements Sink.
func (t *Terminal) Clear() {
	for y := uint16(0); y < t.height; y++ {
		for x := uint16(0); x < t.width; x++ {
			t.put(x, y, ' ')
		}
	}
}

// Cursor implements Sink.
func (t *Terminal) Cursor() (x, y uint16) { return t.cursor.X, t.cursor.Y }

// SetCursor implements Sink.
func (t *Terminal) SetCursor(x, y uint16) error {
	if !t.InBounds(x, y) {
		return outOfBounds(x, y)
	}
	t.cursor = core.Cursor{X: x, Y: y}
	t.syncCursor()
	return nil
}

// MoveCursor implements Sink.
func (t *Terminal) MoveCursor(dx, dy int16) bool {
	ok := t.cursor.Move(dx, dy, t.width, t.height)
	t.syncCursor()
	return ok
}

// SetCursorVisible implements Sink.
func (t *Terminal) SetCursorVisible(visible bool) {
	t.cursorVisible = visible
	t.syncCursor()
}

func (t *Terminal) syncCursor() {
	if t.cursorVisible {
		t.screen.ShowCursor(int(t.cursor.X), int(t.cursor.Y))
		return
	}
	t.screen.HideCursor()
}

// SetRealTime implements Sink.
func (t *Terminal) SetRealTime(realTime bool) { t.keys.realTime = realTime }

// RealTime implements Sink.
func (t *Terminal) RealTime() bool { return t.keys.realTime }

// GetKey implements Sink.
func (t *Terminal) GetKey() Key { return t.keys.get() }

// DrainKeys implements Sink.
func (t *Terminal) DrainKeys() int { return t.keys.drain() }

// Show makes everything written so far visible.
func (t *Terminal) Show() { t.screen.Show() }

// Close restores the terminal. Safe to call more than once.
func (t *Terminal) Close() {
	t.closeOnce.Do(func() {
		t.keys.close()
		t.screen.Fini()
	})
}
