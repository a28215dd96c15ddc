// Package sink provides render sinks: fixed-size character grids with strict
// bounds checking, a logical cursor and key polling.
//
// Grid keeps its cells in memory and is presented by the Bubble Tea host.
// Terminal writes through tcell to the real terminal.
package sink

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfBounds is returned by writes that touch a cell outside the grid.
var ErrOutOfBounds = errors.New("sink: character out of window bounds")

func outOfBounds(x, y uint16) error {
	return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
}

// Sink is the capability set the compositor, the shapes and the games
// need from a display.
type Sink interface {
	Width() uint16
	Height() uint16
	InBounds(x, y uint16) bool

	// WriteCell writes one glyph and leaves the cursor where it was.
	WriteCell(x, y uint16, glyph rune) error
	// WriteCellNR writes one glyph and leaves the cursor on that cell.
	// Bulk writers use it when the cursor is hidden.
	WriteCellNR(x, y uint16, glyph rune) error
	// WriteChar writes one glyph at the cursor and advances it one cell
	// to the right. The cursor stays put in the last column.
	WriteChar(glyph rune) error
	// WriteRun writes text rightwards from (x, y). Fails without writing
	// anything if any character would land outside the grid.
	WriteRun(x, y uint16, text string) error
	// Clear blanks every cell.
	Clear()

	Cursor() (x, y uint16)
	SetCursor(x, y uint16) error
	// MoveCursor moves by (dx, dy), clamping at the edges. Returns false
	// if the cursor could not move the full distance.
	MoveCursor(dx, dy int16) bool
	SetCursorVisible(visible bool)

	// SetRealTime switches GetKey between polling (true) and blocking.
	SetRealTime(realTime bool)
	RealTime() bool
	// GetKey returns the next key. In real-time mode it returns KeyNone
	// at once when no key is waiting.
	GetKey() Key
	// DrainKeys discards every pending key and returns how many there were.
	DrainKeys() int
}

// runLength validates a WriteRun and returns its runes.
func runLength(width, height, x, y uint16, text string) ([]rune, error) {
	runes := []rune(text)
	if x >= width || y >= height || int(x)+len(runes) > int(width) {
		return nil, outOfBounds(x, y)
	}
	return runes, nil
}

// WriteLine fills row y with text, truncated or padded with blanks to the
// sink width.
func WriteLine(dst Sink, y uint16, text string) error {
	w := int(dst.Width())
	runes := []rune(text)
	if len(runes) > w {
		runes = runes[:w]
	}
	return dst.WriteRun(0, y, string(runes)+strings.Repeat(" ", w-len(runes)))
}
