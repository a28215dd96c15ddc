// Package compositor layers shapes into a backing character buffer and
// answers collision queries against them.
//
// Shapes are composited in insertion order, so a later shape's glyph wins
// any shared cell. Collision queries scan the shapes themselves, topmost
// first, because the buffer only keeps the visible glyph of each cell and
// loses every collision code underneath it.
package compositor

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-charstage/internal/shape"
)

// Blank is the glyph of an empty buffer cell.
const Blank = ' '

// CellWriter receives flushed cells. Render sinks satisfy it; the write
// must not move the sink's cursor back after each cell.
type CellWriter interface {
	WriteCellNR(x, y uint16, glyph rune) error
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithViewOffset places the compositor's region at (x, y) on the sink.
func WithViewOffset(x, y uint16) Option {
	return func(c *Compositor) {
		c.viewX, c.viewY = x, y
	}
}

// Compositor owns a width x height buffer and an ordered list of shapes.
// It is not safe for concurrent use; a multi-goroutine host must guard the
// whole compositor with one lock.
type Compositor struct {
	width, height    uint16
	viewX, viewY     uint16
	scrollX, scrollY uint16
	cells            [][]rune // [y][x]
	shapes           []shape.Shape
	dirty            bool
}

// New creates a compositor with a blank buffer.
func New(width, height uint16, opts ...Option) *Compositor {
	c := &Compositor{width: width, height: height}
	for _, opt := range opts {
		opt(c)
	}
	c.cells = make([][]rune, height)
	for y := range c.cells {
		c.cells[y] = make([]rune, width)
	}
	c.fill()
	return c
}

// Width returns the buffer width.
func (c *Compositor) Width() uint16 { return c.width }

// Height returns the buffer height.
func (c *Compositor) Height() uint16 { return c.height }

// ViewOffset returns where the region sits on the sink.
func (c *Compositor) ViewOffset() (x, y uint16) { return c.viewX, c.viewY }

// ScrollOffset returns the current scroll translation.
func (c *Compositor) ScrollOffset() (x, y uint16) { return c.scrollX, c.scrollY }

// Offset returns the translation handed to shapes at rasterize time:
// view offset plus scroll offset.
func (c *Compositor) Offset() (x, y uint16) {
	return c.viewX + c.scrollX, c.viewY + c.scrollY
}

// Limit returns the exclusive rasterize bounds: size plus view offset.
func (c *Compositor) Limit() (x, y uint16) {
	return c.width + c.viewX, c.height + c.viewY
}

// Dirty reports whether the buffer changed since the last Flush.
func (c *Compositor) Dirty() bool { return c.dirty }

// Len returns the number of owned shapes.
func (c *Compositor) Len() int { return len(c.shapes) }

// Add takes ownership of s and puts it on top of every other shape.
func (c *Compositor) Add(s shape.Shape) {
	c.shapes = append(c.shapes, s)
}

// At returns the shape at index without giving up ownership.
func (c *Compositor) At(index int) (shape.Shape, bool) {
	if index < 0 || index >= len(c.shapes) {
		return nil, false
	}
	return c.shapes[index], true
}

// Index returns the position of s, or -1 if the compositor does not own it.
func (c *Compositor) Index(s shape.Shape) int {
	for i, owned := range c.shapes {
		if owned == s {
			return i
		}
	}
	return -1
}

// Remove releases and drops the shape at index.
// Returns false if the index is out of range.
func (c *Compositor) Remove(index int) bool {
	s, ok := c.Pop(index)
	if !ok {
		return false
	}
	shape.Release(s)
	return true
}

// RemoveShape releases and drops s. Returns false if s is not owned here.
func (c *Compositor) RemoveShape(s shape.Shape) bool {
	i := c.Index(s)
	if i < 0 {
		return false
	}
	return c.Remove(i)
}

// Pop removes the shape at index without releasing it and returns it;
// the caller owns it from then on.
func (c *Compositor) Pop(index int) (shape.Shape, bool) {
	if index < 0 || index >= len(c.shapes) {
		return nil, false
	}
	s := c.shapes[index]
	copy(c.shapes[index:], c.shapes[index+1:])
	c.shapes[len(c.shapes)-1] = nil
	c.shapes = c.shapes[:len(c.shapes)-1]
	return s, true
}

// Release releases every owned shape and empties the compositor.
func (c *Compositor) Release() {
	for i, s := range c.shapes {
		shape.Release(s)
		c.shapes[i] = nil
	}
	c.shapes = nil
}

// HasCollisionCode reports whether any shape with the given code collides
// at (x, y). Shapes are scanned topmost first.
func (c *Compositor) HasCollisionCode(x, y uint16, code uint32) bool {
	_, _, ok := c.ShapeWithCode(x, y, code)
	return ok
}

// ShapeWithCode returns the topmost shape with the given code that
// collides at (x, y), and its index.
func (c *Compositor) ShapeWithCode(x, y uint16, code uint32) (int, shape.Shape, bool) {
	for i := len(c.shapes) - 1; i >= 0; i-- {
		s := c.shapes[i]
		if s.CollisionCode() == code && s.CollidesAt(x, y) {
			return i, s, true
		}
	}
	return -1, nil, false
}

// RasterizeAll writes every shape into the buffer, bottom to top, on top of
// whatever the buffer already holds.
func (c *Compositor) RasterizeAll() {
	xo, yo := c.Offset()
	xMax, yMax := c.Limit()
	canvas := bufferCanvas{c}
	for _, s := range c.shapes {
		s.Rasterize(canvas, xo, yo, xMax, yMax)
	}
	c.dirty = true
}

// RasterizeOne writes the shape at index on top of the buffer.
// Returns false if the index is out of range.
func (c *Compositor) RasterizeOne(index int) bool {
	s, ok := c.At(index)
	if !ok {
		return false
	}
	c.rasterize(s)
	return true
}

// RasterizeShape writes s on top of the buffer. Returns false if s is not
// owned by the compositor.
func (c *Compositor) RasterizeShape(s shape.Shape) bool {
	if c.Index(s) < 0 {
		return false
	}
	c.rasterize(s)
	return true
}

func (c *Compositor) rasterize(s shape.Shape) {
	xo, yo := c.Offset()
	xMax, yMax := c.Limit()
	s.Rasterize(bufferCanvas{c}, xo, yo, xMax, yMax)
	c.dirty = true
}

// Clear blanks the buffer.
func (c *Compositor) Clear() {
	c.fill()
	c.dirty = true
}

// Redraw clears the buffer and rasterizes every shape again. Call it
// whenever the scene changed.
func (c *Compositor) Redraw() {
	c.Clear()
	c.RasterizeAll()
}

// Flush copies every buffer cell to dst at the view offset. It does
// nothing if the buffer has not changed since the last successful flush.
// On error the compositor stays dirty.
func (c *Compositor) Flush(dst CellWriter) error {
	if !c.dirty {
		return nil
	}
	for y, row := range c.cells {
		for x, glyph := range row {
			if err := dst.WriteCellNR(c.viewX+uint16(x), c.viewY+uint16(y), glyph); err != nil {
				return fmt.Errorf("compositor: flush: %w", err)
			}
		}
	}
	c.dirty = false
	return nil
}

// Scroll moves the scene by (dx, dy) at the next rasterize. Negative
// deltas wrap, which is what shifts shapes left or up.
func (c *Compositor) Scroll(dx, dy int16) {
	c.scrollX += uint16(dx)
	c.scrollY += uint16(dy)
}

// SetScroll replaces the scroll translation.
func (c *Compositor) SetScroll(x, y uint16) {
	c.scrollX, c.scrollY = x, y
}

// CharAt returns the buffer glyph at (x, y) in buffer coordinates: the
// glyph of whichever shape rasterized there last, or NoGlyph outside.
func (c *Compositor) CharAt(x, y uint16) rune {
	if x >= c.width || y >= c.height {
		return shape.NoGlyph
	}
	return c.cells[y][x]
}

// String returns the buffer rows joined with newlines.
func (c *Compositor) String() string {
	var sb strings.Builder
	sb.Grow(int(c.width)*int(c.height) + int(c.height))
	for y, row := range c.cells {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}

func (c *Compositor) fill() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Blank
		}
	}
}

// bufferCanvas maps sink coordinates handed to shapes back onto the
// buffer. Anything left of or above the view offset wraps and is dropped.
type bufferCanvas struct {
	c *Compositor
}

func (b bufferCanvas) Set(x, y uint16, glyph rune) {
	lx, ly := x-b.c.viewX, y-b.c.viewY
	if lx < b.c.width && ly < b.c.height {
		b.c.cells[ly][lx] = glyph
	}
}
