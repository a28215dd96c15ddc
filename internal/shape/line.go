package shape

// Line is a horizontal or vertical run of one glyph, such as a wall.
type Line struct {
	base
	glyph    rune
	length   uint16
	vertical bool
}

// NewLine creates a line starting at (x, y) and extending right, or down
// when vertical is set.
func NewLine(code uint32, glyph rune, length, x, y uint16, vertical bool) *Line {
	return &Line{
		base:     base{code: code, x: x, y: y},
		glyph:    glyph,
		length:   length,
		vertical: vertical,
	}
}

// Length returns the number of cells in the line.
func (l *Line) Length() uint16 { return l.length }

// Vertical reports whether the line runs down.
func (l *Line) Vertical() bool { return l.vertical }

// step returns the i-th cell of the line at the given origin.
func (l *Line) step(x, y, i uint16) (uint16, uint16) {
	if l.vertical {
		return x, y + i
	}
	return x + i, y
}

// Draw implements Shape.
func (l *Line) Draw(dst Display, xo, yo uint16) error {
	for i := uint16(0); i < l.length; i++ {
		x, y := l.step(l.x+xo, l.y+yo, i)
		if err := put(dst, x, y, l.glyph); err != nil {
			return err
		}
	}
	return nil
}

// Rasterize implements Shape.
func (l *Line) Rasterize(dst Canvas, xo, yo, xMax, yMax uint16) {
	for i := uint16(0); i < l.length; i++ {
		x, y := l.step(l.x+xo, l.y+yo, i)
		plot(dst, x, y, xMax, yMax, l.glyph)
	}
}

// CharAt implements Shape.
func (l *Line) CharAt(x, y uint16) rune {
	if l.CollidesAt(x, y) {
		return l.glyph
	}
	return NoGlyph
}

// CollidesAt implements Shape.
//
// The query is projected onto the line's axis: the fixed coordinate must
// match exactly and the running coordinate must fall in
// [start, start+length-1].
func (l *Line) CollidesAt(x, y uint16) bool {
	fixed, start := l.y, l.x
	across, along := y, x
	if l.vertical {
		fixed, start = l.x, l.y
		across, along = x, y
	}
	if across != fixed {
		return false
	}
	return along >= start && along-start < l.length
}

// TypeName implements Shape.
func (l *Line) TypeName() string { return "Line" }
