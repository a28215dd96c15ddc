// Package shape defines the drawable and collidable primitives a scene is
// built from: points, lines, rectangles and groups of other shapes.
//
// Every shape carries an opaque collision code and a position local to its
// own origin. Positions are unsigned; the offset passed to Draw or Rasterize
// is added with wraparound, so a shape pushed "off the left edge" lands on a
// huge coordinate and is clipped like any other out-of-range cell.
package shape

// NoGlyph is returned by CharAt when the shape does not cover a coordinate.
const NoGlyph rune = 0

// Display is a bounds-checked cell target that shapes draw onto directly.
// Render sinks satisfy it.
type Display interface {
	InBounds(x, y uint16) bool
	WriteCellNR(x, y uint16, glyph rune) error
}

// Canvas is a cell target that shapes rasterize into. Shapes clip against
// the limits passed to Rasterize before calling Set.
type Canvas interface {
	Set(x, y uint16, glyph rune)
}

// Shape is a drawable and collidable primitive.
type Shape interface {
	// Draw writes the shape straight onto a display at the given offset.
	// Cells outside the display are skipped.
	Draw(dst Display, xo, yo uint16) error

	// Rasterize writes the shape into a canvas at the given offset,
	// skipping any cell with x >= xMax or y >= yMax.
	Rasterize(dst Canvas, xo, yo, xMax, yMax uint16)

	// CharAt returns the glyph shown at (x, y), or NoGlyph.
	CharAt(x, y uint16) rune

	// CollidesAt reports whether (x, y) is inside the collision region.
	CollidesAt(x, y uint16) bool

	// TypeName returns the variant name for diagnostics.
	TypeName() string

	CollisionCode() uint32
	SetCollisionCode(code uint32)
	Position() (x, y uint16)
	SetX(x uint16) bool
	SetY(y uint16) bool
}

// Releaser is implemented by shapes that own other shapes. Owners call
// Release when they discard a shape for good.
type Releaser interface {
	Release()
}

// Release releases s if it owns other shapes.
func Release(s Shape) {
	if r, ok := s.(Releaser); ok {
		r.Release()
	}
}

// base holds the state common to all variants.
type base struct {
	code uint32
	x, y uint16
}

// CollisionCode returns the shape's collision code.
func (b *base) CollisionCode() uint32 { return b.code }

// SetCollisionCode replaces the shape's collision code.
func (b *base) SetCollisionCode(code uint32) { b.code = code }

// Position returns the shape's local position.
func (b *base) Position() (x, y uint16) { return b.x, b.y }

// SetX moves the shape horizontally. Returns false if x is unchanged.
func (b *base) SetX(x uint16) bool {
	if x == b.x {
		return false
	}
	b.x = x
	return true
}

// SetY moves the shape vertically. Returns false if y is unchanged.
func (b *base) SetY(y uint16) bool {
	if y == b.y {
		return false
	}
	b.y = y
	return true
}

// plot writes one glyph into dst if it falls below the limits.
func plot(dst Canvas, x, y, xMax, yMax uint16, glyph rune) {
	if x < xMax && y < yMax {
		dst.Set(x, y, glyph)
	}
}

// put writes one glyph onto dst if the display reports it in bounds.
func put(dst Display, x, y uint16, glyph rune) error {
	if !dst.InBounds(x, y) {
		return nil
	}
	return dst.WriteCellNR(x, y, glyph)
}
