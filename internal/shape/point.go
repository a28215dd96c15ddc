package shape

// Point is a single glyph. Useful for actors, pickups, doorways and other
// one-cell obstructions.
type Point struct {
	base
	glyph rune
}

// NewPoint creates a point at (x, y).
func NewPoint(code uint32, glyph rune, x, y uint16) *Point {
	return &Point{base: base{code: code, x: x, y: y}, glyph: glyph}
}

// Glyph returns the point's glyph.
func (p *Point) Glyph() rune { return p.glyph }

// SetGlyph replaces the point's glyph.
func (p *Point) SetGlyph(glyph rune) { p.glyph = glyph }

// Draw implements Shape.
func (p *Point) Draw(dst Display, xo, yo uint16) error {
	return put(dst, p.x+xo, p.y+yo, p.glyph)
}

// Rasterize implements Shape.
func (p *Point) Rasterize(dst Canvas, xo, yo, xMax, yMax uint16) {
	plot(dst, p.x+xo, p.y+yo, xMax, yMax, p.glyph)
}

// CharAt implements Shape.
func (p *Point) CharAt(x, y uint16) rune {
	if p.CollidesAt(x, y) {
		return p.glyph
	}
	return NoGlyph
}

// CollidesAt implements Shape.
func (p *Point) CollidesAt(x, y uint16) bool {
	return x == p.x && y == p.y
}

// TypeName implements Shape.
func (p *Point) TypeName() string { return "Point" }
