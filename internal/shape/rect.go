package shape

// DefaultRectSize is the edge length used by scenes that leave a
// rectangle's width or height unset.
const DefaultRectSize = 8

// Rect is a box of one glyph. Filled controls which cells are drawn;
// CollideInside controls which cells collide. The two are independent:
// an outline can guard its whole interior (an area of effect) and a filled
// box can collide only on its border.
type Rect struct {
	base
	glyph         rune
	width, height uint16
	filled        bool
	collideInside bool
}

// NewRect creates a width x height rectangle with its top-left corner at
// (x, y). A zero width or height is legal and covers nothing.
func NewRect(code uint32, glyph rune, x, y, width, height uint16, filled, collideInside bool) *Rect {
	return &Rect{
		base:          base{code: code, x: x, y: y},
		glyph:         glyph,
		width:         width,
		height:        height,
		filled:        filled,
		collideInside: collideInside,
	}
}

// Size returns the rectangle's width and height.
func (r *Rect) Size() (width, height uint16) { return r.width, r.height }

// Filled reports whether the interior is drawn.
func (r *Rect) Filled() bool { return r.filled }

// CollideInside reports whether the interior collides.
func (r *Rect) CollideInside() bool { return r.collideInside }

// cells calls fn for every drawn cell at the given origin. Outlines visit
// corner cells more than once.
func (r *Rect) cells(x, y uint16, fn func(x, y uint16)) {
	if r.width == 0 || r.height == 0 {
		return
	}
	if r.filled {
		for j := uint16(0); j < r.height; j++ {
			for i := uint16(0); i < r.width; i++ {
				fn(x+i, y+j)
			}
		}
		return
	}
	right, bottom := x+r.width-1, y+r.height-1
	for i := uint16(0); i < r.width; i++ {
		fn(x+i, y)
		fn(x+i, bottom)
	}
	for j := uint16(0); j < r.height; j++ {
		fn(x, y+j)
		fn(right, y+j)
	}
}

// Draw implements Shape.
func (r *Rect) Draw(dst Display, xo, yo uint16) error {
	var err error
	r.cells(r.x+xo, r.y+yo, func(x, y uint16) {
		if err == nil {
			err = put(dst, x, y, r.glyph)
		}
	})
	return err
}

// Rasterize implements Shape.
func (r *Rect) Rasterize(dst Canvas, xo, yo, xMax, yMax uint16) {
	r.cells(r.x+xo, r.y+yo, func(x, y uint16) {
		plot(dst, x, y, xMax, yMax, r.glyph)
	})
}

// inBox reports whether (x, y) is inside the full width x height box.
// x < r.x wraps to a large value and fails the width test.
func (r *Rect) inBox(x, y uint16) bool {
	return x-r.x < r.width && y-r.y < r.height
}

// onBorder reports whether (x, y) is one of the box's edge cells.
func (r *Rect) onBorder(x, y uint16) bool {
	if !r.inBox(x, y) {
		return false
	}
	return x == r.x || y == r.y || x == r.x+r.width-1 || y == r.y+r.height-1
}

// CharAt implements Shape.
func (r *Rect) CharAt(x, y uint16) rune {
	if r.CollidesAt(x, y) {
		return r.glyph
	}
	return NoGlyph
}

// CollidesAt implements Shape.
func (r *Rect) CollidesAt(x, y uint16) bool {
	if r.collideInside {
		return r.inBox(x, y)
	}
	return r.onBorder(x, y)
}

// InChars reports whether (x, y) is covered by a drawn glyph, as opposed
// to the collision region.
func (r *Rect) InChars(x, y uint16) bool {
	if r.filled {
		return r.inBox(x, y)
	}
	return r.onBorder(x, y)
}

// TypeName implements Shape.
func (r *Rect) TypeName() string { return "Rect" }
