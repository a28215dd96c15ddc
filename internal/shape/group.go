package shape

// Group is an ordered set of owned shapes, used to build rooms or layers.
// Children are positioned relative to the group's origin and are queried in
// insertion order; the first child that answers wins.
type Group struct {
	base
	children []Shape
}

// NewGroup creates a group at (x, y) owning the given children. Child
// positions are relative to the group origin, so a group at (0, 0) draws
// its children where they stand.
func NewGroup(code uint32, x, y uint16, children ...Shape) *Group {
	g := &Group{base: base{code: code, x: x, y: y}}
	g.children = append(g.children, children...)
	return g
}

// Add takes ownership of s and appends it after the existing children.
func (g *Group) Add(s Shape) {
	g.children = append(g.children, s)
}

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

// At returns the child at index.
func (g *Group) At(index int) (Shape, bool) {
	if index < 0 || index >= len(g.children) {
		return nil, false
	}
	return g.children[index], true
}

// Remove releases and drops the child at index.
// Returns false if the index is out of range.
func (g *Group) Remove(index int) bool {
	s, ok := g.Pop(index)
	if !ok {
		return false
	}
	Release(s)
	return true
}

// Pop removes the child at index without releasing it and hands it back
// to the caller.
func (g *Group) Pop(index int) (Shape, bool) {
	if index < 0 || index >= len(g.children) {
		return nil, false
	}
	s := g.children[index]
	copy(g.children[index:], g.children[index+1:])
	g.children[len(g.children)-1] = nil
	g.children = g.children[:len(g.children)-1]
	return s, true
}

// Release releases every child and empties the group.
func (g *Group) Release() {
	for i, s := range g.children {
		Release(s)
		g.children[i] = nil
	}
	g.children = nil
}

// Draw implements Shape.
func (g *Group) Draw(dst Display, xo, yo uint16) error {
	for _, s := range g.children {
		if err := s.Draw(dst, g.x+xo, g.y+yo); err != nil {
			return err
		}
	}
	return nil
}

// Rasterize implements Shape.
func (g *Group) Rasterize(dst Canvas, xo, yo, xMax, yMax uint16) {
	for _, s := range g.children {
		s.Rasterize(dst, g.x+xo, g.y+yo, xMax, yMax)
	}
}

// CharAt returns the first glyph any child shows at (x, y).
func (g *Group) CharAt(x, y uint16) rune {
	lx, ly := x-g.x, y-g.y
	for _, s := range g.children {
		if r := s.CharAt(lx, ly); r != NoGlyph {
			return r
		}
	}
	return NoGlyph
}

// CollidesAt reports whether any child collides at (x, y).
func (g *Group) CollidesAt(x, y uint16) bool {
	lx, ly := x-g.x, y-g.y
	for _, s := range g.children {
		if s.CollidesAt(lx, ly) {
			return true
		}
	}
	return false
}

// TypeName implements Shape.
func (g *Group) TypeName() string { return "Group" }
