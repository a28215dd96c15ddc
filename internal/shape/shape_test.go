package shape

import (
	"errors"
	"testing"
)

// gridCanvas records every Set call into a map.
type gridCanvas map[[2]uint16]rune

func (c gridCanvas) Set(x, y uint16, glyph rune) {
	c[[2]uint16{x, y}] = glyph
}

// fakeDisplay is a width x height display that fails loudly on any write
// outside its bounds.
type fakeDisplay struct {
	width, height uint16
	cells         gridCanvas
}

func newFakeDisplay(w, h uint16) *fakeDisplay {
	return &fakeDisplay{width: w, height: h, cells: gridCanvas{}}
}

func (d *fakeDisplay) InBounds(x, y uint16) bool {
	return x < d.width && y < d.height
}

func (d *fakeDisplay) WriteCellNR(x, y uint16, glyph rune) error {
	if !d.InBounds(x, y) {
		return errors.New("out of bounds")
	}
	d.cells.Set(x, y, glyph)
	return nil
}

func TestPointCollidesAt(t *testing.T) {
	p := NewPoint(1, '@', 5, 5)

	if !p.CollidesAt(5, 5) {
		t.Error("CollidesAt(5, 5) should be true")
	}
	if p.CollidesAt(5, 6) {
		t.Error("CollidesAt(5, 6) should be false")
	}
	if p.CharAt(5, 5) != '@' {
		t.Errorf("CharAt(5, 5) = %q, expected '@'", p.CharAt(5, 5))
	}
	if p.CharAt(4, 5) != NoGlyph {
		t.Errorf("CharAt(4, 5) = %q, expected NoGlyph", p.CharAt(4, 5))
	}
}

func TestLineCollidesAt(t *testing.T) {
	h := NewLine(1, '-', 5, 2, 1, false)
	for x := uint16(2); x <= 6; x++ {
		if !h.CollidesAt(x, 1) {
			t.Errorf("horizontal CollidesAt(%d, 1) should be true", x)
		}
	}
	if h.CollidesAt(7, 1) {
		t.Error("horizontal CollidesAt(7, 1) should be false")
	}
	if h.CollidesAt(1, 1) {
		t.Error("horizontal CollidesAt(1, 1) should be false")
	}
	if h.CollidesAt(2, 2) {
		t.Error("horizontal CollidesAt(2, 2) should be false")
	}

	v := NewLine(1, '|', 5, 2, 1, true)
	for y := uint16(1); y <= 5; y++ {
		if !v.CollidesAt(2, y) {
			t.Errorf("vertical CollidesAt(2, %d) should be true", y)
		}
	}
	if v.CollidesAt(2, 6) {
		t.Error("vertical CollidesAt(2, 6) should be false")
	}
	if v.CollidesAt(3, 1) {
		t.Error("vertical CollidesAt(3, 1) should be false")
	}
}

func TestLineZeroLength(t *testing.T) {
	l := NewLine(1, '-', 0, 0, 0, false)
	if l.CollidesAt(0, 0) {
		t.Error("Zero-length line should not collide at its origin")
	}
	if l.CollidesAt(65535, 0) {
		t.Error("Zero-length line should not collide anywhere")
	}
	c := gridCanvas{}
	l.Rasterize(c, 0, 0, 10, 10)
	if len(c) != 0 {
		t.Errorf("Zero-length line wrote %d cells", len(c))
	}
}

func TestRectOutlineVsInside(t *testing.T) {
	outline := NewRect(1, '#', 0, 0, 8, 8, false, false)
	if !outline.CollidesAt(0, 0) {
		t.Error("Outline corner (0, 0) should collide")
	}
	if outline.CollidesAt(4, 4) {
		t.Error("Outline interior (4, 4) should not collide")
	}

	guarded := NewRect(1, '#', 0, 0, 8, 8, false, true)
	if !guarded.CollidesAt(4, 4) {
		t.Error("CollideInside interior (4, 4) should collide")
	}
	if guarded.InChars(4, 4) {
		t.Error("Outline glyphs should not cover the interior")
	}
}

func TestRectBorderUsesHeight(t *testing.T) {
	// Wide and short: the bottom edge is at y = 2, not y = width-1.
	r := NewRect(1, '#', 0, 0, 10, 3, false, false)

	for x := uint16(0); x < 10; x++ {
		if !r.CollidesAt(x, 2) {
			t.Errorf("Bottom edge (%d, 2) should collide", x)
		}
	}
	if r.CollidesAt(5, 1) {
		t.Error("Interior (5, 1) should not collide")
	}
	if r.CollidesAt(0, 9) {
		t.Error("(0, 9) is below the box and should not collide")
	}
	if r.CollidesAt(12, 0) {
		t.Error("(12, 0) is right of the box and should not collide")
	}
}

func TestRectZeroSize(t *testing.T) {
	r := NewRect(1, '#', 3, 3, 0, 4, true, true)
	if r.CollidesAt(3, 3) {
		t.Error("Zero-width rect should not collide")
	}

	c := gridCanvas{}
	r.Rasterize(c, 0, 0, 100, 100)
	if len(c) != 0 {
		t.Errorf("Zero-width rect wrote %d cells", len(c))
	}
}

func TestRectRasterizeOutline(t *testing.T) {
	r := NewRect(1, '#', 1, 1, 4, 3, false, false)
	c := gridCanvas{}
	r.Rasterize(c, 0, 0, 20, 20)

	// 4x3 outline has 4+4+1+1 = 10 distinct cells
	if len(c) != 10 {
		t.Errorf("Outline wrote %d cells, expected 10", len(c))
	}
	if _, ok := c[[2]uint16{2, 2}]; ok {
		t.Error("Outline should not write its interior")
	}
	if c[[2]uint16{4, 3}] != '#' {
		t.Error("Outline should write its bottom-right corner")
	}

	filled := NewRect(1, '%', 1, 1, 4, 3, true, true)
	c = gridCanvas{}
	filled.Rasterize(c, 0, 0, 20, 20)
	if len(c) != 12 {
		t.Errorf("Filled rect wrote %d cells, expected 12", len(c))
	}
}

func TestRasterizeClips(t *testing.T) {
	l := NewLine(1, '=', 10, 0, 0, false)
	c := gridCanvas{}
	l.Rasterize(c, 5, 0, 8, 1)

	// Offset 5 puts cells at x = 5..14; only 5, 6, 7 fit below xMax = 8.
	if len(c) != 3 {
		t.Errorf("Clipped line wrote %d cells, expected 3", len(c))
	}
}

func TestRasterizeWrappedOffset(t *testing.T) {
	// A "negative" offset of -2 wraps; the first two cells land on huge
	// coordinates and are clipped, the rest shift left.
	l := NewLine(1, '=', 5, 0, 0, false)
	c := gridCanvas{}
	l.Rasterize(c, 65534, 0, 10, 10)

	if len(c) != 3 {
		t.Errorf("Wrapped line wrote %d cells, expected 3", len(c))
	}
	if c[[2]uint16{0, 0}] != '=' {
		t.Error("Third cell should land on x = 0")
	}
}

func TestDrawSkipsOutOfBounds(t *testing.T) {
	d := newFakeDisplay(5, 5)
	r := NewRect(1, '#', 3, 3, 4, 4, true, true)

	if err := r.Draw(d, 0, 0); err != nil {
		t.Fatalf("Draw() returned error: %v", err)
	}
	// Only the 2x2 corner at (3..4, 3..4) is visible.
	if len(d.cells) != 4 {
		t.Errorf("Draw wrote %d cells, expected 4", len(d.cells))
	}

	p := NewPoint(1, '@', 0, 0)
	if err := p.Draw(d, 65535, 0); err != nil {
		t.Errorf("Draw of a wrapped point should skip silently, got %v", err)
	}
}

func TestGroupDelegates(t *testing.T) {
	a := NewPoint(1, 'a', 1, 1)
	b := NewPoint(1, 'b', 1, 1)
	line := NewLine(1, '-', 3, 0, 3, false)
	g := NewGroup(1, 0, 0, a, b, line)

	if !g.CollidesAt(1, 1) || !g.CollidesAt(2, 3) {
		t.Error("Group should collide wherever a child does")
	}
	if g.CollidesAt(5, 5) {
		t.Error("Group should not collide where no child does")
	}
	// First child wins
	if g.CharAt(1, 1) != 'a' {
		t.Errorf("CharAt(1, 1) = %q, expected first child's 'a'", g.CharAt(1, 1))
	}

	c := gridCanvas{}
	g.Rasterize(c, 0, 0, 10, 10)
	// Rasterized in order, so the later child's glyph is on top.
	if c[[2]uint16{1, 1}] != 'b' {
		t.Errorf("Rasterized (1, 1) = %q, expected 'b'", c[[2]uint16{1, 1}])
	}
}

func TestGroupTranslatesChildren(t *testing.T) {
	g := NewGroup(1, 10, 5, NewPoint(1, 'x', 1, 1))

	if !g.CollidesAt(11, 6) {
		t.Error("Child at (1, 1) in a group at (10, 5) should collide at (11, 6)")
	}
	if g.CollidesAt(1, 1) {
		t.Error("Child should not collide at its untranslated position")
	}

	c := gridCanvas{}
	g.Rasterize(c, 0, 0, 20, 20)
	if c[[2]uint16{11, 6}] != 'x' {
		t.Error("Group should rasterize children at the translated position")
	}
}

type releaseCounter struct {
	*Point
	released *int
}

func (r releaseCounter) Release() { *r.released++ }

func TestGroupRemovePopRelease(t *testing.T) {
	var released int
	first := releaseCounter{NewPoint(1, '1', 0, 0), &released}
	second := releaseCounter{NewPoint(1, '2', 1, 0), &released}
	third := releaseCounter{NewPoint(1, '3', 2, 0), &released}
	g := NewGroup(1, 0, 0, first, second, third)

	if g.Remove(3) {
		t.Error("Remove(len) should fail")
	}
	if g.Remove(-1) {
		t.Error("Remove(-1) should fail")
	}

	popped, ok := g.Pop(0)
	if !ok || popped != Shape(first) {
		t.Fatal("Pop(0) should return the first child")
	}
	if released != 0 {
		t.Error("Pop should not release the child")
	}

	if !g.Remove(0) {
		t.Fatal("Remove(0) should succeed")
	}
	if released != 1 {
		t.Errorf("released = %d, expected 1 after Remove", released)
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", g.Len())
	}

	g.Release()
	if released != 2 || g.Len() != 0 {
		t.Errorf("Release should cascade: released = %d, len = %d", released, g.Len())
	}
}

func TestSetPosition(t *testing.T) {
	p := NewPoint(1, '@', 2, 2)
	if p.SetX(2) {
		t.Error("SetX to the same value should report no change")
	}
	if !p.SetY(3) {
		t.Error("SetY to a new value should report a change")
	}
	if x, y := p.Position(); x != 2 || y != 3 {
		t.Errorf("Position() = (%d, %d), expected (2, 3)", x, y)
	}
	p.SetCollisionCode(7)
	if p.CollisionCode() != 7 {
		t.Errorf("CollisionCode() = %d, expected 7", p.CollisionCode())
	}
}

func TestTypeNames(t *testing.T) {
	shapes := map[string]Shape{
		"Point": NewPoint(0, 'x', 0, 0),
		"Line":  NewLine(0, 'x', 1, 0, 0, false),
		"Rect":  NewRect(0, 'x', 0, 0, 1, 1, true, true),
		"Group": NewGroup(0, 0, 0),
	}
	for want, s := range shapes {
		if s.TypeName() != want {
			t.Errorf("TypeName() = %q, expected %q", s.TypeName(), want)
		}
	}
}
