package compositor

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-charstage/internal/shape"
)

// recordingSink collects flushed cells and can be told to reject writes.
type recordingSink struct {
	cells  map[[2]uint16]rune
	writes int
	fail   error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{cells: make(map[[2]uint16]rune)}
}

func (s *recordingSink) WriteCellNR(x, y uint16, glyph rune) error {
	if s.fail != nil {
		return s.fail
	}
	s.writes++
	s.cells[[2]uint16{x, y}] = glyph
	return nil
}

func TestNewIsBlankAndClean(t *testing.T) {
	c := New(4, 3)

	for y := uint16(0); y < 3; y++ {
		for x := uint16(0); x < 4; x++ {
			if c.CharAt(x, y) != Blank {
				t.Errorf("New buffer should be blank, got %q at (%d, %d)", c.CharAt(x, y), x, y)
			}
		}
	}
	if c.Dirty() {
		t.Error("New compositor should not be dirty")
	}
	if c.CharAt(4, 0) != shape.NoGlyph {
		t.Error("CharAt outside the buffer should return NoGlyph")
	}
}

func TestLastWriteWins(t *testing.T) {
	c := New(10, 10)
	a := shape.NewPoint(1, 'A', 3, 3)
	b := shape.NewPoint(2, 'B', 3, 3)
	c.Add(a)
	c.Add(b)

	c.Redraw()

	if c.CharAt(3, 3) != 'B' {
		t.Errorf("CharAt(3, 3) = %q, expected 'B' (later shape on top)", c.CharAt(3, 3))
	}
}

func TestCollisionIgnoresOcclusion(t *testing.T) {
	c := New(10, 10)
	a := shape.NewPoint(1, 'A', 3, 3)
	b := shape.NewPoint(2, 'B', 3, 3)
	c.Add(a)
	c.Add(b)
	c.Redraw()

	if !c.HasCollisionCode(3, 3, 1) {
		t.Error("HasCollisionCode should find A's code under B's glyph")
	}
	if !c.HasCollisionCode(3, 3, 2) {
		t.Error("HasCollisionCode should find B's code")
	}
	if c.HasCollisionCode(3, 3, 3) {
		t.Error("HasCollisionCode should not match an unused code")
	}
	if c.HasCollisionCode(4, 3, 1) {
		t.Error("HasCollisionCode should not match an empty cell")
	}
}

func TestShapeWithCodeTopmostFirst(t *testing.T) {
	c := New(10, 10)
	bottom := shape.NewRect(1, '#', 0, 0, 5, 5, true, true)
	top := shape.NewPoint(1, '@', 2, 2)
	c.Add(bottom)
	c.Add(top)

	i, s, ok := c.ShapeWithCode(2, 2, 1)
	if !ok || i != 1 || s != shape.Shape(top) {
		t.Errorf("ShapeWithCode = (%d, %v, %v), expected the topmost point at index 1", i, s, ok)
	}

	i, s, ok = c.ShapeWithCode(0, 0, 1)
	if !ok || i != 0 || s != shape.Shape(bottom) {
		t.Errorf("ShapeWithCode = (%d, %v, %v), expected the rect at index 0", i, s, ok)
	}

	if i, _, ok := c.ShapeWithCode(9, 9, 1); ok || i != -1 {
		t.Error("ShapeWithCode on an empty cell should report no match")
	}
}

func TestClippingOffBuffer(t *testing.T) {
	c := New(5, 5)
	c.Add(shape.NewRect(1, '#', 20, 20, 3, 3, true, true))
	c.Add(shape.NewLine(1, '-', 4, 0, 7, false))

	c.RasterizeAll()

	if got := c.String(); got != strings.Repeat(strings.Repeat(" ", 5)+"\n", 4)+strings.Repeat(" ", 5) {
		t.Errorf("Off-buffer shapes changed the buffer:\n%s", got)
	}
	if !c.Dirty() {
		t.Error("RasterizeAll should mark the compositor dirty")
	}
}

func TestViewOffsetPlacement(t *testing.T) {
	c := New(4, 2, WithViewOffset(3, 1))
	c.Add(shape.NewPoint(1, 'x', 0, 0))
	c.Add(shape.NewPoint(1, 'y', 3, 1))
	c.Redraw()

	if c.CharAt(0, 0) != 'x' || c.CharAt(3, 1) != 'y' {
		t.Errorf("Buffer should hold shapes in region coordinates:\n%s", c.String())
	}
	if xo, yo := c.Offset(); xo != 3 || yo != 1 {
		t.Errorf("Offset() = (%d, %d), expected (3, 1)", xo, yo)
	}
	if xm, ym := c.Limit(); xm != 7 || ym != 3 {
		t.Errorf("Limit() = (%d, %d), expected (7, 3)", xm, ym)
	}

	dst := newRecordingSink()
	if err := c.Flush(dst); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	if dst.cells[[2]uint16{3, 1}] != 'x' {
		t.Error("Flush should write region (0, 0) at sink (3, 1)")
	}
	if dst.cells[[2]uint16{6, 2}] != 'y' {
		t.Error("Flush should write region (3, 1) at sink (6, 2)")
	}
	if dst.writes != 8 {
		t.Errorf("Flush wrote %d cells, expected 8", dst.writes)
	}
}

func TestScroll(t *testing.T) {
	c := New(5, 1)
	p := shape.NewPoint(1, '@', 2, 0)
	c.Add(p)

	c.Scroll(-1, 0)
	if c.CharAt(2, 0) != Blank {
		t.Error("Scroll should have no effect before Redraw")
	}
	c.Redraw()
	if c.CharAt(1, 0) != '@' {
		t.Errorf("After Scroll(-1, 0) and Redraw:\n%q", c.String())
	}
	if x, _ := p.Position(); x != 2 {
		t.Error("Scroll should not move stored shape coordinates")
	}

	// Scrolled past the left edge wraps and is clipped
	c.Scroll(-5, 0)
	c.Redraw()
	if c.String() != "     " {
		t.Errorf("Shape scrolled off the left edge should vanish, got %q", c.String())
	}

	c.SetScroll(0, 0)
	c.Redraw()
	if c.CharAt(2, 0) != '@' {
		t.Error("SetScroll(0, 0) should restore the original placement")
	}
}

func TestScrollAboveViewOffsetIsClipped(t *testing.T) {
	// A shape scrolled into the rows above the region must not spill
	// into the buffer.
	c := New(3, 3, WithViewOffset(0, 2))
	c.Add(shape.NewPoint(1, '@', 0, 0))
	c.Scroll(0, -1)
	c.Redraw()

	if strings.ContainsRune(c.String(), '@') {
		t.Errorf("Shape above the region leaked into the buffer:\n%s", c.String())
	}
}

func TestFlushIdempotent(t *testing.T) {
	c := New(3, 2)
	c.Add(shape.NewPoint(1, '*', 1, 1))
	c.Redraw()

	dst := newRecordingSink()
	if err := c.Flush(dst); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	if dst.writes != 6 {
		t.Errorf("First flush wrote %d cells, expected 6", dst.writes)
	}
	if c.Dirty() {
		t.Error("Compositor should be clean after Flush")
	}

	if err := c.Flush(dst); err != nil {
		t.Fatalf("Second Flush() failed: %v", err)
	}
	if dst.writes != 6 {
		t.Errorf("Second flush should be a no-op, total writes = %d", dst.writes)
	}
}

func TestFlushErrorKeepsDirty(t *testing.T) {
	c := New(2, 2)
	c.Redraw()

	boom := errors.New("boom")
	dst := newRecordingSink()
	dst.fail = boom

	err := c.Flush(dst)
	if !errors.Is(err, boom) {
		t.Errorf("Flush() error = %v, expected to wrap %v", err, boom)
	}
	if !c.Dirty() {
		t.Error("Compositor should stay dirty after a failed flush")
	}
}

func TestClearMarksDirty(t *testing.T) {
	c := New(2, 2)
	c.Add(shape.NewPoint(1, 'x', 0, 0))
	c.Redraw()
	if err := c.Flush(newRecordingSink()); err != nil {
		t.Fatal(err)
	}

	c.Clear()
	if !c.Dirty() {
		t.Error("Clear should mark the compositor dirty")
	}
	if c.CharAt(0, 0) != Blank {
		t.Error("Clear should blank the buffer")
	}
}

func TestPopTransfersOwnership(t *testing.T) {
	c := New(5, 5)
	keep := shape.NewPoint(1, 'k', 0, 0)
	moved := shape.NewPoint(1, 'm', 1, 1)
	c.Add(keep)
	c.Add(moved)

	s, ok := c.Pop(1)
	if !ok || s != shape.Shape(moved) {
		t.Fatal("Pop(1) should return the second shape")
	}
	c.Redraw()
	if c.CharAt(1, 1) != Blank {
		t.Error("Popped shape should no longer be drawn")
	}
	if c.HasCollisionCode(1, 1, 1) {
		t.Error("Popped shape should no longer collide")
	}

	// Still usable by the caller, and can be handed back.
	c.Add(s)
	c.Redraw()
	if c.CharAt(1, 1) != 'm' {
		t.Error("Re-added shape should be drawn again")
	}

	if _, ok := c.Pop(2); ok {
		t.Error("Pop(len) should fail")
	}
	if _, ok := c.Pop(-1); ok {
		t.Error("Pop(-1) should fail")
	}
}

type releaseTracker struct {
	*shape.Point
	released *bool
}

func (r releaseTracker) Release() { *r.released = true }

func TestRemove(t *testing.T) {
	c := New(5, 5)
	var released bool
	tracked := releaseTracker{shape.NewPoint(1, 't', 0, 0), &released}
	other := shape.NewPoint(1, 'o', 1, 0)
	c.Add(tracked)
	c.Add(other)

	if c.Remove(2) {
		t.Error("Remove(len) should fail")
	}
	if !c.Remove(0) {
		t.Fatal("Remove(0) should succeed")
	}
	if !released {
		t.Error("Remove should release the shape")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", c.Len())
	}

	if c.RemoveShape(tracked) {
		t.Error("RemoveShape of a shape no longer owned should fail")
	}
	if !c.RemoveShape(other) {
		t.Error("RemoveShape of an owned shape should succeed")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", c.Len())
	}
}

func TestReleaseCascadesThroughGroups(t *testing.T) {
	c := New(5, 5)
	var released bool
	inner := releaseTracker{shape.NewPoint(1, 'i', 0, 0), &released}
	c.Add(shape.NewGroup(1, 0, 0, inner))

	c.Release()

	if !released {
		t.Error("Releasing the compositor should release nested group members")
	}
	if c.Len() != 0 {
		t.Error("Release should empty the compositor")
	}
}

func TestRasterizeOneAndShape(t *testing.T) {
	c := New(5, 1)
	under := shape.NewPoint(1, 'u', 2, 0)
	over := shape.NewPoint(1, 'o', 2, 0)
	c.Add(under)
	c.Add(over)
	c.Redraw()

	// Bring the lower shape's glyph back on top without reordering.
	if !c.RasterizeOne(0) {
		t.Fatal("RasterizeOne(0) should succeed")
	}
	if c.CharAt(2, 0) != 'u' {
		t.Errorf("CharAt(2, 0) = %q, expected 'u'", c.CharAt(2, 0))
	}
	if c.RasterizeOne(5) {
		t.Error("RasterizeOne out of range should fail")
	}

	if !c.RasterizeShape(over) {
		t.Fatal("RasterizeShape(over) should succeed")
	}
	if c.CharAt(2, 0) != 'o' {
		t.Errorf("CharAt(2, 0) = %q, expected 'o'", c.CharAt(2, 0))
	}
	if c.RasterizeShape(shape.NewPoint(1, 'z', 0, 0)) {
		t.Error("RasterizeShape of a foreign shape should fail")
	}
}
