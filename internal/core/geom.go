// Package core provides the small value types shared by the compositor, the
// render sinks and the games. It has no external dependencies so that scene
// logic stays pure and testable.
package core

// InBounds reports whether (x, y) lies inside a width x height grid.
//
// Coordinates are unsigned: an offset that pushed a coordinate below zero
// has wrapped to a large value and is rejected here without a sign check.
func InBounds(x, y, width, height uint16) bool {
	return x < width && y < height
}

// Shift adds a signed delta to an unsigned coordinate with wraparound.
// Shift(0, -1) is 65535, which InBounds rejects for any realistic grid.
func Shift(v uint16, d int16) uint16 {
	return v + uint16(d)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Cursor is a position confined to a grid. Sinks use it for their logical
// cursor and games use it for anything that walks a bounded area.
type Cursor struct {
	X, Y uint16
}

// Move shifts the cursor by (dx, dy) and clamps it into a width x height
// grid. It returns false when the cursor could not move the full distance.
func (c *Cursor) Move(dx, dy int16, width, height uint16) bool {
	if width == 0 || height == 0 {
		return false
	}
	nx := int(c.X) + int(dx)
	ny := int(c.Y) + int(dy)
	cx := Clamp(nx, 0, int(width)-1)
	cy := Clamp(ny, 0, int(height)-1)
	c.X, c.Y = uint16(cx), uint16(cy)
	return cx == nx && cy == ny
}
