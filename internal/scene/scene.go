// Package scene loads shape layouts from YAML documents.
package scene

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/tui-charstage/internal/shape"
)

// Shape kinds accepted in scene files.
const (
	KindPoint = "point"
	KindLine  = "line"
	KindRect  = "rect"
	KindGroup = "group"
)

// defaultGlyph is used when a shape leaves its glyph empty.
const defaultGlyph = '0'

// ErrUnknownKind is returned for a shape whose kind is not recognised.
var ErrUnknownKind = errors.New("scene: unknown shape kind")

// Document is a scene file.
type Document struct {
	Name   string      `yaml:"name"`
	World  Size        `yaml:"world"`
	Spawn  Position    `yaml:"spawn"`
	Shapes []ShapeSpec `yaml:"shapes"`
}

// Size is a width and height in cells.
type Size struct {
	Width  uint16 `yaml:"width"`
	Height uint16 `yaml:"height"`
}

// Position is a cell coordinate.
type Position struct {
	X uint16 `yaml:"x"`
	Y uint16 `yaml:"y"`
}

// ShapeSpec describes one shape. Fields that do not apply to the kind are
// ignored.
type ShapeSpec struct {
	Kind  string `yaml:"kind"`
	Code  uint32 `yaml:"code"`
	Glyph string `yaml:"glyph"`
	X     uint16 `yaml:"x"`
	Y     uint16 `yaml:"y"`

	// line
	Length   uint16 `yaml:"length"`
	Vertical bool   `yaml:"vertical"`

	// rect; omitted width and height default to 8, an explicit 0 is kept.
	// collide_inside defaults to filled.
	Width         *uint16 `yaml:"width"`
	Height        *uint16 `yaml:"height"`
	Filled        bool    `yaml:"filled"`
	CollideInside *bool   `yaml:"collide_inside"`

	// group
	Children []ShapeSpec `yaml:"children"`
}

// Build turns every shape in the document into a Shape, in file order.
func (d Document) Build() ([]shape.Shape, error) {
	shapes := make([]shape.Shape, 0, len(d.Shapes))
	for i, spec := range d.Shapes {
		s, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("scene %q: shape %d: %w", d.Name, i, err)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// Build creates the shape the spec describes.
func (s ShapeSpec) Build() (shape.Shape, error) {
	glyph, err := s.glyph()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(s.Kind) {
	case KindPoint:
		return shape.NewPoint(s.Code, glyph, s.X, s.Y), nil

	case KindLine:
		return shape.NewLine(s.Code, glyph, s.Length, s.X, s.Y, s.Vertical), nil

	case KindRect:
		var w, h uint16 = shape.DefaultRectSize, shape.DefaultRectSize
		if s.Width != nil {
			w = *s.Width
		}
		if s.Height != nil {
			h = *s.Height
		}
		inside := s.Filled
		if s.CollideInside != nil {
			inside = *s.CollideInside
		}
		return shape.NewRect(s.Code, glyph, s.X, s.Y, w, h, s.Filled, inside), nil

	case KindGroup:
		g := shape.NewGroup(s.Code, s.X, s.Y)
		for i, child := range s.Children {
			c, err := child.Build()
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			g.Add(c)
		}
		return g, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownKind, s.Kind)
}

func (s ShapeSpec) glyph() (rune, error) {
	switch utf8.RuneCountInString(s.Glyph) {
	case 0:
		return defaultGlyph, nil
	case 1:
		r, _ := utf8.DecodeRuneInString(s.Glyph)
		return r, nil
	}
	return 0, fmt.Errorf("scene: glyph %q must be a single character", s.Glyph)
}

// Count returns how many top-level shapes carry the given collision code.
func (d Document) Count(code uint32) int {
	n := 0
	for _, s := range d.Shapes {
		if s.Code == code {
			n++
		}
	}
	return n
}
