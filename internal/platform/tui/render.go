package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-charstage/internal/core"
	"github.com/vovakirdan/tui-charstage/internal/sink"
)

// Theme colors sink cells by glyph.
type Theme struct {
	styles map[core.Color]lipgloss.Style
	glyphs map[rune]core.Color
	cursor lipgloss.Style
}

// NewTheme builds a theme from glyph colors. Glyphs without an entry use
// the terminal default.
func NewTheme(glyphs map[rune]core.Color) Theme {
	t := Theme{
		styles: make(map[core.Color]lipgloss.Style),
		glyphs: glyphs,
		cursor: lipgloss.NewStyle().Reverse(true),
	}
	for _, c := range glyphs {
		t.styles[c] = colorStyle(c)
	}
	return t
}

// colorStyle maps a core.Color to a lipgloss style.
func colorStyle(c core.Color) lipgloss.Style {
	style := lipgloss.NewStyle()
	if code := c.ANSI(); code >= 0 {
		style = style.Foreground(lipgloss.Color(strconv.Itoa(code)))
	}
	return style
}

func (t Theme) colorOf(glyph rune) core.Color {
	return t.glyphs[glyph]
}

func (t Theme) style(c core.Color) lipgloss.Style {
	if s, ok := t.styles[c]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// RenderGrid converts a sink grid to a styled string for display.
// Adjacent cells with the same color are grouped to minimize ANSI escape
// sequences; a visible cursor is drawn in reverse video.
func RenderGrid(g *sink.Grid, theme Theme) string {
	w, h := g.Width(), g.Height()
	cx, cy := g.Cursor()
	showCursor := g.CursorVisible()

	var sb strings.Builder
	sb.Grow(int(w)*int(h)*2 + int(h))

	for y := uint16(0); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := uint16(0)
		for x < w {
			if showCursor && x == cx && y == cy {
				sb.WriteString(theme.cursor.Render(string(g.Cell(x, y))))
				x++
				continue
			}

			startColor := theme.colorOf(g.Cell(x, y))
			var run strings.Builder
			for x < w && !(showCursor && x == cx && y == cy) {
				glyph := g.Cell(x, y)
				if theme.colorOf(glyph) != startColor {
					break
				}
				run.WriteRune(glyph)
				x++
			}
			sb.WriteString(theme.style(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
