// Package render draws the large-format time readout. The widget is
// stateless: each call reformats the given time and repaints the whole
// screen, centered in the current viewport.
package render

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// TimeLayout is the Go time layout for the readout: 12-hour clock with a
// period indicator, e.g. "03:04 PM".
const TimeLayout = "03:04 PM"

// GlyphHeight is the row count of every glyph in the block font.
const GlyphHeight = 5

// glyphs is a 5-row block font covering every rune TimeLayout can emit.
// Rows within a glyph share one width; widths vary between glyphs.
var glyphs = map[rune][]string{
	'0': {
		"█████",
		"█   █",
		"█   █",
		"█   █",
		"█████",
	},
	'1': {
		"  █  ",
		" ██  ",
		"  █  ",
		"  █  ",
		"█████",
	},
	'2': {
		"█████",
		"    █",
		"█████",
		"█    ",
		"█████",
	},
	'3': {
		"█████",
		"    █",
		" ████",
		"    █",
		"█████",
	},
	'4': {
		"█   █",
		"█   █",
		"█████",
		"    █",
		"    █",
	},
	'5': {
		"█████",
		"█    ",
		"█████",
		"    █",
		"█████",
	},
	'6': {
		"█████",
		"█    ",
		"█████",
		"█   █",
		"█████",
	},
	'7': {
		"█████",
		"    █",
		"   █ ",
		"  █  ",
		"  █  ",
	},
	'8': {
		"█████",
		"█   █",
		"█████",
		"█   █",
		"█████",
	},
	'9': {
		"█████",
		"█   █",
		"█████",
		"    █",
		"█████",
	},
	':': {
		"  ",
		"██",
		"  ",
		"██",
		"  ",
	},
	'A': {
		"█████",
		"█   █",
		"█████",
		"█   █",
		"█   █",
	},
	'P': {
		"█████",
		"█   █",
		"█████",
		"█    ",
		"█    ",
	},
	'M': {
		"█   █",
		"██ ██",
		"█ █ █",
		"█   █",
		"█   █",
	},
	' ': {
		"  ",
		"  ",
		"  ",
		"  ",
		"  ",
	},
}

// glyphGap is the blank column count between adjacent glyphs.
const glyphGap = 1

// TextWidth returns the rendered cell width of s in the block font.
// Runes without a glyph contribute nothing.
func TextWidth(s string) int {
	w := 0
	for _, r := range s {
		g, ok := glyphs[r]
		if !ok {
			continue
		}
		if w > 0 {
			w += glyphGap
		}
		w += len([]rune(g[0]))
	}
	return w
}

// Draw repaints the screen with now formatted per TimeLayout, centered
// both ways. Text wider than the viewport is clipped at the edges rather
// than wrapped.
func Draw(s tcell.Screen, now time.Time) {
	s.Clear()

	text := now.Format(TimeLayout)
	w, h := s.Size()

	x0 := (w - TextWidth(text)) / 2
	y0 := (h - GlyphHeight) / 2

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	x := x0
	for _, r := range text {
		g, ok := glyphs[r]
		if !ok {
			continue
		}
		gw := len([]rune(g[0]))
		for row := 0; row < GlyphHeight; row++ {
			for col, cell := range []rune(g[row]) {
				if cell == ' ' {
					continue
				}
				cx, cy := x+col, y0+row
				if cx < 0 || cx >= w || cy < 0 || cy >= h {
					continue
				}
				s.SetContent(cx, cy, cell, nil, style)
			}
		}
		x += gw + glyphGap
	}

	s.Show()
}
