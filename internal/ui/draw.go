package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// rect is a screen region in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) empty() bool {
	return r.w <= 0 || r.h <= 0
}

// inner returns r without its border.
func (r rect) inner() rect {
	return rect{r.x + 1, r.y + 1, r.w - 2, r.h - 2}
}

// padX shrinks r horizontally by n cells on each side.
func (r rect) padX(n int) rect {
	return rect{r.x + n, r.y, r.w - 2*n, r.h}
}

// row returns the i-th line of r.
func (r rect) row(i int) rect {
	return rect{r.x, r.y + i, r.w, 1}
}

// centered returns a w x h region centred in r, clamped to r.
func centered(r rect, w, h int) rect {
	w = min(w, r.w)
	h = min(h, r.h)
	return rect{r.x + (r.w-w)/2, r.y + (r.h-h)/2, w, h}
}

var (
	styleDefault = tcell.StyleDefault
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorGray).Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleInput   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSuccess = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBold    = tcell.StyleDefault.Bold(true)
)

// painter draws text and boxes onto a screen.
type painter struct {
	scr tcell.Screen
}

// text draws s at (x, y), clipped to width columns, and returns the number
// of columns used.
func (p painter) text(x, y, width int, style tcell.Style, s string) int {
	col := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > width {
			break
		}
		p.scr.SetContent(x+col, y, r, nil, style)
		col += rw
	}
	return col
}

// line draws s on row r, left aligned.
func (p painter) line(r rect, style tcell.Style, s string) int {
	if r.empty() {
		return 0
	}
	return p.text(r.x, r.y, r.w, style, s)
}

// center draws s centred on row r.
func (p painter) center(r rect, style tcell.Style, s string) {
	if r.empty() {
		return
	}
	w := min(runewidth.StringWidth(s), r.w)
	p.text(r.x+(r.w-w)/2, r.y, r.w, style, s)
}

// right draws s right aligned on row r.
func (p painter) right(r rect, style tcell.Style, s string) {
	if r.empty() {
		return
	}
	w := min(runewidth.StringWidth(s), r.w)
	p.text(r.x+r.w-w, r.y, w, style, s)
}

// spans draws consecutive styled segments on row r.
func (p painter) spans(r rect, segs ...span) {
	x := r.x
	for _, s := range segs {
		if x >= r.x+r.w {
			return
		}
		x += p.text(x, r.y, r.x+r.w-x, s.style, s.text)
	}
}

type span struct {
	text  string
	style tcell.Style
}

// fill paints every cell of r with a blank in style.
func (p painter) fill(r rect, style tcell.Style) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			p.scr.SetContent(x, y, ' ', nil, style)
		}
	}
}

// box draws a single-line border around r with an optional title.
func (p painter) box(r rect, title string, border, titleStyle tcell.Style) {
	if r.w < 2 || r.h < 2 {
		return
	}
	right, bottom := r.x+r.w-1, r.y+r.h-1
	for x := r.x + 1; x < right; x++ {
		p.scr.SetContent(x, r.y, tcell.RuneHLine, nil, border)
		p.scr.SetContent(x, bottom, tcell.RuneHLine, nil, border)
	}
	for y := r.y + 1; y < bottom; y++ {
		p.scr.SetContent(r.x, y, tcell.RuneVLine, nil, border)
		p.scr.SetContent(right, y, tcell.RuneVLine, nil, border)
	}
	p.scr.SetContent(r.x, r.y, tcell.RuneULCorner, nil, border)
	p.scr.SetContent(right, r.y, tcell.RuneURCorner, nil, border)
	p.scr.SetContent(r.x, bottom, tcell.RuneLLCorner, nil, border)
	p.scr.SetContent(right, bottom, tcell.RuneLRCorner, nil, border)

	if title != "" {
		p.text(r.x+1, r.y, r.w-2, titleStyle, " "+title+" ")
	}
}

// paragraph draws newline-separated lines into r, one per row, clipped.
func (p painter) paragraph(r rect, style tcell.Style, s string, centre bool) int {
	lines := strings.Split(s, "\n")
	n := 0
	for i, l := range lines {
		if i >= r.h {
			break
		}
		if centre {
			p.center(r.row(i), style, l)
		} else {
			p.line(r.row(i), style, l)
		}
		n++
	}
	return n
}
