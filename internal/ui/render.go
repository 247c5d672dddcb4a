// Package ui draws the application state with tcell.
package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/internal/domain"
	"github.com/fklub/stregterm/internal/textutil"
)

const (
	margin             = 2
	headerHeight       = 3
	instructionsHeight = 3
	userAreaWidth      = 24
	userPanelWidth     = 54
)

const (
	appTitle = "Stregsystemet-TUI"
	helpLine = "'j' or '↓': Down | 'k' or '↑': Up | 'gg': Top | 'G': Bottom | 'enter': Buy | " +
		"'/' or 's': Search | 'u': Change Username | 'p': Parking | 'm': Insert Money | 'r': Refresh | 'q': Quit"
)

// Render draws the whole screen for s. It does not call Show.
func Render(scr tcell.Screen, s *app.State) {
	w, h := scr.Size()
	p := painter{scr: scr}
	screen := rect{0, 0, w, h}

	if m := s.TerminalSizeModal(); m != nil {
		drawTerminalTooSmall(p, screen, m)
		return
	}

	area := rect{margin, margin, w - 2*margin, h - 2*margin}
	header := rect{area.x, area.y, area.w, headerHeight}
	body := rect{area.x, area.y + headerHeight, area.w, area.h - headerHeight - instructionsHeight}
	footer := rect{area.x, body.y + body.h, area.w, instructionsHeight}

	drawHeader(p, header, s)
	if s.Settings.HasUsername() {
		productsArea := rect{body.x, body.y, body.w - userPanelWidth, body.h}
		panelArea := rect{body.x + productsArea.w, body.y, userPanelWidth, body.h}
		drawProducts(p, productsArea, s)
		drawUserPanel(p, panelArea, s)
	} else {
		drawWelcome(p, body)
	}
	p.box(footer, "Instructions", styleDefault, styleBold)
	p.line(footer.inner().padX(1), styleDefault, helpLine)

	drawModals(p, screen, s)
}

func drawHeader(p painter, r rect, s *app.State) {
	title := rect{r.x, r.y, r.w - userAreaWidth, r.h}
	user := rect{r.x + title.w, r.y, userAreaWidth, r.h}

	border := tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	p.box(title, appTitle, border, styleSuccess.Bold(true))
	p.line(title.inner().padX(1), styleDim, s.Now.Format("02/01 - 2006  15:04:05"))

	if !s.Settings.HasUsername() {
		return
	}
	p.box(user, "User", styleDefault, styleBold)
	p.line(user.inner().padX(1), styleInput, textutil.Truncate(s.Username(), user.w-8))
}

func drawWelcome(p painter, r rect) {
	lines := []string{
		"Welcome to Stregsystemet-TUI!",
		"Please log in with your username to continue",
		"",
		"For documentation, visit: https://github.com/Many5900/stregsystemet-tui",
	}
	top := r.y + r.h*2/5
	for i, l := range lines {
		p.center(rect{r.x, top + i, r.w, 1}, styleDefault, l)
	}
}

func drawProducts(p painter, r rect, s *app.State) {
	p.box(r, "Products", styleDefault, styleBold)
	in := r.inner().padX(1)
	if in.empty() {
		return
	}

	if s.Catalog.Err != "" {
		p.center(in.row(0), styleError.Bold(true), "Error loading products")
		p.paragraph(rect{in.x, in.y + 2, in.w, in.h - 2}, styleError,
			textutil.Wrap(s.Catalog.Err, in.w, in.h-2), true)
		return
	}

	products := s.Catalog.Sorted()
	if len(products) == 0 {
		p.line(in.row(0), styleInput, "No products available")
		return
	}

	rows := in.h
	if s.Catalog.AliasErr != "" {
		rows--
		p.line(in.row(in.h-1), styleInput, textutil.Truncate("Search aliases unavailable: "+s.Catalog.AliasErr, in.w))
	}

	idWidth, priceWidth := 0, 0
	for _, prod := range products {
		idWidth = max(idWidth, runewidth.StringWidth(prod.ID)+2)
		priceWidth = max(priceWidth, runewidth.StringWidth(prod.Price.String()))
	}
	nameWidth := max(in.w-4-idWidth-2-priceWidth, 1)

	targets := map[int]bool{}
	for _, t := range s.MovementTargets() {
		targets[t] = true
	}

	selected := s.Nav.Selected
	offset := 0
	if selected >= rows {
		offset = selected - rows + 1
	}
	for row := 0; row < rows && offset+row < len(products); row++ {
		i := offset + row
		drawProductRow(p, in.row(row), products[i], i, selected, targets[i], idWidth, nameWidth, priceWidth)
	}
}

func drawProductRow(p painter, r rect, prod domain.Product, i, selected int, target bool, idWidth, nameWidth, priceWidth int) {
	number := i - selected
	if number < 0 {
		number = -number
	}
	if i == selected {
		number = i + 1
	}

	numStyle, idStyle, nameStyle, priceStyle := styleDim, styleDefault, styleValue, styleInput
	switch {
	case i == selected:
		sel := tcell.StyleDefault.Reverse(true)
		numStyle, idStyle, nameStyle, priceStyle = sel.Bold(true), sel, sel, sel
		p.fill(r, sel)
	case target:
		tgt := tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorBlack).Bold(true)
		numStyle, idStyle, nameStyle, priceStyle = tgt, tgt, tgt, tgt
		p.fill(r, tgt)
	}

	name := textutil.Truncate(prod.Name, nameWidth)
	p.spans(r,
		span{fmt.Sprintf("%3d ", number), numStyle},
		span{padRight(prod.ID+":", idWidth), idStyle},
		span{padRight(name, nameWidth), nameStyle},
		span{"  ", idStyle},
		span{padLeft(prod.Price.String(), priceWidth), priceStyle},
	)
}

func padRight(s string, width int) string {
	if n := runewidth.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := runewidth.StringWidth(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func tierStyle(t domain.BalanceTier) tcell.Style {
	switch t {
	case domain.TierHigh:
		return styleSuccess.Bold(true)
	case domain.TierMid:
		return styleInput.Bold(true)
	default:
		return styleError.Bold(true)
	}
}

func drawUserPanel(p painter, r rect, s *app.State) {
	p.box(r, "User Info", styleBold, styleBold)
	in := r.inner()
	if in.empty() {
		return
	}

	if msg := s.Account.Err; msg != "" {
		title, hint := "Error", "Please try again later"
		if strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found") {
			title, hint = "User Not Found", "Press 'u' to change username"
		}
		p.center(in.row(0), styleError.Bold(true), title)
		n := p.paragraph(rect{in.x, in.y + 1, in.w, 5}, styleError, textutil.Wrap(msg, in.w-6, 5), true)
		p.center(in.row(1+n), styleInput, hint)
		return
	}

	info := s.Account.Info
	if info == nil {
		p.center(in.row(0), styleInput, "No user information available")
		return
	}

	p.spans(in.row(0), span{" Name: ", styleLabel}, span{info.Name, styleValue})
	p.spans(in.row(1), span{" Balance: ", styleLabel},
		span{info.Balance.String(), tierStyle(domain.TierOf(info.Balance))})

	p.line(in.row(3), styleBold, " Recent Purchases:")
	list := rect{in.x + 1, in.y + 4, in.w - 2, in.h - 4}
	if len(s.Account.Sales) == 0 {
		p.line(list.row(0), styleDim, "No recent purchases")
		return
	}
	for i, sale := range s.Account.Sales {
		if i >= list.h {
			break
		}
		drawSale(p, list.row(i), sale)
	}
}

func drawSale(p painter, r rect, sale domain.Sale) {
	ts := sale.FormattedTimestamp()
	price := sale.Price.String()
	nameWidth := r.w - runewidth.StringWidth(ts) - runewidth.StringWidth(price) - 2
	p.spans(r,
		span{ts + " ", styleDim},
		span{textutil.Truncate(sale.Product, nameWidth), styleValue},
	)
	p.right(r, styleInput, price)
}
