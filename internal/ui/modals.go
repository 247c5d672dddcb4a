package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/internal/parking"
	"github.com/fklub/stregterm/internal/textutil"
)

var modalBackground = tcell.StyleDefault.Background(tcell.ColorBlack)

// drawModals draws open modals bottom to top. A modal that owns several
// frames is drawn once, for its topmost frame.
func drawModals(p painter, screen rect, s *app.State) {
	frames := s.Modes.Frames()
	for i, f := range frames {
		if laterFrameOwns(frames[i+1:], f.Modal) {
			continue
		}
		switch m := f.Modal.(type) {
		case *app.UsernameModal:
			drawUsernameModal(p, screen, m)
		case *app.PurchaseModal:
			drawPurchaseModal(p, screen, s, m)
		case *app.SearchModal:
			drawSearchModal(p, screen, m)
		case *app.ErrorModal:
			drawErrorModal(p, screen, m)
		case *app.ParkingModal:
			if f.Mode == app.ModeParkingConfirmation {
				drawParkingConfirmation(p, screen, m)
			} else {
				drawParkingForm(p, screen, m)
			}
		case *app.QrModal:
			if f.Mode == app.ModeQrDisplay && m.QR != nil {
				drawQrDisplay(p, screen, m)
			} else {
				drawQrAmount(p, screen, m)
			}
		}
	}
}

func laterFrameOwns(frames []app.Frame, m app.Modal) bool {
	for _, f := range frames {
		if f.Modal == m {
			return true
		}
	}
	return false
}

// modalFrame clears a centred w x h region, draws its border and returns
// the content area.
func modalFrame(p painter, screen rect, title string, w, h int, border tcell.Color) rect {
	r := centered(screen, min(w, screen.w-4), min(h, screen.h-4))
	p.fill(r, modalBackground)
	p.box(r, title, modalBackground.Foreground(border), modalBackground.Bold(true))
	return r.inner()
}

// inputBox draws a bordered single-line input and places the cursor after
// its text when focused.
func inputBox(p painter, r rect, value string, focused bool) {
	border := modalBackground.Foreground(tcell.ColorGray)
	style := modalBackground
	if focused {
		border = modalBackground.Foreground(tcell.ColorBlue)
		style = modalBackground.Foreground(tcell.ColorYellow)
	}
	p.box(r, "", border, border)
	in := r.inner().padX(1)
	n := p.line(in, style, value)
	if focused && !in.empty() {
		p.scr.ShowCursor(in.x+n, in.y)
	}
}

func drawUsernameModal(p painter, screen rect, m *app.UsernameModal) {
	title, help := "Change Username", "'enter': Save | 'esc': Cancel"
	if m.Initial {
		title, help = "Enter Username", "'enter': Save"
	}
	in := modalFrame(p, screen, title, 50, 9, tcell.ColorGray).padX(2)
	p.line(in.row(1), modalBackground.Foreground(tcell.ColorWhite), "Username:")
	inputBox(p, rect{in.x, in.y + 2, in.w, 3}, m.Input, true)
	if m.Err != "" {
		p.center(in.row(5), modalBackground.Foreground(tcell.ColorRed), m.Err)
	}
	p.center(in.row(in.h-1), modalBackground.Foreground(tcell.ColorGray), help)
}

func drawPurchaseModal(p painter, screen rect, s *app.State, m *app.PurchaseModal) {
	title, border := "Confirm Purchase", tcell.ColorGray
	switch {
	case m.Success:
		title, border = "Purchase Successful!", tcell.ColorGreen
	case m.Err != "":
		title, border = "Purchase Failed", tcell.ColorRed
	}
	in := modalFrame(p, screen, title, 65, 15, border)
	body := rect{in.x, in.y + 1, in.w, in.h - 1}.padX(3)

	label := modalBackground.Foreground(tcell.ColorGray).Bold(true)
	value := modalBackground.Foreground(tcell.ColorWhite)
	yellow := modalBackground.Foreground(tcell.ColorYellow)
	red := modalBackground.Foreground(tcell.ColorRed)
	green := modalBackground.Foreground(tcell.ColorGreen)

	prod, ok := s.Catalog.Products[m.ProductID]
	total, _ := s.TotalCost()
	p.spans(body.row(0), span{"Product ID: ", label}, span{m.ProductID, value})
	if ok {
		p.spans(body.row(1), span{"Product: ", label}, span{prod.Name, value})
		p.spans(body.row(2), span{"Price: ", label},
			span{fmt.Sprintf("%s × %d = %s", prod.Price, m.Quantity, total), yellow})
	}
	p.spans(body.row(3), span{"Quantity: ", label}, span{fmt.Sprint(m.Quantity), yellow.Bold(true)},
		span{"  ", value}, span{"[-/+] or [←/→]: Adjust quantity", modalBackground.Foreground(tcell.ColorGray)})

	if info := s.Account.Info; info != nil {
		if info.Balance.Covers(total) {
			p.spans(body.row(4), span{"Your balance: ", label}, span{info.Balance.String(), green})
		} else {
			p.spans(body.row(4), span{"Your balance: ", label}, span{info.Balance.String(), red},
				span{"  (Insufficient for this purchase)", red})
		}
	}

	result := rect{in.x, body.y + 6, in.w, 3}
	switch {
	case m.Success:
		p.center(result.row(0), green, "Purchase completed successfully!")
		if m.Notice != "" {
			p.paragraph(rect{result.x, result.y + 1, result.w, 2}, yellow, textutil.Wrap(m.Notice, in.w-4, 2), true)
		}
	case m.Err != "":
		p.paragraph(result, red, textutil.Wrap(m.Err, in.w-4, 3), true)
	default:
		p.center(result.row(0), value, "Are you sure you want to purchase this item?")
	}

	help := "Press 'y' to confirm or 'n' to cancel"
	if m.Finished() {
		help = "Press any key to close"
	}
	p.center(in.row(in.h-1), modalBackground.Foreground(tcell.ColorGray), help)
}

func drawSearchModal(p painter, screen rect, m *app.SearchModal) {
	in := modalFrame(p, screen, "Search Products", 70, 22, tcell.ColorGray).padX(2)
	p.line(in.row(1), modalBackground.Foreground(tcell.ColorWhite), "Type to search by product name, ID, or keyword:")
	inputBox(p, rect{in.x, in.y + 2, in.w, 3}, m.Query, true)

	list := rect{in.x, in.y + 6, in.w, in.h - 8}
	switch {
	case m.Query == "":
		p.line(list.row(0), modalBackground.Foreground(tcell.ColorGray), "Start typing to search for products...")
	case len(m.Results) == 0:
		p.line(list.row(0), modalBackground.Foreground(tcell.ColorYellow), "No matching products found")
	}

	priceWidth := 0
	for _, prod := range m.Results {
		priceWidth = max(priceWidth, runewidth.StringWidth(prod.Price.String()))
	}
	for i, prod := range m.Results {
		if i >= list.h {
			break
		}
		row := list.row(i)
		style := modalBackground.Foreground(tcell.ColorWhite)
		if i == m.Selected {
			style = tcell.StyleDefault.Reverse(true)
			p.fill(row, style)
		}
		label := textutil.Truncate(prod.ID+": "+prod.Name, row.w-priceWidth-2)
		p.line(row, style, label)
		p.right(row, style.Foreground(tcell.ColorYellow), prod.Price.String())
	}

	p.center(in.row(in.h-1), modalBackground.Foreground(tcell.ColorGray),
		"'↑/↓' or Ctrl-N/P: Navigate | 'enter': Select | 'esc': Close")
}

func drawErrorModal(p painter, screen rect, m *app.ErrorModal) {
	in := modalFrame(p, screen, m.Title, 60, 17, tcell.ColorRed).padX(2)
	red := modalBackground.Foreground(tcell.ColorRed)
	p.center(in.row(1), red.Bold(true), "An error has occurred")
	p.paragraph(rect{in.x, in.y + 3, in.w, in.h - 5}, red, m.Message, true)
	p.center(in.row(in.h-1), modalBackground.Foreground(tcell.ColorGray), "Press any key to continue")
}

func drawParkingForm(p painter, screen rect, m *app.ParkingModal) {
	in := modalFrame(p, screen, "Parking Registration", 60, 16, tcell.ColorGray).padX(3)
	label := modalBackground.Foreground(tcell.ColorWhite)

	p.line(in.row(1), label, fmt.Sprintf("Phone number (%d digits):", parking.PhoneLength))
	inputBox(p, rect{in.x, in.y + 2, in.w, 3}, m.Phone, m.Field == app.FieldPhone)
	p.line(in.row(6), label, "License plate (e.g. AB12345):")
	inputBox(p, rect{in.x, in.y + 7, in.w, 3}, m.Plate, m.Field == app.FieldPlate)

	if m.Err != "" {
		p.center(in.row(11), modalBackground.Foreground(tcell.ColorRed), m.Err)
	}
	p.center(in.row(in.h-1), modalBackground.Foreground(tcell.ColorGray),
		"'tab': Switch field | 'enter': Continue | 'esc': Cancel")
}

func drawParkingConfirmation(p painter, screen rect, m *app.ParkingModal) {
	label := modalBackground.Foreground(tcell.ColorGray).Bold(true)
	value := modalBackground.Foreground(tcell.ColorWhite)
	gray := modalBackground.Foreground(tcell.ColorGray)

	switch {
	case m.Success:
		in := modalFrame(p, screen, "Parking Registered", 60, 10, tcell.ColorGreen).padX(2)
		p.paragraph(rect{in.x, in.y + 1, in.w, 3}, modalBackground.Foreground(tcell.ColorGreen),
			textutil.Wrap("Please check your SMS to confirm that the parking registration was successful", in.w, 3), true)
		p.center(in.row(in.h-1), gray, "Press any key to close")
	case m.Err != "":
		in := modalFrame(p, screen, "Parking Failed", 60, 12, tcell.ColorRed).padX(2)
		p.paragraph(rect{in.x, in.y + 1, in.w, in.h - 3}, modalBackground.Foreground(tcell.ColorRed),
			textutil.Wrap(m.Err, in.w, in.h-3), true)
		p.center(in.row(in.h-1), gray, "Press any key to close")
	default:
		in := modalFrame(p, screen, "Confirm Parking", 60, 12, tcell.ColorGray).padX(3)
		p.spans(in.row(1), span{"Phone number: ", label}, span{m.Phone, value})
		p.spans(in.row(2), span{"License plate: ", label}, span{m.Plate, value})
		if !m.Vehicle.Empty() {
			p.spans(in.row(3), span{"Vehicle: ", label}, span{m.Vehicle.String(), value})
		}
		p.center(in.row(5), value, "Register parking for 10 hours?")
		p.center(in.row(in.h-1), gray, "Press 'y' to confirm or 'n' to cancel")
	}
}

func drawTerminalTooSmall(p painter, screen rect, m *app.TerminalSizeModal) {
	p.fill(screen, styleDefault)
	in := centered(screen, 70, 12)
	red := styleError.Bold(true)
	p.center(in.row(0), red, "Terminal Too Small")
	p.center(in.row(2), styleDefault, "Your terminal is too small to display 'stui' properly.")
	p.center(in.row(3), styleDim, fmt.Sprintf("Current: %dx%d  Required: %dx%d",
		m.Width, m.Height, app.MinTerminalWidth, app.MinTerminalHeight))
	p.center(in.row(5), styleBold, "Suggestions:")
	p.center(in.row(6), styleDefault, "Zoom out [Ctrl]/[Cmd] + [-]")
	p.center(in.row(7), styleDefault, "Increase terminal window size")
	p.center(in.row(9), styleDim, "The application will resume when the terminal size is adequate.")
	p.center(in.row(11), styleDim, "Press 'q' to quit")
}
