package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/internal/payment"
)

// quietZone is the light border drawn around a code, in modules.
const quietZone = 1

func drawQrAmount(p painter, screen rect, m *app.QrModal) {
	in := modalFrame(p, screen, "Payment QR Code Generator", 46, 11, tcell.ColorGray).padX(3)
	p.line(in.row(1), modalBackground.Foreground(tcell.ColorWhite),
		fmt.Sprintf("Enter amount (min. %s DKK):", payment.MinimumAmount.Decimal()))
	inputBox(p, rect{in.x, in.y + 2, in.w, 3}, m.Amount, true)
	if m.Err != "" {
		p.center(in.row(5), modalBackground.Foreground(tcell.ColorRed), m.Err)
	}
	p.center(in.row(in.h-1), modalBackground.Foreground(tcell.ColorGray), "'enter': Generate QR | 'esc': Cancel")
}

func drawQrDisplay(p painter, screen rect, m *app.QrModal) {
	qr := m.QR
	side := qr.Size() + 2*quietZone
	codeRows := (side + 1) / 2

	title := fmt.Sprintf("Payment QR: %s DKK", qr.Amount.Decimal())
	in := modalFrame(p, screen, title, max(side+6, 60), codeRows+7, tcell.ColorGray)

	code := centered(rect{in.x, in.y + 1, in.w, codeRows}, side, codeRows)
	drawQrModules(p, code, qr)

	p.center(in.row(codeRows+2), modalBackground.Foreground(tcell.ColorWhite),
		fmt.Sprintf("Amount: %s DKK → %s (via MobilePay)", qr.Amount.Decimal(), qr.Username))
	p.center(in.row(in.h-1), modalBackground.Foreground(tcell.ColorGray), "'backspace': Back | 'esc': Close")
}

// drawQrModules renders two module rows per cell row with upper half
// blocks: the foreground is the upper module, the background the lower.
func drawQrModules(p painter, r rect, qr *payment.QR) {
	side := qr.Size() + 2*quietZone
	for y := 0; y < side; y += 2 {
		row := y / 2
		if row >= r.h {
			return
		}
		for x := 0; x < side && x < r.w; x++ {
			top := moduleColor(qr, x-quietZone, y-quietZone)
			bottom := moduleColor(qr, x-quietZone, y+1-quietZone)
			p.scr.SetContent(r.x+x, r.y+row, '▀', nil,
				tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
}

func moduleColor(qr *payment.QR, x, y int) tcell.Color {
	if y >= 0 && y < len(qr.Modules) && x >= 0 && x < len(qr.Modules[y]) && qr.Modules[y][x] {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}
