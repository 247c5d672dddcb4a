// Package payment builds MobilePay deep links for topping up a stregsystem
// account and encodes them as QR codes.
package payment

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/fklub/stregterm/internal/apperr"
	"github.com/fklub/stregterm/internal/money"
)

// Recipient is the F-klub MobilePay number.
const Recipient = "90601"

// MinimumAmount is the smallest accepted deposit.
var MinimumAmount = money.FromKroner(50)

// QR is a generated payment code.
type QR struct {
	Username string
	Amount   money.Money
	URL      string
	// Modules is the code's module matrix without quiet zone; true is dark.
	Modules [][]bool
}

// Size returns the number of modules per side.
func (q *QR) Size() int {
	return len(q.Modules)
}

// MobilePayURL returns the deep link that opens MobilePay with recipient,
// amount and the username as comment filled in.
func MobilePayURL(username string, amount money.Money) string {
	return fmt.Sprintf("mobilepay://send?phone=%s&comment=%s&amount=%s",
		Recipient, url.QueryEscape(username), amount.Decimal())
}

// ParseAmount parses a user-entered kroner amount and enforces the minimum.
func ParseAmount(input string) (money.Money, error) {
	amount, err := money.ParseKroner(input)
	if err != nil {
		return 0, apperr.Input("Invalid amount format")
	}
	if amount.Less(MinimumAmount) {
		return 0, apperr.Input("Amount must be at least " + MinimumAmount.Decimal() + " DKK")
	}
	return amount, nil
}

// NewQR encodes the payment link for username and amount.
func NewQR(username string, amount money.Money) (*QR, error) {
	if username == "" {
		return nil, apperr.Input("A username is required to create a payment")
	}
	if amount.Less(MinimumAmount) {
		return nil, apperr.Input("Amount must be at least " + MinimumAmount.Decimal() + " DKK")
	}

	link := MobilePayURL(username, amount)
	code, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode payment QR: %w", err)
	}
	code.DisableBorder = true

	return &QR{
		Username: username,
		Amount:   amount,
		URL:      link,
		Modules:  code.Bitmap(),
	}, nil
}
