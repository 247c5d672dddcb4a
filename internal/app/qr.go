package app

import (
	"github.com/fklub/stregterm/internal/apperr"
	"github.com/fklub/stregterm/internal/payment"
)

// ShowQr opens the deposit amount prompt. It requires a resolved account.
func ShowQr(s *State) {
	if s.Account.Info == nil {
		ShowError(s, "Invalid User", "Invalid user account. Please log in with a valid username.")
		return
	}
	if s.QrModal() != nil {
		return
	}
	s.Modes.Enter(ModeQrAmountInput, &QrModal{})
}

// HideQr closes the prompt together with any displayed code.
func HideQr(s *State) {
	m := s.QrModal()
	if m == nil {
		return
	}
	*m = QrModal{}
	s.Modes.LeaveModal(m)
}

// TypeQrAmount appends a digit or decimal separator to the amount.
func TypeQrAmount(s *State, r rune) {
	m := s.QrModal()
	if m == nil {
		return
	}
	if (r >= '0' && r <= '9') || r == ',' || r == '.' {
		m.Amount += string(r)
		m.Err = ""
	}
}

// BackspaceQrAmount removes the last rune of the amount.
func BackspaceQrAmount(s *State) {
	if m := s.QrModal(); m != nil {
		m.Amount = dropLastRune(m.Amount)
	}
}

// GenerateQr validates the amount and shows the payment code. Invalid
// amounts stay on the prompt.
func GenerateQr(s *State) error {
	m := s.QrModal()
	if m == nil {
		return nil
	}

	amount, err := payment.ParseAmount(m.Amount)
	if err != nil {
		m.Err = apperr.UserMessage(err)
		return err
	}

	qr, err := payment.NewQR(s.Settings.Username, amount)
	if err != nil {
		m.Err = apperr.UserMessage(err)
		return err
	}

	m.QR = qr
	m.Err = ""
	s.Modes.Enter(ModeQrDisplay, m)
	s.log.WithField("amount", amount.String()).Info("payment code generated")
	return nil
}

// QrBack returns from the code to the amount prompt.
func QrBack(s *State) {
	m := s.QrModal()
	if m == nil {
		return
	}
	m.QR = nil
	if s.Mode() == ModeQrDisplay {
		s.Modes.Leave()
	}
}
