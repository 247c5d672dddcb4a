package app

import (
	"github.com/fklub/stregterm/internal/apperr"
	"github.com/fklub/stregterm/internal/parking"
)

// ShowParking opens the parking form pre-filled with the saved phone and
// plate.
func ShowParking(s *State) {
	if s.ParkingModal() != nil {
		return
	}
	s.Modes.Enter(ModeParkingInput, &ParkingModal{
		Phone: s.Settings.PhoneNumber,
		Plate: s.Settings.LicensePlate,
		Field: FieldPhone,
	})
}

// HideParking closes the form together with its confirmation step.
func HideParking(s *State) {
	m := s.ParkingModal()
	if m == nil {
		return
	}
	*m = ParkingModal{}
	s.Modes.LeaveModal(m)
}

// NextParkingField moves focus to the other field.
func NextParkingField(s *State) {
	if m := s.ParkingModal(); m != nil {
		m.Field = (m.Field + 1) % 2
	}
}

// PrevParkingField moves focus to the other field.
func PrevParkingField(s *State) {
	if m := s.ParkingModal(); m != nil {
		if m.Field == FieldPhone {
			m.Field = FieldPlate
		} else {
			m.Field = FieldPhone
		}
	}
}

// TypeParking appends r to the focused field. The phone takes digits only,
// at most 8; the plate takes letters and digits, upper-cased.
func TypeParking(s *State, r rune) {
	m := s.ParkingModal()
	if m == nil {
		return
	}
	switch m.Field {
	case FieldPhone:
		if parking.AcceptPhoneRune(m.Phone, r) {
			m.Phone += string(r)
		}
	case FieldPlate:
		if up, ok := parking.PlateRune(r); ok {
			m.Plate += string(up)
		}
	}
	m.Err = ""
}

// BackspaceParking removes the last rune of the focused field.
func BackspaceParking(s *State) {
	m := s.ParkingModal()
	if m == nil {
		return
	}
	if m.Field == FieldPhone {
		m.Phone = dropLastRune(m.Phone)
	} else {
		m.Plate = dropLastRune(m.Plate)
	}
}

// ConfirmParking validates the form, saves phone and plate and moves to the
// confirmation step. Validation failures stay on the form.
func ConfirmParking(s *State) error {
	m := s.ParkingModal()
	if m == nil {
		return nil
	}

	phone, plate, err := parking.Validate(m.Phone, m.Plate)
	if err != nil {
		m.Err = apperr.UserMessage(err)
		return err
	}

	next := s.Settings
	next.PhoneNumber = phone
	next.LicensePlate = plate
	if err := s.saveSettings(next); err != nil {
		m.Err = apperr.UserMessage(err)
		return err
	}

	m.Phone = phone
	m.Plate = plate
	m.Err = ""
	m.Confirming = true
	s.Modes.Enter(ModeParkingConfirmation, m)
	return nil
}
