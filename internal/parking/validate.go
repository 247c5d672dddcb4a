package parking

import (
	"strings"
	"unicode"

	"github.com/fklub/stregterm/internal/apperr"
)

const (
	// PhoneLength is the length of a Danish phone number without prefix.
	PhoneLength = 8
	// PlateLength is the length of a Danish license plate: 2 letters + 5 digits.
	PlateLength = 7
)

// NormalizePlate trims and upper-cases a plate.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// ValidatePhone accepts exactly 8 ASCII digits.
func ValidatePhone(phone string) error {
	if phone == "" {
		return apperr.Input("Phone number cannot be empty")
	}
	if len(phone) != PhoneLength || !allASCIIDigits(phone) {
		return apperr.Input("Phone number must be 8 digits")
	}
	return nil
}

// ValidatePlate accepts exactly 2 ASCII letters followed by 5 ASCII digits.
func ValidatePlate(plate string) error {
	if plate == "" {
		return apperr.Input("License plate cannot be empty")
	}
	if len([]rune(plate)) != PlateLength {
		return apperr.Input("License plate must be exactly 7 characters")
	}
	if len(plate) != PlateLength || !isASCIILetter(plate[0]) || !isASCIILetter(plate[1]) {
		return apperr.Input("License plate must start with 2 letters")
	}
	if !allASCIIDigits(plate[2:]) {
		return apperr.Input("License plate must end with 5 digits")
	}
	return nil
}

// Validate normalizes and checks the parking form. Emptiness of both fields
// is reported before shape errors.
func Validate(phone, plate string) (string, string, error) {
	phone = strings.TrimSpace(phone)
	plate = NormalizePlate(plate)

	if phone == "" {
		return phone, plate, apperr.Input("Phone number cannot be empty")
	}
	if plate == "" {
		return phone, plate, apperr.Input("License plate cannot be empty")
	}
	if err := ValidatePhone(phone); err != nil {
		return phone, plate, err
	}
	if err := ValidatePlate(plate); err != nil {
		return phone, plate, err
	}
	return phone, plate, nil
}

// AcceptPhoneRune reports whether r may be appended to the phone field.
func AcceptPhoneRune(current string, r rune) bool {
	return r >= '0' && r <= '9' && len(current) < PhoneLength
}

// PlateRune maps a typed rune to its plate form, reporting false for runes
// that cannot appear on a plate.
func PlateRune(r rune) (rune, bool) {
	if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		return 0, false
	}
	return unicode.ToUpper(r), true
}

func allASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
