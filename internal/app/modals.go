package app

import (
	"github.com/fklub/stregterm/internal/domain"
	"github.com/fklub/stregterm/internal/parking"
	"github.com/fklub/stregterm/internal/payment"
)

// Modal is the local state of one open modal. The set of implementations
// is closed: UsernameModal, PurchaseModal, SearchModal, ErrorModal,
// ParkingModal, TerminalSizeModal and QrModal.
type Modal interface {
	isModal()
}

// UsernameModal edits the configured username. Initial is set when the
// client started without one and the modal cannot be dismissed.
type UsernameModal struct {
	Input   string
	Initial bool
	Err     string
}

// PurchaseModal confirms buying Quantity of ProductID. Once the backend
// has answered, either Success or Err is set.
type PurchaseModal struct {
	ProductID string
	Quantity  int
	Success   bool
	Err       string
	// Notice is shown under a successful result, e.g. a failed refresh.
	Notice string
}

// Finished reports whether the purchase has a result to acknowledge.
func (m *PurchaseModal) Finished() bool {
	return m.Success || m.Err != ""
}

// SearchModal holds the query and its ranked results.
type SearchModal struct {
	Query    string
	Results  []domain.Product
	Selected int
}

// SelectedResult returns the highlighted result.
func (m *SearchModal) SelectedResult() (domain.Product, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Results) {
		return domain.Product{}, false
	}
	return m.Results[m.Selected], true
}

// ErrorModal is a blocking message acknowledged by any key.
type ErrorModal struct {
	Title   string
	Message string
}

// ParkingField is the focused input of the parking form.
type ParkingField int

const (
	FieldPhone ParkingField = iota
	FieldPlate
)

// ParkingModal is the parking form and its confirmation step.
type ParkingModal struct {
	Phone      string
	Plate      string
	Field      ParkingField
	Confirming bool
	Success    bool
	Err        string
	Vehicle    parking.VehicleInfo
}

// Finished reports whether the registration has a result to acknowledge.
func (m *ParkingModal) Finished() bool {
	return m.Success || (m.Confirming && m.Err != "")
}

// TerminalSizeModal blocks input while the terminal is below the minimum.
type TerminalSizeModal struct {
	Width  int
	Height int
}

// QrModal collects a deposit amount and shows the resulting payment code.
type QrModal struct {
	Amount string
	Err    string
	QR     *payment.QR
}

func (*UsernameModal) isModal()     {}
func (*PurchaseModal) isModal()     {}
func (*SearchModal) isModal()       {}
func (*ErrorModal) isModal()        {}
func (*ParkingModal) isModal()      {}
func (*TerminalSizeModal) isModal() {}
func (*QrModal) isModal()           {}

// findModal returns the topmost open modal of type T.
func findModal[T Modal](s *State) (T, bool) {
	frames := s.Modes.frames
	for i := len(frames) - 1; i >= 0; i-- {
		if m, ok := frames[i].Modal.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

// UsernameModal returns the open username modal, or nil.
func (s *State) UsernameModal() *UsernameModal {
	m, _ := findModal[*UsernameModal](s)
	return m
}

// PurchaseModal returns the open purchase modal, or nil.
func (s *State) PurchaseModal() *PurchaseModal {
	m, _ := findModal[*PurchaseModal](s)
	return m
}

// SearchModal returns the open search modal, or nil.
func (s *State) SearchModal() *SearchModal {
	m, _ := findModal[*SearchModal](s)
	return m
}

// ErrorModal returns the topmost error modal, or nil.
func (s *State) ErrorModal() *ErrorModal {
	m, _ := findModal[*ErrorModal](s)
	return m
}

// ParkingModal returns the open parking modal, or nil.
func (s *State) ParkingModal() *ParkingModal {
	m, _ := findModal[*ParkingModal](s)
	return m
}

// TerminalSizeModal returns the terminal size modal, or nil.
func (s *State) TerminalSizeModal() *TerminalSizeModal {
	m, _ := findModal[*TerminalSizeModal](s)
	return m
}

// QrModal returns the open payment modal, or nil.
func (s *State) QrModal() *QrModal {
	m, _ := findModal[*QrModal](s)
	return m
}
