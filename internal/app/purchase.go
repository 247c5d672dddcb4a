package app

import "github.com/fklub/stregterm/internal/apperr"

const (
	MinQuantity = 1
	MaxQuantity = 99
)

// ShowPurchase opens the purchase confirmation for the product under the
// cursor. An unusable account opens an "Invalid User" error instead.
func ShowPurchase(s *State) {
	if err := s.ValidateForPurchase(); err != nil {
		ShowError(s, "Invalid User", apperr.UserMessage(err))
		return
	}
	p, ok := s.SelectedProduct()
	if !ok {
		return
	}
	s.Modes.Enter(ModeBuyConfirmation, &PurchaseModal{ProductID: p.ID, Quantity: MinQuantity})
}

// HidePurchase closes the purchase modal.
func HidePurchase(s *State) {
	m := s.PurchaseModal()
	if m == nil {
		return
	}
	*m = PurchaseModal{}
	s.Modes.LeaveModal(m)
}

// IncreaseQuantity adds one, stopping at MaxQuantity.
func IncreaseQuantity(s *State) {
	if m := s.PurchaseModal(); m != nil && m.Quantity < MaxQuantity {
		m.Quantity++
	}
}

// DecreaseQuantity removes one, stopping at MinQuantity.
func DecreaseQuantity(s *State) {
	if m := s.PurchaseModal(); m != nil && m.Quantity > MinQuantity {
		m.Quantity--
	}
}
