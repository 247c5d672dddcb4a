package app

import (
	"strconv"

	"github.com/fklub/stregterm/internal/domain"
)

// NavState is the cursor over the product list plus a pending vim-style
// count prefix.
type NavState struct {
	Selected int
	Prefix   string
	PendingG bool
}

// SelectedProduct returns the product under the cursor.
func (s *State) SelectedProduct() (domain.Product, bool) {
	sorted := s.Catalog.Sorted()
	if s.Nav.Selected < 0 || s.Nav.Selected >= len(sorted) {
		return domain.Product{}, false
	}
	return sorted[s.Nav.Selected], true
}

// ClampSelection keeps the cursor inside the current catalog.
func (s *State) ClampSelection() {
	n := len(s.Catalog.Sorted())
	switch {
	case n == 0:
		s.Nav.Selected = 0
	case s.Nav.Selected >= n:
		s.Nav.Selected = n - 1
	case s.Nav.Selected < 0:
		s.Nav.Selected = 0
	}
}

// TakeCount consumes the count prefix, defaulting to 1.
func (s *State) TakeCount() int {
	count := 1
	if n, err := strconv.Atoi(s.Nav.Prefix); err == nil && n > 0 {
		count = n
	}
	s.Nav.Prefix = ""
	return count
}

// ClearPrefix drops any pending count and g.
func (s *State) ClearPrefix() {
	s.Nav.Prefix = ""
	s.Nav.PendingG = false
}

// PushDigit extends the count prefix. A prefix that would not reach any
// product in either direction is dropped.
func (s *State) PushDigit(d rune) {
	s.Nav.Prefix += string(d)
	if len(s.MovementTargets()) == 0 {
		s.Nav.Prefix = ""
	}
	s.Nav.PendingG = false
}

// MovementTargets returns the indices reachable by the current prefix,
// above first.
func (s *State) MovementTargets() []int {
	if s.Nav.Prefix == "" {
		return nil
	}
	dist, err := strconv.Atoi(s.Nav.Prefix)
	if err != nil || dist <= 0 {
		return nil
	}
	var targets []int
	if s.Nav.Selected >= dist {
		targets = append(targets, s.Nav.Selected-dist)
	}
	if below := s.Nav.Selected + dist; below < len(s.Catalog.Sorted()) {
		targets = append(targets, below)
	}
	return targets
}

// MoveDown moves the cursor count rows down. When the jump overshoots, it
// moves a single row instead.
func (s *State) MoveDown(count int) {
	n := len(s.Catalog.Sorted())
	if n == 0 {
		return
	}
	if target := s.Nav.Selected + count; target < n {
		s.Nav.Selected = target
	} else {
		s.Nav.Selected = min(s.Nav.Selected+1, n-1)
	}
}

// MoveUp moves the cursor count rows up. When the jump overshoots, it moves
// a single row instead.
func (s *State) MoveUp(count int) {
	if len(s.Catalog.Sorted()) == 0 {
		return
	}
	if s.Nav.Selected >= count {
		s.Nav.Selected -= count
	} else {
		s.Nav.Selected = max(s.Nav.Selected-1, 0)
	}
}

// GoTop jumps to the first product.
func (s *State) GoTop() {
	s.Nav.Selected = 0
	s.Nav.Prefix = ""
}

// GoBottom jumps to the last product.
func (s *State) GoBottom() {
	if n := len(s.Catalog.Sorted()); n > 0 {
		s.Nav.Selected = n - 1
	}
	s.Nav.Prefix = ""
}

// SelectProduct moves the cursor to id, reporting whether it is listed.
func (s *State) SelectProduct(id string) bool {
	for i, p := range s.Catalog.Sorted() {
		if p.ID == id {
			s.Nav.Selected = i
			return true
		}
	}
	return false
}
