package app

import "github.com/fklub/stregterm/internal/search"

// ShowSearch opens an empty search.
func ShowSearch(s *State) {
	if s.SearchModal() != nil {
		return
	}
	s.Modes.Enter(ModeSearch, &SearchModal{})
}

// HideSearch closes the search.
func HideSearch(s *State) {
	m := s.SearchModal()
	if m == nil {
		return
	}
	*m = SearchModal{}
	s.Modes.LeaveModal(m)
}

// SetSearchQuery replaces the query and reranks.
func SetSearchQuery(s *State, query string) {
	m := s.SearchModal()
	if m == nil {
		return
	}
	m.Query = query
	m.Results = search.Rank(search.Normalize(query), s.Catalog.Products, s.Catalog.Aliases)
	if len(m.Results) > 0 || m.Selected >= len(m.Results) {
		m.Selected = 0
	}
}

// TypeSearch appends r to the query.
func TypeSearch(s *State, r rune) {
	if m := s.SearchModal(); m != nil {
		SetSearchQuery(s, m.Query+string(r))
	}
}

// BackspaceSearch removes the last rune of the query.
func BackspaceSearch(s *State) {
	if m := s.SearchModal(); m != nil {
		SetSearchQuery(s, dropLastRune(m.Query))
	}
}

// NextSearchResult moves the highlight down, wrapping around.
func NextSearchResult(s *State) {
	if m := s.SearchModal(); m != nil && len(m.Results) > 0 {
		m.Selected = (m.Selected + 1) % len(m.Results)
	}
}

// PrevSearchResult moves the highlight up, wrapping around.
func PrevSearchResult(s *State) {
	if m := s.SearchModal(); m != nil && len(m.Results) > 0 {
		m.Selected = (m.Selected - 1 + len(m.Results)) % len(m.Results)
	}
}

// SelectSearchResult moves the product cursor to the highlighted result and
// closes the search.
func SelectSearchResult(s *State) {
	m := s.SearchModal()
	if m == nil {
		return
	}
	p, ok := m.SelectedResult()
	if !ok {
		return
	}
	if s.SelectProduct(p.ID) {
		HideSearch(s)
	}
}
