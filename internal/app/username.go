package app

import (
	"strings"

	"github.com/fklub/stregterm/internal/apperr"
)

// ShowUsername opens the username editor pre-filled with the current name.
func ShowUsername(s *State) {
	if m := s.UsernameModal(); m != nil {
		return
	}
	s.Modes.Enter(ModeEditingUsername, &UsernameModal{Input: s.Settings.Username})
}

// HideUsername closes the username editor. The initial prompt stays open
// until a username is configured.
func HideUsername(s *State) {
	m := s.UsernameModal()
	if m == nil {
		return
	}
	if m.Initial && !s.Settings.HasUsername() {
		return
	}
	m.Input = ""
	m.Err = ""
	s.Modes.LeaveModal(m)
}

// TypeUsername appends r to the username input.
func TypeUsername(s *State, r rune) {
	if m := s.UsernameModal(); m != nil {
		m.Input += string(r)
		m.Err = ""
	}
}

// BackspaceUsername removes the last rune of the username input.
func BackspaceUsername(s *State) {
	if m := s.UsernameModal(); m != nil {
		m.Input = dropLastRune(m.Input)
	}
}

// SubmitUsername validates and persists the typed username and closes the
// editor. It reports whether the account must be reloaded. Failures are
// kept on the modal.
func SubmitUsername(s *State) (bool, error) {
	m := s.UsernameModal()
	if m == nil {
		return false, nil
	}

	name := strings.TrimSpace(m.Input)
	if name == "" {
		err := apperr.Input("Username cannot be empty")
		m.Err = apperr.UserMessage(err)
		return false, err
	}

	next := s.Settings
	next.Username = name
	if err := s.saveSettings(next); err != nil {
		m.Err = apperr.UserMessage(err)
		return false, err
	}

	s.Account.Reset()
	m.Initial = false
	HideUsername(s)
	s.log.WithField("username", name).Info("username updated")
	return true, nil
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
