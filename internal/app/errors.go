package app

import "github.com/fklub/stregterm/internal/textutil"

// Error modal text is wrapped to fit the modal.
const (
	errorWidth    = 50
	errorMaxLines = 10
)

// ShowError opens a blocking error modal on top of the current mode.
func ShowError(s *State, title, message string) {
	if title == "" {
		title = "Error"
	}
	s.Modes.Enter(ModeError, &ErrorModal{
		Title:   title,
		Message: textutil.Wrap(message, errorWidth, errorMaxLines),
	})
	s.log.WithField("title", title).Warn(message)
}

// HideError closes the topmost error modal.
func HideError(s *State) {
	m := s.ErrorModal()
	if m == nil {
		return
	}
	s.Modes.LeaveModal(m)
}
