package app

const (
	MinTerminalWidth  = 120
	MinTerminalHeight = 40
)

// CheckTerminalSize opens or closes the terminal-too-small modal for the
// given dimensions. The modal is dropped wherever it sits in the stack.
func CheckTerminalSize(s *State, width, height int) {
	tooSmall := width < MinTerminalWidth || height < MinTerminalHeight
	open := s.Modes.Contains(ModeTerminalTooSmall)

	switch {
	case tooSmall && !open:
		s.Modes.Enter(ModeTerminalTooSmall, &TerminalSizeModal{Width: width, Height: height})
	case tooSmall:
		if m := s.TerminalSizeModal(); m != nil {
			m.Width, m.Height = width, height
		}
	case open:
		s.Modes.Remove(ModeTerminalTooSmall)
	}
}
