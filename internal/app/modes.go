package app

// Mode is the input mode that currently owns the keyboard.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditingInitialUsername
	ModeEditingUsername
	ModeBuyConfirmation
	ModeSearch
	ModeError
	ModeParkingInput
	ModeParkingConfirmation
	ModeTerminalTooSmall
	ModeQrAmountInput
	ModeQrDisplay
)

var modeNames = map[Mode]string{
	ModeNormal:                 "normal",
	ModeEditingInitialUsername: "editing_initial_username",
	ModeEditingUsername:        "editing_username",
	ModeBuyConfirmation:        "buy_confirmation",
	ModeSearch:                 "search",
	ModeError:                  "error",
	ModeParkingInput:           "parking_input",
	ModeParkingConfirmation:    "parking_confirmation",
	ModeTerminalTooSmall:       "terminal_too_small",
	ModeQrAmountInput:          "qr_amount_input",
	ModeQrDisplay:              "qr_display",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Frame is one entry of the mode stack. Several frames may share a modal,
// e.g. parking input and its confirmation step.
type Frame struct {
	Mode  Mode
	Modal Modal
}

// ModeStack is the ordered stack of active modes. An empty stack is Normal.
type ModeStack struct {
	frames []Frame
}

// Current returns the mode on top of the stack.
func (m *ModeStack) Current() Mode {
	if f, ok := m.Top(); ok {
		return f.Mode
	}
	return ModeNormal
}

// Top returns the top frame.
func (m *ModeStack) Top() (Frame, bool) {
	if len(m.frames) == 0 {
		return Frame{}, false
	}
	return m.frames[len(m.frames)-1], true
}

// Depth returns the number of frames.
func (m *ModeStack) Depth() int {
	return len(m.frames)
}

// Frames returns a copy of the frames, bottom first.
func (m *ModeStack) Frames() []Frame {
	out := make([]Frame, len(m.frames))
	copy(out, m.frames)
	return out
}

// Enter pushes mode owned by modal. modal may be nil.
func (m *ModeStack) Enter(mode Mode, modal Modal) {
	m.frames = append(m.frames, Frame{Mode: mode, Modal: modal})
}

// Leave pops the top frame and returns the mode now current.
func (m *ModeStack) Leave() Mode {
	if len(m.frames) > 0 {
		m.frames[len(m.frames)-1] = Frame{}
		m.frames = m.frames[:len(m.frames)-1]
	}
	return m.Current()
}

// Contains reports whether any frame has mode.
func (m *ModeStack) Contains(mode Mode) bool {
	for _, f := range m.frames {
		if f.Mode == mode {
			return true
		}
	}
	return false
}

// Remove drops the topmost frame with mode wherever it sits, reporting
// whether one was found.
func (m *ModeStack) Remove(mode Mode) bool {
	for i := len(m.frames) - 1; i >= 0; i-- {
		if m.frames[i].Mode == mode {
			m.frames = append(m.frames[:i], m.frames[i+1:]...)
			return true
		}
	}
	return false
}

// LeaveModal drops every frame owned by modal.
func (m *ModeStack) LeaveModal(modal Modal) {
	if modal == nil {
		return
	}
	kept := m.frames[:0]
	for _, f := range m.frames {
		if f.Modal != modal {
			kept = append(kept, f)
		}
	}
	for i := len(kept); i < len(m.frames); i++ {
		m.frames[i] = Frame{}
	}
	m.frames = kept
}
