package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/internal/events"
)

var _ events.Terminal = (*Screen)(nil)

// Screen adapts a tcell screen to the event loop.
type Screen struct {
	scr    tcell.Screen
	input  chan tcell.Event
	closed chan struct{}
}

// NewScreen initialises the terminal.
func NewScreen() (*Screen, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewScreenFrom(scr)
}

// NewScreenFrom wraps an existing tcell screen, initialising it.
func NewScreenFrom(scr tcell.Screen) (*Screen, error) {
	if err := scr.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	scr.SetStyle(tcell.StyleDefault)
	scr.HideCursor()

	s := &Screen{
		scr:    scr,
		input:  make(chan tcell.Event, 16),
		closed: make(chan struct{}),
	}
	go s.read()
	return s, nil
}

func (s *Screen) read() {
	defer close(s.input)
	for {
		ev := s.scr.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.input <- ev:
		case <-s.closed:
			return
		}
	}
}

// Close restores the terminal.
func (s *Screen) Close() {
	close(s.closed)
	s.scr.Fini()
}

// PollEvent waits up to timeout for a key or resize event.
func (s *Screen) PollEvent(timeout time.Duration) (events.Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-s.input:
			if !ok {
				return events.Event{}, false
			}
			if out, ok := s.translate(ev); ok {
				return out, true
			}
		case <-timer.C:
			return events.Event{}, false
		}
	}
}

func (s *Screen) translate(ev tcell.Event) (events.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.scr.Sync()
		return events.Event{Kind: events.KindResize, Time: ev.When()}, true
	case *tcell.EventKey:
		return TranslateKey(ev)
	}
	return events.Event{}, false
}

// TranslateKey maps a tcell key press to a loop event.
func TranslateKey(ev *tcell.EventKey) (events.Event, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return events.RuneEvent(ev.Rune()), true
	case tcell.KeyEnter:
		return events.KeyEvent(events.KeyEnter), true
	case tcell.KeyEscape:
		return events.KeyEvent(events.KeyEsc), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return events.KeyEvent(events.KeyBackspace), true
	case tcell.KeyTab:
		return events.KeyEvent(events.KeyTab), true
	case tcell.KeyBacktab:
		return events.KeyEvent(events.KeyBacktab), true
	case tcell.KeyUp:
		return events.KeyEvent(events.KeyUp), true
	case tcell.KeyDown:
		return events.KeyEvent(events.KeyDown), true
	case tcell.KeyLeft:
		return events.KeyEvent(events.KeyLeft), true
	case tcell.KeyRight:
		return events.KeyEvent(events.KeyRight), true
	case tcell.KeyCtrlN:
		return events.KeyEvent(events.KeyCtrlN), true
	case tcell.KeyCtrlP:
		return events.KeyEvent(events.KeyCtrlP), true
	}
	return events.Event{}, false
}

// Size returns the terminal size in cells.
func (s *Screen) Size() (int, int) {
	return s.scr.Size()
}

// Draw renders the state and flushes it to the terminal.
func (s *Screen) Draw(st *app.State) error {
	s.scr.HideCursor()
	s.scr.Clear()
	Render(s.scr, st)
	s.scr.Show()
	return nil
}
