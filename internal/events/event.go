package events

import "time"

// Kind identifies what produced an Event.
type Kind int

const (
	KindKey Kind = iota
	KindTick
	KindResize
)

// Key is a terminal key independent of the terminal library.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyTab
	KeyBacktab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlN
	KeyCtrlP
)

// Event is one input or clock event delivered to the loop.
type Event struct {
	Kind Kind
	Key  Key
	Rune rune
	Time time.Time
}

// KeyEvent returns a key press of a non-printable key.
func KeyEvent(k Key) Event {
	return Event{Kind: KindKey, Key: k}
}

// RuneEvent returns a key press of a printable character.
func RuneEvent(r rune) Event {
	return Event{Kind: KindKey, Key: KeyRune, Rune: r}
}

// TickEvent returns a clock tick at t.
func TickEvent(t time.Time) Event {
	return Event{Kind: KindTick, Time: t}
}

// IsRune reports whether e is the printable character r.
func (e Event) IsRune(r rune) bool {
	return e.Kind == KindKey && e.Key == KeyRune && e.Rune == r
}
