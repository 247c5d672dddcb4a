package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fklub/stregterm/internal/actions"
	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/internal/apperr"
	"github.com/fklub/stregterm/internal/config"
	"github.com/fklub/stregterm/internal/parking"
	"github.com/fklub/stregterm/pkg/testutil"
)

// scriptTerminal replays a fixed list of events and records every draw.
type scriptTerminal struct {
	mu      sync.Mutex
	script  []Event
	width   int
	height  int
	draws   []app.Mode
	titles  []string
	drawErr error
}

func newTerminal(script ...Event) *scriptTerminal {
	return &scriptTerminal{script: script, width: 120, height: 40}
}

func (t *scriptTerminal) PollEvent(timeout time.Duration) (Event, bool) {
	t.mu.Lock()
	if len(t.script) > 0 {
		ev := t.script[0]
		t.script = t.script[1:]
		t.mu.Unlock()
		return ev, true
	}
	t.mu.Unlock()
	time.Sleep(timeout)
	return Event{}, false
}

func (t *scriptTerminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

func (t *scriptTerminal) Draw(s *app.State) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draws = append(t.draws, s.Mode())
	if m := s.ErrorModal(); m != nil {
		t.titles = append(t.titles, m.Title)
	}
	return t.drawErr
}

func (t *scriptTerminal) sawMode(mode app.Mode) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.draws {
		if m == mode {
			return true
		}
	}
	return false
}

func runes(s string) []Event {
	var evs []Event
	for _, r := range s {
		evs = append(evs, RuneEvent(r))
	}
	return evs
}

func script(parts ...interface{}) []Event {
	var evs []Event
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			evs = append(evs, runes(v)...)
		case Key:
			evs = append(evs, KeyEvent(v))
		}
	}
	return evs
}

type harness struct {
	term    *scriptTerminal
	backend *testutil.MockBackend
	parking *testutil.MockParking
	store   *config.MemoryStore
	state   *app.State
	loop    *Loop
}

func newHarness(username string, evs ...Event) *harness {
	h := &harness{
		term:    newTerminal(evs...),
		backend: testutil.NewMockBackend(),
		parking: &testutil.MockParking{},
		store:   &config.MemoryStore{Settings: config.Settings{Username: username, RoomID: 10}},
	}
	h.state = app.New(h.store.Settings, h.store, nil)
	h.loop = New(Config{
		Terminal: h.term,
		Actions: actions.New(actions.Config{
			Backend:  h.backend,
			Parking:  h.parking,
			Vehicles: testutil.MockVehicles{Info: parking.VehicleInfo{Brand: "Volvo", Model: "V70"}},
		}),
		PollInterval: 5 * time.Millisecond,
		TickInterval: time.Hour,
	})
	return h
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- h.loop.Run(context.Background(), h.state) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not stop")
	}
	assert.True(t, h.loop.shutdown.Load())
}

func TestRun_Quit(t *testing.T) {
	h := newHarness("tester", script("q")...)
	h.run(t)

	assert.True(t, h.state.Quit)
	assert.Equal(t, 1, h.backend.ProductCalls())
	assert.True(t, h.state.Account.Resolved())
}

func TestRun_StartupErrorOpensModal(t *testing.T) {
	h := newHarness("tester", script("x", "q")...)
	h.backend.MemberErr = apperr.Network("Failed to fetch member ID", errors.New("timeout"))
	h.run(t)

	require.NotEmpty(t, h.term.draws)
	assert.Equal(t, app.ModeError, h.term.draws[0])
	assert.Equal(t, []string{"User Data Error"}, h.term.titles)
	assert.Contains(t, h.state.Account.Err, "Failed to load user data")
}

func TestRun_Navigation(t *testing.T) {
	h := newHarness("tester", script("2j", KeyDown, "k", "G", "gg", "3", KeyEsc, "j", "q")...)
	h.run(t)

	// 2j -> 2, down -> 3, k -> 2, G -> 3, gg -> 0, esc drops 3, j -> 1
	assert.Equal(t, 1, h.state.Nav.Selected)
	assert.Empty(t, h.state.Nav.Prefix)
	assert.False(t, h.state.Nav.PendingG)
}

func TestRun_PurchaseFlow(t *testing.T) {
	h := newHarness("tester", script("2j", KeyEnter, "+", KeyRight, KeyLeft, "y", "x", "q")...)
	h.run(t)

	assert.Equal(t, []string{"tester 12:2"}, h.backend.Purchases())
	assert.True(t, h.term.sawMode(app.ModeBuyConfirmation))
	assert.Nil(t, h.state.PurchaseModal())
	assert.Equal(t, app.ModeNormal, h.state.Mode())
}

func TestRun_PurchaseCancelled(t *testing.T) {
	h := newHarness("tester", script(KeyEnter, "n", KeyEnter, KeyEsc, "q")...)
	h.run(t)

	assert.Empty(t, h.backend.Purchases())
	assert.Equal(t, app.ModeNormal, h.state.Mode())
}

func TestRun_TerminalTooSmallOnlyQuits(t *testing.T) {
	h := newHarness("tester", script("j", "/", "q")...)
	h.term.width, h.term.height = 100, 30
	h.run(t)

	assert.Equal(t, 0, h.state.Nav.Selected)
	assert.Nil(t, h.state.SearchModal())
	assert.Equal(t, app.ModeTerminalTooSmall, h.term.draws[0])
}

func TestRun_UsernameChange(t *testing.T) {
	evs := script("u")
	for i := 0; i < len("tester"); i++ {
		evs = append(evs, KeyEvent(KeyBackspace))
	}
	evs = append(evs, script("ghost", KeyEnter, "q")...)
	h := newHarness("tester", evs...)
	h.run(t)

	assert.Equal(t, "ghost", h.store.Settings.Username)
	assert.Equal(t, "Username 'ghost' does not exist", h.state.Account.Err)
	assert.Equal(t, app.ModeNormal, h.state.Mode())
}

func TestRun_InitialUsername(t *testing.T) {
	h := newHarness("", script(KeyEsc, "tester", KeyEnter, "q")...)
	h.run(t)

	assert.Equal(t, app.ModeEditingInitialUsername, h.term.draws[0])
	assert.Equal(t, "tester", h.state.Settings.Username)
	assert.True(t, h.state.Account.Resolved())
}

func TestRun_UsernameLoadFailureOpensModal(t *testing.T) {
	evs := script("u", KeyBackspace, KeyEnter)
	h := newHarness("tester", append(evs, script("x", "q")...)...)
	h.backend.MemberErrs = map[string]error{"teste": apperr.Network("Failed to fetch member ID", errors.New("timeout"))}
	h.run(t)

	assert.Contains(t, h.term.titles, "Username Error")
	assert.Contains(t, h.state.Account.Err, "Error loading user data")
	assert.Equal(t, "teste", h.store.Settings.Username)
}

func TestRun_RefreshThrottled(t *testing.T) {
	h := newHarness("tester", script("rrr", "q")...)
	h.run(t)

	assert.Equal(t, 2, h.backend.ProductCalls())
}

func TestRun_Search(t *testing.T) {
	h := newHarness("tester", script("/", "Øl", KeyEnter, "q")...)
	h.run(t)

	p, ok := h.state.SelectedProduct()
	require.True(t, ok)
	assert.Equal(t, "12", p.ID)
}

func TestRun_Parking(t *testing.T) {
	h := newHarness("tester", script("p", "12345678", KeyTab, "ab12345", KeyEnter, "y", "x", "q")...)
	h.run(t)

	assert.Equal(t, []testutil.Registration{{Plate: "AB12345", Phone: "12345678"}}, h.parking.Registrations())
	assert.True(t, h.term.sawMode(app.ModeParkingConfirmation))
	assert.Equal(t, "AB12345", h.store.Settings.LicensePlate)
	assert.Nil(t, h.state.ParkingModal())
}

func TestRun_ParkingInvalidStaysOnForm(t *testing.T) {
	h := newHarness("tester", script("p", "123", KeyEnter, KeyEsc, "q")...)
	h.run(t)

	assert.False(t, h.term.sawMode(app.ModeParkingConfirmation))
	assert.Empty(t, h.parking.Registrations())
}

func TestRun_QrPayment(t *testing.T) {
	h := newHarness("tester", script("m", "100", KeyEnter, KeyBackspace, KeyEsc, "q")...)
	h.run(t)

	assert.True(t, h.term.sawMode(app.ModeQrDisplay))
	assert.True(t, h.term.sawMode(app.ModeQrAmountInput))
	assert.Nil(t, h.state.QrModal())
}

func TestRun_ContextCancelled(t *testing.T) {
	h := newHarness("tester")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.loop.Run(ctx, h.state) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("event loop ignored cancellation")
	}
	assert.False(t, h.state.Quit)
}

func TestRun_DrawError(t *testing.T) {
	h := newHarness("tester")
	h.term.drawErr = errors.New("screen gone")

	err := h.loop.Run(context.Background(), h.state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen gone")
}

func TestRun_ClockTicks(t *testing.T) {
	h := newHarness("tester")
	h.loop.tickInterval = 5 * time.Millisecond
	before := h.state.Now

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.loop.Run(ctx, h.state) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.True(t, h.state.Now.After(before))
}
