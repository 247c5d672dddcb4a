// Package events runs the client's event loop: input and clock producers
// feed a single consumer that owns the application state.
package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/fklub/stregterm/internal/actions"
	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/pkg/logger"
)

const (
	defaultPollInterval  = 100 * time.Millisecond
	defaultTickInterval  = time.Second
	defaultRefreshPeriod = 2 * time.Second
	eventBuffer          = 100
)

// Terminal is the screen the loop draws to and reads input from.
type Terminal interface {
	// PollEvent waits up to timeout for an input event.
	PollEvent(timeout time.Duration) (Event, bool)
	Size() (width, height int)
	Draw(s *app.State) error
}

// Config configures a Loop.
type Config struct {
	Terminal      Terminal
	Actions       *actions.Orchestrator
	Logger        *logger.Logger
	PollInterval  time.Duration
	TickInterval  time.Duration
	RefreshPeriod time.Duration
}

// Loop dispatches events to the application state.
type Loop struct {
	term         Terminal
	actions      *actions.Orchestrator
	log          *logger.Logger
	pollInterval time.Duration
	tickInterval time.Duration
	refresh      *rate.Limiter

	events   chan Event
	shutdown atomic.Bool
	wg       sync.WaitGroup
}

// New creates a Loop.
func New(cfg Config) *Loop {
	log := cfg.Logger
	if log == nil {
		log = logger.NewDiscard("events")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.RefreshPeriod <= 0 {
		cfg.RefreshPeriod = defaultRefreshPeriod
	}
	return &Loop{
		term:         cfg.Terminal,
		actions:      cfg.Actions,
		log:          log,
		pollInterval: cfg.PollInterval,
		tickInterval: cfg.TickInterval,
		refresh:      rate.NewLimiter(rate.Every(cfg.RefreshPeriod), 1),
		events:       make(chan Event, eventBuffer),
	}
}

// Run loads the initial data and processes events until the user quits or
// ctx ends. Each cycle draws the state, then receives and fully handles one
// event.
func (l *Loop) Run(ctx context.Context, s *app.State) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		l.shutdown.Store(true)
		cancel()
		l.wg.Wait()
	}()

	l.startup(runCtx, s)

	l.wg.Add(2)
	go l.pollInput(runCtx)
	go l.clock(runCtx)
	l.log.Info("event loop started")

	for {
		width, height := l.term.Size()
		app.CheckTerminalSize(s, width, height)
		if err := l.term.Draw(s); err != nil {
			return fmt.Errorf("draw: %w", err)
		}

		select {
		case <-ctx.Done():
			l.log.Info("event loop cancelled")
			return nil
		case ev := <-l.events:
			l.handle(runCtx, s, ev)
		}

		if s.Quit {
			l.log.Info("event loop stopped")
			return nil
		}
	}
}

func (l *Loop) startup(ctx context.Context, s *app.State) {
	if err := l.actions.LoadAll(ctx, s); err != nil {
		app.ShowError(s, "User Data Error", fmt.Sprintf("There was a problem with your username. Error: %s.", err))
	}
}

func (l *Loop) pollInput(ctx context.Context) {
	defer l.wg.Done()
	for !l.shutdown.Load() {
		ev, ok := l.term.PollEvent(l.pollInterval)
		if !ok {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		select {
		case l.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) clock(ctx context.Context) {
	defer l.wg.Done()
	ticker := time.NewTicker(l.tickInterval)
	defer ticker.Stop()

	for !l.shutdown.Load() {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			select {
			case l.events <- TickEvent(now):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (l *Loop) handle(ctx context.Context, s *app.State, ev Event) {
	switch ev.Kind {
	case KindTick:
		s.Tick(ev.Time)
	case KindKey:
		l.handleKey(ctx, s, ev)
	}
}
