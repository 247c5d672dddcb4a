// Package main is the stregsystem terminal client.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fklub/stregterm/internal/actions"
	"github.com/fklub/stregterm/internal/app"
	"github.com/fklub/stregterm/internal/backend"
	"github.com/fklub/stregterm/internal/config"
	"github.com/fklub/stregterm/internal/events"
	"github.com/fklub/stregterm/internal/metrics"
	"github.com/fklub/stregterm/internal/parking"
	"github.com/fklub/stregterm/internal/ui"
	"github.com/fklub/stregterm/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stregterm: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env-file", "", "Load environment variables from this .env file")
	settingsPath := flag.String("config", "", "Path to the settings file (default ~/.config/stregsystemet.yaml)")
	flag.Parse()

	opts, err := config.LoadOptions(*envFile)
	if err != nil {
		return err
	}
	if *settingsPath != "" {
		opts.SettingsPath = *settingsPath
	}

	log, closeLog, err := openLogger(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := config.NewFileStore(opts.SettingsPath)
	if err != nil {
		return err
	}
	settings, err := config.LoadOrDefault(store)
	if err != nil {
		log.WithError(err).WithField("path", store.Path).Warn("settings unusable, using defaults")
	}

	if opts.MetricsAddr != "" {
		srv := metrics.NewServer(opts.MetricsAddr)
		srv.Start(func(err error) {
			log.WithError(err).Error("metrics server failed")
		})
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		log.WithField("addr", opts.MetricsAddr).Info("metrics server listening")
	}

	orchestrator := actions.New(actions.Config{
		Backend: backend.New(backend.Config{
			BaseURL:           opts.APIURL,
			Timeout:           opts.HTTPTimeout,
			RequestsPerSecond: opts.RequestsPerSecond,
			Logger:            log.Named("backend"),
		}),
		Parking: parking.New(parking.Config{
			URL:     opts.ParkingURL,
			Timeout: opts.HTTPTimeout,
			Logger:  log.Named("parking"),
		}),
		Vehicles: parking.NewVehicleLookup(parking.VehicleConfig{
			BaseURL: opts.VehicleURL,
			Logger:  log.Named("vehicle"),
		}),
		Logger: log.Named("actions"),
	})

	screen, err := ui.NewScreen()
	if err != nil {
		return err
	}
	defer screen.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := app.New(settings, store, log.Named("app"))
	loop := events.New(events.Config{
		Terminal: screen,
		Actions:  orchestrator,
		Logger:   log.Named("events"),
	})

	log.WithFields(map[string]interface{}{
		"api_url":  opts.APIURL,
		"room_id":  settings.RoomID,
		"settings": store.Path,
	}).Info("stregterm starting")
	return loop.Run(ctx, state)
}

// openLogger writes logs to the configured file since the terminal is
// owned by the UI.
func openLogger(opts config.Options) (*logger.Logger, func(), error) {
	var out io.Writer = io.Discard
	closeFn := func() {}
	if opts.LogFile != "-" {
		f, err := logger.OpenFile(opts.LogFile)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	log, err := logger.New(logger.Config{
		Component: "stregterm",
		Level:     opts.LogLevel,
		Format:    opts.LogFormat,
		Output:    out,
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return log, closeFn, nil
}
