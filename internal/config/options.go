package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL     = "https://stregsystem.fklub.dk/api"
	DefaultParkingURL = "https://api.mobile-parking.eu/v10/permit/Tablet/confirm"
	DefaultVehicleURL = "https://www.nummerplade.net/nummerplade"
)

// Options are the runtime knobs read from the environment.
type Options struct {
	APIURL            string        `env:"STREG_API_URL"`
	ParkingURL        string        `env:"STREG_PARKING_URL"`
	VehicleURL        string        `env:"STREG_VEHICLE_URL"`
	SettingsPath      string        `env:"STREG_CONFIG_PATH"`
	LogFile           string        `env:"STREG_LOG_FILE"`
	LogLevel          string        `env:"STREG_LOG_LEVEL"`
	LogFormat         string        `env:"STREG_LOG_FORMAT"`
	HTTPTimeout       time.Duration `env:"STREG_HTTP_TIMEOUT"`
	RequestsPerSecond float64       `env:"STREG_REQUESTS_PER_SECOND"`
	MetricsAddr       string        `env:"STREG_METRICS_ADDR"`
}

// DefaultOptions returns the built-in runtime options.
func DefaultOptions() Options {
	return Options{
		APIURL:            DefaultAPIURL,
		ParkingURL:        DefaultParkingURL,
		VehicleURL:        DefaultVehicleURL,
		LogFile:           defaultLogFile(),
		LogLevel:          "info",
		LogFormat:         "json",
		HTTPTimeout:       15 * time.Second,
		RequestsPerSecond: 5,
	}
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "stregterm", "stregterm.log")
}

// LoadOptions reads options from the environment, after loading envFile into
// the environment when it is non-empty. Variables already present in the
// environment win over the file.
func LoadOptions(envFile string) (Options, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return DefaultOptions(), fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	opts := DefaultOptions()
	if err := envdecode.Decode(&opts); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return DefaultOptions(), fmt.Errorf("decode environment: %w", err)
	}
	opts.fillDefaults()
	return opts, opts.Validate()
}

func (o *Options) fillDefaults() {
	def := DefaultOptions()
	if strings.TrimSpace(o.APIURL) == "" {
		o.APIURL = def.APIURL
	}
	if strings.TrimSpace(o.ParkingURL) == "" {
		o.ParkingURL = def.ParkingURL
	}
	if strings.TrimSpace(o.VehicleURL) == "" {
		o.VehicleURL = def.VehicleURL
	}
	if strings.TrimSpace(o.LogFile) == "" {
		o.LogFile = def.LogFile
	}
	if o.LogLevel == "" {
		o.LogLevel = def.LogLevel
	}
	if o.LogFormat == "" {
		o.LogFormat = def.LogFormat
	}
	if o.HTTPTimeout == 0 {
		o.HTTPTimeout = def.HTTPTimeout
	}
	if o.RequestsPerSecond == 0 {
		o.RequestsPerSecond = def.RequestsPerSecond
	}
	o.APIURL = strings.TrimSuffix(o.APIURL, "/")
	o.VehicleURL = strings.TrimSuffix(o.VehicleURL, "/")
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.HTTPTimeout < 0 {
		return fmt.Errorf("STREG_HTTP_TIMEOUT must not be negative")
	}
	if o.RequestsPerSecond < 0 {
		return fmt.Errorf("STREG_REQUESTS_PER_SECOND must not be negative")
	}
	for name, u := range map[string]string{"STREG_API_URL": o.APIURL, "STREG_PARKING_URL": o.ParkingURL} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, u)
		}
	}
	return nil
}
