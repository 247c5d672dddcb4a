// Package config loads the persisted user settings and the runtime options
// of the client.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fklub/stregterm/internal/apperr"
)

// DefaultRoomID is the room used when none is configured.
const DefaultRoomID = 10

// DefaultSettingsFile is the settings path relative to the user config dir.
const DefaultSettingsFile = "stregsystemet.yaml"

// Settings is the persisted per-user configuration.
type Settings struct {
	Username     string `yaml:"username,omitempty"`
	RoomID       int    `yaml:"room_id"`
	PhoneNumber  string `yaml:"phone_number,omitempty"`
	LicensePlate string `yaml:"license_plate,omitempty"`
}

// DefaultSettings returns settings with no user and the default room.
func DefaultSettings() Settings {
	return Settings{RoomID: DefaultRoomID}
}

// HasUsername reports whether a username is configured.
func (s Settings) HasUsername() bool {
	return strings.TrimSpace(s.Username) != ""
}

// Validate rejects a whitespace-only username and a non-positive room.
func (s Settings) Validate() error {
	if s.Username != "" && strings.TrimSpace(s.Username) == "" {
		return apperr.Config("Username cannot be empty or whitespace only")
	}
	if s.RoomID <= 0 {
		return apperr.Config(fmt.Sprintf("Room id must be positive, got %d", s.RoomID))
	}
	return nil
}

// SettingsStore persists Settings.
type SettingsStore interface {
	Load() (Settings, error)
	Save(Settings) error
}

// FileStore keeps Settings in a YAML file.
type FileStore struct {
	Path string
}

// DefaultSettingsPath returns ~/.config/stregsystemet.yaml (or the platform
// equivalent).
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", apperr.Config("Could not find the user configuration directory")
	}
	return filepath.Join(dir, DefaultSettingsFile), nil
}

// NewFileStore returns a store at path, or at the default path when empty.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		p, err := DefaultSettingsPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileStore{Path: path}, nil
}

// Load reads the settings file, creating it with defaults when missing.
func (s *FileStore) Load() (Settings, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		def := DefaultSettings()
		if err := s.Save(def); err != nil {
			return def, err
		}
		return def, nil
	}
	if err != nil {
		return Settings{}, apperr.IO("read settings file", err)
	}

	cfg := DefaultSettings()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Settings{}, &apperr.Error{Kind: apperr.KindConfig, Message: "Failed to parse settings", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Save validates and writes the settings file.
func (s *FileStore) Save(cfg Settings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindConfig, Message: "Failed to serialize settings", Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return apperr.IO("create settings directory", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return apperr.IO("write settings file", err)
	}
	return nil
}

// LoadOrDefault loads settings, returning defaults and the cause when the
// file cannot be used.
func LoadOrDefault(store SettingsStore) (Settings, error) {
	cfg, err := store.Load()
	if err != nil {
		return DefaultSettings(), err
	}
	return cfg, nil
}

// MemoryStore keeps Settings in memory.
type MemoryStore struct {
	Settings Settings
	Saves    int
	Err      error
}

func (m *MemoryStore) Load() (Settings, error) {
	if m.Err != nil {
		return Settings{}, m.Err
	}
	return m.Settings, nil
}

func (m *MemoryStore) Save(cfg Settings) error {
	if m.Err != nil {
		return m.Err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.Settings = cfg
	m.Saves++
	return nil
}
