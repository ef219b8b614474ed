package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	AppName          = "focus-starter"
	settingsFileName = "settings.yaml"

	defaultAPIURL    = "http://localhost:3000"
	defaultMusicType = "rain"
)

// Settings are the terminal client's persistent preferences.
type Settings struct {
	UserID        string
	APIURL        string
	FocusDuration time.Duration
	BreakDuration time.Duration
	MusicType     string
	AutoContinue  bool
}

func DefaultSettings() Settings {
	return Settings{
		APIURL:        defaultAPIURL,
		FocusDuration: 25 * time.Minute,
		BreakDuration: 5 * time.Minute,
		MusicType:     defaultMusicType,
	}
}

type yamlSettings struct {
	UserID       string `yaml:"user_id"`
	APIURL       string `yaml:"api_url"`
	FocusSeconds int    `yaml:"focus_seconds"`
	BreakSeconds int    `yaml:"break_seconds"`
	MusicType    string `yaml:"music_type"`
	AutoContinue bool   `yaml:"auto_continue"`
}

// ConfigDir returns the per-user directory holding settings and logs.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

// SettingsPath is the default settings file location.
func SettingsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// LoadSettings reads preferences from path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes preferences to path, creating its directory.
func SaveSettings(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		UserID:       settings.UserID,
		APIURL:       settings.APIURL,
		FocusSeconds: int(settings.FocusDuration / time.Second),
		BreakSeconds: int(settings.BreakDuration / time.Second),
		MusicType:    settings.MusicType,
		AutoContinue: settings.AutoContinue,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// EnsureUserID assigns a user id the first time the client runs. It reports
// whether an id was generated and the settings need saving.
func EnsureUserID(settings *Settings, now time.Time) bool {
	if strings.TrimSpace(settings.UserID) != "" {
		return false
	}
	settings.UserID = "user_" + strconv.FormatInt(now.UnixMilli(), 10)
	return true
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.UserID != "" {
		settings.UserID = fileData.UserID
	}
	if fileData.APIURL != "" {
		settings.APIURL = fileData.APIURL
	}
	if fileData.FocusSeconds > 0 {
		settings.FocusDuration = time.Duration(fileData.FocusSeconds) * time.Second
	}
	if fileData.BreakSeconds > 0 {
		settings.BreakDuration = time.Duration(fileData.BreakSeconds) * time.Second
	}
	if fileData.MusicType != "" {
		settings.MusicType = fileData.MusicType
	}

	settings.AutoContinue = fileData.AutoContinue
}
