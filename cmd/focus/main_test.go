package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"focus-starter/internal/storage"
)

func TestSettingsPath_PrefersConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom", "settings.yaml")

	got, err := settingsPath(&globalFlags{settingsPath: path})
	if err != nil {
		t.Fatalf("settings path: %v", err)
	}
	if got != path {
		t.Fatalf("expected %s, got %s", path, got)
	}
}

func TestLoadSettings_AssignsAndPersistsUserID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	flags := &globalFlags{settingsPath: path, apiURL: "http://api.test"}

	settings, err := loadSettings(flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasPrefix(settings.UserID, "user_") {
		t.Fatalf("expected generated user id, got %q", settings.UserID)
	}
	if settings.APIURL != "http://api.test" {
		t.Fatalf("expected --api override, got %s", settings.APIURL)
	}

	saved, err := storage.LoadSettings(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if saved.UserID != settings.UserID {
		t.Fatalf("expected persisted user id %s, got %s", settings.UserID, saved.UserID)
	}
	if saved.APIURL == "http://api.test" {
		t.Fatal("--api override must not be written to the settings file")
	}
}

func TestOpenLogFile_NextToSettings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	path := filepath.Join(dir, "settings.yaml")

	f, err := openLogFile(filepath.Dir(path))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	f.Close()

	if _, err := os.Stat(filepath.Join(dir, "focus.log")); err != nil {
		t.Fatalf("expected focus.log beside %s: %v", path, err)
	}
}
