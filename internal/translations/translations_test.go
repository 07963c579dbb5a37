package translations

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeLangFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad_StripsRegionSubtag(t *testing.T) {
	dir := t.TempDir()
	writeLangFile(t, dir, "de.json", `{"temperature": "Temperatur"}`)

	table, err := Load(dir, "de-DE")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := table.Label("temperature"); got != "Temperatur" {
		t.Errorf("Label(temperature) = %q, want Temperatur", got)
	}
}

func TestLoadWithFallback_MissingLanguage(t *testing.T) {
	dir := t.TempDir()
	writeLangFile(t, dir, "en.json", `{"temperature": "Temperature"}`)

	table := LoadWithFallback(dir, "xx-XX", zap.NewNop())
	if got := table.Label("temperature"); got != "Temperature" {
		t.Errorf("Label(temperature) = %q, want English fallback", got)
	}
}

func TestLoadWithFallback_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeLangFile(t, dir, "fr.json", `{not json`)
	writeLangFile(t, dir, "en.json", `{"humidity": "Humidity"}`)

	table := LoadWithFallback(dir, "fr-FR", zap.NewNop())
	if got := table.Label("humidity"); got != "Humidity" {
		t.Errorf("Label(humidity) = %q, want English fallback", got)
	}
}

func TestLoadWithFallback_NothingLoadable(t *testing.T) {
	table := LoadWithFallback(t.TempDir(), "en-US", zap.NewNop())
	if table == nil {
		t.Fatal("LoadWithFallback() returned nil table")
	}
	// Unknown keys pass through.
	if got := table.Label("windSpeed"); got != "windSpeed" {
		t.Errorf("Label(windSpeed) = %q, want key passthrough", got)
	}
}
