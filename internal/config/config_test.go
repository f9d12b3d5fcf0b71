package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestNewManagerDefaults(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	cfg := m.Get()
	if cfg.Zoom != 3.0 {
		t.Errorf("Zoom = %v, want 3.0", cfg.Zoom)
	}
	if cfg.StartPage != 28 {
		t.Errorf("StartPage = %d, want 28", cfg.StartPage)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.API.Retries != 2 {
		t.Errorf("API.Retries = %d, want 2", cfg.API.Retries)
	}
}

func TestNewManagerReadsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
document: mushaf.pdf
output_dir: artifacts
zoom: 2.5
logging:
  level: debug
api:
  retries: 5
chat:
  instance_id: "1101"
`)

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	cfg := m.Get()
	if cfg.Document != "mushaf.pdf" {
		t.Errorf("Document = %q, want mushaf.pdf", cfg.Document)
	}
	if cfg.OutputDir != "artifacts" {
		t.Errorf("OutputDir = %q, want artifacts", cfg.OutputDir)
	}
	if cfg.Zoom != 2.5 {
		t.Errorf("Zoom = %v, want 2.5", cfg.Zoom)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.API.Retries != 5 {
		t.Errorf("API.Retries = %d, want 5", cfg.API.Retries)
	}
	if cfg.Chat.InstanceID != "1101" {
		t.Errorf("Chat.InstanceID = %q, want 1101", cfg.Chat.InstanceID)
	}
	// Keys the file omits keep their defaults.
	if cfg.API.Edition != "quran-uthmani" {
		t.Errorf("API.Edition = %q, want quran-uthmani", cfg.API.Edition)
	}
}

func TestNewManagerResolvesCredentialEnvVars(t *testing.T) {
	t.Setenv("TEST_DRIVE_TOKEN", "secret-token")
	path := writeFile(t, t.TempDir(), "config.yaml", `
drive:
  folder_id: abc
  token: ${TEST_DRIVE_TOKEN}
`)

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if got := m.Get().Drive.Token; got != "secret-token" {
		t.Errorf("Drive.Token = %q, want secret-token", got)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("TEST_CONFIG_A", "alpha")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"${TEST_CONFIG_A}", "alpha"},
		{"pre-${TEST_CONFIG_A}-post", "pre-alpha-post"},
		{"${TEST_CONFIG_UNSET}", ""},
	}
	for _, tt := range tests {
		if got := ResolveEnvVars(tt.in); got != tt.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadKnownPages(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pages.yaml", "1: 28\n2: 29\n114: 604\n")

	pages, err := LoadKnownPages(path)
	if err != nil {
		t.Fatalf("LoadKnownPages() error = %v", err)
	}
	want := map[int]int{1: 28, 2: 29, 114: 604}
	if len(pages) != len(want) {
		t.Fatalf("LoadKnownPages() = %v, want %v", pages, want)
	}
	for chapter, page := range want {
		if pages[chapter] != page {
			t.Errorf("pages[%d] = %d, want %d", chapter, pages[chapter], page)
		}
	}
}

func TestLoadKnownPagesEmptyPath(t *testing.T) {
	pages, err := LoadKnownPages("")
	if err != nil {
		t.Fatalf("LoadKnownPages(\"\") error = %v", err)
	}
	if pages != nil {
		t.Errorf("LoadKnownPages(\"\") = %v, want nil", pages)
	}
}

func TestLoadKnownPagesRejectsBadEntries(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pages.yaml", "0: 28\n")
	if _, err := LoadKnownPages(path); err == nil {
		t.Error("LoadKnownPages() error = nil, want range error")
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if got := m.Get(); got.Document != DefaultConfig().Document || got.Zoom != DefaultConfig().Zoom {
		t.Errorf("reloaded config = %+v, want defaults", got)
	}
}
