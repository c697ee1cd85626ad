package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(strings.TrimLeft(contents, "\n")), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigBasic(t *testing.T) {
	path := writeConfig(t, `
name: demo
entries:
  - main.js
  - lib/util.js
strict: true
loop_break: true
jobs: 2
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Name != "demo" {
		t.Fatalf("Name = %q, want demo", cfg.Name)
	}
	dir := filepath.Dir(path)
	want := []string{filepath.Join(dir, "main.js"), filepath.Join(dir, "lib", "util.js")}
	if len(cfg.Entries) != len(want) || cfg.Entries[0] != want[0] || cfg.Entries[1] != want[1] {
		t.Fatalf("Entries = %#v, want %#v", cfg.Entries, want)
	}
	if !cfg.Strict || !cfg.LoopBreak || cfg.Trace {
		t.Fatalf("flags not parsed: %#v", cfg)
	}

	opts := cfg.Options()
	if !opts.Strict || !opts.LoopBreak || opts.Jobs != 2 {
		t.Fatalf("Options() = %#v", opts)
	}
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
name: demo
entry: main.js
`)
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "field entry not found") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	path := writeConfig(t, "")
	_, err := LoadConfig(path)
	if !errors.Is(err, errEmptyConfig) || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected empty config error, got %v", err)
	}
	if _, err := parseConfig(nil, t.TempDir()); !errors.Is(err, errEmptyConfig) {
		t.Fatalf("expected errEmptyConfig for no data, got %v", err)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	path := writeConfig(t, `
jobs: -1
entries:
  - a.js
  - ""
  - a.js
`)
	_, err := LoadConfig(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{
		"name must be provided",
		"jobs must not be negative (got -1)",
		"entries[1] must be a non-empty path",
		"entries[2] duplicates entries[0]",
	}
	if strings.Join(verr.Issues, "|") != strings.Join(want, "|") {
		t.Fatalf("Issues = %#v, want %#v", verr.Issues, want)
	}
	if !strings.HasPrefix(err.Error(), "config validation failed:\n- name must be provided") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("name: demo\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	child := filepath.Join(root, "src", "nested")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindConfig(child)
	if err != nil {
		t.Fatalf("FindConfig returned error: %v", err)
	}
	if want := filepath.Join(root, ConfigFileName); found != want {
		t.Fatalf("FindConfig = %q, want %q", found, want)
	}
}
