package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"surge/internal/config"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "frontend.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[frontend]
input_models = ["model.mzn", "data/instance.dzn"]
include_search_dirs = ["lib"]
share_directory = "share"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.InputModels) != 2 {
		t.Fatalf("expected 2 input models, got %+v", cfg.InputModels)
	}
	want := filepath.Join(dir, "model.mzn")
	if cfg.InputModels[0] != want {
		t.Fatalf("expected %q, got %q", want, cfg.InputModels[0])
	}
	if cfg.IncludeSearchDirs[0] != filepath.Join(dir, "lib") {
		t.Fatalf("expected include dir resolved against manifest dir, got %q", cfg.IncludeSearchDirs[0])
	}
	if cfg.ShareDirectory != filepath.Join(dir, "share") {
		t.Fatalf("expected share directory resolved against manifest dir, got %q", cfg.ShareDirectory)
	}
	if cfg.IgnoreStdlib {
		t.Fatalf("expected ignore_stdlib to default false")
	}
	if cfg.MaxDiagnosticsPerPhase != 256 {
		t.Fatalf("expected default max diagnostics of 256, got %d", cfg.MaxDiagnosticsPerPhase)
	}
}

func TestLoadIgnoreStdlibSkipsShareDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[frontend]
input_models = ["model.mzn"]
ignore_stdlib = true
share_directory = "share"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IgnoreStdlib {
		t.Fatalf("expected ignore_stdlib to be true")
	}
	if cfg.ShareDirectory != "" {
		t.Fatalf("expected share directory to be ignored when ignore_stdlib is true, got %q", cfg.ShareDirectory)
	}
}

func TestLoadAbsolutePathsAreNotRejoined(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "elsewhere", "model.mzn")
	path := writeManifest(t, dir, `
[frontend]
input_models = ["`+filepath.ToSlash(abs)+`"]
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InputModels[0] != abs {
		t.Fatalf("expected absolute path preserved as-is, got %q", cfg.InputModels[0])
	}
}

func TestLoadMissingFrontendSectionIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[other]\nfoo = 1\n")

	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected an error for a manifest with no [frontend] section")
	}
}
