// Package config loads the frontend.toml project manifest that seeds the
// core's input queries (spec §4.2/§6): which model files to load, where to
// search for includes, whether to skip the standard library, and where the
// standard library's share directory lives. The core itself never reads a
// file directly — everything here just populates the plain values
// internal/resolve.Options and a root file list already accept.
//
// Grounded on internal/project/modules.go's BurntSushi/toml decoding
// discipline: decode into an unexported TOML-shaped struct, check
// meta.IsDefined for every section/key that's required rather than trusting
// the zero value, and wrap every failure with the manifest path.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrFrontendSectionMissing indicates a frontend.toml with no [frontend]
// table at all.
var ErrFrontendSectionMissing = errors.New("missing [frontend]")

// Config is the resolved, ready-to-use configuration for one frontend run.
type Config struct {
	// InputModels is §6's input_models() — the root files to load, in
	// manifest order.
	InputModels []string
	// IncludeSearchDirs is §6's include_search_dirs() — tried, in order,
	// for auto-includes and bare-name include targets.
	IncludeSearchDirs []string
	// IgnoreStdlib is §6's ignore_stdlib().
	IgnoreStdlib bool
	// ShareDirectory is §6's share_directory(): the standard library's
	// install location. Empty when IgnoreStdlib is true, in which case it
	// is never consulted.
	ShareDirectory string
	// MaxDiagnosticsPerPhase bounds how many diagnostics any one phase
	// (resolve, lower, scope, check, exhaust) accumulates before it stops
	// reporting further ones for that phase; not part of §6's abstract
	// input-query surface, but every phase already takes exactly this as a
	// concrete parameter, so the manifest is the one place to set it.
	MaxDiagnosticsPerPhase int
}

type manifest struct {
	Frontend struct {
		InputModels       []string `toml:"input_models"`
		IncludeSearchDirs []string `toml:"include_search_dirs"`
		IgnoreStdlib      bool     `toml:"ignore_stdlib"`
		ShareDirectory    string   `toml:"share_directory"`
		MaxDiagnostics    int      `toml:"max_diagnostics_per_phase"`
	} `toml:"frontend"`
}

// defaultMaxDiagnostics is used when the manifest omits
// max_diagnostics_per_phase or sets it to zero.
const defaultMaxDiagnostics = 256

// Load decodes path (a frontend.toml manifest) into a Config. Relative
// entries in input_models, include_search_dirs, and share_directory are
// resolved against path's own directory, not the process's working
// directory, so a manifest remains portable when the whole project tree
// moves.
func Load(path string) (*Config, error) {
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("frontend") {
		return nil, fmt.Errorf("%s: %w", path, ErrFrontendSectionMissing)
	}

	base := filepath.Dir(path)
	cfg := &Config{
		IgnoreStdlib:           m.Frontend.IgnoreStdlib,
		MaxDiagnosticsPerPhase: m.Frontend.MaxDiagnostics,
	}
	if cfg.MaxDiagnosticsPerPhase <= 0 {
		cfg.MaxDiagnosticsPerPhase = defaultMaxDiagnostics
	}
	for _, p := range m.Frontend.InputModels {
		cfg.InputModels = append(cfg.InputModels, resolveRelative(base, p))
	}
	for _, p := range m.Frontend.IncludeSearchDirs {
		cfg.IncludeSearchDirs = append(cfg.IncludeSearchDirs, resolveRelative(base, p))
	}
	if !cfg.IgnoreStdlib {
		share := strings.TrimSpace(m.Frontend.ShareDirectory)
		if share != "" {
			cfg.ShareDirectory = resolveRelative(base, share)
		}
	}
	return cfg, nil
}

func resolveRelative(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
