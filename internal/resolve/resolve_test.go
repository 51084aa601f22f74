package resolve_test

import (
	"os"
	"path/filepath"
	"testing"

	"surge/internal/resolve"
	"surge/internal/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestResolveTransitiveIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mzn"), `include "b.mzn";`+"\n")
	writeFile(t, filepath.Join(dir, "b.mzn"), `constraint true;`+"\n")

	fs := source.NewFileSet()
	res := resolve.Resolve(fs, []string{filepath.Join(dir, "a.mzn")}, resolve.Options{
		IgnoreStdlib: true,
		MaxErrors:    16,
	})
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Bag.Items())
	}
	if len(res.Models) != 2 {
		t.Fatalf("expected 2 models (a.mzn + b.mzn), got %d", len(res.Models))
	}
}

func TestResolveDedupesDiamond(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mzn"), "include \"b.mzn\";\ninclude \"c.mzn\";\n")
	writeFile(t, filepath.Join(dir, "b.mzn"), `include "shared.mzn";`+"\n")
	writeFile(t, filepath.Join(dir, "c.mzn"), `include "shared.mzn";`+"\n")
	writeFile(t, filepath.Join(dir, "shared.mzn"), `constraint true;`+"\n")

	fs := source.NewFileSet()
	res := resolve.Resolve(fs, []string{filepath.Join(dir, "a.mzn")}, resolve.Options{
		IgnoreStdlib: true,
		MaxErrors:    16,
	})
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Bag.Items())
	}
	if len(res.Models) != 4 {
		t.Fatalf("expected 4 distinct models, got %d", len(res.Models))
	}
}

func TestResolveMissingIncludeReportsAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mzn"), "include \"does_not_exist.mzn\";\ninclude \"b.mzn\";\n")
	writeFile(t, filepath.Join(dir, "b.mzn"), `constraint true;`+"\n")

	fs := source.NewFileSet()
	res := resolve.Resolve(fs, []string{filepath.Join(dir, "a.mzn")}, resolve.Options{
		IgnoreStdlib: true,
		MaxErrors:    16,
	})
	if !res.Bag.HasErrors() {
		t.Fatalf("expected an IncludeNotFound diagnostic")
	}
	// a.mzn and b.mzn both still resolve past the missing include.
	if len(res.Models) != 2 {
		t.Fatalf("expected 2 models despite the missing include, got %d", len(res.Models))
	}
}

func TestResolveMissingShareDirReportsStandardLibraryNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mzn"), `constraint true;`+"\n")

	fs := source.NewFileSet()
	res := resolve.Resolve(fs, []string{filepath.Join(dir, "a.mzn")}, resolve.Options{
		ShareDir:  filepath.Join(dir, "no-such-share-dir"),
		MaxErrors: 16,
	})
	if !res.Bag.HasErrors() {
		t.Fatalf("expected StandardLibraryNotFound when the share directory is absent")
	}
	if len(res.Models) != 1 {
		t.Fatalf("expected the root model to still resolve, got %d", len(res.Models))
	}
}

func TestResolveDotSlashIncludeIsRelativeToIncludingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sub", "a.mzn"), `include "./local.mzn";`+"\n")
	writeFile(t, filepath.Join(dir, "sub", "local.mzn"), `constraint true;`+"\n")
	// A same-named file elsewhere must NOT be picked up by the './' form.
	writeFile(t, filepath.Join(dir, "local.mzn"), `constraint false;`+"\n")

	fs := source.NewFileSet()
	res := resolve.Resolve(fs, []string{filepath.Join(dir, "sub", "a.mzn")}, resolve.Options{
		IgnoreStdlib: true,
		MaxErrors:    16,
	})
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Bag.Items())
	}
	if len(res.Models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(res.Models))
	}
}

func TestResolveIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mzn"), `include "b.mzn";`+"\n")
	writeFile(t, filepath.Join(dir, "b.mzn"), `constraint true;`+"\n")

	roots := []string{filepath.Join(dir, "a.mzn")}
	first := resolve.Resolve(source.NewFileSet(), roots, resolve.Options{IgnoreStdlib: true, MaxErrors: 16})
	second := resolve.Resolve(source.NewFileSet(), roots, resolve.Options{IgnoreStdlib: true, MaxErrors: 16})

	if len(first.Models) != len(second.Models) {
		t.Fatalf("expected equal model counts across runs, got %d vs %d", len(first.Models), len(second.Models))
	}
	if first.Bag.HasErrors() != second.Bag.HasErrors() {
		t.Fatalf("expected equal error presence across runs")
	}
}

func TestResolveEprimeAutoIncludesGlobals(t *testing.T) {
	dir := t.TempDir()
	sharedDir := filepath.Join(dir, "share")
	writeFile(t, filepath.Join(dir, "model.eprime"), "find x : bool\nsuch that x\n")
	writeFile(t, filepath.Join(sharedDir, "eprime_globals.mzn"), `constraint true;`+"\n")

	fs := source.NewFileSet()
	res := resolve.Resolve(fs, []string{filepath.Join(dir, "model.eprime")}, resolve.Options{
		IgnoreStdlib: true,
		SearchDirs:   []string{sharedDir},
		MaxErrors:    16,
	})
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Bag.Items())
	}
	if len(res.Models) != 2 {
		t.Fatalf("expected the eprime model plus eprime_globals.mzn, got %d", len(res.Models))
	}
}
