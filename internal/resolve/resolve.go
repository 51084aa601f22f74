// Package resolve implements the include resolver: the work-stack graph
// traversal that turns a set of root model paths into the deduplicated,
// order-preserving list of files the rest of the pipeline lowers. Grounded
// on original_source's resolve_includes (crates/shackle-compiler/src/hir/db.rs)
// almost verbatim, including its stack-based (LIFO) traversal order and its
// ./name vs bare-name vs absolute include resolution.
package resolve

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/hir"
	"surge/internal/lexer"
	"surge/internal/parser"
	"surge/internal/source"
)

// Auto-include filenames, named directly after original_source's
// auto_includes = ["solver_redefinitions.mzn", "stdlib.mzn"] and its
// eprime_globals.mzn lookup for the alternate surface.
const (
	stdlibFile        = "stdlib.mzn"
	solverRedefsFile  = "solver_redefinitions.mzn"
	eprimeGlobalsFile = "eprime_globals.mzn"
)

// Options configures one include-resolution run.
type Options struct {
	// SearchDirs is tried, in caller order, for auto-includes and for
	// bare-name include targets.
	SearchDirs []string
	// IgnoreStdlib skips stdlib/solver-redefinitions auto-inclusion
	// entirely.
	IgnoreStdlib bool
	// ShareDir is checked for existence before the stdlib search even
	// starts; a share directory absent here is a harder failure than
	// simply not finding the files in a search dir.
	ShareDir  string
	MaxErrors int
}

// Result is what Resolve hands back.
type Result struct {
	Models []hir.ModelRef
	Bag    *diag.Bag
}

// Resolve runs the include-resolution algorithm over roots, returning every
// reachable model in visitation order. Missing includes and a missing
// stdlib are reported into the returned Bag; resolution continues past
// them, per §4.5 failure semantics for the rest of the pipeline.
func Resolve(fs *source.FileSet, roots []string, opts Options) Result {
	bag := diag.NewBag(opts.MaxErrors)
	reporter := &diag.BagReporter{Bag: bag}

	todo := append([]string(nil), roots...)

	if !opts.IgnoreStdlib {
		if info, err := os.Stat(opts.ShareDir); err != nil || !info.IsDir() {
			diag.ReportError(reporter, diag.StandardLibraryNotFound, source.Span{},
				"standard library share directory not found: "+opts.ShareDir).Emit()
		} else if dir := findDirWithAll(opts.SearchDirs, solverRedefsFile, stdlibFile); dir == "" {
			diag.ReportError(reporter, diag.StandardLibraryNotFound, source.Span{},
				"could not locate "+stdlibFile+" and "+solverRedefsFile+" together in any search directory").Emit()
		} else {
			// Pushed in this order so stdlib.mzn is the first one popped
			// (LIFO), matching original_source's own push order.
			todo = append(todo, filepath.Join(dir, solverRedefsFile), filepath.Join(dir, stdlibFile))
		}
	}

	var models []hir.ModelRef
	seen := make(map[string]struct{}, len(todo))
	maxErrors, convErr := safecast.Conv[uint](opts.MaxErrors)
	if convErr != nil {
		maxErrors = 0
	}

	for len(todo) > 0 {
		path := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		canon := canonicalize(path)
		if _, dup := seen[canon]; dup {
			continue
		}
		seen[canon] = struct{}{}

		fileID, err := fs.Load(path)
		if err != nil {
			diag.ReportError(reporter, diag.IncludeNotFound, source.Span{},
				"could not read "+path+": "+err.Error()).Emit()
			continue
		}
		models = append(models, hir.ModelRef(fileID))

		if isAlternateSurface(path) {
			if dir := findDirWithAll(opts.SearchDirs, eprimeGlobalsFile); dir != "" {
				todo = append(todo, filepath.Join(dir, eprimeGlobalsFile))
			}
			continue
		}

		todo = append(todo, resolvePrimaryIncludes(fs, fileID, path, opts.SearchDirs, maxErrors, reporter)...)
	}

	return Result{Models: models, Bag: bag}
}

// resolvePrimaryIncludes parses path far enough to read its top-level
// 'include' items and resolve each target, reporting unresolvable ones
// through reporter rather than failing the whole run.
func resolvePrimaryIncludes(
	fs *source.FileSet, fileID source.FileID, path string, searchDirs []string, maxErrors uint, reporter diag.Reporter,
) []string {
	file := fs.Get(fileID)
	localBag := diag.NewBag(int(maxErrors))
	lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: localBag}})
	arenas := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), fs, lx, arenas, parser.Options{
		MaxErrors: maxErrors, Reporter: &diag.BagReporter{Bag: localBag},
	})

	f := arenas.Files.Get(res.File)
	if f == nil {
		return nil
	}

	fileDir := filepath.Dir(path)
	var targets []string
	for _, itemID := range f.Items {
		it := arenas.Items.Get(itemID)
		if it == nil || it.Kind != ast.IInclude {
			continue
		}
		resolved, ok := resolveIncludePath(it.Path, fileDir, searchDirs)
		if !ok {
			diag.ReportError(reporter, diag.IncludeNotFound, it.Span, "include not found: "+it.Path).Emit()
			continue
		}
		targets = append(targets, resolved)
	}
	return targets
}

// resolveIncludePath implements §4.3's three-way rule: absolute as-is,
// './name' relative to the including file, otherwise first match among
// search dirs then the including file's directory.
func resolveIncludePath(included, fileDir string, searchDirs []string) (string, bool) {
	if filepath.IsAbs(included) {
		return included, true
	}
	if strings.HasPrefix(included, "./") {
		candidate := filepath.Join(fileDir, included)
		if fileExists(candidate) {
			return candidate, true
		}
		return "", false
	}
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, included)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	candidate := filepath.Join(fileDir, included)
	if fileExists(candidate) {
		return candidate, true
	}
	return "", false
}

// isAlternateSurface distinguishes the two surface syntaxes by extension:
// the alternate (E-prime-flavored) surface has no 'include' items of its
// own — only the auto-included eprime_globals.mzn on the primary surface's
// side of the graph — so detecting it here is what decides whether this
// file's own include items even need reading.
func isAlternateSurface(path string) bool {
	return filepath.Ext(path) == ".eprime"
}

func findDirWithAll(searchDirs []string, files ...string) string {
	for _, dir := range searchDirs {
		complete := true
		for _, f := range files {
			if !fileExists(filepath.Join(dir, f)) {
				complete = false
				break
			}
		}
		if complete {
			return dir
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// canonicalize realpaths path for deduplication; a failure (file not yet
// created, broken symlink) falls back to the absolute, non-canonical form
// but still participates in dedup, per §4.3's tie-break note.
func canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return real
}
