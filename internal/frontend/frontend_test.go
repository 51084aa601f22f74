package frontend_test

import (
	"os"
	"path/filepath"
	"testing"

	"surge/internal/config"
	"surge/internal/diag"
	"surge/internal/frontend"
	"surge/internal/source"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func newFrontend(t *testing.T, roots []string, searchDirs []string) *frontend.Frontend {
	t.Helper()
	cfg := &config.Config{
		InputModels:            roots,
		IncludeSearchDirs:      searchDirs,
		IgnoreStdlib:           true,
		MaxDiagnosticsPerPhase: 64,
	}
	return frontend.New(cfg, source.NewFileSet())
}

func TestRunFrontEndAcceptsWellFormedProgram(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "model.mzn", `
enum Color = {Red, Green, Blue};
Color: c = Red;
int: x = case c of
  Red -> 1,
  Green -> 2,
  Blue -> 3
endcase;
constraint x > 0;
solve satisfy;
`)

	f := newFrontend(t, []string{root}, nil)
	errs := f.AllErrors()
	if errs.HasErrors() {
		for _, d := range errs.Items() {
			t.Errorf("unexpected error: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	refs, runErrs := f.RunFrontEnd()
	if runErrs.HasErrors() {
		t.Fatalf("expected a clean run, got %d errors", runErrs.Len())
	}
	if len(refs) == 0 {
		t.Fatalf("expected at least one item in the topologically sorted list")
	}
}

func TestRunFrontEndStopsOnMissingStandardLibrary(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "model.mzn", `int: x = 1; constraint x > 0; solve satisfy;`)

	cfg := &config.Config{
		InputModels:            []string{root},
		IgnoreStdlib:           false,
		ShareDirectory:         filepath.Join(dir, "does-not-exist"),
		MaxDiagnosticsPerPhase: 64,
	}
	f := frontend.New(cfg, source.NewFileSet())

	errs := f.AllErrors()
	if !errs.HasErrors() {
		t.Fatalf("expected a StandardLibraryNotFound error")
	}
	found := false
	for _, d := range errs.Items() {
		if d.Code == diag.StandardLibraryNotFound {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.StandardLibraryNotFound among %+v", errs.Items())
	}

	refs, runErrs := f.RunFrontEnd()
	if refs != nil {
		t.Fatalf("expected no item list when the run has errors, got %+v", refs)
	}
	if !runErrs.HasErrors() {
		t.Fatalf("expected run_front_end to surface the same errors")
	}
}

func TestRunFrontEndStopsOnMissingStandardLibraryEvenWithOtherErrors(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "model.mzn", `constraint undefined_name > 0; solve satisfy;`)

	cfg := &config.Config{
		InputModels:            []string{root},
		IgnoreStdlib:           false,
		ShareDirectory:         filepath.Join(dir, "does-not-exist"),
		MaxDiagnosticsPerPhase: 64,
	}
	f := frontend.New(cfg, source.NewFileSet())

	errs := f.AllErrors()
	if errs.Len() != 1 {
		t.Fatalf("expected the stdlib error to short-circuit every other diagnostic, got %d: %+v", errs.Len(), errs.Items())
	}
	if errs.Items()[0].Code != diag.StandardLibraryNotFound {
		t.Fatalf("expected the single error to be StandardLibraryNotFound, got %s", errs.Items()[0].Code.ID())
	}
}

func TestRunFrontEndReportsSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "model.mzn", `int: x = ;`)

	f := newFrontend(t, []string{root}, nil)
	errs := f.AllErrors()
	if !errs.HasErrors() {
		t.Fatalf("expected a syntax error for a malformed declaration")
	}
}

func TestRunFrontEndReportsScopeErrors(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "model.mzn", `constraint undefined_name > 0; solve satisfy;`)

	f := newFrontend(t, []string{root}, nil)
	errs := f.AllErrors()
	if !errs.HasErrors() {
		t.Fatalf("expected an undefined-identifier error")
	}
	found := false
	for _, d := range errs.Items() {
		if d.Code == diag.UndefinedIdentifier {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.UndefinedIdentifier among %+v", errs.Items())
	}
}

func TestEntityCountsTalliesItemKinds(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "model.mzn", `
int: x = 1;
int: y = 2;
constraint x > 0;
constraint y > 0;
solve satisfy;
`)

	f := newFrontend(t, []string{root}, nil)
	counts := f.EntityCounts()
	if counts.Declaration != 2 {
		t.Errorf("expected 2 declarations, got %d", counts.Declaration)
	}
	if counts.Constraint != 2 {
		t.Errorf("expected 2 constraints, got %d", counts.Constraint)
	}
	if counts.Solve != 1 {
		t.Errorf("expected 1 solve item, got %d", counts.Solve)
	}
}

func TestItemsWithCaseFindsOnlyCaseBearingItems(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "model.mzn", `
enum Color = {Red, Green, Blue};
Color: c = Red;
int: x = case c of
  Red -> 1,
  Green -> 2,
  Blue -> 3
endcase;
int: y = 7;
solve satisfy;
`)

	f := newFrontend(t, []string{root}, nil)
	errs := f.AllErrors()
	if errs.HasErrors() {
		for _, d := range errs.Items() {
			t.Fatalf("unexpected error: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	models := f.ResolvedModels()
	if len(models) != 1 {
		t.Fatalf("expected exactly one resolved model, got %d", len(models))
	}
	rr, err := f.LookupModel(models[0])
	if err != nil {
		t.Fatalf("unexpected lookup_model error: %v", err)
	}
	withCase := f.ItemsWithCase(rr.Ref)
	if len(withCase) != 1 {
		t.Fatalf("expected exactly one item with a case expression, got %d", len(withCase))
	}
}

func TestLookupGlobalFunctionVariableAtom(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "model.mzn", `
enum Color = {Red, Green, Blue};
function int: double(int: n) = n * 2;
int: x = double(1);
solve satisfy;
`)

	f := newFrontend(t, []string{root}, nil)
	errs := f.AllErrors()
	if errs.HasErrors() {
		for _, d := range errs.Items() {
			t.Fatalf("unexpected error: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	if _, ok := f.LookupGlobalFunction("double"); !ok {
		t.Errorf("expected to find global function %q", "double")
	}
	if _, ok := f.LookupGlobalVariable("x"); !ok {
		t.Errorf("expected to find global variable %q", "x")
	}
	if _, ok := f.LookupGlobalAtom("Red"); !ok {
		t.Errorf("expected to find global atom %q", "Red")
	}
	if _, ok := f.LookupGlobalFunction("nonexistent"); ok {
		t.Errorf("did not expect to find global function %q", "nonexistent")
	}
}

func TestSetConfigInvalidatesDerivedQueries(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "model.mzn", `int: x = 1; constraint x > 0; solve satisfy;`)

	f := newFrontend(t, []string{root}, nil)
	if errs := f.AllErrors(); errs.HasErrors() {
		t.Fatalf("expected a clean first run")
	}
	before := f.EntityCounts()

	writeFile(t, dir, "model.mzn", `int: x = 1; int: y = 2; constraint x > 0; constraint y > 0; solve satisfy;`)
	f.SetConfig(&config.Config{
		InputModels:            []string{root},
		IgnoreStdlib:           true,
		MaxDiagnosticsPerPhase: 64,
	})

	after := f.EntityCounts()
	if after.Declaration != before.Declaration+1 {
		t.Fatalf("expected recomputed entity counts to reflect the edited file: before=%+v after=%+v", before, after)
	}
}
