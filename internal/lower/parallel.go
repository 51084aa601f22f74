package lower

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/eprimeast"
	"surge/internal/hir"
	"surge/internal/source"
)

// Unit names one already-parsed file to lower, on either surface. Exactly
// one of Primary/Alternate is non-nil. Grounded on internal/driver/parallel.go's
// ParseDir, which hands the same kind of per-file (FileID, *ast.Builder) pair
// to each fan-out goroutine — lowering slots in as the stage after parsing,
// over the same per-file independence.
type Unit struct {
	Ref       hir.ModelRef
	Fs        *source.FileSet
	Primary   *ast.Builder
	File      ast.FileID
	Alternate *eprimeast.Builder
	EFile     eprimeast.FileID
}

// Result is one file's lowered output, indexed back to its Unit by position.
type Result struct {
	Ref   hir.ModelRef
	Model *hir.Model
	Map   *hir.SourceMap
	Cst   *source.Cst
	Bag   *diag.Bag
}

// LowerUnitsParallel lowers independent files concurrently, one goroutine
// per file, following the errgroup fan-out idiom internal/driver/parallel.go
// uses for per-file tokenize/parse work (DiagnoseDirWithOptions, TokenizeDir,
// ParseDir): errgroup.WithContext, a SetLimit cap, and results written into a
// pre-sized slice at the goroutine's own index so no mutex guards the slice
// itself.
//
// This is a distinct layer from the query engine's own scheduling model
// (single-threaded, cooperative, no parallel query execution — see the
// concurrency model the frontend's query layer follows): lowering N
// independent source files into N independent HIR models happens once, up
// front, before any query is ever posed against them, exactly as ParseDir
// parallelizes tokenizing and parsing ahead of any later single-threaded
// phase. The only state genuinely shared across goroutines here is
// interners, which is why it carries its own mutex (internal/hir/ids.go) —
// the same role source.Interner's RWMutex plays for ParseDir's shared
// string interner.
func LowerUnitsParallel(
	ctx context.Context,
	units []Unit,
	interners *hir.Interners,
	maxDiagnostics int,
	jobs int,
) ([]Result, error) {
	if len(units) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))

	for i, u := range units {
		g.Go(func(i int, u Unit) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(maxDiagnostics)
				reporter := &diag.BagReporter{Bag: bag}

				var model *hir.Model
				var sm *hir.SourceMap
				var cst *source.Cst
				switch {
				case u.Primary != nil:
					model, sm, cst = LowerModel(u.Ref, u.Fs, u.Primary, u.File, interners, reporter)
				case u.Alternate != nil:
					model, sm, cst = LowerEprimeModel(u.Ref, u.Alternate, u.EFile, interners, reporter)
				default:
					diag.ReportError(reporter, diag.LowerUnreachable, source.Span{}, "lowering unit names neither surface").Emit()
				}

				results[i] = Result{Ref: u.Ref, Model: model, Map: sm, Cst: cst, Bag: bag}
				return nil
			}
		}(i, u))
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
