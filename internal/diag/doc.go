// Package diag defines the diagnostic model shared by every front-end phase:
// include resolution, lexing/parsing of both surface syntaxes, lowering,
// scope collection, type checking, and exhaustiveness checking.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     by any phase, independent of how those findings end up formatted.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete aggregation or ordering logic.
//
// # Scope
//
// Package diag performs no formatting, IO, or interactive behaviour;
// pretty-printing of source spans and any language-server surface are
// external collaborators. This package only models diagnostics as data and
// guarantees the ordering contract that all_errors()/all_warnings() rely on.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string form.
//   - Message – human oriented text.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter to decouple emission from storage. A phase
// constructs a ReportBuilder via NewReportBuilder (or the helper functions
// ReportError/ReportWarning/ReportInfo), chains WithNote, and calls Emit.
// diag.BagReporter aggregates diagnostics into a Bag, which supports
// deterministic sorting, deduplication, filtering, and transformation; the
// frontend package assembles all_errors()/all_warnings() by concatenating
// every phase's Bag in a fixed category order, without calling Sort or
// Dedup.
package diag
