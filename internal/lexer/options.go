package lexer

import (
	"surge/internal/diag"
	"surge/internal/source"
)

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

// report is the scanners' shorthand for an unexpected-token error — the
// common case of a single bad character or malformed literal.
func (lx *Lexer) report(sp source.Span, msg string) {
	lx.errLex(diag.SynUnexpectedToken, sp, msg)
}
