package diag

import "surge/internal/source"

// Note provides auxiliary context for a diagnostic message.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic captures a single issue along with optional notes.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
