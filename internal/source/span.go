package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) within one file, identified
// by FileID. Every CST/AST/HIR node in this module anchors to one of
// these; a Diagnostic's Primary field and every Note's Span are Spans too,
// which is what lets diag.Bag.Sort order diagnostics by file and offset.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// Len returns the span's length in bytes.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other. Used
// throughout the parsers and lowerers to build a composite node's span
// from its first and last token/child (e.g. "start.Span.Cover(semi.Span)"
// for a semicolon-terminated item). If the two spans belong to different
// files, s is returned unchanged — covering across files is meaningless.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ZeroideToEnd returns a zero-length span pinned at s's end offset — used
// by the parsers' EOF/"no more tokens" fallback span (p.lastSpan) so an
// error reported past the last real token still anchors somewhere inside
// the file rather than pointing one byte beyond it.
func (s Span) ZeroideToEnd() Span {
	return Span{
		File:  s.File,
		Start: s.End,
		End:   s.End,
	}
}
