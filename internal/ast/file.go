package ast

import (
	"surge/internal/source"
)

// File is one parsed source file in the primary surface grammar: an
// ordered list of top-level items plus the span covering all of them.
type File struct {
	Span  source.Span
	Items []ItemID
}

// Files manages allocation of File nodes.
type Files struct {
	Arena *Arena[File]
}

// NewFiles creates a new Files arena with the given capacity hint.
func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

// New creates a new file in the arena.
func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Span: sp}))
}

// Get returns the file with the given ID.
func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
