package source

import "path/filepath"

// Canonicalize resolves symlinks and normalizes the path to an absolute,
// slash-separated form, so that two different textual spellings of the same
// path are recognised as the same file. (The include resolver keys its
// visited-set with its own canonicalize helper, not with this function.)
// The second return value is false
// when the path could not be resolved (e.g. it does not exist yet); callers
// should fall back to the original, non-canonical path in that case.
func Canonicalize(path string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path, false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return path, false
	}
	return normalizePath(abs), true
}
