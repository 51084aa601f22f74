package diag

// Severity orders a diagnostic's importance. The ordering itself is load
// bearing: §4.9 splits a run's aggregated diagnostics into "errors" and
// "warnings" by exact Severity match (internal/frontend's appendFiltered),
// while Bag.HasErrors/HasWarnings instead ask "at least this severe" — both
// readings rely on SevInfo < SevWarning < SevError holding as plain integer
// comparison.
type Severity uint8

const (
	// SevInfo never halts a run; it exists for diagnostics a caller may
	// want to show but that carry no obligation to fix anything.
	SevInfo Severity = iota
	// SevWarning surfaces through all_warnings() but never all_errors().
	SevWarning
	// SevError is what HasErrors and all_errors() look for; per §7, one
	// SevError diagnostic (aside from the stdlib short-circuit case) is
	// enough to stop run_front_end() from producing an item list.
	SevError
)

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
