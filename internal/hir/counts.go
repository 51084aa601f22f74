package hir

// EntityCounts is the read-only instrumentation aggregate entity_counts()
// exposes: one counter per item kind, plus totals across every item's
// expression/type/pattern arenas. Useful for tests and benchmarks, not for
// control flow.
type EntityCounts struct {
	Annotations     int
	Assignments     int
	EnumAssignments int
	Constraints     int
	Declarations    int
	Enumerations    int
	Functions       int
	Outputs         int
	Solves          int
	TypeAliases     int

	Expressions int
	Types       int
	Patterns    int
}

// Add folds other's counts into c (used to sum per-model counts into a
// process-wide total).
func (c *EntityCounts) Add(other EntityCounts) {
	c.Annotations += other.Annotations
	c.Assignments += other.Assignments
	c.EnumAssignments += other.EnumAssignments
	c.Constraints += other.Constraints
	c.Declarations += other.Declarations
	c.Enumerations += other.Enumerations
	c.Functions += other.Functions
	c.Outputs += other.Outputs
	c.Solves += other.Solves
	c.TypeAliases += other.TypeAliases
	c.Expressions += other.Expressions
	c.Types += other.Types
	c.Patterns += other.Patterns
}

// CountEntities computes the EntityCounts for a single model.
func CountEntities(m *Model) EntityCounts {
	var c EntityCounts
	for _, local := range m.Locals() {
		it := m.Item(local)
		if it == nil {
			continue
		}
		switch it.Kind {
		case ItemAnnotation:
			c.Annotations++
		case ItemAssignment:
			c.Assignments++
		case ItemEnumAssignment:
			c.EnumAssignments++
		case ItemConstraint:
			c.Constraints++
		case ItemDeclaration:
			c.Declarations++
		case ItemEnumeration:
			c.Enumerations++
		case ItemFunction:
			c.Functions++
		case ItemOutput:
			c.Outputs++
		case ItemSolve:
			c.Solves++
		case ItemTypeAlias:
			c.TypeAliases++
		}

		data := m.ItemData(local)
		if data == nil {
			continue
		}
		if n := data.Exprs.Len(); n > 0 {
			c.Expressions += int(n) - 1
		}
		if n := data.Types.Len(); n > 0 {
			c.Types += int(n) - 1
		}
		if n := data.Patterns.Len(); n > 0 {
			c.Patterns += int(n) - 1
		}
	}
	return c
}
