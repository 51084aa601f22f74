// Package check implements the type checker: a two-phase signature/body
// discipline per §4.7, producing a TypeID per checked expression and
// poisoning individual nodes with an error marker on mismatch rather than
// aborting the item.
//
// The type representation (TypeID + Kind + an Intern/Lookup/MustLookup
// interner) is grounded on internal/types/interner.go's shape, but is its
// own domain-specific system rather than a reuse of that package: the
// teacher's internal/types models pointers, references, and ownership for
// its own systems language, none of which has a MiniZinc-domain
// counterpart. What carries over is the *pattern* — a dense TypeID arena,
// a Kind tag, structural dedup for the types cheap to compare that way —
// applied to par/var instantiation, optionality, sets, arrays, tuples,
// records, and operation (function) signatures instead.
package check

import "surge/internal/hir"

// TypeID indexes into an Interner's type arena.
type TypeID uint32

// NoTypeID is the reserved sentinel (also returned for an invalid Kind).
const NoTypeID TypeID = 0

// Kind tags which shape a Type describes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindAny               // TypeAny / an uninstantiated TypeInstVar; unifies with anything once
	KindError             // the poisoned-node marker left after a type error; also unifies with anything
	KindAbsent            // the literal <>, assignable to any Optional target
	KindBool
	KindInt
	KindFloat
	KindString
	KindEnum // Elem/Dim/Elems/Fields unused; EnumModel+EnumItem identify the declaring item
	KindSet
	KindArray
	KindTuple
	KindRecord
	KindOp // a function/predicate/annotation signature used as a value
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindError:
		return "error"
	case KindAbsent:
		return "absent"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindSet:
		return "set"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	case KindOp:
		return "op"
	default:
		return "invalid"
	}
}

// RecordFieldType is one `name: Type` entry in a record type, mirroring
// hir.RecordFieldType's shape at the checked-type level.
type RecordFieldType struct {
	Name string
	Type TypeID
}

// Type is a compact descriptor for one checked MiniZinc-domain type.
type Type struct {
	Kind     Kind
	Inst     hir.Instantiation
	Optional bool

	// KindEnum: which item's enumeration declares this type.
	EnumModel hir.ModelRef
	EnumItem  hir.ItemLocal

	// KindSet, KindArray: element type.
	Elem TypeID
	// KindArray: dimension type (a single bound type, or a tuple of them
	// for multi-dimensional arrays, matching hir.TypeExpr.Dim).
	Dim TypeID

	// KindTuple
	Elems []TypeID
	// KindRecord
	Fields []RecordFieldType

	// KindOp
	Params []TypeID
	Return TypeID
}

// primKey structurally dedups the types cheap to compare this way:
// primitives and enums. Tuple/Record/Array/Set/Op are allocated fresh each
// time and compared with Equal instead, since their slice-valued fields
// aren't usable as a map key.
type primKey struct {
	Kind      Kind
	Inst      hir.Instantiation
	Optional  bool
	EnumModel hir.ModelRef
	EnumItem  hir.ItemLocal
}

// Interner hands out TypeIDs for Type descriptors.
type Interner struct {
	types []Type
	index map[primKey]TypeID
}

// NewInterner returns an empty Interner with TypeID 0 reserved as the
// invalid sentinel.
func NewInterner() *Interner {
	return &Interner{
		types: []Type{{}},
		index: make(map[primKey]TypeID, 32),
	}
}

func (in *Interner) alloc(t Type) TypeID {
	id := TypeID(len(in.types))
	in.types = append(in.types, t)
	return id
}

func (in *Interner) intern(t Type) TypeID {
	switch t.Kind {
	case KindAny, KindError, KindAbsent, KindBool, KindInt, KindFloat, KindString, KindEnum:
		key := primKey{Kind: t.Kind, Inst: t.Inst, Optional: t.Optional, EnumModel: t.EnumModel, EnumItem: t.EnumItem}
		if id, ok := in.index[key]; ok {
			return id
		}
		id := in.alloc(t)
		in.index[key] = id
		return id
	default:
		return in.alloc(t)
	}
}

// Lookup returns the descriptor for id.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if int(id) <= 0 || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics if id was never issued by this Interner.
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic("check: invalid TypeID")
	}
	return t
}

// Any returns the polymorphic wildcard type.
func (in *Interner) Any() TypeID { return in.intern(Type{Kind: KindAny}) }

// TypeError returns the poisoned-node marker a type error leaves behind:
// distinct from Any in name (so a poisoned node is identifiable as such),
// but identical in behavior — it unifies with anything, so the error does
// not cascade into its own downstream mismatches.
func (in *Interner) TypeError() TypeID { return in.intern(Type{Kind: KindError}) }

// Absent returns the type of the `<>` literal.
func (in *Interner) Absent() TypeID { return in.intern(Type{Kind: KindAbsent}) }

// Bool interns a bool type with the given instantiation/optionality.
func (in *Interner) Bool(inst hir.Instantiation, optional bool) TypeID {
	return in.intern(Type{Kind: KindBool, Inst: inst, Optional: optional})
}

// Int interns an int type.
func (in *Interner) Int(inst hir.Instantiation, optional bool) TypeID {
	return in.intern(Type{Kind: KindInt, Inst: inst, Optional: optional})
}

// Float interns a float type.
func (in *Interner) Float(inst hir.Instantiation, optional bool) TypeID {
	return in.intern(Type{Kind: KindFloat, Inst: inst, Optional: optional})
}

// Str interns a string type.
func (in *Interner) Str(inst hir.Instantiation, optional bool) TypeID {
	return in.intern(Type{Kind: KindString, Inst: inst, Optional: optional})
}

// Enum interns the type of values of the enumeration declared at (model, item).
func (in *Interner) Enum(model hir.ModelRef, item hir.ItemLocal, inst hir.Instantiation, optional bool) TypeID {
	return in.intern(Type{Kind: KindEnum, EnumModel: model, EnumItem: item, Inst: inst, Optional: optional})
}

// SetOf interns a set-of-elem type.
func (in *Interner) SetOf(elem TypeID, inst hir.Instantiation, optional bool) TypeID {
	return in.intern(Type{Kind: KindSet, Elem: elem, Inst: inst, Optional: optional})
}

// ArrayOf interns an array-of-elem type with the given dimension type.
func (in *Interner) ArrayOf(dim, elem TypeID, inst hir.Instantiation, optional bool) TypeID {
	return in.intern(Type{Kind: KindArray, Dim: dim, Elem: elem, Inst: inst, Optional: optional})
}

// TupleOf interns a tuple type.
func (in *Interner) TupleOf(elems []TypeID) TypeID {
	return in.intern(Type{Kind: KindTuple, Elems: elems})
}

// RecordOf interns a record type.
func (in *Interner) RecordOf(fields []RecordFieldType) TypeID {
	return in.intern(Type{Kind: KindRecord, Fields: fields})
}

// OpOf interns an operation (function/predicate/annotation) signature type.
func (in *Interner) OpOf(params []TypeID, ret TypeID) TypeID {
	return in.intern(Type{Kind: KindOp, Params: params, Return: ret})
}

// isWildcard reports whether k matches anything in Equal/Assignable: the
// polymorphic placeholder and the poisoned-node error marker both do, so a
// prior type error never cascades into further spurious mismatches.
func isWildcard(k Kind) bool { return k == KindAny || k == KindError }

// combineInst widens to var if either operand is var — the same
// contagiousness a MiniZinc composite value has: a tuple/array/set with
// one var component is itself var.
func combineInst(a, b hir.Instantiation) hir.Instantiation {
	if a == hir.InstVar || b == hir.InstVar {
		return hir.InstVar
	}
	return hir.InstPar
}

// Equal reports whether a and b describe the same shape, ignoring
// instantiation and optionality — used to check two branches of an
// if-then-else or case produce "the same kind of thing".
func (in *Interner) Equal(a, b TypeID) bool {
	ta, aok := in.Lookup(a)
	tb, bok := in.Lookup(b)
	if !aok || !bok {
		return false
	}
	if isWildcard(ta.Kind) || isWildcard(tb.Kind) {
		return true
	}
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindEnum:
		return ta.EnumModel == tb.EnumModel && ta.EnumItem == tb.EnumItem
	case KindSet:
		return in.Equal(ta.Elem, tb.Elem)
	case KindArray:
		return in.Equal(ta.Elem, tb.Elem)
	case KindTuple:
		if len(ta.Elems) != len(tb.Elems) {
			return false
		}
		for i := range ta.Elems {
			if !in.Equal(ta.Elems[i], tb.Elems[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(ta.Fields) != len(tb.Fields) {
			return false
		}
		for i := range ta.Fields {
			if ta.Fields[i].Name != tb.Fields[i].Name || !in.Equal(ta.Fields[i].Type, tb.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Assignable reports whether a value of type value can be used where
// target is expected: par widens to var, non-optional widens to optional,
// absent is assignable to any optional target, and KindAny on either side
// is a wildcard match (an uninstantiated type-inst parameter).
func (in *Interner) Assignable(value, target TypeID) bool {
	tv, vok := in.Lookup(value)
	tt, tok := in.Lookup(target)
	if !vok || !tok {
		return false
	}
	if isWildcard(tv.Kind) || isWildcard(tt.Kind) {
		return true
	}
	if tv.Kind == KindAbsent {
		return tt.Optional
	}
	if !in.Equal(value, target) {
		return false
	}
	if tv.Inst == hir.InstVar && tt.Inst == hir.InstPar {
		return false
	}
	if tv.Optional && !tt.Optional {
		return false
	}
	return true
}
