package source

// NodeHandle is an opaque reference into a CST, trivia included. It backs
// the first component of an Origin triple (see the hir package) and is
// otherwise meaningless outside the CST that produced it.
type NodeHandle uint32

// NoNodeHandle is the sentinel for a synthetic origin with no CST backing
// (e.g. an HIR item inserted by the lowerer rather than parsed from source).
const NoNodeHandle NodeHandle = 0

// CstKind distinguishes a node's surface syntax flavour without requiring
// the caller to walk it; cheap pre-filter queries such as items_with_case
// use it to skip items whose CST cannot possibly contain what they're
// looking for.
type CstKind uint8

const (
	CstKindUnknown CstKind = iota
	CstKindCaseExpr
	CstKindInclude
)

// CstNode is one node of a concrete syntax tree: trivia-preserving raw
// parser output, as opposed to the desugared HIR the lowerer produces.
// File IO and pretty-printing of CSTs are external collaborators; this type
// only carries what the cheap structural queries (items_with_case, syntax
// error reporting) need.
type CstNode struct {
	Handle   NodeHandle
	Kind     CstKind
	Span     Span
	Children []NodeHandle
}

// Cst is the parsed-but-undesugared tree for one file, keyed by FileID.
// Arena-indexed like everything else reachable from HIR: Handle 0 is the
// reserved NoNodeHandle sentinel.
type Cst struct {
	File  FileID
	Nodes []CstNode
}

// NewCst creates an empty Cst for file with the sentinel node reserved.
func NewCst(file FileID) *Cst {
	return &Cst{
		File:  file,
		Nodes: []CstNode{{}},
	}
}

// Add appends a node and returns its handle.
func (c *Cst) Add(kind CstKind, span Span, children ...NodeHandle) NodeHandle {
	h := NodeHandle(len(c.Nodes))
	c.Nodes = append(c.Nodes, CstNode{Handle: h, Kind: kind, Span: span, Children: children})
	return h
}

// Get returns the node for handle, or the zero node if invalid.
func (c *Cst) Get(h NodeHandle) CstNode {
	if int(h) <= 0 || int(h) >= len(c.Nodes) {
		return CstNode{}
	}
	return c.Nodes[h]
}

// HasCaseExpr is the cheap structural query backing items_with_case: it
// reports whether any node in the tree is a case expression, without
// requiring a full HIR lowering pass.
func (c *Cst) HasCaseExpr() bool {
	for _, n := range c.Nodes {
		if n.Kind == CstKindCaseExpr {
			return true
		}
	}
	return false
}
