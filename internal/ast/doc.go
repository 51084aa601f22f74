// Package ast holds the primary surface grammar's raw parse tree: the
// arena-backed Expr/Pattern/TypeExpr/Item nodes the parser produces
// directly from tokens, before any desugaring. Infix/prefix/postfix
// operators, generator-calls, and string interpolation are preserved as
// parsed here; internal/lower rewrites them into HIR calls.
package ast
