// Package ast defines the LISN abstract syntax tree: a tagged sum of node
// variants (Name, Literal, BinOp, UnOp, Trailer, Assign, Suite, XExpr) plus
// two parser-only intermediates (InlineApp, Arrow) that must not survive
// post-parse normalization.
//
// Every node embeds a common header carrying its source Location. Downcast
// from the Node interface to a concrete variant uses a plain type
// assertion wrapped in a panicking As* accessor, the same shape the
// grammar-builder code in the teacher's syntax package uses rather than a
// type switch at every call site.
package ast

import "fmt"

// Location is a 1-based inclusive-start / 1-past-the-end source span.
// ErasedLocation (all fields -1) marks a node whose span was intentionally
// discarded (non-head Suite entries).
type Location struct {
	SLine, SCol int
	ELine, ECol int
}

// ErasedLocation is the sentinel recorded for non-head Suite entries.
func ErasedLocation() Location {
	return Location{-1, -1, -1, -1}
}

// Erased reports whether l is the erased sentinel.
func (l Location) Erased() bool {
	return l.SLine == -1 && l.SCol == -1 && l.ELine == -1 && l.ECol == -1
}

// Span returns the union of a and b: the leftmost start and the rightmost
// end. Used by builders to combine a parent's location from its children's.
func Span(a, b Location) Location {
	out := a
	if b.SLine < out.SLine || (b.SLine == out.SLine && b.SCol < out.SCol) {
		out.SLine, out.SCol = b.SLine, b.SCol
	}
	if b.ELine > out.ELine || (b.ELine == out.ELine && b.ECol > out.ECol) {
		out.ELine, out.ECol = b.ELine, b.ECol
	}
	return out
}

// Kind tags which concrete variant a Node is.
type Kind int

const (
	KindName Kind = iota
	KindLiteral
	KindBinOp
	KindUnOp
	KindTrailer
	KindAssign
	KindSuite
	KindXExpr
	KindInlineApp
	KindArrow
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "Name"
	case KindLiteral:
		return "Literal"
	case KindBinOp:
		return "BinOp"
	case KindUnOp:
		return "UnOp"
	case KindTrailer:
		return "Trailer"
	case KindAssign:
		return "Assign"
	case KindSuite:
		return "Suite"
	case KindXExpr:
		return "XExpr"
	case KindInlineApp:
		return "InlineApp"
	case KindArrow:
		return "Arrow"
	default:
		return "UNKNOWN"
	}
}

// Node is implemented by every AST variant, including the two parser-only
// intermediates.
type Node interface {
	Loc() Location
	SetLoc(Location)
	Kind() Kind

	fmt.Stringer
}

type header struct {
	loc Location
}

func (h *header) Loc() Location      { return h.loc }
func (h *header) SetLoc(l Location)  { h.loc = l }

// As panics unless n holds a *T, same downcast-with-no-ceremony idiom the
// teacher's syntax nodes use for their As*Node() accessors.
func As[T Node](n Node) T {
	t, ok := n.(T)
	if !ok {
		panic(fmt.Sprintf("ast: node is %s, not %T", n.Kind(), *new(T)))
	}
	return t
}
