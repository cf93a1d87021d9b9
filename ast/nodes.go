package ast

// NameNode is a bare identifier reference.
type NameNode struct {
	header
	Text string
}

func (n *NameNode) Kind() Kind { return KindName }

// NewName builds a Name node.
func NewName(text string, loc Location) *NameNode {
	return &NameNode{header{loc}, text}
}

// LiteralKind tags which literal a LiteralNode holds.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInteger
	LiteralFloat
	LiteralNull
	LiteralTrue
	LiteralFalse
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralString:
		return "string"
	case LiteralInteger:
		return "integer"
	case LiteralFloat:
		return "float"
	case LiteralNull:
		return "null"
	case LiteralTrue:
		return "true"
	case LiteralFalse:
		return "false"
	default:
		return "unknown"
	}
}

// LiteralNode is a string, integer, float, null, true, or false literal.
// Text is meaningful only for string/integer/float; null/true/false carry
// no text.
type LiteralNode struct {
	header
	LitKind LiteralKind
	Text    string
}

func (n *LiteralNode) Kind() Kind { return KindLiteral }

func NewStringLiteral(text string, loc Location) *LiteralNode {
	return &LiteralNode{header{loc}, LiteralString, text}
}

func NewIntegerLiteral(text string, loc Location) *LiteralNode {
	return &LiteralNode{header{loc}, LiteralInteger, text}
}

func NewFloatLiteral(text string, loc Location) *LiteralNode {
	return &LiteralNode{header{loc}, LiteralFloat, text}
}

func NewNullLiteral(loc Location) *LiteralNode {
	return &LiteralNode{header{loc}, LiteralNull, ""}
}

func NewTrueLiteral(loc Location) *LiteralNode {
	return &LiteralNode{header{loc}, LiteralTrue, ""}
}

func NewFalseLiteral(loc Location) *LiteralNode {
	return &LiteralNode{header{loc}, LiteralFalse, ""}
}

// NewSlicedStringLiteral builds a string literal node whose text is the
// substring of text starting at start with the given length. Out-of-range
// start/length clamps to the empty string rather than panicking: the
// reference implementation is silent on this case, and a caller that
// re-slices a literal (e.g. re-rooting a head-label string) must never be
// handed a crash for a malformed slice.
func NewSlicedStringLiteral(text string, start, length int, loc Location) *LiteralNode {
	if start < 0 || start > len(text) || length < 0 || start+length > len(text) {
		return NewStringLiteral("", loc)
	}
	return NewStringLiteral(text[start:start+length], loc)
}

// BinOpNode is a binary operator expression.
type BinOpNode struct {
	header
	Op       string
	LHS, RHS Node
}

func (n *BinOpNode) Kind() Kind { return KindBinOp }

func NewBinOp(op string, lhs, rhs Node, loc Location) *BinOpNode {
	return &BinOpNode{header{loc}, op, lhs, rhs}
}

// UnOpNode is a unary (prefix) operator expression.
type UnOpNode struct {
	header
	Op      string
	Operand Node
}

func (n *UnOpNode) Kind() Kind { return KindUnOp }

func NewUnOp(op string, operand Node, loc Location) *UnOpNode {
	return &UnOpNode{header{loc}, op, operand}
}

// AssignOp distinguishes "=" from ":=" assignment.
type AssignOp int

const (
	AssignNormal AssignOp = iota
	AssignDef
)

func (op AssignOp) String() string {
	if op == AssignDef {
		return ":="
	}
	return "="
}

// LvalueKind tags which of the three legal lvalue shapes an AssignNode
// holds.
type LvalueKind int

const (
	LvalueName LvalueKind = iota
	LvalueAttr
	LvalueArray
)

// AssignNode is `lvalue = rhs` or `lvalue := rhs`. Exactly one of the
// lvalue fields is meaningful, selected by LvalKind: Name for LvalueName,
// Scope+Attr for LvalueAttr, Scope+Index for LvalueArray.
type AssignNode struct {
	header
	Op       AssignOp
	LvalKind LvalueKind

	Name  string // LvalueName
	Scope Node   // LvalueAttr, LvalueArray
	Attr  string // LvalueAttr
	Index Node   // LvalueArray

	RHS Node
}

func (n *AssignNode) Kind() Kind { return KindAssign }

func NewAssignName(op AssignOp, name string, rhs Node, loc Location) *AssignNode {
	return &AssignNode{header: header{loc}, Op: op, LvalKind: LvalueName, Name: name, RHS: rhs}
}

func NewAssignAttr(op AssignOp, scope Node, attr string, rhs Node, loc Location) *AssignNode {
	return &AssignNode{header: header{loc}, Op: op, LvalKind: LvalueAttr, Scope: scope, Attr: attr, RHS: rhs}
}

func NewAssignArray(op AssignOp, scope Node, index Node, rhs Node, loc Location) *AssignNode {
	return &AssignNode{header: header{loc}, Op: op, LvalKind: LvalueArray, Scope: scope, Index: index, RHS: rhs}
}

// SuiteNode is one cell of a singly linked list of suite entries. A nil
// *SuiteNode represents an empty suite. Non-head entries have Loc erased
// to ErasedLocation(); the parser does this as it appends each entry
// after the first.
type SuiteNode struct {
	header
	IsArrow    bool
	ArrowLabel string
	Expr       Node
	Next       *SuiteNode
}

func (n *SuiteNode) Kind() Kind { return KindSuite }

// NewSuiteExpr builds a plain-expression suite entry with no successor.
func NewSuiteExpr(expr Node, loc Location) *SuiteNode {
	return &SuiteNode{header: header{loc}, Expr: expr}
}

// NewSuiteArrow builds a `label -> expr` suite entry with no successor.
func NewSuiteArrow(label string, expr Node, loc Location) *SuiteNode {
	return &SuiteNode{header: header{loc}, IsArrow: true, ArrowLabel: label, Expr: expr}
}

// ConsNormal prepends a plain-expression entry onto tail (tail may be
// nil), so a suite can be built right-to-left by taking the new head and
// the already-built tail. The parser itself appends entries left-to-right
// and does not use it.
func ConsNormal(expr Node, loc Location, tail *SuiteNode) *SuiteNode {
	s := NewSuiteExpr(expr, loc)
	s.Next = tail
	return s
}

// ConsArrow prepends a `label -> expr` entry onto tail.
func ConsArrow(label string, expr Node, loc Location, tail *SuiteNode) *SuiteNode {
	s := NewSuiteArrow(label, expr, loc)
	s.Next = tail
	return s
}

// Len counts the entries in a suite chain, nil-safe.
func (n *SuiteNode) Len() int {
	count := 0
	for s := n; s != nil; s = s.Next {
		count++
	}
	return count
}

// XExprNode is the canonical "callable head + arguments + optional body"
// extended expression.
type XExprNode struct {
	header
	HasHeadLabel bool
	HeadLabel    string
	HeadExpr     Node
	Args         Arguments
	VertSuite    *SuiteNode
}

func (n *XExprNode) Kind() Kind { return KindXExpr }

// NewXExpr builds a single-label xexpr (no leading `label head(...)` form).
func NewXExpr(head Node, args Arguments, vertSuite *SuiteNode, loc Location) *XExprNode {
	return &XExprNode{header: header{loc}, HeadExpr: head, Args: args, VertSuite: vertSuite}
}

// NewLabeledXExpr builds the double-head form `label head(args)[: body]`.
func NewLabeledXExpr(label string, head Node, args Arguments, vertSuite *SuiteNode, loc Location) *XExprNode {
	return &XExprNode{header: header{loc}, HasHeadLabel: true, HeadLabel: label, HeadExpr: head, Args: args, VertSuite: vertSuite}
}

// InlineAppNode is the parser-scratch "head(args)" shape that later gets
// promoted to XExprNode or has a trailer chained onto it. It must never
// appear in a tree handed back to a caller.
type InlineAppNode struct {
	header
	Scope Node
	Args  Arguments
}

func (n *InlineAppNode) Kind() Kind { return KindInlineApp }

func NewInlineApp(scope Node, args Arguments, loc Location) *InlineAppNode {
	return &InlineAppNode{header{loc}, scope, args}
}

// ArrowNode is the parser-scratch "name -> param" shape consumed while
// building a SuiteNode arrow entry or a keyword argument. It must never
// appear in a tree handed back to a caller.
type ArrowNode struct {
	header
	Name  string
	Param Node
}

func (n *ArrowNode) Kind() Kind { return KindArrow }

func NewArrow(name string, param Node, loc Location) *ArrowNode {
	return &ArrowNode{header{loc}, name, param}
}
