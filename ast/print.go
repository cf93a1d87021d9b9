package ast

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// spaceIndentNewlines pads every embedded newline in str with amount
// spaces, so a multi-line child rendering nests correctly under its
// parent's bracketed dump.
func spaceIndentNewlines(str string, amount int) string {
	if strings.Contains(str, "\n") {
		pad := strings.Repeat(" ", amount)
		str = strings.ReplaceAll(str, "\n", "\n"+pad)
	}
	return str
}

const printIndent = "    "

func printChild(label string, n Node) string {
	if n == nil {
		return label + ": <nil>"
	}
	return label + ":\n" + printIndent + spaceIndentNewlines(n.String(), len(printIndent))
}

func (n *NameNode) String() string {
	return fmt.Sprintf("[NAME %q]", n.Text)
}

func (n *LiteralNode) String() string {
	if n.LitKind == LiteralNull || n.LitKind == LiteralTrue || n.LitKind == LiteralFalse {
		return fmt.Sprintf("[LITERAL %s]", n.LitKind)
	}
	wrapped := rosed.Edit(n.Text).Wrap(60).String()
	return fmt.Sprintf("[LITERAL %s %s]", n.LitKind, wrapped)
}

func (n *BinOpNode) String() string {
	s := fmt.Sprintf("[BINOP %s\n", n.Op)
	s += printIndent + spaceIndentNewlines(printChild("lhs", n.LHS), len(printIndent)) + "\n"
	s += printIndent + spaceIndentNewlines(printChild("rhs", n.RHS), len(printIndent))
	s += "\n]"
	return s
}

func (n *UnOpNode) String() string {
	s := fmt.Sprintf("[UNOP %s\n", n.Op)
	s += printIndent + spaceIndentNewlines(printChild("operand", n.Operand), len(printIndent))
	s += "\n]"
	return s
}

func (n *TrailerNode) String() string {
	s := fmt.Sprintf("[TRAILER %s\n", n.TKind)
	s += printIndent + spaceIndentNewlines(printChild("scope", n.Scope), len(printIndent)) + "\n"
	switch n.TKind {
	case TrailerAttr:
		s += printIndent + fmt.Sprintf("attr: %q", n.Attr)
	case TrailerArray:
		s += printIndent + spaceIndentNewlines(printChild("index", n.Index), len(printIndent))
	case TrailerSliceLR:
		s += printIndent + spaceIndentNewlines(printChild("left", n.SliceLeft), len(printIndent)) + "\n"
		s += printIndent + spaceIndentNewlines(printChild("right", n.SliceRight), len(printIndent))
	case TrailerSliceL:
		s += printIndent + spaceIndentNewlines(printChild("left", n.SliceLeft), len(printIndent))
	case TrailerSliceR:
		s += printIndent + spaceIndentNewlines(printChild("right", n.SliceRight), len(printIndent))
	case TrailerSliceNone:
		s += printIndent + "(no bounds)"
	}
	s += "\n]"
	return s
}

func (n *AssignNode) String() string {
	s := fmt.Sprintf("[ASSIGN %s\n", n.Op)
	switch n.LvalKind {
	case LvalueName:
		s += printIndent + fmt.Sprintf("lvalue: name %q", n.Name)
	case LvalueAttr:
		s += printIndent + spaceIndentNewlines(printChild("scope ->"+n.Attr, n.Scope), len(printIndent))
	case LvalueArray:
		s += printIndent + spaceIndentNewlines(printChild("scope", n.Scope), len(printIndent)) + "\n"
		s += printIndent + spaceIndentNewlines(printChild("index", n.Index), len(printIndent))
	}
	s += "\n" + printIndent + spaceIndentNewlines(printChild("rhs", n.RHS), len(printIndent))
	s += "\n]"
	return s
}

func (n *SuiteNode) String() string {
	if n == nil {
		return "[SUITE (empty)]"
	}
	s := "[SUITE\n"
	i := 0
	for entry := n; entry != nil; entry = entry.Next {
		label := fmt.Sprintf("%d", i)
		if entry.IsArrow {
			label = fmt.Sprintf("%d: %q ->", i, entry.ArrowLabel)
		}
		s += printIndent + spaceIndentNewlines(printChild(label, entry.Expr), len(printIndent)) + "\n"
		i++
	}
	s += "]"
	return s
}

func (a Arguments) String() string {
	var parts []string
	for _, p := range a.Positional {
		parts = append(parts, printChild("pos", p))
	}
	for _, kw := range a.Keyword {
		parts = append(parts, printChild("kwd:"+kw.Name, kw.Value))
	}
	if a.HasStar {
		parts = append(parts, printChild("*", a.Star))
	}
	if a.HasDStar {
		parts = append(parts, printChild("**", a.DStar))
	}
	if a.HasAmp {
		parts = append(parts, printChild("&", a.Amp))
	}
	if a.HasDAmp {
		parts = append(parts, printChild("&&", a.DAmp))
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, "\n")
}

func (n *XExprNode) String() string {
	s := "[XEXPR"
	if n.HasHeadLabel {
		s += fmt.Sprintf(" label=%q", n.HeadLabel)
	}
	s += "\n"
	s += printIndent + spaceIndentNewlines(printChild("head", n.HeadExpr), len(printIndent)) + "\n"
	s += printIndent + "args:\n" + printIndent + printIndent + spaceIndentNewlines(n.Args.String(), 2*len(printIndent)) + "\n"
	if n.VertSuite != nil {
		s += printIndent + spaceIndentNewlines(printChild("vert_suite", n.VertSuite), len(printIndent)) + "\n"
	}
	s += "]"
	return s
}

func (n *InlineAppNode) String() string {
	return fmt.Sprintf("[INLINE_APP(intermediate)\n%s\n]", spaceIndentNewlines(printChild("scope", n.Scope), len(printIndent)))
}

func (n *ArrowNode) String() string {
	return fmt.Sprintf("[ARROW(intermediate) %q]", n.Name)
}
