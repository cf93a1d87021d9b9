package ast

// VisitFunc is called post-order at every node in a tree: children are
// visited first, then f is called with the node so a rewrite pass can
// replace it in place by returning a different Node. Returning the same
// node unchanged is the identity rewrite.
type VisitFunc func(Node) Node

// Visit walks root post-order, applying f at every node (including root
// itself) and rewriting children with whatever f returns for them. Suite
// chains are walked with a loop rather than recursed into entry-by-entry,
// so a long flat sequence of top-level statements cannot grow the call
// stack; only each entry's own expression subtree recurses normally.
func Visit(root Node, f VisitFunc) Node {
	if root == nil {
		return nil
	}

	switch n := root.(type) {
	case *NameNode:
		// leaf
	case *LiteralNode:
		// leaf
	case *BinOpNode:
		n.LHS = Visit(n.LHS, f)
		n.RHS = Visit(n.RHS, f)
	case *UnOpNode:
		n.Operand = Visit(n.Operand, f)
	case *TrailerNode:
		n.Scope = Visit(n.Scope, f)
		switch n.TKind {
		case TrailerArray:
			n.Index = Visit(n.Index, f)
		case TrailerSliceLR:
			n.SliceLeft = Visit(n.SliceLeft, f)
			n.SliceRight = Visit(n.SliceRight, f)
		case TrailerSliceL:
			n.SliceLeft = Visit(n.SliceLeft, f)
		case TrailerSliceR:
			n.SliceRight = Visit(n.SliceRight, f)
		}
	case *AssignNode:
		if n.Scope != nil {
			n.Scope = Visit(n.Scope, f)
		}
		if n.Index != nil {
			n.Index = Visit(n.Index, f)
		}
		n.RHS = Visit(n.RHS, f)
	case *SuiteNode:
		for entry := n; entry != nil; entry = entry.Next {
			entry.Expr = Visit(entry.Expr, f)
		}
	case *XExprNode:
		n.HeadExpr = Visit(n.HeadExpr, f)
		visitArguments(&n.Args, f)
		if n.VertSuite != nil {
			visited := Visit(n.VertSuite, f)
			n.VertSuite, _ = visited.(*SuiteNode)
		}
	case *InlineAppNode:
		n.Scope = Visit(n.Scope, f)
		visitArguments(&n.Args, f)
	case *ArrowNode:
		n.Param = Visit(n.Param, f)
	}

	return f(root)
}

func visitArguments(args *Arguments, f VisitFunc) {
	for i, p := range args.Positional {
		args.Positional[i] = Visit(p, f)
	}
	for i, kw := range args.Keyword {
		args.Keyword[i].Value = Visit(kw.Value, f)
	}
	if args.HasStar {
		args.Star = Visit(args.Star, f)
	}
	if args.HasDStar {
		args.DStar = Visit(args.DStar, f)
	}
	if args.HasAmp {
		args.Amp = Visit(args.Amp, f)
	}
	if args.HasDAmp {
		args.DAmp = Visit(args.DAmp, f)
	}
}
