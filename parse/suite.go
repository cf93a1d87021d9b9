package parse

import (
	"github.com/dekarrin/lisn/ast"
	"github.com/dekarrin/lisn/lex"
	"github.com/dekarrin/lisn/lisnerr"
)

// parseSuiteItemsUntil parses a sequence of NEWLINE-separated suite
// entries up to (not consuming) closeKind, returning nil for an empty
// suite. Built left-to-right: spec.md §9 permits growing a list forward
// instead of consing right-to-left and reversing afterward, since the
// two strategies produce an identical observable tree. The head entry
// keeps its real location; every later entry has its location erased,
// matching what a right-to-left-plus-reversal build would also produce.
func (p *Parser) parseSuiteItemsUntil(closeKind lex.Kind) (*ast.SuiteNode, *lisnerr.Error) {
	var head, tail *ast.SuiteNode

	for p.tok.Kind != closeKind {
		entry, err := p.parseSuiteEntry()
		if err != nil {
			return head, err
		}

		if head == nil {
			head = entry
		} else {
			entry.SetLoc(ast.ErasedLocation())
			tail.Next = entry
		}
		tail = entry

		if p.tok.Kind == closeKind {
			break
		}
		if p.tok.Kind != lex.NEWLINE {
			return head, p.syntaxErrorf("expected newline between suite entries, got %s", p.tok.Kind)
		}
		if err := p.advance(); err != nil {
			return head, err
		}
	}

	return head, nil
}

// parseSuiteEntry parses one suite entry: an arrow entry (`name -> expr`
// or `"str" -> expr`), a double-head xexpr (`label head(args)[:body]`),
// an assignment, or a plain expression optionally followed by a vertical
// suite.
func (p *Parser) parseSuiteEntry() (*ast.SuiteNode, *lisnerr.Error) {
	if p.tok.Kind == lex.NAME || p.tok.Kind == lex.STRING {
		seedTok := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.tok.Kind == lex.ARROW {
			if err := p.advance(); err != nil {
				return nil, err
			}
			val, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}
			return ast.NewSuiteArrow(seedTok.Text, val, ast.Span(locOf(seedTok), val.Loc())), nil
		}

		// Two adjacent NAME tokens with no operator or trailer punctuation
		// between them can only be the double-head form `label head(...)`:
		// an ordinary call's `(`/`[`/`.` attaches to seedTok itself instead
		// of landing here, and a seed of kind STRING never introduces a
		// label (only NAME -> expr / STRING -> expr are legal arrow seeds).
		if seedTok.Kind == lex.NAME && p.tok.Kind == lex.NAME {
			scope, err := p.dexprLookahead(seedTok.Text, locOf(seedTok))
			if err != nil {
				return nil, err
			}
			return p.finishSuiteEntry(scope)
		}

		var seed ast.Node
		if seedTok.Kind == lex.NAME {
			seed = nameAsPrimary(seedTok)
		} else {
			seed = ast.NewStringLiteral(seedTok.Text, locOf(seedTok))
		}
		prim, err := p.continuePrimaryChain(seed)
		if err != nil {
			return nil, err
		}
		expr, err := p.continueBinOp(prim, 1)
		if err != nil {
			return nil, err
		}
		return p.finishSuiteEntry(expr)
	}

	expr, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	return p.finishSuiteEntry(expr)
}

// finishSuiteEntry decides what a just-parsed expression turns into at
// statement level: an assignment if `=`/`:=` follows, an xexpr if one or
// more vertical-suite introducers follow, or the bare expression
// otherwise. A double introducer (`--` followed by `:`/`>`) is legal: the
// `--` block replaces the accumulated Arguments and the following
// introducer then attaches the body, so the loop keeps re-dispatching
// through vertLookahead until no introducer remains.
func (p *Parser) finishSuiteEntry(expr ast.Node) (*ast.SuiteNode, *lisnerr.Error) {
	if p.tok.Kind == lex.ASSIGN || p.tok.Kind == lex.DEFASSIGN {
		assign, err := p.makeAssign(expr)
		if err != nil {
			return nil, err
		}
		return ast.NewSuiteExpr(assign, assign.Loc()), nil
	}

	result := expr
	for isVertIntroducer(p.tok.Kind) {
		next, err := p.vertLookahead(result)
		if err != nil {
			return nil, err
		}
		result = next
	}
	return ast.NewSuiteExpr(result, result.Loc()), nil
}

func isVertIntroducer(k lex.Kind) bool {
	switch k {
	case lex.COLUMN, lex.COLUMN_NEWLINE, lex.GT, lex.GT_NEWLINE, lex.DMINUS_NEWLINE:
		return true
	default:
		return false
	}
}

// dexprLookahead parses the "head" half of a double-head xexpr
// (`label head(args)`) once label has already been consumed, and folds
// the result into a labeled XExpr. If head turns out to be a bare
// primary with no call trailer, the xexpr gets empty Arguments, the same
// as the single-head form would for a headless call-less xexpr.
func (p *Parser) dexprLookahead(label string, labelLoc ast.Location) (ast.Node, *lisnerr.Error) {
	head, err := p.parsePrimaryChain()
	if err != nil {
		return nil, err
	}
	if app, ok := head.(*ast.InlineAppNode); ok {
		return ast.NewLabeledXExpr(label, app.Scope, app.Args, nil, ast.Span(labelLoc, app.Loc())), nil
	}
	return ast.NewLabeledXExpr(label, head, ast.EmptyArguments(head.Loc()), nil, ast.Span(labelLoc, head.Loc())), nil
}

// vertLookahead dispatches on the current introducer token: `--` parses
// an indented argument block and folds it into scope's Arguments in
// place of whatever it already had; `:`/`>` (inline or indented) parse a
// suite body and attach it as scope's VertSuite. Four scope shapes are
// handled, mirroring the reference implementation's case split:
//   - scope is already a labeled XExpr (built by dexprLookahead): mutate
//     it directly, whichever half (Args or VertSuite) this introducer
//     supplies.
//   - scope is an unlabeled XExpr (this is the second introducer in a
//     `-- args : body` pair): same, mutate in place.
//   - scope is a bare InlineApp: promote to an unlabeled XExpr, carrying
//     over its own Args unless this introducer is replacing them.
//   - anything else (a bare name/literal/trailer-chain with no call
//     syntax at all): build a fresh unlabeled XExpr with empty Args.
func (p *Parser) vertLookahead(scope ast.Node) (ast.Node, *lisnerr.Error) {
	if p.tok.Kind == lex.DMINUS_NEWLINE {
		newArgs, err := p.parseDashArgsBlock()
		if err != nil {
			return nil, err
		}
		return applyVertArgs(scope, newArgs), nil
	}

	suite, err := p.parseVertSuite()
	if err != nil {
		return nil, err
	}
	return applyVertSuite(scope, suite), nil
}

func applyVertSuite(scope ast.Node, suite *ast.SuiteNode) ast.Node {
	switch n := scope.(type) {
	case *ast.XExprNode:
		n.VertSuite = suite
		return n
	case *ast.InlineAppNode:
		return ast.NewXExpr(n.Scope, n.Args, suite, n.Loc())
	default:
		return ast.NewXExpr(scope, ast.EmptyArguments(scope.Loc()), suite, scope.Loc())
	}
}

func applyVertArgs(scope ast.Node, newArgs ast.Arguments) ast.Node {
	switch n := scope.(type) {
	case *ast.XExprNode:
		n.Args = newArgs
		return n
	case *ast.InlineAppNode:
		return ast.NewXExpr(n.Scope, newArgs, nil, n.Loc())
	default:
		return ast.NewXExpr(scope, newArgs, nil, scope.Loc())
	}
}

// parseVertSuite parses the body that follows a `:`/`>` introducer:
// inline takes a single expression, the NEWLINE-flavored variants take
// an indented block. Never called for DMINUS_NEWLINE; that introducer
// is handled by parseDashArgsBlock instead.
func (p *Parser) parseVertSuite() (*ast.SuiteNode, *lisnerr.Error) {
	switch p.tok.Kind {
	case lex.COLUMN, lex.GT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		return ast.NewSuiteExpr(expr, expr.Loc()), nil
	case lex.COLUMN_NEWLINE, lex.GT_NEWLINE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseIndentedSuite()
	default:
		return nil, p.syntaxErrorUnexpected()
	}
}

// parseDashArgsBlock parses the indented argument-per-line block that
// follows a `--` introducer. Each line is collected left-to-right and
// then folded back to front via foldArgsRightToLeft, for the same reason
// parseArgList does: ast.PrependArg expects its accumulator to hold
// everything to the right of the argument being folded in.
func (p *Parser) parseDashArgsBlock() (ast.Arguments, *lisnerr.Error) {
	if err := p.advance(); err != nil { // consume DMINUS_NEWLINE
		return ast.Arguments{}, err
	}
	if err := p.expect(lex.INDENT); err != nil {
		return ast.Arguments{}, err
	}

	var items []ast.OneArg
	for p.tok.Kind != lex.DEDENT {
		one, err := p.parseArg()
		if err != nil {
			return ast.Arguments{}, err
		}
		items = append(items, one)

		if p.tok.Kind == lex.DEDENT {
			break
		}
		if p.tok.Kind != lex.NEWLINE {
			return ast.Arguments{}, p.syntaxErrorf("expected newline between arguments, got %s", p.tok.Kind)
		}
		if err := p.advance(); err != nil {
			return ast.Arguments{}, err
		}
	}

	if err := p.expect(lex.DEDENT); err != nil {
		return ast.Arguments{}, err
	}
	return foldArgsRightToLeft(items)
}

// parseIndentedSuite parses an INDENT ... DEDENT block as a suite.
func (p *Parser) parseIndentedSuite() (*ast.SuiteNode, *lisnerr.Error) {
	if err := p.expect(lex.INDENT); err != nil {
		return nil, err
	}
	suite, err := p.parseSuiteItemsUntil(lex.DEDENT)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lex.DEDENT); err != nil {
		return nil, err
	}
	return suite, nil
}

// makeAssign consumes the `=`/`:=` token and its right-hand side, then
// classifies lhs into one of the three legal lvalue shapes. A slice
// trailer or anything that isn't a Name/attr-Trailer/array-Trailer is
// ILLEGAL_LVALUE: slicing an lvalue has no assignment semantics.
func (p *Parser) makeAssign(lhs ast.Node) (ast.Node, *lisnerr.Error) {
	opTok := p.tok
	op := ast.AssignNormal
	if opTok.Kind == lex.DEFASSIGN {
		op = ast.AssignDef
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	loc := ast.Span(lhs.Loc(), rhs.Loc())

	switch n := lhs.(type) {
	case *ast.NameNode:
		return ast.NewAssignName(op, n.Text, rhs, loc), nil
	case *ast.TrailerNode:
		switch n.TKind {
		case ast.TrailerAttr:
			return ast.NewAssignAttr(op, n.Scope, n.Attr, rhs, loc), nil
		case ast.TrailerArray:
			return ast.NewAssignArray(op, n.Scope, n.Index, rhs, loc), nil
		default:
			return nil, illegalLvalue(lhs)
		}
	default:
		return nil, illegalLvalue(lhs)
	}
}

func illegalLvalue(lhs ast.Node) *lisnerr.Error {
	l := lhs.Loc()
	return lisnerr.NewParse(lisnerr.ParseIllegalLvalue, "left-hand side is not a valid assignment target", l.SLine, l.SCol, l.ELine, l.ECol)
}
