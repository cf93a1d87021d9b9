package parse

import (
	"github.com/dekarrin/lisn/ast"
	"github.com/dekarrin/lisn/lex"
	"github.com/dekarrin/lisn/lisnerr"
)

// binOpInfo reports a token's binary-operator precedence (higher binds
// tighter) and source spelling. spec.md does not enumerate a precedence
// ladder for LISN's expression operators, so this ladder is this
// implementation's own decision, recorded in DESIGN.md: comparisons below
// additive, additive below multiplicative, both below unary. PIPE/DPIPE
// sit at the bottom as a single "or" tier. AMP/DAMP never appear here:
// they are call-argument markers only (spec.md §4.4), not operators.
func binOpInfo(k lex.Kind) (prec int, op string, ok bool) {
	switch k {
	case lex.PIPE:
		return 1, "|", true
	case lex.DPIPE:
		return 1, "||", true
	case lex.EQ:
		return 2, "==", true
	case lex.NEQ:
		return 2, "!=", true
	case lex.LT:
		return 2, "<", true
	case lex.LTE:
		return 2, "<=", true
	case lex.GT:
		return 2, ">", true
	case lex.GTE:
		return 2, ">=", true
	case lex.PLUS:
		return 3, "+", true
	case lex.MINUS:
		return 3, "-", true
	case lex.STAR:
		return 4, "*", true
	case lex.SLASH:
		return 4, "/", true
	case lex.PERCENT:
		return 4, "%", true
	default:
		return 0, "", false
	}
}

// parseExpr parses a full expression via precedence climbing: minPrec is
// the lowest binary-operator precedence this call is allowed to consume.
func (p *Parser) parseExpr(minPrec int) (ast.Node, *lisnerr.Error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.continueBinOp(lhs, minPrec)
}

// continueBinOp folds trailing `lhs OP rhs` pairs onto an already-parsed
// lhs, for as long as the next token is a binary operator of at least
// minPrec. Shared by parseExpr and by callers (argument/suite parsing)
// that parsed a bare primary chain themselves and need to finish it out
// as a full expression.
func (p *Parser) continueBinOp(lhs ast.Node, minPrec int) (ast.Node, *lisnerr.Error) {
	for {
		prec, op, ok := binOpInfo(p.tok.Kind)
		if !ok || prec < minPrec {
			return lhs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinOp(op, lhs, rhs, ast.Span(lhs.Loc(), rhs.Loc()))
	}
}

// parseUnary handles the prefix operators `!` and `-`, which bind tighter
// than any binary operator; anything else falls through to a primary
// chain (literal/name/paren plus trailers and calls).
func (p *Parser) parseUnary() (ast.Node, *lisnerr.Error) {
	switch p.tok.Kind {
	case lex.BANG, lex.MINUS:
		opTok := p.tok
		opText := "!"
		if opTok.Kind == lex.MINUS {
			opText = "-"
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnOp(opText, operand, ast.Span(locOf(opTok), operand.Loc())), nil
	default:
		return p.parsePrimaryChain()
	}
}

// parsePrimaryChain parses one primary expression and then consumes any
// number of trailing trailers (`.name`, `[index]`, `[l:r]`) and inline
// call suffixes (`(args)`), left-associatively.
func (p *Parser) parsePrimaryChain() (ast.Node, *lisnerr.Error) {
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.continuePrimaryChain(prim)
}

func (p *Parser) continuePrimaryChain(prim ast.Node) (ast.Node, *lisnerr.Error) {
	for {
		switch p.tok.Kind {
		case lex.DOT:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Kind != lex.NAME {
				return nil, p.syntaxErrorf("expected a name after '.', got %s", p.tok.Kind)
			}
			nameTok := p.tok
			if err := p.advance(); err != nil {
				return nil, err
			}
			prim = ast.AccessAttr(prim, nameTok.Text, ast.Span(prim.Loc(), locOf(nameTok)))
		case lex.LBRKT:
			next, err := p.parseTrailerBracket(prim)
			if err != nil {
				return nil, err
			}
			prim = next
		case lex.LPAR:
			if err := p.advance(); err != nil {
				return nil, err
			}
			args, err := p.parseArgList(lex.RPAR)
			if err != nil {
				return nil, err
			}
			closeTok := p.tok
			if err := p.expect(lex.RPAR); err != nil {
				return nil, err
			}
			prim = ast.NewInlineApp(prim, args, ast.Span(prim.Loc(), locOf(closeTok)))
		default:
			return prim, nil
		}
	}
}

// parseTrailerBracket parses the bracketed suffix after `[` has been
// seen (p.tok.Kind == lex.LBRKT is the current token on entry). The four
// shapes are distinguished by whether a COLUMN appears, and where:
// `[e]` (array), `[e1:e2]`/`[:e2]`/`[e1:]`/`[:]` (the four slice forms).
func (p *Parser) parseTrailerBracket(scope ast.Node) (ast.Node, *lisnerr.Error) {
	openTok := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.Kind == lex.COLUMN {
		// "[:" -- either "[:]" or "[:e2]"
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind == lex.RBRKT {
			closeTok := p.tok
			if err := p.advance(); err != nil {
				return nil, err
			}
			return ast.SliceNone(scope, ast.Span(locOf(openTok), locOf(closeTok))), nil
		}
		right, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		closeTok := p.tok
		if err := p.expect(lex.RBRKT); err != nil {
			return nil, err
		}
		return ast.SliceR(scope, right, ast.Span(locOf(openTok), locOf(closeTok))), nil
	}

	first, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}

	if p.tok.Kind == lex.COLUMN {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind == lex.RBRKT {
			closeTok := p.tok
			if err := p.advance(); err != nil {
				return nil, err
			}
			return ast.SliceL(scope, first, ast.Span(locOf(openTok), locOf(closeTok))), nil
		}
		right, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		closeTok := p.tok
		if err := p.expect(lex.RBRKT); err != nil {
			return nil, err
		}
		return ast.SliceLR(scope, first, right, ast.Span(locOf(openTok), locOf(closeTok))), nil
	}

	closeTok := p.tok
	if err := p.expect(lex.RBRKT); err != nil {
		return nil, err
	}
	return ast.AccessArray(scope, first, ast.Span(locOf(openTok), locOf(closeTok))), nil
}

// parsePrimary parses one atomic expression: a name (or the null/true/
// false pseudo-keywords spelled as bare names), a literal, or a
// parenthesized expression.
func (p *Parser) parsePrimary() (ast.Node, *lisnerr.Error) {
	tok := p.tok
	switch tok.Kind {
	case lex.NAME:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return nameAsPrimary(tok), nil
	case lex.STRING:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewStringLiteral(tok.Text, locOf(tok)), nil
	case lex.INTEGER:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewIntegerLiteral(tok.Text, locOf(tok)), nil
	case lex.FLOAT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewFloatLiteral(tok.Text, locOf(tok)), nil
	case lex.LPAR:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if err := p.expect(lex.RPAR); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.syntaxErrorExpectedOneOf(lex.NAME, lex.STRING, lex.INTEGER, lex.FLOAT, lex.LPAR)
	}
}

// nameAsPrimary promotes a NAME token to the null/true/false literal it
// spells, or else to a plain Name node.
func nameAsPrimary(tok lex.Token) ast.Node {
	switch tok.Text {
	case "null":
		return ast.NewNullLiteral(locOf(tok))
	case "true":
		return ast.NewTrueLiteral(locOf(tok))
	case "false":
		return ast.NewFalseLiteral(locOf(tok))
	default:
		return ast.NewName(tok.Text, locOf(tok))
	}
}

// expect consumes the current token if it matches k, else reports a
// syntax error naming what was expected.
func (p *Parser) expect(k lex.Kind) *lisnerr.Error {
	if p.tok.Kind != k {
		return p.syntaxErrorf("expected %s, got %s", k, p.tok.Kind)
	}
	return p.advance()
}
