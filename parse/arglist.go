package parse

import (
	"github.com/dekarrin/lisn/ast"
	"github.com/dekarrin/lisn/lex"
	"github.com/dekarrin/lisn/lisnerr"
)

// parseArgList parses a comma-separated argument list up to (but not
// consuming) closeKind. Arguments must be read left-to-right (that's the
// only order the token stream offers), but ast.PrependArg's order check
// assumes its "current" accumulator holds everything to the *right* of
// the argument being added (see ast.CheckArgOrder): so every argument is
// collected into items first, then folded into Arguments back to front,
// matching the direction the grammar would have produced them in.
func (p *Parser) parseArgList(closeKind lex.Kind) (ast.Arguments, *lisnerr.Error) {
	if p.tok.Kind == closeKind {
		return ast.EmptyArguments(locOf(p.tok)), nil
	}

	var items []ast.OneArg
	for {
		one, err := p.parseArg()
		if err != nil {
			return ast.Arguments{}, err
		}
		items = append(items, one)

		if p.tok.Kind != lex.COMMA {
			break
		}
		if err := p.advance(); err != nil {
			return ast.Arguments{}, err
		}
		if p.tok.Kind == closeKind {
			break
		}
	}
	return foldArgsRightToLeft(items)
}

// foldArgsRightToLeft folds a left-to-right-parsed slice of arguments
// into an Arguments accumulator by prepending from the last item to the
// first, so ast.PrependArg always sees a "current" that is genuinely to
// the right of "new".
func foldArgsRightToLeft(items []ast.OneArg) (ast.Arguments, *lisnerr.Error) {
	var args ast.Arguments
	for i := len(items) - 1; i >= 0; i-- {
		var err *lisnerr.Error
		args, err = ast.PrependArg(items[i], args)
		if err != nil {
			return args, err
		}
	}
	return args, nil
}

// parseArg parses a single argument: a splat-prefixed expression
// (`*e`, `**e`, `&e`, `&&e`), a keyword argument (`name=expr`), or a
// plain positional expression.
func (p *Parser) parseArg() (ast.OneArg, *lisnerr.Error) {
	startTok := p.tok

	var splatKind ast.ArgKind
	switch p.tok.Kind {
	case lex.STAR:
		splatKind = ast.ArgStar
	case lex.DSTAR:
		splatKind = ast.ArgDStar
	case lex.AMP:
		splatKind = ast.ArgAmp
	case lex.DAMP:
		splatKind = ast.ArgDAmp
	default:
		splatKind = -1
	}

	if splatKind != -1 {
		if err := p.advance(); err != nil {
			return ast.OneArg{}, err
		}
		val, err := p.parseExpr(1)
		if err != nil {
			return ast.OneArg{}, err
		}
		return ast.OneArg{ArgKind: splatKind, Value: val, Loc: ast.Span(locOf(startTok), val.Loc())}, nil
	}

	if p.tok.Kind == lex.NAME {
		nameTok := p.tok
		if err := p.advance(); err != nil {
			return ast.OneArg{}, err
		}
		if p.tok.Kind == lex.ASSIGN {
			if err := p.advance(); err != nil {
				return ast.OneArg{}, err
			}
			val, err := p.parseExpr(1)
			if err != nil {
				return ast.OneArg{}, err
			}
			return ast.OneArg{ArgKind: ast.ArgKeyword, Name: nameTok.Text, Value: val, Loc: ast.Span(locOf(nameTok), val.Loc())}, nil
		}

		// Not a keyword arg after all: nameTok seeds a positional
		// expression (possibly trailers/calls/binops following it).
		seed := nameAsPrimary(nameTok)
		prim, err := p.continuePrimaryChain(seed)
		if err != nil {
			return ast.OneArg{}, err
		}
		val, err := p.continueBinOp(prim, 1)
		if err != nil {
			return ast.OneArg{}, err
		}
		return ast.OneArg{ArgKind: ast.ArgPositional, Value: val, Loc: val.Loc()}, nil
	}

	val, err := p.parseExpr(1)
	if err != nil {
		return ast.OneArg{}, err
	}
	return ast.OneArg{ArgKind: ast.ArgPositional, Value: val, Loc: val.Loc()}, nil
}
