// Package parse drives the grammar: it pumps tokens from a lex.Lexer
// through a hand-written recursive-descent / precedence-climbing parser
// (spec.md §4.5 explicitly permits this in place of a generated LALR
// table), builds the AST via the ast package's constructors and
// Arguments/order-checking helpers, and runs the post-parse inline-app
// elimination pass before handing the tree back to the caller.
//
// The driver reports at most one error per parse: a lexer error is
// promoted directly; a grammar error stops the driver on the next token.
package parse

import (
	"fmt"
	"io"

	"github.com/dekarrin/lisn/ast"
	"github.com/dekarrin/lisn/lex"
	"github.com/dekarrin/lisn/lisnconfig"
	"github.com/dekarrin/lisn/lisnerr"
	"github.com/dekarrin/lisn/stream"
)

// Parser holds one token of lookahead over a lex.Lexer.
type Parser struct {
	lx  *lex.Lexer
	tok lex.Token
	err *lisnerr.Error
}

func newParser(lx *lex.Lexer) (*Parser, *lisnerr.Error) {
	p := &Parser{lx: lx}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// advance fetches the next token into p.tok. Once it returns a non-nil
// error, the Parser must not be used again.
func (p *Parser) advance() *lisnerr.Error {
	tok, err := p.lx.Next()
	if err != nil {
		p.err = err
		return err
	}
	p.tok = tok
	return nil
}

func locOf(t lex.Token) ast.Location {
	return ast.Location{SLine: t.SLine, SCol: t.SCol, ELine: t.ELine, ECol: t.ECol}
}

func (p *Parser) syntaxErrorf(format string, args ...any) *lisnerr.Error {
	return lisnerr.NewParse(lisnerr.ParseSyntaxError, fmt.Sprintf(format, args...), p.tok.SLine, p.tok.SCol, p.tok.ELine, p.tok.ECol)
}

func (p *Parser) syntaxErrorUnexpected() *lisnerr.Error {
	return p.syntaxErrorf("unexpected token %s", p.tok.Kind)
}

// syntaxErrorExpectedOneOf reports a syntax error naming the set of token
// kinds that would have been grammatically valid at this point, via
// lisnerr.ExpectedOneOf.
func (p *Parser) syntaxErrorExpectedOneOf(kinds ...lex.Kind) *lisnerr.Error {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return p.syntaxErrorf("%s, got %s", lisnerr.ExpectedOneOf(names), p.tok.Kind)
}

// ParseBytes parses source as a complete LISN program and returns the
// root Suite node (possibly empty). lim bounds the lexer's indent stack;
// pass lisnconfig.DefaultLimits() for the spec defaults.
func ParseBytes(source []byte, lim lisnconfig.Limits) (ast.Node, *lisnerr.Error) {
	return parseStream(stream.NewFromBytes(source), lim)
}

// ParseFile parses r (typically an *os.File) as a complete LISN program.
func ParseFile(r io.Reader, lim lisnconfig.Limits) (ast.Node, *lisnerr.Error) {
	return parseStream(stream.New(r), lim)
}

func parseStream(src *stream.Stream, lim lisnconfig.Limits) (ast.Node, *lisnerr.Error) {
	lx := lex.New(src, lim)
	p, err := newParser(lx)
	if err != nil {
		return nil, err
	}

	root, perr := p.parseProgram()
	if perr != nil {
		return nil, perr
	}

	root = ast.Visit(root, eliminateInlineApp)
	return root, nil
}

// parseProgram parses the whole token stream as one top-level suite.
func (p *Parser) parseProgram() (ast.Node, *lisnerr.Error) {
	suite, err := p.parseSuiteItemsUntil(lex.EOF)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != lex.EOF {
		return nil, p.syntaxErrorf("expected end of input, got %s", p.tok.Kind)
	}

	if suite == nil {
		return ast.NewSuiteExpr(nil, ast.Location{SLine: 1, SCol: 1, ELine: 1, ECol: 1}), nil
	}
	return suite, nil
}

// eliminateInlineApp is the post-parse rewrite that replaces any
// remaining InlineApp intermediate with an equivalent headless XExpr,
// inheriting its location. Reaching this point with an Arrow node left
// over would be a construction error (arrows are consumed in suite-entry
// and keyword-argument building); none are ever produced as generic
// Nodes so none can reach here.
func eliminateInlineApp(n ast.Node) ast.Node {
	app, ok := n.(*ast.InlineAppNode)
	if !ok {
		return n
	}
	return ast.NewXExpr(app.Scope, app.Args, nil, app.Loc())
}
