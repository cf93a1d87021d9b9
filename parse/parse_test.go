package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/lisn/ast"
	"github.com/dekarrin/lisn/lisnconfig"
	"github.com/dekarrin/lisn/lisnerr"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	root, err := ParseBytes([]byte(src), lisnconfig.DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Error())
	}
	return root
}

func onlyEntry(t *testing.T, root ast.Node) ast.Node {
	t.Helper()
	suite := ast.As[*ast.SuiteNode](root)
	if suite == nil {
		t.Fatal("expected a non-empty suite")
	}
	if suite.Next != nil {
		t.Fatalf("expected exactly one suite entry, got %d", suite.Len())
	}
	return suite.Expr
}

// Test_Parse_scenario1 covers spec scenario 1: x = 1.
func Test_Parse_scenario1(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, "x = 1\n")
	assign := ast.As[*ast.AssignNode](onlyEntry(t, root))
	assert.Equal(ast.AssignNormal, assign.Op)
	assert.Equal(ast.LvalueName, assign.LvalKind)
	assert.Equal("x", assign.Name)
	lit := ast.As[*ast.LiteralNode](assign.RHS)
	assert.Equal(ast.LiteralInteger, lit.LitKind)
	assert.Equal("1", lit.Text)
}

// Test_Parse_scenario2 covers spec scenario 2: f(a, b=2, *rest).
func Test_Parse_scenario2(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, "f(a, b=2, *rest)\n")
	xexpr := ast.As[*ast.XExprNode](onlyEntry(t, root))
	assert.False(xexpr.HasHeadLabel)
	head := ast.As[*ast.NameNode](xexpr.HeadExpr)
	assert.Equal("f", head.Text)
	assert.Nil(xexpr.VertSuite)

	if assert.Len(xexpr.Args.Positional, 1) {
		assert.Equal("a", ast.As[*ast.NameNode](xexpr.Args.Positional[0]).Text)
	}
	if assert.Len(xexpr.Args.Keyword, 1) {
		assert.Equal("b", xexpr.Args.Keyword[0].Name)
		assert.Equal("2", ast.As[*ast.LiteralNode](xexpr.Args.Keyword[0].Value).Text)
	}
	assert.True(xexpr.Args.HasStar)
	assert.Equal("rest", ast.As[*ast.NameNode](xexpr.Args.Star).Text)
	assert.False(xexpr.Args.HasDStar)
	assert.False(xexpr.Args.HasAmp)
	assert.False(xexpr.Args.HasDAmp)
}

// Test_Parse_scenario3 covers spec scenario 3: a bare suite under f.
func Test_Parse_scenario3(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, "f:\n  1\n  2\n")
	xexpr := ast.As[*ast.XExprNode](onlyEntry(t, root))
	assert.False(xexpr.HasHeadLabel)
	assert.Equal("f", ast.As[*ast.NameNode](xexpr.HeadExpr).Text)
	assert.Empty(xexpr.Args.Positional)
	assert.Empty(xexpr.Args.Keyword)

	if assert.NotNil(xexpr.VertSuite) {
		assert.Equal(2, xexpr.VertSuite.Len())
		first := ast.As[*ast.LiteralNode](xexpr.VertSuite.Expr)
		assert.Equal("1", first.Text)
		second := ast.As[*ast.LiteralNode](xexpr.VertSuite.Next.Expr)
		assert.Equal("2", second.Text)
	}
}

// Test_Parse_scenario4 covers spec scenario 4: the double-head form with
// an inline body.
func Test_Parse_scenario4(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, "def sum(a,b,c): a + b + c\n")
	xexpr := ast.As[*ast.XExprNode](onlyEntry(t, root))
	assert.True(xexpr.HasHeadLabel)
	assert.Equal("def", xexpr.HeadLabel)
	assert.Equal("sum", ast.As[*ast.NameNode](xexpr.HeadExpr).Text)

	if assert.Len(xexpr.Args.Positional, 3) {
		assert.Equal("a", ast.As[*ast.NameNode](xexpr.Args.Positional[0]).Text)
		assert.Equal("b", ast.As[*ast.NameNode](xexpr.Args.Positional[1]).Text)
		assert.Equal("c", ast.As[*ast.NameNode](xexpr.Args.Positional[2]).Text)
	}

	if assert.NotNil(xexpr.VertSuite) {
		outer := ast.As[*ast.BinOpNode](xexpr.VertSuite.Expr)
		assert.Equal("+", outer.Op)
		inner := ast.As[*ast.BinOpNode](outer.LHS)
		assert.Equal("+", inner.Op)
		assert.Equal("a", ast.As[*ast.NameNode](inner.LHS).Text)
		assert.Equal("b", ast.As[*ast.NameNode](inner.RHS).Text)
		assert.Equal("c", ast.As[*ast.NameNode](outer.RHS).Text)
	}
}

// Test_Parse_scenario5 covers spec scenario 5: a slice lvalue is illegal.
func Test_Parse_scenario5(t *testing.T) {
	assert := assert.New(t)
	_, err := ParseBytes([]byte("a.b[1:] = 3\n"), lisnconfig.DefaultLimits())
	if assert.NotNil(err) {
		assert.False(err.IsLexError)
		assert.Equal(lisnerr.ParseIllegalLvalue, err.Code)
	}
}

// Test_Parse_scenario6 covers spec scenario 6: string escape decoding
// survives the full parse, not just the lexer.
func Test_Parse_scenario6(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, `"a\n\x41"`+"\n")
	lit := ast.As[*ast.LiteralNode](onlyEntry(t, root))
	assert.Equal(ast.LiteralString, lit.LitKind)
	assert.Equal("a\nA", lit.Text)
}

func Test_Parse_attrAndArrayLvalues(t *testing.T) {
	assert := assert.New(t)

	root := mustParse(t, "obj.field = 1\n")
	assign := ast.As[*ast.AssignNode](onlyEntry(t, root))
	assert.Equal(ast.LvalueAttr, assign.LvalKind)
	assert.Equal("field", assign.Attr)
	assert.Equal("obj", ast.As[*ast.NameNode](assign.Scope).Text)

	root = mustParse(t, "arr[0] := 2\n")
	assign = ast.As[*ast.AssignNode](onlyEntry(t, root))
	assert.Equal(ast.AssignDef, assign.Op)
	assert.Equal(ast.LvalueArray, assign.LvalKind)
	assert.Equal("arr", ast.As[*ast.NameNode](assign.Scope).Text)
	assert.Equal("0", ast.As[*ast.LiteralNode](assign.Index).Text)
}

func Test_Parse_sliceForms(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		kind      ast.TrailerKind
		hasLeft   bool
		hasRight  bool
	}{
		{name: "slice_lr", input: "a[1:2]\n", kind: ast.TrailerSliceLR, hasLeft: true, hasRight: true},
		{name: "slice_l", input: "a[1:]\n", kind: ast.TrailerSliceL, hasLeft: true, hasRight: false},
		{name: "slice_r", input: "a[:2]\n", kind: ast.TrailerSliceR, hasLeft: false, hasRight: true},
		{name: "slice_none", input: "a[:]\n", kind: ast.TrailerSliceNone, hasLeft: false, hasRight: false},
		{name: "array access", input: "a[1]\n", kind: ast.TrailerArray, hasLeft: false, hasRight: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			root := mustParse(t, tc.input)
			trailer := ast.As[*ast.TrailerNode](onlyEntry(t, root))
			assert.Equal(tc.kind, trailer.TKind)
			if tc.kind == ast.TrailerArray {
				assert.NotNil(trailer.Index)
				return
			}
			if tc.hasLeft {
				assert.NotNil(trailer.SliceLeft)
			} else {
				assert.Nil(trailer.SliceLeft)
			}
			if tc.hasRight {
				assert.NotNil(trailer.SliceRight)
			} else {
				assert.Nil(trailer.SliceRight)
			}
		})
	}
}

func Test_Parse_unaryAndPrecedence(t *testing.T) {
	assert := assert.New(t)

	root := mustParse(t, "-x\n")
	un := ast.As[*ast.UnOpNode](onlyEntry(t, root))
	assert.Equal("-", un.Op)
	assert.Equal("x", ast.As[*ast.NameNode](un.Operand).Text)

	root = mustParse(t, "!y\n")
	un = ast.As[*ast.UnOpNode](onlyEntry(t, root))
	assert.Equal("!", un.Op)

	// multiplication binds tighter than addition: 1 + 2 * 3
	root = mustParse(t, "1 + 2 * 3\n")
	bin := ast.As[*ast.BinOpNode](onlyEntry(t, root))
	assert.Equal("+", bin.Op)
	assert.Equal("1", ast.As[*ast.LiteralNode](bin.LHS).Text)
	rhs := ast.As[*ast.BinOpNode](bin.RHS)
	assert.Equal("*", rhs.Op)
}

func Test_Parse_arrowEntryInsideSuite(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, "f:\n  x -> 1\n")
	xexpr := ast.As[*ast.XExprNode](onlyEntry(t, root))
	if assert.NotNil(xexpr.VertSuite) {
		entry := xexpr.VertSuite
		assert.True(entry.IsArrow)
		assert.Equal("x", entry.ArrowLabel)
		assert.Equal("1", ast.As[*ast.LiteralNode](entry.Expr).Text)
	}
}

func Test_Parse_topLevelArrowEntry(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, `"key" -> 1`+"\n")
	suite := ast.As[*ast.SuiteNode](root)
	assert.True(suite.IsArrow)
	assert.Equal("key", suite.ArrowLabel)
}

// Test_Parse_dashArgsReplacement covers the double-head form's second
// vertical section: a ':' body followed by a '--' block that replaces
// the accumulated Arguments in place.
func Test_Parse_dashArgsReplacement(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, "def f(a):\n  a + 1\n--\n  9\n")
	xexpr := ast.As[*ast.XExprNode](onlyEntry(t, root))
	assert.True(xexpr.HasHeadLabel)
	assert.Equal("def", xexpr.HeadLabel)
	assert.Equal("f", ast.As[*ast.NameNode](xexpr.HeadExpr).Text)

	if assert.Len(xexpr.Args.Positional, 1) {
		assert.Equal("9", ast.As[*ast.LiteralNode](xexpr.Args.Positional[0]).Text)
	}

	if assert.NotNil(xexpr.VertSuite) {
		bin := ast.As[*ast.BinOpNode](xexpr.VertSuite.Expr)
		assert.Equal("+", bin.Op)
		assert.Equal("a", ast.As[*ast.NameNode](bin.LHS).Text)
	}
}

func Test_Parse_emptyProgram(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "whitespace only", input: "   \n\t\n"},
		{name: "comment only", input: "# nothing here\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			root := mustParse(t, tc.input)
			suite := ast.As[*ast.SuiteNode](root)
			assert.Nil(suite.Expr)
			assert.Nil(suite.Next)
			assert.Equal(ast.Location{SLine: 1, SCol: 1, ELine: 1, ECol: 1}, root.Loc())
		})
	}
}

func Test_Parse_noInlineAppSurvives(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, "f(1, 2)\n")
	ast.Visit(root, func(n ast.Node) ast.Node {
		if n.Kind() == ast.KindInlineApp {
			t.Fatalf("InlineApp node survived into the final tree")
		}
		return n
	})

	xexpr := ast.As[*ast.XExprNode](onlyEntry(t, root))
	assert.Equal("f", ast.As[*ast.NameNode](xexpr.HeadExpr).Text)
}

func Test_Parse_illegalArgOrder(t *testing.T) {
	assert := assert.New(t)
	_, err := ParseBytes([]byte("f(b=1, a)\n"), lisnconfig.DefaultLimits())
	if assert.NotNil(err) {
		assert.Equal(lisnerr.ParseIllegalArg, err.Code)
	}
}

func Test_Parse_trailerChainOnCall(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, "f().a[0]\n")
	outer := ast.As[*ast.TrailerNode](onlyEntry(t, root))
	assert.Equal(ast.TrailerArray, outer.TKind)
	mid := ast.As[*ast.TrailerNode](outer.Scope)
	assert.Equal(ast.TrailerAttr, mid.TKind)
	assert.Equal("a", mid.Attr)
	inner := ast.As[*ast.XExprNode](mid.Scope)
	assert.Equal("f", ast.As[*ast.NameNode](inner.HeadExpr).Text)
	assert.Empty(inner.Args.Positional)
}

func Test_Parse_multipleSuiteEntries(t *testing.T) {
	assert := assert.New(t)
	root := mustParse(t, "a\nb\nc\n")
	suite := ast.As[*ast.SuiteNode](root)
	assert.Equal(3, suite.Len())
	assert.False(suite.Loc().Erased())
	assert.True(suite.Next.Loc().Erased())
	assert.True(suite.Next.Next.Loc().Erased())
}
