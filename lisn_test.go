package lisn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/lisn/ast"
	"github.com/dekarrin/lisn/lisnconfig"
)

func Test_ParseBytes_simpleAssignment(t *testing.T) {
	assert := assert.New(t)
	root, err := ParseBytes([]byte("x = 1\n"))
	if !assert.Nil(err) {
		return
	}
	suite := ast.As[*ast.SuiteNode](root)
	assign := ast.As[*ast.AssignNode](suite.Expr)
	assert.Equal("x", assign.Name)
}

func Test_ParseBytes_emptyProgram(t *testing.T) {
	assert := assert.New(t)
	root, err := ParseBytes(nil)
	if !assert.Nil(err) {
		return
	}
	suite := ast.As[*ast.SuiteNode](root)
	assert.Nil(suite.Expr)
	assert.Nil(suite.Next)
	assert.Equal(ast.Location{SLine: 1, SCol: 1, ELine: 1, ECol: 1}, root.Loc())
}

func Test_ParseFile_matchesParseBytes(t *testing.T) {
	assert := assert.New(t)
	src := "f(a, b=2)\n"

	fromBytes, err := ParseBytes([]byte(src))
	if !assert.Nil(err) {
		return
	}
	fromFile, err := ParseFile(strings.NewReader(src))
	if !assert.Nil(err) {
		return
	}

	assert.Equal(fromBytes, fromFile)
}

func Test_ParseBytesWithLimits_indentStackOverflow(t *testing.T) {
	assert := assert.New(t)
	lim := lisnconfig.DefaultLimits()
	lim.MaxIndentDepth = 1

	src := "a:\n  b:\n    c\n"
	_, err := ParseBytesWithLimits([]byte(src), lim)
	if assert.NotNil(err) {
		assert.True(err.IsLexError)
	}
}

func Test_ParseBytes_syntaxErrorReportsLocation(t *testing.T) {
	assert := assert.New(t)
	_, err := ParseBytes([]byte("x = = 1\n"))
	if assert.NotNil(err) {
		assert.False(err.IsLexError)
		assert.Equal(1, err.SLine)
	}
}
