// Package lisn parses LISN source text into an AST. LISN is a
// line-oriented, indentation-sensitive surface syntax: its extended
// expressions (a callable head, optional arguments, and an optional
// indented suite body) are described fully in ast.XExprNode.
//
// ParseBytes and ParseFile are the two entry points; both return the
// root of the parsed tree (an *ast.SuiteNode) or at most one error.
package lisn

import (
	"io"

	"github.com/dekarrin/lisn/ast"
	"github.com/dekarrin/lisn/lisnconfig"
	"github.com/dekarrin/lisn/lisnerr"
	"github.com/dekarrin/lisn/parse"
)

// ParseBytes parses source as a complete LISN program using the default
// resource limits (see lisnconfig.DefaultLimits). The returned Node is
// always an *ast.SuiteNode; an empty program parses to an empty suite
// located at (1,1)-(1,1).
func ParseBytes(source []byte) (ast.Node, *lisnerr.Error) {
	return ParseBytesWithLimits(source, lisnconfig.DefaultLimits())
}

// ParseBytesWithLimits is ParseBytes with caller-supplied resource limits,
// for a host that has loaded a lisnconfig.Limits from a config file.
func ParseBytesWithLimits(source []byte, lim lisnconfig.Limits) (ast.Node, *lisnerr.Error) {
	return parse.ParseBytes(source, lim)
}

// ParseFile parses r (typically an *os.File opened by the caller) as a
// complete LISN program using the default resource limits.
func ParseFile(r io.Reader) (ast.Node, *lisnerr.Error) {
	return ParseFileWithLimits(r, lisnconfig.DefaultLimits())
}

// ParseFileWithLimits is ParseFile with caller-supplied resource limits.
func ParseFileWithLimits(r io.Reader, lim lisnconfig.Limits) (ast.Node, *lisnerr.Error) {
	return parse.ParseFile(r, lim)
}
