// Package lisnerr defines the error codes and the single error type that the
// lexer and parser report through. A parse reports at most one error (see
// parse.ParseBytes/parse.ParseFile); this package exists so that lexer-origin
// and parser-origin errors can share one shape on the way out.
package lisnerr

import (
	"fmt"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/lisn/internal/util"
)

// Lexer error codes. Numeric values are load-bearing: they are kept
// identical to the reference implementation's LEXERR_* codes so that a
// caller which has hardcoded the numbers does not need to change them.
const (
	LexNoProblem = iota
	LexFatalError
	LexBracketMismatch
	LexInvalidCharacter
	LexIndentMismatch
	LexIndentStackOverflow
	LexInvalidAfterBackslash
	LexBadStream
	LexMixedSpacesAndTabs
	LexEOFInString
	LexInvalidHexEscape
)

// Parse error codes. Numeric values are kept identical to the reference
// implementation's PARSE_ERR_* codes.
const (
	ParseOK = iota
	ParseSyntaxError
	ParseStackOverflow
	ParseIllegalArg
	ParseIllegalLvalue
)

// maxMessageLen matches the reference implementation's 1024-byte error
// message cap (LEXERR_MAX_STRING_CNT / PARSE_MAX_ERR_MSG_CNT in spirit; the
// reference's lexer-side cap is smaller, but the outward-facing error always
// uses the wider parser-side cap since that's what callers observe).
const maxMessageLen = 1024

// Error is the single error shape produced by a parse. At most one Error is
// ever returned from a single parse operation; the lexer's internal errors
// are promoted into this shape with IsLexError set.
type Error struct {
	// IsLexError is true if Code should be interpreted as one of the Lex*
	// constants, and false if it should be interpreted as one of the
	// Parse* constants.
	IsLexError bool
	Code       int
	Message    string

	SLine, SCol int
	ELine, ECol int
}

// NewLex builds an Error in the lexer error-code namespace.
func NewLex(code int, message string, sline, scol, eline, ecol int) *Error {
	return &Error{
		IsLexError: true,
		Code:       code,
		Message:    truncate(message),
		SLine:      sline,
		SCol:       scol,
		ELine:      eline,
		ECol:       ecol,
	}
}

// NewParse builds an Error in the parser error-code namespace.
func NewParse(code int, message string, sline, scol, eline, ecol int) *Error {
	return &Error{
		IsLexError: false,
		Code:       code,
		Message:    truncate(message),
		SLine:      sline,
		SCol:       scol,
		ELine:      eline,
		ECol:       ecol,
	}
}

func truncate(msg string) string {
	if len(msg) <= maxMessageLen {
		return msg
	}
	return msg[:maxMessageLen]
}

// CodeName returns the symbolic name of the error's code, picking the lexer
// or parser namespace according to IsLexError.
func (e *Error) CodeName() string {
	if e.IsLexError {
		switch e.Code {
		case LexNoProblem:
			return "NO_PROBLEM"
		case LexFatalError:
			return "FATAL_ERROR"
		case LexBracketMismatch:
			return "BRACKET_MISMATCH"
		case LexInvalidCharacter:
			return "INVALID_CHARACTER"
		case LexIndentMismatch:
			return "INDENT_MISMATCH"
		case LexIndentStackOverflow:
			return "INDENT_STACK_OVERFLOW"
		case LexInvalidAfterBackslash:
			return "INVALID_AFTER_BACKSLASH"
		case LexBadStream:
			return "BAD_STREAM"
		case LexMixedSpacesAndTabs:
			return "MIXED_SPACES_AND_TABS"
		case LexEOFInString:
			return "EOF_IN_STRING"
		case LexInvalidHexEscape:
			return "INVALID_HEX_ESCAPE"
		}
	} else {
		switch e.Code {
		case ParseOK:
			return "OK"
		case ParseSyntaxError:
			return "SYNTAX_ERROR"
		case ParseStackOverflow:
			return "STACK_OVERFLOW"
		case ParseIllegalArg:
			return "ILLEGAL_ARG"
		case ParseIllegalLvalue:
			return "ILLEGAL_LVALUE"
		}
	}
	return "UNKNOWN"
}

// Error implements the error interface.
func (e *Error) Error() string {
	ns := "parse"
	if e.IsLexError {
		ns = "lex"
	}
	if e.SLine == e.ELine {
		return fmt.Sprintf("%s error (%s): line %d, col %d-%d: %s", ns, e.CodeName(), e.SLine, e.SCol, e.ECol, e.Message)
	}
	return fmt.Sprintf("%s error (%s): line %d col %d through line %d col %d: %s", ns, e.CodeName(), e.SLine, e.SCol, e.ELine, e.ECol, e.Message)
}

// Detail renders a human-facing, word-wrapped rendition of the error
// suitable for console display, reflowed to 80 columns the way the teacher
// reflows interpreter-facing messages.
func (e *Error) Detail() string {
	body := fmt.Sprintf("%s: %s", e.CodeName(), e.Message)
	return rosed.Edit(body).Wrap(80).String()
}

// ExpectedOneOf renders a "expected one of: A, B, and C" clause from a list
// of human-readable token names, for use in SYNTAX_ERROR messages.
func ExpectedOneOf(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "expected one of: " + util.MakeTextList(append([]string(nil), names...))
}

// FormatByte escapes a byte the way the reference lexer does for its
// INVALID_CHARACTER message: printable ASCII (including newline) passes
// through unescaped, everything else becomes \xHH.
func FormatByte(b byte) string {
	if b == '\n' || (b >= ' ' && b <= '~') {
		return string(rune(b))
	}
	return fmt.Sprintf("\\x%02x", b)
}
