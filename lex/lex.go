// Package lex implements the indentation-aware tokenizer described in
// spec.md §4.2: byte-oriented scanning of comments, whitespace-driven
// INDENT/DEDENT/NEWLINE synthesis, and the typed terminal set (names,
// literals, punctuation) the parser consumes.
//
// The indent-stack state machine, escape-decoding rules, and the
// NEWLINE_TOKEN_HACK convention (certain punctuation tokens carry an
// end-of-line variant so the grammar can fold a trailing newline into the
// punctuation itself) are ported from the reference lexer's character-level
// state machine.
package lex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/lisn/lisnconfig"
	"github.com/dekarrin/lisn/lisnerr"
	"github.com/dekarrin/lisn/stream"
)

// Lexer scans a stream.Stream into a sequence of Tokens. It is not
// reentrant: a Lexer reads forward-only and keeps indentation state that
// only makes sense for a single top-to-bottom pass.
type Lexer struct {
	src *stream.Stream

	limits lisnconfig.Limits

	indentStack []int
	indentChar  byte // 0 until the first indented line fixes it to ' ' or '\t'

	newlinePhase     bool
	unscannedDedents int
	ended            bool

	bracketDepth int

	sline, scol int
}

// New returns a Lexer reading from src, using lim for its resource limits.
func New(src *stream.Stream, lim lisnconfig.Limits) *Lexer {
	return &Lexer{
		src:          src,
		limits:       lim,
		indentStack:  []int{0},
		newlinePhase: true,
	}
}

// Next scans and returns the next Token. Once an error is returned the
// Lexer should not be called again; its internal state is no longer
// meaningful.
func (lx *Lexer) Next() (Token, *lisnerr.Error) {
	lx.src.ClearRecord()
	lx.src.StartRecord()
	lx.sline, lx.scol = lx.src.CurrentLine(), lx.src.CurrentCol()

	kind, err := lx.lexOnce()
	if err != nil {
		lx.src.EndRecord()
		return Token{}, err
	}

	text := lx.src.EndRecord()
	tok := Token{
		Kind:  kind,
		Text:  text,
		SLine: lx.sline,
		SCol:  lx.scol,
		ELine: lx.src.CurrentLine(),
		ECol:  lx.src.CurrentCol(),
	}
	return tok, nil
}

func (lx *Lexer) errHere(code int, msg string) *lisnerr.Error {
	l, c := lx.src.CurrentLine(), lx.src.CurrentCol()
	return lisnerr.NewLex(code, msg, l, c, l, c)
}

func (lx *Lexer) errSpan(code int, msg string, sline, scol int) *lisnerr.Error {
	return lisnerr.NewLex(code, msg, sline, scol, lx.src.CurrentLine(), lx.src.CurrentCol())
}

func (lx *Lexer) badStreamError() *lisnerr.Error {
	return lx.errHere(lisnerr.LexBadStream, "underlying stream read failed")
}

func (lx *Lexer) indentTop() int {
	return lx.indentStack[len(lx.indentStack)-1]
}

func (lx *Lexer) pushIndent(level int) *lisnerr.Error {
	if len(lx.indentStack) >= lx.limits.MaxIndentDepth {
		return lx.errHere(lisnerr.LexIndentStackOverflow, fmt.Sprintf("indentation nested deeper than the configured limit of %d levels", lx.limits.MaxIndentDepth))
	}
	lx.indentStack = append(lx.indentStack, level)
	return nil
}

func (lx *Lexer) popIndent() {
	if len(lx.indentStack) > 1 {
		lx.indentStack = lx.indentStack[:len(lx.indentStack)-1]
	}
}

func (lx *Lexer) flushIndentStack() {
	for len(lx.indentStack) > 1 {
		lx.popIndent()
		lx.unscannedDedents++
	}
}

// lexOnce is the character-level state machine. It is written as a loop
// rather than the reference's self-recursion so that runs of blank or
// comment-only lines can't grow the call stack.
func (lx *Lexer) lexOnce() (Kind, *lisnerr.Error) {
	for {
		if lx.unscannedDedents > 0 {
			lx.unscannedDedents--
			return DEDENT, nil
		}

		if lx.ended {
			return EOF, nil
		}

		if lx.newlinePhase {
			kind, restart, err := lx.scanIndentation()
			if err != nil {
				return 0, err
			}
			if restart {
				continue
			}
			return kind, nil
		}

		return lx.scanToken()
	}
}

// scanIndentation consumes leading whitespace/comments/blank lines at the
// start of a logical line and decides whether an INDENT, a run of DEDENTs,
// or nothing (same level) is called for. restart is true when the caller
// should loop back into lexOnce (equivalent to the reference's tail-call
// back into lex_once after a blank/comment-only line or at EOF).
func (lx *Lexer) scanIndentation() (Kind, bool, *lisnerr.Error) {
	lx.newlinePhase = false

	nextIndent := 0
	var lineChar byte
	lineMixed := false
	for {
		c := lx.src.Peek()
		switch {
		case c == ' ' || c == '\t':
			lx.src.Pop()
			if lineChar == 0 {
				lineChar = byte(c)
			} else if lineChar != byte(c) {
				lineMixed = true
			}
			nextIndent++
		case c == '\n':
			lx.src.Pop()
			nextIndent = 0
			lineChar, lineMixed = 0, false
		case c == '#':
			lx.src.Pop()
			for {
				p := lx.src.Peek()
				if p == '\n' || p == stream.EOF {
					break
				}
				if p == stream.Error {
					return 0, false, lx.badStreamError()
				}
				lx.src.Pop()
			}
		case c == stream.Error:
			return 0, false, lx.badStreamError()
		case c == stream.EOF:
			lx.flushIndentStack()
			lx.ended = true
			lx.src.ClearRecord()
			return 0, true, nil
		default:
			goto dispatch
		}
	}

dispatch:
	if nextIndent > 0 {
		if lineMixed || (lx.indentChar != 0 && lx.indentChar != lineChar) {
			return 0, false, lx.errHere(lisnerr.LexMixedSpacesAndTabs, "indentation mixes spaces and tabs")
		}
		lx.indentChar = lineChar
	}
	top := lx.indentTop()
	switch {
	case nextIndent > top:
		if err := lx.pushIndent(nextIndent); err != nil {
			return 0, false, err
		}
		lx.src.ClearRecord()
		return INDENT, false, nil
	case nextIndent < top:
		for lx.indentTop() > nextIndent {
			lx.popIndent()
			lx.unscannedDedents++
		}
		if lx.indentTop() != nextIndent {
			return 0, false, lx.errHere(lisnerr.LexIndentMismatch, "unindent does not match any outer indentation level")
		}
		lx.src.ClearRecord()
		return 0, true, nil
	default:
		lx.src.ClearRecord()
		return 0, true, nil
	}
}

func isIdentStart(c int) bool {
	return c == '$' || c == '@' || c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentCont(c int) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '!' || c == '?'
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

// scanToken dispatches on the next non-whitespace character of a logical
// line, consuming exactly one token's worth of input.
func (lx *Lexer) scanToken() (Kind, *lisnerr.Error) {
	for {
		c := lx.src.Peek()
		if c == ' ' || c == '\t' {
			lx.src.Pop()
			lx.src.ClearRecord()
			continue
		}
		break
	}

	lx.sline, lx.scol = lx.src.CurrentLine(), lx.src.CurrentCol()
	c := lx.src.Pop()

	switch {
	case c == stream.Error:
		return 0, lx.badStreamError()
	case c == stream.EOF:
		// A logical line's worth of NEWLINE is owed before EOF is allowed to
		// end things; the newline phase will pick up the actual EOF token.
		lx.newlinePhase = true
		return NEWLINE, nil
	case c == '\n':
		if lx.bracketDepth > 0 {
			lx.src.ClearRecord()
			return lx.scanToken()
		}
		lx.newlinePhase = true
		return NEWLINE, nil
	case c == '#':
		for {
			p := lx.src.Peek()
			if p == '\n' || p == stream.EOF {
				break
			}
			if p == stream.Error {
				return 0, lx.badStreamError()
			}
			lx.src.Pop()
		}
		lx.src.ClearRecord()
		return lx.scanToken()
	case c == '\\':
		p := lx.src.Peek()
		if p != '\n' {
			return 0, lx.errHere(lisnerr.LexInvalidAfterBackslash, "expected newline after line-continuation backslash")
		}
		lx.src.Pop()
		lx.src.ClearRecord()
		return lx.scanToken()
	case c == '(':
		lx.bracketDepth++
		return LPAR, nil
	case c == ')':
		if lx.bracketDepth == 0 {
			return 0, lx.errHere(lisnerr.LexBracketMismatch, "unmatched closing parenthesis")
		}
		lx.bracketDepth--
		return RPAR, nil
	case c == '[':
		lx.bracketDepth++
		return LBRKT, nil
	case c == ']':
		if lx.bracketDepth == 0 {
			return 0, lx.errHere(lisnerr.LexBracketMismatch, "unmatched closing bracket")
		}
		lx.bracketDepth--
		return RBRKT, nil
	case c == ',':
		return COMMA, nil
	case c == '.':
		if isDigit(lx.src.Peek()) {
			return lx.scanFloatFromDot()
		}
		return DOT, nil
	case c == '+':
		return PLUS, nil
	case c == '/':
		return SLASH, nil
	case c == '%':
		return PERCENT, nil
	case c == '|':
		if lx.src.Peek() == '|' {
			lx.src.Pop()
			return DPIPE, nil
		}
		return PIPE, nil
	case c == '-':
		return lx.scanMinus()
	case c == ':':
		return lx.scanColon()
	case c == '>':
		return lx.scanGt()
	case c == '<':
		if lx.src.Peek() == '=' {
			lx.src.Pop()
			return LTE, nil
		}
		return LT, nil
	case c == '=':
		if lx.src.Peek() == '=' {
			lx.src.Pop()
			return EQ, nil
		}
		return ASSIGN, nil
	case c == '!':
		if lx.src.Peek() == '=' {
			lx.src.Pop()
			return NEQ, nil
		}
		return BANG, nil
	case c == '*':
		if lx.src.Peek() == '*' {
			lx.src.Pop()
			return DSTAR, nil
		}
		return STAR, nil
	case c == '&':
		if lx.src.Peek() == '&' {
			lx.src.Pop()
			return DAMP, nil
		}
		return AMP, nil
	case c == '\'' || c == '"':
		return lx.scanString(byte(c))
	case isDigit(c):
		return lx.scanNumber(byte(c))
	case isIdentStart(c):
		return lx.scanIdent()
	default:
		return 0, lx.errHere(lisnerr.LexInvalidCharacter, fmt.Sprintf("unexpected character '%s'", lisnerr.FormatByte(byte(c))))
	}
}

// newlineTokenHackFollows implements the NEWLINE_TOKEN_HACK: once one of
// `:`, `>`, `--` has been read, the lexer looks past any trailing spaces/
// tabs and an optional end-of-line comment to decide whether nothing but
// whitespace/comment stands between here and the end of the logical line.
// A true result means the logical line's newline (or EOF) has already been
// consumed and newlinePhase is set; a false result leaves the stream
// exactly where the first non-whitespace, non-comment byte was peeked, with
// any purely-whitespace bytes already popped (harmless, since scanToken
// would have skipped them anyway).
func (lx *Lexer) newlineTokenHackFollows() (bool, *lisnerr.Error) {
	for {
		switch c := lx.src.Peek(); {
		case c == ' ' || c == '\t':
			lx.src.Pop()
		case c == '#':
			lx.src.Pop()
			for {
				p := lx.src.Peek()
				if p == '\n' || p == stream.EOF {
					break
				}
				if p == stream.Error {
					return false, lx.badStreamError()
				}
				lx.src.Pop()
			}
		case c == '\n':
			lx.src.Pop()
			lx.newlinePhase = true
			return true, nil
		case c == stream.EOF:
			lx.newlinePhase = true
			return true, nil
		case c == stream.Error:
			return false, lx.badStreamError()
		default:
			return false, nil
		}
	}
}

// scanMinus handles "-", "->" and the end-of-line "--" variant. A bare
// "--" not followed (modulo whitespace/comment) by end-of-line is always
// an error: unlike ":" and ">", DMINUS has no standalone token kind.
func (lx *Lexer) scanMinus() (Kind, *lisnerr.Error) {
	switch lx.src.Peek() {
	case '>':
		lx.src.Pop()
		return ARROW, nil
	case '-':
		lx.src.Pop()
		if lx.bracketDepth == 0 {
			ok, err := lx.newlineTokenHackFollows()
			if err != nil {
				return 0, err
			}
			if ok {
				return DMINUS_NEWLINE, nil
			}
		}
		return 0, lx.errHere(lisnerr.LexInvalidCharacter, "'--' must be followed by a newline")
	default:
		return MINUS, nil
	}
}

// scanColon handles ":", ":=" and the end-of-line ":" variant.
func (lx *Lexer) scanColon() (Kind, *lisnerr.Error) {
	if lx.src.Peek() == '=' {
		lx.src.Pop()
		return DEFASSIGN, nil
	}
	if lx.bracketDepth == 0 {
		ok, err := lx.newlineTokenHackFollows()
		if err != nil {
			return 0, err
		}
		if ok {
			return COLUMN_NEWLINE, nil
		}
	}
	return COLUMN, nil
}

// scanGt handles ">", ">=" and the end-of-line ">" variant.
func (lx *Lexer) scanGt() (Kind, *lisnerr.Error) {
	if lx.src.Peek() == '=' {
		lx.src.Pop()
		return GTE, nil
	}
	if lx.bracketDepth == 0 {
		ok, err := lx.newlineTokenHackFollows()
		if err != nil {
			return 0, err
		}
		if ok {
			return GT_NEWLINE, nil
		}
	}
	return GT, nil
}

func (lx *Lexer) scanIdent() (Kind, *lisnerr.Error) {
	for isIdentCont(lx.src.Peek()) {
		lx.src.Pop()
	}
	return NAME, nil
}

// scanNumber handles "[0-9]+" and "[0-9]+\".\"[0-9]*"; no exponent form.
func (lx *Lexer) scanNumber(first byte) (Kind, *lisnerr.Error) {
	isFloat := false
	for isDigit(lx.src.Peek()) {
		lx.src.Pop()
	}
	if lx.src.Peek() == '.' {
		// A '.' right after the digits always makes this a FLOAT, with or
		// without fractional digits after it: "3." is FLOAT("3."), and
		// "3.attr" lexes as FLOAT("3.") NAME("attr"). Only "3 .attr", with
		// a space, gives INTEGER DOT NAME.
		lx.src.Pop()
		isFloat = true
		for isDigit(lx.src.Peek()) {
			lx.src.Pop()
		}
	}
	if isFloat {
		return FLOAT, nil
	}
	return INTEGER, nil
}

// scanFloatFromDot handles a float literal that starts with '.', the '.'
// already consumed. The grammar has no exponent form, so "1e5" lexes as
// INTEGER("1") followed by NAME("e5"), not a single FLOAT.
func (lx *Lexer) scanFloatFromDot() (Kind, *lisnerr.Error) {
	for isDigit(lx.src.Peek()) {
		lx.src.Pop()
	}
	return FLOAT, nil
}

// scanString consumes a quoted string literal, decoding escapes in place
// via Stream.ReplaceRecord so the token's recorded text is the decoded
// value rather than the raw escape sequence. A literal newline is an
// ordinary string byte, not a terminator: string literals may span lines.
func (lx *Lexer) scanString(quote byte) (Kind, *lisnerr.Error) {
	sline, scol := lx.sline, lx.scol
	lx.src.ReplaceRecord(1, "") // drop the opening quote from the token text
	for {
		c := lx.src.Peek()
		switch c {
		case stream.EOF:
			return 0, lx.errSpan(lisnerr.LexEOFInString, "unterminated string literal", sline, scol)
		case stream.Error:
			return 0, lx.badStreamError()
		case int(quote):
			lx.src.Pop()
			lx.src.ReplaceRecord(1, "") // and the closing one
			return STRING, nil
		case '\\':
			lx.src.Pop()
			if err := lx.scanEscape(); err != nil {
				return 0, err
			}
		default:
			lx.src.Pop()
		}
	}
}

// scanEscape decodes one backslash escape sequence. The backslash itself
// has already been popped. It replaces the recorded raw escape text with
// the decoded byte(s).
func (lx *Lexer) scanEscape() *lisnerr.Error {
	c := lx.src.Pop()
	switch c {
	case stream.EOF, stream.Error:
		return lx.errHere(lisnerr.LexEOFInString, "unterminated escape sequence in string literal")
	case '\\':
		lx.src.ReplaceRecord(2, "\\")
	case '\'':
		lx.src.ReplaceRecord(2, "'")
	case '"':
		lx.src.ReplaceRecord(2, "\"")
	case 'a':
		lx.src.ReplaceRecord(2, "\a")
	case 'b':
		lx.src.ReplaceRecord(2, "\b")
	case 'f':
		lx.src.ReplaceRecord(2, "\f")
	case 'n':
		lx.src.ReplaceRecord(2, "\n")
	case 'r':
		lx.src.ReplaceRecord(2, "\r")
	case 't':
		lx.src.ReplaceRecord(2, "\t")
	case 'v':
		lx.src.ReplaceRecord(2, "\v")
	case 'x':
		return lx.scanHexEscape()
	case '0', '1', '2', '3', '4', '5', '6', '7':
		return lx.scanOctalEscape(byte(c))
	default:
		return lx.errHere(lisnerr.LexInvalidAfterBackslash, fmt.Sprintf("invalid escape sequence '\\%s'", lisnerr.FormatByte(byte(c))))
	}
	return nil
}

func isHexDigit(c int) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanHexEscape decodes \xHH. Exactly two hex digits are required.
func (lx *Lexer) scanHexEscape() *lisnerr.Error {
	var digits [2]byte
	for i := 0; i < 2; i++ {
		c := lx.src.Peek()
		if !isHexDigit(c) {
			return lx.errHere(lisnerr.LexInvalidHexEscape, "\\x escape requires exactly two hex digits")
		}
		lx.src.Pop()
		digits[i] = byte(c)
	}
	v, err := strconv.ParseUint(string(digits[:]), 16, 8)
	if err != nil {
		return lx.errHere(lisnerr.LexInvalidHexEscape, "invalid \\x escape")
	}
	lx.src.ReplaceRecord(4, string(rune(v)))
	return nil
}

// scanOctalEscape decodes \ooo: the first octal digit was already popped
// (passed as first), up to two more are consumed if present.
func (lx *Lexer) scanOctalEscape(first byte) *lisnerr.Error {
	digits := []byte{first}
	for i := 0; i < 2; i++ {
		c := lx.src.Peek()
		if c < '0' || c > '7' {
			break
		}
		lx.src.Pop()
		digits = append(digits, byte(c))
	}
	v, err := strconv.ParseUint(string(digits), 8, 32)
	if err != nil || v > 255 {
		return lx.errHere(lisnerr.LexInvalidHexEscape, "invalid octal escape")
	}
	lx.src.ReplaceRecord(1+len(digits), string(rune(v)))
	return nil
}

// Unescape decodes the single-character backslash escapes (\\ \' \" \a \b
// \f \n \r \t \v) in raw outside of a live lex pass. \x and octal escapes
// are not decoded: for any other escaped character the backslash is
// dropped and the character kept as is. Nothing in this module calls it;
// the lexer decodes escapes inline during scanString.
func Unescape(raw string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] != '\\' || i+1 >= len(raw) {
			b.WriteByte(raw[i])
			i++
			continue
		}
		switch raw[i+1] {
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		default:
			b.WriteByte(raw[i+1])
		}
		i += 2
	}
	return b.String(), nil
}
