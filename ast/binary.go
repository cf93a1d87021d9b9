package ast

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/dekarrin/rezi"
)

// Binary snapshot format for an AST: every node type implements
// encoding.BinaryMarshaler/BinaryUnmarshaler by hand (no reflection), the
// same length-prefixed field-at-a-time shape the teacher's token binary
// format uses. Encode/Decode wrap the whole tree in a single root document
// and hand it to rezi for outer framing.

func encInt(i int) []byte {
	enc := make([]byte, 0, 8)
	return binary.AppendVarint(enc, int64(i))
}

func decInt(data []byte) (int, int, error) {
	val, read := binary.Varint(data)
	if read == 0 {
		return 0, 0, fmt.Errorf("ast: buffer too small to hold an int")
	} else if read < 0 {
		return 0, 0, fmt.Errorf("ast: varint overflowed 64 bits")
	}
	return int(val), read, nil
}

func encString(s string) []byte {
	runeCount := utf8.RuneCountInString(s)
	enc := encInt(runeCount)
	enc = append(enc, []byte(s)...)
	return enc
}

func decString(data []byte) (string, int, error) {
	runeCount, n, err := decInt(data)
	if err != nil {
		return "", 0, fmt.Errorf("ast: decoding string rune count: %w", err)
	}
	data = data[n:]
	read := n

	var buf []byte
	for i := 0; i < runeCount; i++ {
		r, sz := utf8.DecodeRune(data)
		if r == utf8.RuneError && sz <= 1 {
			return "", 0, fmt.Errorf("ast: invalid UTF-8 in encoded string")
		}
		buf = append(buf, data[:sz]...)
		data = data[sz:]
		read += sz
	}
	return string(buf), read, nil
}

func encBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("ast: buffer too small to hold a bool")
	}
	return data[0] != 0, 1, nil
}

func encLoc(l Location) []byte {
	var enc []byte
	enc = append(enc, encInt(l.SLine)...)
	enc = append(enc, encInt(l.SCol)...)
	enc = append(enc, encInt(l.ELine)...)
	enc = append(enc, encInt(l.ECol)...)
	return enc
}

func decLoc(data []byte) (Location, int, error) {
	var l Location
	total := 0
	for _, field := range []*int{&l.SLine, &l.SCol, &l.ELine, &l.ECol} {
		v, n, err := decInt(data)
		if err != nil {
			return Location{}, 0, err
		}
		*field = v
		data = data[n:]
		total += n
	}
	return l, total, nil
}

// encChild frames a possibly-nil node as a present-flag byte followed by
// its tagged encoding.
func encChild(n Node) []byte {
	if n == nil {
		return []byte{0}
	}
	marshaler, ok := n.(encoding.BinaryMarshaler)
	if !ok {
		panic(fmt.Sprintf("ast: %s node cannot be binary-encoded (intermediate node in final tree)", n.Kind()))
	}
	enc, _ := marshaler.MarshalBinary()
	out := []byte{1}
	out = append(out, encInt(len(enc))...)
	return append(out, enc...)
}

func decChild(data []byte) (Node, int, error) {
	if len(data) < 1 {
		return nil, 0, fmt.Errorf("ast: buffer too small to hold a child presence flag")
	}
	present := data[0] != 0
	read := 1
	if !present {
		return nil, read, nil
	}
	data = data[1:]
	size, n, err := decInt(data)
	if err != nil {
		return nil, 0, err
	}
	data = data[n:]
	read += n

	if len(data) < size {
		return nil, 0, fmt.Errorf("ast: truncated child node encoding")
	}
	child, _, err := decNodeTagged(data[:size])
	if err != nil {
		return nil, 0, err
	}
	return child, read + size, nil
}

// nodeTag is the discriminant written ahead of each node's own fields so
// Decode can dispatch on it.
type nodeTag byte

const (
	tagName nodeTag = iota
	tagLiteral
	tagBinOp
	tagUnOp
	tagTrailer
	tagAssign
	tagSuite
	tagXExpr
)

func decNodeTagged(data []byte) (Node, int, error) {
	if len(data) < 1 {
		return nil, 0, fmt.Errorf("ast: buffer too small to hold a node tag")
	}
	tag := nodeTag(data[0])
	body := data[1:]

	var n Node
	var err error
	switch tag {
	case tagName:
		n = &NameNode{}
		err = n.(*NameNode).UnmarshalBinary(body)
	case tagLiteral:
		n = &LiteralNode{}
		err = n.(*LiteralNode).UnmarshalBinary(body)
	case tagBinOp:
		n = &BinOpNode{}
		err = n.(*BinOpNode).UnmarshalBinary(body)
	case tagUnOp:
		n = &UnOpNode{}
		err = n.(*UnOpNode).UnmarshalBinary(body)
	case tagTrailer:
		n = &TrailerNode{}
		err = n.(*TrailerNode).UnmarshalBinary(body)
	case tagAssign:
		n = &AssignNode{}
		err = n.(*AssignNode).UnmarshalBinary(body)
	case tagSuite:
		n = &SuiteNode{}
		err = n.(*SuiteNode).UnmarshalBinary(body)
	case tagXExpr:
		n = &XExprNode{}
		err = n.(*XExprNode).UnmarshalBinary(body)
	default:
		return nil, 0, fmt.Errorf("ast: unknown node tag %d", tag)
	}
	if err != nil {
		return nil, 0, err
	}
	return n, len(data), nil
}

var (
	_ encoding.BinaryMarshaler   = (*NameNode)(nil)
	_ encoding.BinaryUnmarshaler = (*NameNode)(nil)
)

func (n *NameNode) MarshalBinary() ([]byte, error) {
	enc := []byte{byte(tagName)}
	enc = append(enc, encLoc(n.loc)...)
	enc = append(enc, encString(n.Text)...)
	return enc, nil
}

func (n *NameNode) UnmarshalBinary(data []byte) error {
	loc, read, err := decLoc(data)
	if err != nil {
		return err
	}
	data = data[read:]
	text, _, err := decString(data)
	if err != nil {
		return err
	}
	n.loc, n.Text = loc, text
	return nil
}

func (n *LiteralNode) MarshalBinary() ([]byte, error) {
	enc := []byte{byte(tagLiteral)}
	enc = append(enc, encLoc(n.loc)...)
	enc = append(enc, encInt(int(n.LitKind))...)
	enc = append(enc, encString(n.Text)...)
	return enc, nil
}

func (n *LiteralNode) UnmarshalBinary(data []byte) error {
	loc, read, err := decLoc(data)
	if err != nil {
		return err
	}
	data = data[read:]
	kind, read2, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[read2:]
	text, _, err := decString(data)
	if err != nil {
		return err
	}
	n.loc, n.LitKind, n.Text = loc, LiteralKind(kind), text
	return nil
}

func (n *BinOpNode) MarshalBinary() ([]byte, error) {
	enc := []byte{byte(tagBinOp)}
	enc = append(enc, encLoc(n.loc)...)
	enc = append(enc, encString(n.Op)...)
	enc = append(enc, encChild(n.LHS)...)
	enc = append(enc, encChild(n.RHS)...)
	return enc, nil
}

func (n *BinOpNode) UnmarshalBinary(data []byte) error {
	loc, read, err := decLoc(data)
	if err != nil {
		return err
	}
	data = data[read:]
	op, read2, err := decString(data)
	if err != nil {
		return err
	}
	data = data[read2:]
	lhs, read3, err := decChild(data)
	if err != nil {
		return err
	}
	data = data[read3:]
	rhs, _, err := decChild(data)
	if err != nil {
		return err
	}
	n.loc, n.Op, n.LHS, n.RHS = loc, op, lhs, rhs
	return nil
}

func (n *UnOpNode) MarshalBinary() ([]byte, error) {
	enc := []byte{byte(tagUnOp)}
	enc = append(enc, encLoc(n.loc)...)
	enc = append(enc, encString(n.Op)...)
	enc = append(enc, encChild(n.Operand)...)
	return enc, nil
}

func (n *UnOpNode) UnmarshalBinary(data []byte) error {
	loc, read, err := decLoc(data)
	if err != nil {
		return err
	}
	data = data[read:]
	op, read2, err := decString(data)
	if err != nil {
		return err
	}
	data = data[read2:]
	operand, _, err := decChild(data)
	if err != nil {
		return err
	}
	n.loc, n.Op, n.Operand = loc, op, operand
	return nil
}

func (n *TrailerNode) MarshalBinary() ([]byte, error) {
	enc := []byte{byte(tagTrailer)}
	enc = append(enc, encLoc(n.loc)...)
	enc = append(enc, encInt(int(n.TKind))...)
	enc = append(enc, encChild(n.Scope)...)
	enc = append(enc, encString(n.Attr)...)
	enc = append(enc, encChild(n.Index)...)
	enc = append(enc, encChild(n.SliceLeft)...)
	enc = append(enc, encChild(n.SliceRight)...)
	return enc, nil
}

func (n *TrailerNode) UnmarshalBinary(data []byte) error {
	loc, read, err := decLoc(data)
	if err != nil {
		return err
	}
	data = data[read:]
	kind, read2, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[read2:]
	scope, read3, err := decChild(data)
	if err != nil {
		return err
	}
	data = data[read3:]
	attr, read4, err := decString(data)
	if err != nil {
		return err
	}
	data = data[read4:]
	index, read5, err := decChild(data)
	if err != nil {
		return err
	}
	data = data[read5:]
	sl, read6, err := decChild(data)
	if err != nil {
		return err
	}
	data = data[read6:]
	sr, _, err := decChild(data)
	if err != nil {
		return err
	}
	n.loc, n.TKind, n.Scope, n.Attr, n.Index, n.SliceLeft, n.SliceRight = loc, TrailerKind(kind), scope, attr, index, sl, sr
	return nil
}

func (n *AssignNode) MarshalBinary() ([]byte, error) {
	enc := []byte{byte(tagAssign)}
	enc = append(enc, encLoc(n.loc)...)
	enc = append(enc, encInt(int(n.Op))...)
	enc = append(enc, encInt(int(n.LvalKind))...)
	enc = append(enc, encString(n.Name)...)
	enc = append(enc, encChild(n.Scope)...)
	enc = append(enc, encString(n.Attr)...)
	enc = append(enc, encChild(n.Index)...)
	enc = append(enc, encChild(n.RHS)...)
	return enc, nil
}

func (n *AssignNode) UnmarshalBinary(data []byte) error {
	loc, read, err := decLoc(data)
	if err != nil {
		return err
	}
	data = data[read:]
	op, r, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[r:]
	lk, r2, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[r2:]
	name, r3, err := decString(data)
	if err != nil {
		return err
	}
	data = data[r3:]
	scope, r4, err := decChild(data)
	if err != nil {
		return err
	}
	data = data[r4:]
	attr, r5, err := decString(data)
	if err != nil {
		return err
	}
	data = data[r5:]
	index, r6, err := decChild(data)
	if err != nil {
		return err
	}
	data = data[r6:]
	rhs, _, err := decChild(data)
	if err != nil {
		return err
	}
	n.loc, n.Op, n.LvalKind, n.Name, n.Scope, n.Attr, n.Index, n.RHS = loc, AssignOp(op), LvalueKind(lk), name, scope, attr, index, rhs
	return nil
}

func (n *SuiteNode) MarshalBinary() ([]byte, error) {
	enc := []byte{byte(tagSuite)}
	enc = append(enc, encLoc(n.loc)...)
	enc = append(enc, encBool(n.IsArrow)...)
	enc = append(enc, encString(n.ArrowLabel)...)
	enc = append(enc, encChild(n.Expr)...)
	if n.Next == nil {
		enc = append(enc, 0)
	} else {
		enc = append(enc, 1)
		nextEnc, _ := n.Next.MarshalBinary()
		enc = append(enc, encInt(len(nextEnc))...)
		enc = append(enc, nextEnc...)
	}
	return enc, nil
}

func (n *SuiteNode) UnmarshalBinary(data []byte) error {
	loc, read, err := decLoc(data)
	if err != nil {
		return err
	}
	data = data[read:]
	isArrow, r, err := decBool(data)
	if err != nil {
		return err
	}
	data = data[r:]
	label, r2, err := decString(data)
	if err != nil {
		return err
	}
	data = data[r2:]
	expr, r3, err := decChild(data)
	if err != nil {
		return err
	}
	data = data[r3:]

	n.loc, n.IsArrow, n.ArrowLabel, n.Expr = loc, isArrow, label, expr

	if len(data) < 1 {
		return fmt.Errorf("ast: truncated suite next-presence flag")
	}
	hasNext := data[0] != 0
	data = data[1:]
	if !hasNext {
		n.Next = nil
		return nil
	}
	size, r4, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[r4:]
	if len(data) < size {
		return fmt.Errorf("ast: truncated suite tail encoding")
	}
	next, _, err := decNodeTagged(data[:size])
	if err != nil {
		return err
	}
	suiteNext, ok := next.(*SuiteNode)
	if !ok {
		return fmt.Errorf("ast: suite tail decoded as non-Suite node")
	}
	n.Next = suiteNext
	return nil
}

func encArguments(a Arguments) []byte {
	var enc []byte
	enc = append(enc, encLoc(a.Loc)...)
	enc = append(enc, encInt(len(a.Positional))...)
	for _, p := range a.Positional {
		enc = append(enc, encChild(p)...)
	}
	enc = append(enc, encInt(len(a.Keyword))...)
	for _, kw := range a.Keyword {
		enc = append(enc, encString(kw.Name)...)
		enc = append(enc, encChild(kw.Value)...)
	}
	enc = append(enc, encBool(a.HasStar)...)
	enc = append(enc, encChild(a.Star)...)
	enc = append(enc, encBool(a.HasDStar)...)
	enc = append(enc, encChild(a.DStar)...)
	enc = append(enc, encBool(a.HasAmp)...)
	enc = append(enc, encChild(a.Amp)...)
	enc = append(enc, encBool(a.HasDAmp)...)
	enc = append(enc, encChild(a.DAmp)...)
	return enc
}

func decArguments(data []byte) (Arguments, int, error) {
	var a Arguments
	total := 0

	loc, r, err := decLoc(data)
	if err != nil {
		return a, 0, err
	}
	a.Loc = loc
	data, total = data[r:], total+r

	posCount, r, err := decInt(data)
	if err != nil {
		return a, 0, err
	}
	data, total = data[r:], total+r
	for i := 0; i < posCount; i++ {
		p, r, err := decChild(data)
		if err != nil {
			return a, 0, err
		}
		a.Positional = append(a.Positional, p)
		data, total = data[r:], total+r
	}

	kwCount, r, err := decInt(data)
	if err != nil {
		return a, 0, err
	}
	data, total = data[r:], total+r
	for i := 0; i < kwCount; i++ {
		name, r, err := decString(data)
		if err != nil {
			return a, 0, err
		}
		data, total = data[r:], total+r
		val, r, err := decChild(data)
		if err != nil {
			return a, 0, err
		}
		data, total = data[r:], total+r
		a.Keyword = append(a.Keyword, KeywordArg{Name: name, Value: val})
	}

	for _, pair := range []struct {
		has *bool
		val *Node
	}{
		{&a.HasStar, &a.Star},
		{&a.HasDStar, &a.DStar},
		{&a.HasAmp, &a.Amp},
		{&a.HasDAmp, &a.DAmp},
	} {
		has, r, err := decBool(data)
		if err != nil {
			return a, 0, err
		}
		data, total = data[r:], total+r
		val, r, err := decChild(data)
		if err != nil {
			return a, 0, err
		}
		data, total = data[r:], total+r
		*pair.has, *pair.val = has, val
	}

	return a, total, nil
}

func (n *XExprNode) MarshalBinary() ([]byte, error) {
	enc := []byte{byte(tagXExpr)}
	enc = append(enc, encLoc(n.loc)...)
	enc = append(enc, encBool(n.HasHeadLabel)...)
	enc = append(enc, encString(n.HeadLabel)...)
	enc = append(enc, encChild(n.HeadExpr)...)
	enc = append(enc, encArguments(n.Args)...)
	if n.VertSuite == nil {
		enc = append(enc, 0)
	} else {
		enc = append(enc, 1)
		sEnc, _ := n.VertSuite.MarshalBinary()
		enc = append(enc, encInt(len(sEnc))...)
		enc = append(enc, sEnc...)
	}
	return enc, nil
}

func (n *XExprNode) UnmarshalBinary(data []byte) error {
	loc, read, err := decLoc(data)
	if err != nil {
		return err
	}
	data = data[read:]
	hasLabel, r, err := decBool(data)
	if err != nil {
		return err
	}
	data = data[r:]
	label, r2, err := decString(data)
	if err != nil {
		return err
	}
	data = data[r2:]
	head, r3, err := decChild(data)
	if err != nil {
		return err
	}
	data = data[r3:]
	args, r4, err := decArguments(data)
	if err != nil {
		return err
	}
	data = data[r4:]

	n.loc, n.HasHeadLabel, n.HeadLabel, n.HeadExpr, n.Args = loc, hasLabel, label, head, args

	if len(data) < 1 {
		return fmt.Errorf("ast: truncated xexpr vert-suite presence flag")
	}
	hasSuite := data[0] != 0
	data = data[1:]
	if !hasSuite {
		n.VertSuite = nil
		return nil
	}
	size, r5, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[r5:]
	if len(data) < size {
		return fmt.Errorf("ast: truncated xexpr vert-suite encoding")
	}
	suiteNode, _, err := decNodeTagged(data[:size])
	if err != nil {
		return err
	}
	suite, ok := suiteNode.(*SuiteNode)
	if !ok {
		return fmt.Errorf("ast: xexpr vert-suite decoded as non-Suite node")
	}
	n.VertSuite = suite
	return nil
}

// doc is the root wrapper Encode/Decode hand to rezi, since rezi's
// BinaryMarshaler/BinaryUnmarshaler framing expects a single value rather
// than the bare, self-describing Node interface.
type doc struct {
	Root Node
}

func (d *doc) MarshalBinary() ([]byte, error) {
	return encChild(d.Root), nil
}

func (d *doc) UnmarshalBinary(data []byte) error {
	n, _, err := decChild(data)
	if err != nil {
		return err
	}
	d.Root = n
	return nil
}

// Encode renders root to the binary snapshot format.
func Encode(root Node) []byte {
	d := &doc{Root: root}
	return rezi.EncBinary(d)
}

// Decode parses the binary snapshot format back into a Node tree.
func Decode(data []byte) (Node, error) {
	d := &doc{}
	n, err := rezi.DecBinary(data, d)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("ast: decoded byte count mismatch; consumed %d/%d bytes", n, len(data))
	}
	return d.Root, nil
}
