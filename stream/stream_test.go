package stream

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PeekPop_basic(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes([]byte("ab"))

	assert.Equal(int('a'), s.Peek())
	assert.Equal(int('a'), s.Peek()) // peek does not consume
	assert.Equal(int('a'), s.Pop())
	assert.Equal(int('b'), s.Pop())
	assert.Equal(EOF, s.Peek())
	assert.Equal(EOF, s.Pop())
	assert.True(s.EOF())
}

func Test_Pop_lineColumnTracking(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes([]byte("ab\ncd"))

	assert.Equal(1, s.CurrentLine())
	assert.Equal(1, s.CurrentCol())

	s.Pop() // a
	assert.Equal(1, s.CurrentLine())
	assert.Equal(2, s.CurrentCol())

	s.Pop() // b
	assert.Equal(1, s.CurrentLine())
	assert.Equal(3, s.CurrentCol())

	s.Pop() // \n
	assert.Equal(2, s.CurrentLine())
	assert.Equal(1, s.CurrentCol())

	s.Pop() // c
	assert.Equal(2, s.CurrentLine())
	assert.Equal(2, s.CurrentCol())
}

func Test_EmptyStream(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes(nil)
	assert.True(s.EOF())
	assert.Equal(EOF, s.Peek())
	assert.Equal(EOF, s.Pop())
}

func Test_Record_capturesPoppedBytes(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes([]byte("hello world"))

	s.Pop() // 'h', not recorded
	s.StartRecord()
	s.Pop() // e
	s.Pop() // l
	s.Pop() // l
	s.Pop() // o
	assert.Equal("ello", s.EndRecord())

	// recording stopped; further pops are not captured by a stale buffer
	s.Pop() // space
	s.StartRecord()
	s.Pop() // w
	assert.Equal("w", s.EndRecord())
}

func Test_Record_startRecordDiscardsPriorBuffer(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes([]byte("abcdef"))

	s.StartRecord()
	s.Pop() // a
	s.Pop() // b
	s.StartRecord() // discards "ab"
	s.Pop()         // c
	assert.Equal("c", s.EndRecord())
}

func Test_ClearRecord(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes([]byte("abc"))

	s.StartRecord()
	s.Pop() // a
	s.Pop() // b
	s.ClearRecord()
	s.Pop() // c
	assert.Equal("c", s.EndRecord())
}

func Test_ClearRecord_noopWhenNotRecording(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes([]byte("abc"))
	s.ClearRecord() // must not panic with no active recording
	s.Pop()
	assert.Equal("", s.EndRecord())
}

func Test_ReplaceRecord_foldsDecodedEscape(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes([]byte(`\n` + "x"))

	s.StartRecord()
	s.Pop() // backslash
	s.Pop() // n
	s.ReplaceRecord(2, "\n")
	s.Pop() // x
	assert.Equal("\nx", s.EndRecord())
}

func Test_ReplaceRecord_noopWhenNotRecording(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes([]byte("abc"))
	s.ReplaceRecord(1, "z") // must not panic
	s.Pop()
	assert.Equal("", s.EndRecord())
}

func Test_ReplaceRecord_popCountClampsToBufferLength(t *testing.T) {
	assert := assert.New(t)
	s := NewFromBytes([]byte("a"))

	s.StartRecord()
	s.Pop() // a
	s.ReplaceRecord(100, "Z")
	assert.Equal("Z", s.EndRecord())
}

type erroringReader struct{}

func (erroringReader) Read(p []byte) (int, error) {
	return 0, errors.New("boom")
}

func Test_LastError_surfacesUnderlyingReadError(t *testing.T) {
	assert := assert.New(t)
	s := New(erroringReader{})

	assert.Equal(Error, s.Peek())
	assert.NotNil(s.LastError())
	assert.NotEqual(io.EOF, s.LastError())
}

func Test_New_wrapsReaderSequentially(t *testing.T) {
	assert := assert.New(t)
	r, w := io.Pipe()
	go func() {
		w.Write([]byte("hi"))
		w.Close()
	}()

	s := New(r)
	assert.Equal(int('h'), s.Pop())
	assert.Equal(int('i'), s.Pop())
	assert.Equal(EOF, s.Pop())
}
