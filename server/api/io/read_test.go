package io

import (
	stdio "io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syohex/gnu-apl-mode/server/tests"
)

func TestReadLine(t *testing.T) {
	for _, test := range []struct {
		input string
		lines []string
	}{
		{"si\n", []string{"si"}},
		{"si\r\n", []string{"si"}},
		{"fn:FOO\nsic\r\n", []string{"fn:FOO", "sic"}},
		{"\n\r\n", []string{"", ""}},
		{"a\rb\n", []string{"a\rb"}},
		{"a\r\r\n", []string{"a\r"}},
		{"Z←A FOO B\r\n", []string{"Z←A FOO B"}},
	} {
		for _, chunk := range []int{1, 2, 7, 1024} {
			lr := NewLineReader(tests.NewChunkReader(test.input, chunk), 0)
			for _, expected := range test.lines {
				line, err := lr.ReadLine()
				require.NoError(t, err, "input %q chunk %d", test.input, chunk)
				assert.Equal(t, expected, line, "input %q chunk %d", test.input, chunk)
			}
			_, err := lr.ReadLine()
			assert.Equal(t, ErrDisconnected, errors.Cause(err))
		}
	}
}

func TestReadLineRoundTrip(t *testing.T) {
	texts := []string{"", "a", "fn:FOO", "∇Z←FOO", strings.Repeat("x", 5000), "APL_NATIVE_END_TAG"}
	var b strings.Builder
	for i, text := range texts {
		b.WriteString(text)
		if i%2 == 0 {
			b.WriteString("\r\n")
		} else {
			b.WriteString("\n")
		}
	}
	lr := NewLineReader(tests.NewChunkReader(b.String(), 13), 0)
	for _, text := range texts {
		line, err := lr.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, text, line)
	}
}

func TestReadLinePartialLineIsDisconnect(t *testing.T) {
	lr := NewLineReader(strings.NewReader("fn:FO"), 0)
	_, err := lr.ReadLine()
	assert.True(t, IsFatal(err))
	assert.True(t, Graceful(err))
	assert.Equal(t, "read: disconnected", err.Error())
}

func TestReadLineTooLong(t *testing.T) {
	lr := NewLineReader(strings.NewReader("12345\n123456\n"), 5)
	line, err := lr.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "12345", line)

	_, err = lr.ReadLine()
	assert.Equal(t, ErrLineTooLong, errors.Cause(err))
	assert.False(t, Graceful(err))
}

func TestReadLineTooLongWithoutTerminator(t *testing.T) {
	lr := NewLineReader(tests.NewChunkReader(strings.Repeat("x", 10000), 100), 4096)
	_, err := lr.ReadLine()
	assert.Equal(t, ErrLineTooLong, errors.Cause(err))
}

func TestReadLineCRLFAtLimit(t *testing.T) {
	lr := NewLineReader(strings.NewReader("12345\r\n"), 5)
	line, err := lr.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "12345", line)
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestReadLineIOError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	_, err := NewLineReader(errReader{cause}, 0).ReadLine()
	assert.True(t, IsFatal(err))
	assert.False(t, Graceful(err))
	assert.Equal(t, cause, errors.Cause(err))
}

func TestReadLineIdleTimeout(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	lr := NewLineReader(server, 0)
	lr.SetIdleTimeout(50 * time.Millisecond)
	_, err := lr.ReadLine()
	assert.Equal(t, ErrIdle, errors.Cause(err))
}

func TestReadBlock(t *testing.T) {
	input := "∇Z←A FOO B\r\nZ←A+B\n∇\nEND\nsi\n"
	lr := NewLineReader(tests.NewChunkReader(input, 3), 0)
	block, err := lr.ReadBlock("END")
	assert.NoError(t, err)
	assert.Equal(t, []string{"∇Z←A FOO B", "Z←A+B", "∇"}, block)

	// the line after the sentinel belongs to the next command
	line, err := lr.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "si", line)
}

func TestReadBlockEmpty(t *testing.T) {
	block, err := NewLineReader(strings.NewReader("END\n"), 0).ReadBlock("END")
	assert.NoError(t, err)
	assert.Equal(t, []string{}, block)
}

func TestReadBlockSentinelMustMatchExactly(t *testing.T) {
	block, err := NewLineReader(strings.NewReader(" END\nEND \nEND\n"), 0).ReadBlock("END")
	assert.NoError(t, err)
	assert.Equal(t, []string{" END", "END "}, block)
}

func TestReadBlockAborted(t *testing.T) {
	block, err := NewLineReader(strings.NewReader("a\nb\n"), 0).ReadBlock("END")
	assert.Nil(t, block)
	assert.Equal(t, ErrDisconnected, errors.Cause(err))
	assert.NotEqual(t, stdio.EOF, err)
}

func TestReadBlockTooLarge(t *testing.T) {
	lr := NewLineReader(strings.NewReader("abcd\nabcd\nEND\n"), 4)
	lr.SetMaxBlockSize(10)
	block, err := lr.ReadBlock("END")
	assert.NoError(t, err)
	assert.Equal(t, []string{"abcd", "abcd"}, block)

	lr = NewLineReader(strings.NewReader("abcd\nabcd\na\nEND\n"), 4)
	lr.SetMaxBlockSize(10)
	block, err = lr.ReadBlock("END")
	assert.Nil(t, block)
	assert.True(t, IsFatal(err))
	assert.Equal(t, ErrBlockTooLarge, errors.Cause(err))
}

func TestReadBlockDefaultBound(t *testing.T) {
	// a client that never sends the sentinel
	input := strings.Repeat("x\n", blockLines+1)
	block, err := NewLineReader(strings.NewReader(input), 1).ReadBlock("END")
	assert.Nil(t, block)
	assert.Equal(t, ErrBlockTooLarge, errors.Cause(err))
}
