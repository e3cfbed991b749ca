package io

import (
	"bufio"
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
)

// DefaultMaxLineLength bounds a single line, terminator excluded.
const DefaultMaxLineLength = 1 << 20

// blockLines is how many maximum length lines fit in a block by default.
const blockLines = 64

type deadliner interface {
	SetReadDeadline(time.Time) error
}

// LineReader decodes a byte stream into lines terminated by "\n" or "\r\n".
// It is not safe for concurrent use, a connection owns exactly one.
type LineReader struct {
	src      io.Reader
	buf      *bufio.Reader
	max      int
	maxBlock int
	idle     time.Duration
}

// NewLineReader returns a reader that fails with ErrLineTooLong on lines longer than max bytes.
// A max of 0 or less means DefaultMaxLineLength. Blocks are bounded to 64 times max.
func NewLineReader(r io.Reader, max int) *LineReader {
	if max <= 0 {
		max = DefaultMaxLineLength
	}
	return &LineReader{src: r, buf: bufio.NewReader(r), max: max, maxBlock: blockLines * max}
}

// SetMaxBlockSize bounds the bytes ReadBlock accepts, one terminator per line included.
func (lr *LineReader) SetMaxBlockSize(n int) {
	if n > 0 {
		lr.maxBlock = n
	}
}

// SetIdleTimeout sets how long ReadLine waits for a complete line.
// It only has effect when the underlying reader supports read deadlines (eg. a net.Conn).
func (lr *LineReader) SetIdleTimeout(d time.Duration) {
	lr.idle = d
}

// ReadLine blocks until a whole line is available and returns it without its terminator.
// Any error is fatal for the connection.
func (lr *LineReader) ReadLine() (string, error) {
	if d, ok := lr.src.(deadliner); ok && lr.idle > 0 {
		if err := d.SetReadDeadline(time.Now().Add(lr.idle)); err != nil {
			return "", Fatal("read", err)
		}
	}

	var line []byte
	for {
		chunk, err := lr.buf.ReadSlice('\n')
		line = append(line, chunk...)
		switch {
		case err == bufio.ErrBufferFull:
			// incomplete line, keep accumulating
			if len(line) > lr.max+1 {
				return "", Fatal("read", ErrLineTooLong)
			}
			continue
		case err == io.EOF:
			return "", Fatal("read", ErrDisconnected)
		case isTimeout(err):
			return "", Fatal("read", ErrIdle)
		case err != nil:
			return "", Fatal("read", err)
		}

		line = line[:len(line)-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		if len(line) > lr.max {
			return "", Fatal("read", ErrLineTooLong)
		}
		return string(line), nil
	}
}

// ReadBlock reads lines until one equals sentinel, which is not included in the result.
// If reading fails half way the lines read so far are discarded.
// A block growing past the max block size fails with ErrBlockTooLarge.
func (lr *LineReader) ReadBlock(sentinel string) ([]string, error) {
	block := make([]string, 0)
	var size int
	for {
		line, err := lr.ReadLine()
		if err != nil {
			return nil, err
		}
		if line == sentinel {
			return block, nil
		}
		if size += len(line) + 1; size > lr.maxBlock {
			return nil, Fatal("read", ErrBlockTooLarge)
		}
		block = append(block, line)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
