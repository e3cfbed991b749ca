package client

import (
	stdio "io"
	"sync"
	"time"

	"github.com/syohex/gnu-apl-mode/server/api/io"
)

// Connection wraps the tcp connection of one editor with line framing in and sentinel framing out.
// Only the goroutine serving the connection reads and writes, Close may be called from anywhere.
type Connection struct {
	stdio.ReadWriteCloser
	lines *io.LineReader
	out   *io.ResponseWriter

	closeOnce sync.Once
	closeErr  error
}

func WrapConnection(rwc stdio.ReadWriteCloser, maxLineLength int, idleTimeout time.Duration, sentinel string) *Connection {
	lines := io.NewLineReader(rwc, maxLineLength)
	lines.SetIdleTimeout(idleTimeout)
	return &Connection{
		ReadWriteCloser: rwc,
		lines:           lines,
		out:             io.NewResponseWriter(rwc, sentinel),
	}
}

// ReadCommand blocks until the next command line arrives.
func (c *Connection) ReadCommand() (string, error) {
	return c.lines.ReadLine()
}

// ReadBlock reads the lines following a command up to the sentinel.
func (c *Connection) ReadBlock() ([]string, error) {
	return c.lines.ReadBlock(c.out.Sentinel())
}

// Reply writes a sentinel terminated response.
func (c *Connection) Reply(lines ...string) error {
	return c.out.Reply(lines...)
}

// Close closes the underlying connection once, later calls return the first result.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.ReadWriteCloser.Close()
	})
	return c.closeErr
}
