package io

import (
	"bytes"
	"io"
)

// DefaultSentinel marks both the end of a response and the end of a block sent by the client.
const DefaultSentinel = "APL_NATIVE_END_TAG"

// ResponseWriter frames responses: every line followed by "\n", then the sentinel line.
type ResponseWriter struct {
	w        io.Writer
	sentinel string
}

func NewResponseWriter(w io.Writer, sentinel string) *ResponseWriter {
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	return &ResponseWriter{w: w, sentinel: sentinel}
}

// Reply writes a whole response in one go. An empty `lines` writes just the sentinel.
func (rw *ResponseWriter) Reply(lines ...string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.WriteString(rw.sentinel)
	buf.WriteByte('\n')
	return WriteFull(rw.w, buf.Bytes())
}

// ReplyStatus writes a single status token response, eg. "undefined" or "function_defined".
func (rw *ResponseWriter) ReplyStatus(status string) error {
	return rw.Reply(status)
}

func (rw *ResponseWriter) Sentinel() string {
	return rw.sentinel
}

// WriteFull keeps writing until all of p is written.
// A writer that makes no progress, or fails, breaks the connection.
func WriteFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return Fatal("write", err)
		}
		if n <= 0 {
			return Fatal("write", io.ErrShortWrite)
		}
		p = p[n:]
	}
	return nil
}
