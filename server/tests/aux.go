package tests

import (
	"bytes"
	"io"
	"strings"
)

// Response builds the bytes a client expects for the given payload lines.
func Response(sentinel string, lines ...string) string {
	return strings.Join(append(lines, sentinel), "\n") + "\n"
}

// ChunkReader hands out its data at most N bytes per Read, like a slow socket would.
type ChunkReader struct {
	data []byte
	N    int
}

func NewChunkReader(s string, n int) *ChunkReader {
	return &ChunkReader{data: []byte(s), N: n}
}

func (r *ChunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.N
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.data) {
		n = len(r.data)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

// ShortWriter accepts at most Max bytes per Write without reporting an error, like write(2) may do.
type ShortWriter struct {
	Max    int
	Writes int
	bytes.Buffer
}

func (w *ShortWriter) Write(p []byte) (int, error) {
	w.Writes++
	if len(p) > w.Max {
		p = p[:w.Max]
	}
	return w.Buffer.Write(p)
}

// FailingWriter fails every Write with Err.
type FailingWriter struct {
	Err error
}

func (w FailingWriter) Write(p []byte) (int, error) {
	return 0, w.Err
}
