package io

import (
	"bufio"
	"bytes"
	"strings"
)

// BufferWriter collects what a connection would have received.
type BufferWriter struct {
	b *bytes.Buffer
	w *bufio.Writer
}

func NewBufferWriter() *BufferWriter {
	var b bytes.Buffer
	return &BufferWriter{&b, bufio.NewWriter(&b)}
}

func (bw *BufferWriter) Write(p []byte) (nn int, err error) {
	return bw.w.Write(p)
}

func (bw *BufferWriter) String() string {
	bw.w.Flush()
	return bw.b.String()
}

// Lines returns the written data split on "\n", without the trailing empty element.
func (bw *BufferWriter) Lines() []string {
	s := bw.String()
	if s == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
