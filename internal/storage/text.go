package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dreamware/freqtop/internal/fault"
	"github.com/dreamware/freqtop/internal/frequency"
)

// TextSink writes one "<key> <count>" line per entry.
type TextSink struct {
	w      *bufio.Writer
	c      io.Closer
	name   string
	closed bool
}

// NewTextSink writes to w. If w is an io.Closer it is closed by Close.
func NewTextSink(w io.Writer, name string) *TextSink {
	s := &TextSink{w: bufio.NewWriter(w), name: name}
	if c, ok := w.(io.Closer); ok {
		s.c = c
	}
	return s
}

// CreateTextFile creates or truncates path and returns a sink writing to it.
func CreateTextFile(path string) (*TextSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", fault.ErrResultCreate, path, err)
	}
	return NewTextSink(f, path), nil
}

// Write appends e as a line.
func (s *TextSink) Write(e frequency.Entry) error {
	if s.closed {
		return ErrClosed
	}
	s.w.WriteString(e.Key)
	s.w.WriteByte(' ')
	s.w.WriteString(strconv.FormatUint(e.Count, 10))
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("%w: write %s: %w", fault.ErrIO, s.name, err)
	}
	return nil
}

// Close flushes buffered lines and closes the underlying writer.
func (s *TextSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.w.Flush()
	if s.c != nil {
		if cerr := s.c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("%w: close %s: %w", fault.ErrIO, s.name, err)
	}
	return nil
}
