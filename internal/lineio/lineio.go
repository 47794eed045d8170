// Package lineio reads text files line by line for the counting and
// partitioning passes.
package lineio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dreamware/freqtop/internal/fault"
)

// DefaultMaxLineBytes is the longest line accepted unless overridden.
const DefaultMaxLineBytes = 1 << 20

const initialBufferBytes = 64 * 1024

// Option configures line scanning.
type Option func(*options)

type options struct {
	maxLineBytes int
}

// WithMaxLineBytes sets the longest accepted line. Longer lines fail the scan.
func WithMaxLineBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineBytes = n
		}
	}
}

// Open opens path for a single sequential pass.
// A missing file is reported as fault.ErrFileNotFound, anything else as fault.ErrIO.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", fault.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: open %s: %w", fault.ErrIO, path, err)
	}
	adviseSequential(f)
	return f, nil
}

// Size returns the byte length of path.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", fault.ErrFileNotFound, path)
		}
		return 0, fmt.Errorf("%w: stat %s: %w", fault.ErrIO, path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", fault.ErrIO, path)
	}
	return info.Size(), nil
}

// NewScanner returns a scanner splitting r into lines. A line ends at '\n'
// and a trailing '\r' is dropped; the final line need not be terminated.
func NewScanner(r io.Reader, opts ...Option) *bufio.Scanner {
	o := options{maxLineBytes: DefaultMaxLineBytes}
	for _, opt := range opts {
		opt(&o)
	}
	initial := initialBufferBytes
	if o.maxLineBytes < initial {
		initial = o.maxLineBytes
	}
	sc := bufio.NewScanner(r)
	// room for the "\r\n" that follows a line of the maximum length
	sc.Buffer(make([]byte, 0, initial), o.maxLineBytes+2)
	sc.Split(limitLines(o.maxLineBytes))
	return sc
}

// limitLines is bufio.ScanLines rejecting lines longer than limit bytes.
func limitLines(limit int) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := bufio.ScanLines(data, atEOF)
		if err == nil && len(token) > limit {
			return 0, nil, bufio.ErrTooLong
		}
		return advance, token, err
	}
}

// Each calls fn for every line of r and stops at the first error.
// Read failures are wrapped with fault.ErrIO; errors from fn are returned as is.
func Each(r io.Reader, fn func(line string) error, opts ...Option) error {
	sc := NewScanner(r, opts...)
	for sc.Scan() {
		if err := fn(sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: read lines: %w", fault.ErrIO, err)
	}
	return nil
}
