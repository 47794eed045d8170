package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dreamware/freqtop/internal/frequency"
)

// ErrClosed is returned when writing to a sink that was already closed
var ErrClosed = errors.New("sink closed")

// Sink defines the destination of a ranked result.
// Entries arrive in rank order, highest count first.
type Sink interface {
	// Write appends the next entry of the result
	// Failures wrap fault.ErrIO
	Write(e frequency.Entry) error

	// Close flushes and releases the destination
	// Closing twice is not an error
	Close() error
}

// Formats accepted by Open.
const (
	FormatText   = "text"
	FormatSQLite = "sqlite"
)

// Open creates the sink for format at path.
func Open(format, path string) (Sink, error) {
	switch format {
	case "", FormatText:
		return CreateTextFile(path)
	case FormatSQLite:
		return CreateSQLite(path)
	default:
		return nil, fmt.Errorf("unknown result format %q", format)
	}
}

// SinkStats contains statistics about what a sink received
type SinkStats struct {
	Entries int    // Number of entries written
	Lines   uint64 // Sum of the entry counts
}

// MemorySink keeps the result in memory
// Uses sync.RWMutex so a result can be read while another goroutine writes it
type MemorySink struct {
	mu      sync.RWMutex      // Protects entries and closed
	entries []frequency.Entry // Entries in the order written
	closed  bool
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write appends e
func (m *MemorySink) Write(e frequency.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.entries = append(m.entries, e)
	return nil
}

// Close marks the sink closed
func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Entries returns a copy of the entries in write order
func (m *MemorySink) Entries() []frequency.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]frequency.Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

// Closed reports whether Close was called
func (m *MemorySink) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Stats returns what the sink has received so far
func (m *MemorySink) Stats() SinkStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lines uint64
	for _, e := range m.entries {
		lines += e.Count
	}
	return SinkStats{
		Entries: len(m.entries),
		Lines:   lines,
	}
}
