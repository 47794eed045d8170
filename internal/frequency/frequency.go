// Package frequency counts exact line occurrences for a stream that fits in
// memory and defines the (key, count) entry the rest of the pipeline ranks.
package frequency

import (
	"fmt"
	"io"

	"github.com/dreamware/freqtop/internal/lineio"
)

// Entry pairs a distinct line with its number of occurrences.
// Two entries describe the same line iff their keys are equal.
type Entry struct {
	Key   string
	Count uint64
}

// String formats the entry the way result files store it.
func (e Entry) String() string {
	return fmt.Sprintf("%s %d", e.Key, e.Count)
}

// ByCount orders entries by count alone; equal counts are unordered.
func ByCount(a, b Entry) bool {
	return a.Count < b.Count
}

// Table maps each distinct line to its exact occurrence count.
type Table map[string]uint64

// Entries returns the table as entries in unspecified order.
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t))
	for k, c := range t {
		out = append(out, Entry{Key: k, Count: c})
	}
	return out
}

// Total returns the number of lines the table was built from.
func (t Table) Total() uint64 {
	var n uint64
	for _, c := range t {
		n += c
	}
	return n
}

// Count reads r to the end and returns how often each line occurs.
// A read failure is returned wrapped with fault.ErrIO and no table.
func Count(r io.Reader, opts ...lineio.Option) (Table, error) {
	table := make(Table)
	err := lineio.Each(r, func(line string) error {
		table[line]++
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// CountFile counts the lines of the file at path.
func CountFile(path string, opts ...lineio.Option) (Table, error) {
	f, err := lineio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := Count(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", path, err)
	}
	return table, nil
}
