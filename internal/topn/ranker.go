package topn

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dreamware/freqtop/internal/config"
	"github.com/dreamware/freqtop/internal/frequency"
	"github.com/dreamware/freqtop/internal/lineio"
	"github.com/dreamware/freqtop/internal/partition"
	"github.com/dreamware/freqtop/internal/selector"
)

// ErrFitted is returned by Fit when the Ranker already holds a file.
var ErrFitted = errors.New("ranker already fitted; call Reset first")

// Stats summarizes the work done by a Ranker since creation or Reset.
type Stats struct {
	Files      int           // 1 once the file is fitted successfully
	Partitions int           // Partitions counted
	Lines      uint64        // Lines counted
	Keys       uint64        // Distinct keys offered to the selector
	Elapsed    time.Duration // Time spent in Fit
}

// Ranker keeps the N most frequent lines of a single file.
//
// Fit decides from the file size alone whether a file is counted in one
// pass or split into hash partitions first. Either way every distinct line
// reaches the selector exactly once with its exact count, because a line
// always hashes to the same partition.
//
// A Ranker ranks one file. Counts from different files are never merged,
// so a second Fit fails with ErrFitted until Reset is called.
//
// A Ranker is not safe for concurrent use.
type Ranker struct {
	selector    *selector.Bounded[frequency.Entry]
	partitioner *partition.Partitioner
	logger      *log.Logger
	countFile   func(path string, opts ...lineio.Option) (frequency.Table, error)
	lineOpts    []lineio.Option
	stats       Stats
	memoryLimit int64
	fitted      bool
}

// Option configures a Ranker.
type Option func(*settings)

type settings struct {
	hasher       partition.Hasher
	logger       *log.Logger
	tempDir      string
	memoryLimit  int64
	maxLineBytes int
}

// WithMemoryLimit sets the total memory budget in bytes.
func WithMemoryLimit(n int64) Option {
	return func(s *settings) { s.memoryLimit = n }
}

// WithHasher sets the partition routing hash.
func WithHasher(h partition.Hasher) Option {
	return func(s *settings) { s.hasher = h }
}

// WithTempDir places partition files in dir.
func WithTempDir(dir string) Option {
	return func(s *settings) { s.tempDir = dir }
}

// WithMaxLineBytes sets the longest accepted input line.
func WithMaxLineBytes(n int) Option {
	return func(s *settings) { s.maxLineBytes = n }
}

// WithLogger sets the progress logger. Pass log.New(io.Discard, "", 0) to silence it.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// FromConfig translates a validated configuration into options.
func FromConfig(cfg config.Config) ([]Option, error) {
	h, err := partition.HasherByName(cfg.Hash)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithMemoryLimit(cfg.MemoryLimit),
		WithHasher(h),
		WithTempDir(cfg.TempDir),
		WithMaxLineBytes(cfg.MaxLineBytes),
	}, nil
}

// New creates a Ranker keeping the n most frequent lines.
func New(n int, opts ...Option) *Ranker {
	s := settings{
		memoryLimit:  config.DefaultMemoryLimit,
		hasher:       partition.FNV1a,
		logger:       log.Default(),
		maxLineBytes: lineio.DefaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}

	lineOpts := []lineio.Option{lineio.WithMaxLineBytes(s.maxLineBytes)}
	p := partition.New(s.memoryLimit/4,
		partition.WithHasher(s.hasher),
		partition.WithDir(s.tempDir),
		partition.WithLineOptions(lineOpts...),
		partition.WithLogger(s.logger),
	)
	return &Ranker{
		selector:    selector.New(n, frequency.ByCount),
		partitioner: p,
		logger:      s.logger,
		countFile:   frequency.CountFile,
		lineOpts:    lineOpts,
		memoryLimit: s.memoryLimit,
	}
}

// MemoryLimit returns the total memory budget in bytes.
func (r *Ranker) MemoryLimit() int64 { return r.memoryLimit }

// PartitionBudget returns the size up to which a file is counted directly.
func (r *Ranker) PartitionBudget() int64 { return r.partitioner.Budget() }

// Fit counts the lines of the file at path and offers every (line, count)
// to the selector.
//
// Files no larger than PartitionBudget are counted directly. Larger files
// are split into floor(size/PartitionBudget) partitions that are counted
// one after another; each partition file is removed as soon as its entries
// are in the selector, and any partitions left over by a failure are
// removed before Fit returns.
//
// The first failure aborts the run. Entries from partitions counted before
// the failure stay in the selector.
func (r *Ranker) Fit(path string) error {
	if r.fitted {
		return fmt.Errorf("fit %s: %w", path, ErrFitted)
	}
	r.fitted = true

	start := time.Now()
	defer func() { r.stats.Elapsed += time.Since(start) }()

	size, err := lineio.Size(path)
	if err != nil {
		r.logger.Printf("fit %s: %v", path, err)
		return fmt.Errorf("fit %s: %w", path, err)
	}

	if size <= r.PartitionBudget() {
		err = r.count(path)
	} else {
		err = r.divideAndConquer(path)
	}
	if err != nil {
		r.logger.Printf("fit %s: %v", path, err)
		return fmt.Errorf("fit %s: %w", path, err)
	}

	r.stats.Files++
	r.logger.Printf("fit %s complete: %d bytes in %s", path, size, time.Since(start))
	return nil
}

func (r *Ranker) divideAndConquer(path string) (err error) {
	parts, err := r.partitioner.Split(path)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := partition.ReleaseAll(parts); rerr != nil {
			r.logger.Printf("release partitions of %s: %v", path, rerr)
			err = errors.Join(err, rerr)
		}
	}()

	for _, part := range parts {
		r.logger.Printf("handling %s ...", part.Path)
		if err := r.count(part.Path); err != nil {
			return err
		}
		r.stats.Partitions++
		if err := part.Release(); err != nil {
			return err
		}
	}
	return nil
}

// count runs one in-memory counting pass and feeds the selector.
func (r *Ranker) count(path string) error {
	start := time.Now()
	table, err := r.countFile(path, r.lineOpts...)
	if err != nil {
		return err
	}
	for key, n := range table {
		r.selector.Insert(frequency.Entry{Key: key, Count: n})
	}

	lines := table.Total()
	r.stats.Lines += lines
	r.stats.Keys += uint64(len(table))
	r.logger.Printf("counted %s in memory: %d lines, %d keys in %s", path, lines, len(table), time.Since(start))
	return nil
}

// Result returns the retained entries in unspecified order without
// consuming them.
func (r *Ranker) Result() []frequency.Entry {
	return r.selector.Items()
}

// Len returns the number of retained entries.
func (r *Ranker) Len() int { return r.selector.Len() }

// Stats returns the accumulated statistics.
func (r *Ranker) Stats() Stats { return r.stats }

// Reset discards retained entries and statistics so another file can be fitted.
func (r *Ranker) Reset() {
	r.selector.Clear()
	r.stats = Stats{}
	r.fitted = false
}
