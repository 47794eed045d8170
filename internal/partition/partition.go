package partition

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dreamware/freqtop/internal/fault"
	"github.com/dreamware/freqtop/internal/lineio"
)

const writerBufferBytes = 64 * 1024

// Partition describes one bucket file produced by Split.
// The caller owns the file and must Release it once counted.
type Partition struct {
	Path     string // Location of the bucket file
	Index    int    // Bucket number in [0, bucketCount)
	Lines    uint64 // Lines routed to this bucket
	Bytes    uint64 // Bytes written, line terminators included
	released bool
}

// Release removes the bucket file. Releasing twice, or a file that is
// already gone, is not an error.
func (p *Partition) Release() error {
	if p.released {
		return nil
	}
	if err := os.Remove(p.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %w", fault.ErrPartitionIO, p.Path, err)
	}
	p.released = true
	return nil
}

// Released reports whether Release has completed.
func (p *Partition) Released() bool { return p.released }

// ReleaseAll releases every partition and joins the failures.
func ReleaseAll(parts []*Partition) error {
	var errs []error
	for _, p := range parts {
		if err := p.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Partitioner splits a file into buckets whose size is expected to stay
// within a per-partition byte budget.
type Partitioner struct {
	hasher   Hasher
	logger   *log.Logger
	dir      string
	lineOpts []lineio.Option
	budget   int64
}

// Option configures a Partitioner.
type Option func(*Partitioner)

// WithHasher sets the routing hash. Defaults to FNV1a.
func WithHasher(h Hasher) Option {
	return func(p *Partitioner) {
		if h != nil {
			p.hasher = h
		}
	}
}

// WithDir places bucket files in dir instead of next to the source file.
func WithDir(dir string) Option {
	return func(p *Partitioner) { p.dir = dir }
}

// WithLineOptions passes scanning options to the source pass.
func WithLineOptions(opts ...lineio.Option) Option {
	return func(p *Partitioner) { p.lineOpts = append(p.lineOpts, opts...) }
}

// WithLogger sets the logger for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(p *Partitioner) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Partitioner for the given per-partition byte budget.
func New(budget int64, opts ...Option) *Partitioner {
	p := &Partitioner{
		budget: budget,
		hasher: FNV1a,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Budget returns the per-partition byte budget.
func (p *Partitioner) Budget() int64 { return p.budget }

// BucketCount returns floor(fileSize / budget). A result of zero, or a
// non-positive budget, is a fault.ErrPartitionUnderflow.
func BucketCount(fileSize, budget int64) (int, error) {
	if budget <= 0 {
		return 0, fmt.Errorf("%w: budget %d bytes", fault.ErrPartitionUnderflow, budget)
	}
	n := fileSize / budget
	if n < 1 {
		return 0, fmt.Errorf("%w: %d bytes is below the %d byte budget", fault.ErrPartitionUnderflow, fileSize, budget)
	}
	return int(n), nil
}

// PartPath returns the bucket file name for index of source.
func (p *Partitioner) PartPath(source string, index int) string {
	dir := p.dir
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, fmt.Sprintf("%s-part%04d.tmp", filepath.Base(source), index))
}

// Split routes every line of the file at path into one of
// BucketCount(size, budget) bucket files by hash(line) mod bucketCount.
//
// Bucket files are created exclusively; an existing file with the same name
// fails the split rather than being overwritten. Either every bucket is
// returned fully written and closed, or none survive: on failure all files
// created so far are removed.
func (p *Partitioner) Split(path string) ([]*Partition, error) {
	start := time.Now()

	size, err := lineio.Size(path)
	if err != nil {
		return nil, err
	}
	buckets, err := BucketCount(size, p.budget)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", path, err)
	}

	src, err := lineio.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	set := &bucketSet{}
	defer set.abort()

	for i := 0; i < buckets; i++ {
		if err := set.create(p.PartPath(path, i), i); err != nil {
			return nil, err
		}
	}

	if err := p.route(src, set, buckets); err != nil {
		return nil, fmt.Errorf("split %s: %w", path, err)
	}
	if err := set.close(); err != nil {
		return nil, err
	}
	set.committed = true

	p.logger.Printf("split %s (%d bytes) into %d partitions in %s", path, size, buckets, time.Since(start))
	return set.parts, nil
}

func (p *Partitioner) route(src io.Reader, set *bucketSet, buckets int) error {
	return lineio.Each(src, func(line string) error {
		return set.write(Route(p.hasher, line, buckets), line)
	}, p.lineOpts...)
}

// bucketSet owns the open writers of an in-progress split.
type bucketSet struct {
	parts     []*Partition
	files     []*os.File
	writers   []*bufio.Writer
	committed bool
}

func (s *bucketSet) create(path string, index int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", fault.ErrPartitionIO, path, err)
	}
	s.parts = append(s.parts, &Partition{Index: index, Path: path})
	s.files = append(s.files, f)
	s.writers = append(s.writers, bufio.NewWriterSize(f, writerBufferBytes))
	return nil
}

func (s *bucketSet) write(i int, line string) error {
	w := s.writers[i]
	if _, err := w.WriteString(line); err != nil {
		return fmt.Errorf("%w: write %s: %w", fault.ErrPartitionIO, s.parts[i].Path, err)
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("%w: write %s: %w", fault.ErrPartitionIO, s.parts[i].Path, err)
	}
	s.parts[i].Lines++
	s.parts[i].Bytes += uint64(len(line)) + 1
	return nil
}

// close flushes and closes every still-open writer.
func (s *bucketSet) close() error {
	var errs []error
	for i, f := range s.files {
		if f == nil {
			continue
		}
		if err := s.writers[i].Flush(); err != nil {
			errs = append(errs, fmt.Errorf("%w: flush %s: %w", fault.ErrPartitionIO, s.parts[i].Path, err))
		}
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w: close %s: %w", fault.ErrPartitionIO, s.parts[i].Path, err))
		}
		s.files[i] = nil
	}
	return errors.Join(errs...)
}

// abort closes and removes everything unless the split was committed.
func (s *bucketSet) abort() {
	if s.committed {
		return
	}
	_ = s.close()
	_ = ReleaseAll(s.parts)
}
