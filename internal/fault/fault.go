// Package fault defines the error kinds shared by every stage of a top-N run
// and maps them to process exit codes.
package fault

import "errors"

var (
	// ErrUsage is returned when the command line cannot be interpreted
	ErrUsage = errors.New("usage")

	// ErrFileNotFound is returned when the input file does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrPartitionUnderflow is returned when a file would split into zero buckets
	ErrPartitionUnderflow = errors.New("partition underflow")

	// ErrPartitionIO is returned when a partition file cannot be created, written or closed
	ErrPartitionIO = errors.New("partition io failure")

	// ErrIO is returned when reading input or writing results fails
	ErrIO = errors.New("io failure")

	// ErrResultCreate is returned when the result destination cannot be created
	ErrResultCreate = errors.New("result file create failure")
)

// Exit codes reported by the command line tools.
const (
	ExitOK           = 0
	ExitOther        = 1
	ExitUsage        = 2
	ExitFileNotFound = 3
	ExitUnderflow    = 4
	ExitPartitionIO  = 5
	ExitIO           = 6
	ExitResultCreate = 7
)

var exitCodes = []struct {
	err  error
	code int
}{
	{ErrUsage, ExitUsage},
	{ErrFileNotFound, ExitFileNotFound},
	{ErrPartitionUnderflow, ExitUnderflow},
	{ErrPartitionIO, ExitPartitionIO},
	{ErrResultCreate, ExitResultCreate},
	{ErrIO, ExitIO},
}

// ExitCode returns the process exit code for err.
// A nil error maps to ExitOK and an unclassified error to ExitOther.
// When err wraps several kinds, the first in declaration order wins.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	for _, ec := range exitCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ExitOther
}
