// Package main implements freqtop, which writes the most frequent lines of a
// text file, with their counts, to a result file.
//
// Usage:
//
//	freqtop [flags] <data-file> [top-n] [result-file]
//
//	  data-file    input, one URL per line (required)
//	  top-n        number of entries to keep (default 100)
//	  result-file  output path (default <data-file>-result)
//
// Files larger than a quarter of the memory budget are split into hash
// partitions next to the input (or in -tmpdir) and counted one partition at
// a time; the partition files are removed when the run ends.
//
// Configuration is layered: built-in defaults, then the YAML file named by
// -config or FREQTOP_CONFIG, then FREQTOP_* environment variables, then
// flags and positional arguments.
//
// Exit codes:
//
//	0  success
//	1  invalid configuration
//	2  usage error
//	3  input file not found
//	4  partition underflow
//	5  partition file failure
//	6  read or write failure
//	7  result file could not be created
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/dreamware/freqtop/internal/config"
	"github.com/dreamware/freqtop/internal/fault"
	"github.com/dreamware/freqtop/internal/topn"
)

const usageText = `Usage: freqtop [flags] <data-file> [top-n] [result-file]
       data-file is required.
       top-n defaults to 100.
       result-file defaults to <data-file>-result.

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stderr))
}

// invocation holds the positional arguments
type invocation struct {
	dataFile   string
	resultFile string
	topN       int // zero when not given
}

func parseArgs(args []string) (invocation, error) {
	if len(args) < 1 || args[0] == "" {
		return invocation{}, fmt.Errorf("%w: data-file is required", fault.ErrUsage)
	}
	if len(args) > 3 {
		return invocation{}, fmt.Errorf("%w: too many arguments", fault.ErrUsage)
	}

	inv := invocation{dataFile: args[0], resultFile: args[0] + "-result"}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return invocation{}, fmt.Errorf("%w: top-n must be a positive integer, got %q", fault.ErrUsage, args[1])
		}
		inv.topN = n
	}
	if len(args) > 2 {
		inv.resultFile = args[2]
	}
	return inv, nil
}

func run(args []string, getenv func(string) string, stderr io.Writer) int {
	logger := log.New(stderr, "freqtop: ", log.LstdFlags)

	fs := flag.NewFlagSet("freqtop", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", getenv("FREQTOP_CONFIG"), "YAML configuration file")
	memory := fs.Int64("memory", config.DefaultMemoryLimit, "memory budget in bytes")
	hash := fs.String("hash", "fnv1a", "partition hash: fnv1a or xxh3")
	tmpdir := fs.String("tmpdir", "", "directory for partition files (default: next to data-file)")
	format := fs.String("format", "text", "result format: text or sqlite")
	partial := fs.Bool("partial", false, "write the partial result if the run fails")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return fault.ExitUsage
	}
	inv, err := parseArgs(fs.Args())
	if err != nil {
		logger.Print(err)
		fs.Usage()
		return fault.ExitCode(err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Print(err)
		return fault.ExitOther
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		logger.Print(err)
		return fault.ExitOther
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "memory":
			cfg.MemoryLimit = *memory
		case "hash":
			cfg.Hash = *hash
		case "tmpdir":
			cfg.TempDir = *tmpdir
		case "format":
			cfg.ResultFormat = *format
		case "partial":
			cfg.AllowPartial = *partial
		}
	})
	if inv.topN > 0 {
		cfg.TopN = inv.topN
	}
	if err := cfg.Validate(); err != nil {
		logger.Printf("invalid configuration: %v", err)
		return fault.ExitOther
	}

	opts, err := topn.FromConfig(cfg)
	if err != nil {
		logger.Print(err)
		return fault.ExitOther
	}
	ranker := topn.New(cfg.TopN, append(opts, topn.WithLogger(logger))...)

	fitErr := ranker.Fit(inv.dataFile)
	if fitErr != nil && !cfg.AllowPartial {
		return fault.ExitCode(fitErr)
	}
	if fitErr != nil {
		logger.Printf("writing partial result of %d entries to %s", ranker.Len(), inv.resultFile)
	}

	if err := ranker.EmitFile(cfg.ResultFormat, inv.resultFile); err != nil {
		return fault.ExitCode(errors.Join(fitErr, err))
	}
	if fitErr != nil {
		return fault.ExitCode(fitErr)
	}

	stats := ranker.Stats()
	logger.Printf("wrote %s: %d lines, %d distinct, %d partitions in %s",
		inv.resultFile, stats.Lines, stats.Keys, stats.Partitions, stats.Elapsed)
	return fault.ExitOK
}
