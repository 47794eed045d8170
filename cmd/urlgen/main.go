// Package main implements urlgen, which writes a synthetic dataset of random
// URLs, one per line, for exercising freqtop.
//
// Usage:
//
//	urlgen [-seed N] <total-url-num> <file>
//
// Every run logs the seed it used so a dataset can be regenerated exactly.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dreamware/freqtop/internal/fault"
	"github.com/dreamware/freqtop/internal/urlgen"
)

// now is a variable so tests can pin the default seed
var now = time.Now

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	logger := log.New(stderr, "urlgen: ", log.LstdFlags)

	fs := flag.NewFlagSet("urlgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	seed := fs.Int64("seed", 0, "random seed (default: current time)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: urlgen [-seed N] <total-url-num> <file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return fault.ExitUsage
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fault.ExitUsage
	}
	total, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || total < 0 {
		logger.Printf("total-url-num must be a non-negative integer, got %q", fs.Arg(0))
		fs.Usage()
		return fault.ExitUsage
	}
	path := fs.Arg(1)

	seedSet := false
	fs.Visit(func(f *flag.Flag) { seedSet = seedSet || f.Name == "seed" })
	if !seedSet {
		*seed = now().UnixNano()
	}

	if err := generate(path, total, *seed, logger); err != nil {
		logger.Print(err)
		return fault.ExitCode(err)
	}
	return fault.ExitOK
}

func generate(path string, total, seed int64, logger *log.Logger) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", fault.ErrResultCreate, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%w: close %s: %w", fault.ErrIO, path, cerr))
		}
	}()

	logger.Printf("generating %d urls into %s with seed %d", total, path, seed)
	start := time.Now()
	if err := urlgen.NewSeeded(seed).Write(f, total); err != nil {
		return fmt.Errorf("%w: write %s: %w", fault.ErrIO, path, err)
	}
	logger.Printf("generated %s in %s", path, time.Since(start))
	return nil
}
