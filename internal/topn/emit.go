package topn

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/dreamware/freqtop/internal/frequency"
	"github.com/dreamware/freqtop/internal/selector"
	"github.com/dreamware/freqtop/internal/storage"
)

// Drain empties sel and returns its entries ordered by descending count.
func Drain(sel *selector.Bounded[frequency.Entry]) []frequency.Entry {
	out := make([]frequency.Entry, 0, sel.Len())
	for {
		e, ok := sel.PopMin()
		if !ok {
			break
		}
		out = append(out, e)
	}
	slices.Reverse(out)
	return out
}

// Emit drains the retained entries into sink, highest count first, and
// closes the sink. The Ranker is empty afterwards.
func (r *Ranker) Emit(sink storage.Sink) error {
	entries := Drain(r.selector)
	for _, e := range entries {
		if err := sink.Write(e); err != nil {
			sink.Close()
			r.logger.Printf("emit: %v", err)
			return fmt.Errorf("emit: %w", err)
		}
	}
	if err := sink.Close(); err != nil {
		r.logger.Printf("emit: %v", err)
		return fmt.Errorf("emit: %w", err)
	}

	r.logger.Printf("emitted %d entries", len(entries))
	return nil
}

// EmitFile creates the result at path in the given format and emits into it.
func (r *Ranker) EmitFile(format, path string) error {
	sink, err := storage.Open(format, path)
	if err != nil {
		r.logger.Printf("emit %s: %v", path, err)
		return fmt.Errorf("emit %s: %w", path, err)
	}
	return r.Emit(sink)
}
