// Package topn ranks the most frequent lines of files that may be larger
// than the memory available to count them.
//
// # Overview
//
// A Ranker owns a bounded selector of (line, count) entries. Fit streams a
// file through exact in-memory counting and offers every distinct line to
// the selector; Emit drains the selector into a storage.Sink, highest count
// first.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│              Ranker.Fit             │
//	│    size <= budget ?  ───────┐       │
//	└─────────────────────────────────────┘
//	        │ no                  │ yes
//	        ▼                     │
//	┌───────────────────┐         │
//	│    Partitioner    │         │
//	│ hash(line) mod K  │         │
//	└───────────────────┘         │
//	        │ K files             │
//	        ▼                     ▼
//	┌─────────────────────────────────────┐
//	│   Frequency Counter (one at a time) │
//	└─────────────────────────────────────┘
//	                 │ entries
//	                 ▼
//	┌─────────────────────────────────────┐
//	│     Bounded selector (min-heap)     │
//	└─────────────────────────────────────┘
//	                 │ Emit
//	                 ▼
//	┌─────────────────────────────────────┐
//	│          storage.Sink               │
//	└─────────────────────────────────────┘
//
// # Memory Budget
//
// The budget for one counting pass is a quarter of the configured memory
// limit. A file at or below it is counted in a single pass. A larger file is
// split into floor(size/budget) partitions by a stable hash of each line,
// so every occurrence of a line is in the same partition and its count in
// that partition is its global count. The union of the per-partition
// counts therefore holds every distinct line exactly once and the selected
// top N is exact.
//
// Partitioning is single level. A partition that stays larger than the
// budget because of skewed input is still counted in one pass; counts stay
// exact but the pass may use more memory than intended.
//
// # Resources
//
// Partition files are removed as soon as their counting pass is done. If a
// run aborts, the remaining files are removed before Fit returns.
//
// # Failure Semantics
//
// Fit stops at the first failure and returns it wrapped with the file name;
// match kinds with errors.Is against the fault sentinels. Entries from
// partitions counted before the failure are kept, so Emit after a failed Fit
// writes a consistent top N over the portion that was processed. Callers
// that want all-or-nothing results call Reset instead of Emit.
//
// # Concurrency
//
// Everything runs on the calling goroutine. A Ranker must not be shared.
package topn
