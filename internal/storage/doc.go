// Package storage defines where a ranked result goes once the top entries
// are known, with interchangeable sinks behind one small interface.
//
// # Overview
//
// The ranking pipeline produces entries highest count first and hands them,
// one at a time, to a Sink. The sink decides the physical layout; the
// pipeline never formats output itself.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│           Result Emitter            │
//	│        (topn.Ranker.Emit)           │
//	└─────────────────────────────────────┘
//	                 │
//	                 ▼
//	┌─────────────────────────────────────┐
//	│           Sink Interface            │
//	│          Write(e), Close()          │
//	└─────────────────────────────────────┘
//	                 │
//	    ┌────────────┼────────────┐
//	    ▼            ▼            ▼
//	┌────────┐  ┌────────┐  ┌────────┐
//	│  Text  │  │ SQLite │  │ Memory │
//	│  Sink  │  │  Sink  │  │  Sink  │
//	└────────┘  └────────┘  └────────┘
//
// # Implementations
//
// TextSink: the default result file
//   - One "<key> <count>" line per entry, '\n' terminated
//   - Buffered; nothing is guaranteed on disk before Close
//   - CreateTextFile truncates an existing file
//
// SQLiteSink: a queryable result
//   - Table results(rank INTEGER PRIMARY KEY, key TEXT, count INTEGER)
//   - Rank starts at 1 for the most frequent entry
//   - Rows are committed in a single transaction on Close
//   - CreateSQLite replaces an existing database file
//
// MemorySink: results kept in process
//   - Used by tests and by callers embedding the ranker
//   - Safe for concurrent readers while written
//
// # Error Handling
//
// Creating a file or database that cannot be created wraps
// fault.ErrResultCreate. Failures while writing or closing wrap fault.ErrIO.
// Writing after Close returns ErrClosed.
package storage
