package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dreamware/freqtop/internal/fault"
	"github.com/dreamware/freqtop/internal/frequency"
)

const sqliteOptions = "?" + "_busy_timeout=10000" +
	"&" + "_journal_mode=OFF" +
	"&" + "_locking_mode=EXCLUSIVE" +
	"&" + "_synchronous=OFF"

// SQLiteSink stores the result in a results(rank, key, count) table.
// All rows are written in one transaction committed by Close.
type SQLiteSink struct {
	db     *sql.DB
	tx     *sql.Tx
	insert *sql.Stmt
	path   string
	rank   int
	closed bool
}

// CreateSQLite creates a fresh database at path, replacing any existing file.
func CreateSQLite(path string) (*SQLiteSink, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: remove existing %s: %w", fault.ErrResultCreate, path, err)
	}

	db, err := sql.Open("sqlite3", path+sqliteOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", fault.ErrResultCreate, path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: open %s: %w", fault.ErrResultCreate, path, err)
	}
	if _, err := db.Exec("CREATE TABLE results (rank INTEGER PRIMARY KEY, key TEXT NOT NULL, count INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create table in %s: %w", fault.ErrResultCreate, path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: begin %s: %w", fault.ErrResultCreate, path, err)
	}
	insert, err := tx.Prepare("INSERT INTO results (rank, key, count) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, fmt.Errorf("%w: prepare insert in %s: %w", fault.ErrResultCreate, path, err)
	}

	return &SQLiteSink{db: db, tx: tx, insert: insert, path: path}, nil
}

// Write inserts e with the next rank, starting at 1.
func (s *SQLiteSink) Write(e frequency.Entry) error {
	if s.closed {
		return ErrClosed
	}
	s.rank++
	if _, err := s.insert.Exec(s.rank, e.Key, int64(e.Count)); err != nil {
		return fmt.Errorf("%w: insert into %s: %w", fault.ErrIO, s.path, err)
	}
	return nil
}

// Close commits the rows and closes the database.
func (s *SQLiteSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.insert.Close()
	err := s.tx.Commit()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: commit %s: %w", fault.ErrIO, s.path, err)
	}
	return nil
}

// ReadSQLite returns the stored result in rank order.
func ReadSQLite(path string) ([]frequency.Entry, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", fault.ErrIO, path, err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT key, count FROM results ORDER BY rank")
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", fault.ErrIO, path, err)
	}
	defer rows.Close()

	var out []frequency.Entry
	for rows.Next() {
		var e frequency.Entry
		var count int64
		if err := rows.Scan(&e.Key, &count); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", fault.ErrIO, path, err)
		}
		e.Count = uint64(count)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", fault.ErrIO, path, err)
	}
	return out, nil
}
