// Package tracelog persists spec.md §4.5/§7 fatal errors to a local
// modernc.org/sqlite database, so a host embedding the runtime
// (cmd/wisp, pkg/embed) can inspect crashes after the process that hit
// them has already exited. It is wired as the evaluator.Hooks.OnFatal
// callback (internal/evaluator/evaluator.go), which is how the evaluator
// reports a diagnostics.Fatal without importing this package directly.
package tracelog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wisp-lang/wisp/internal/diagnostics"
)

const schema = `
CREATE TABLE IF NOT EXISTS fatal_errors (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	file       TEXT NOT NULL,
	line       INTEGER NOT NULL,
	column     INTEGER NOT NULL,
	message    TEXT NOT NULL,
	user_thrown INTEGER NOT NULL,
	stack      TEXT NOT NULL
);
`

// Log owns a handle to the post-mortem database. A zero Log is not usable;
// construct one with Open.
type Log struct {
	db *sql.DB
}

// Open creates (or reuses) the sqlite database at path and ensures its
// schema exists. Callers should Close it when the host process is done
// running wisp programs.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tracelog: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("tracelog: create schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Log) Close() error {
	return l.db.Close()
}

// OnFatal records f, in the shape required by evaluator.Hooks.OnFatal.
// Recording errors are swallowed (post-mortem logging must never itself
// become a reason the interpreter crashes differently than it already
// did); callers wanting to observe a write failure should call Record
// directly instead.
func (l *Log) OnFatal(f *diagnostics.Fatal) {
	_ = l.Record(f)
}

// Record inserts one row for f, serializing its unwound call stack as
// "fn@file:line:col" entries joined by newlines, innermost frame first.
func (l *Log) Record(f *diagnostics.Fatal) error {
	userThrown := 0
	if f.UserThrown {
		userThrown = 1
	}
	_, err := l.db.Exec(
		`INSERT INTO fatal_errors (recorded_at, file, line, column, message, user_thrown, stack)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		f.Token.File, f.Token.Line, f.Token.Column,
		f.Message, userThrown, formatStack(f),
	)
	if err != nil {
		return fmt.Errorf("tracelog: record: %w", err)
	}
	return nil
}

func formatStack(f *diagnostics.Fatal) string {
	s := ""
	for i, fr := range f.Stack {
		if i > 0 {
			s += "\n"
		}
		s += fmt.Sprintf("%s@%s:%d:%d", fr.Function, fr.Token.File, fr.Token.Line, fr.Token.Column)
	}
	return s
}

// Entry is one row read back by Recent.
type Entry struct {
	ID         int64
	RecordedAt string
	File       string
	Line       int
	Column     int
	Message    string
	UserThrown bool
	Stack      string
}

// Recent returns the last n recorded fatals, most recent first.
func (l *Log) Recent(n int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT id, recorded_at, file, line, column, message, user_thrown, stack
		 FROM fatal_errors ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("tracelog: recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var userThrown int
		if err := rows.Scan(&e.ID, &e.RecordedAt, &e.File, &e.Line, &e.Column, &e.Message, &userThrown, &e.Stack); err != nil {
			return nil, fmt.Errorf("tracelog: scan: %w", err)
		}
		e.UserThrown = userThrown != 0
		out = append(out, e)
	}
	return out, rows.Err()
}
