// Package ledger stores attendance records in a single SQLite file.
//
// Each Append is one INSERT, so recording an event does not rewrite earlier
// rows. Reset removes the file; the next Append creates it again. There is no
// locking beyond SQLite's own: several processes appending at once rely on
// the busy timeout.
package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/abihf/rollcall/logger"
)

//go:embed schema.sql
var schemaSQL string

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// ErrNotExist is returned by List and Reset when there is no ledger file.
var ErrNotExist = errors.New("no attendance records found")

// Record is one attendance event.
type Record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	Time string `json:"time"`
}

func (r Record) String() string {
	return fmt.Sprintf("%s - %s - %s", r.Name, r.Date, r.Time)
}

type Ledger struct {
	path string
	log  *zerolog.Logger
}

func New(path string, log *zerolog.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{path: path, log: log}
}

func (l *Ledger) Path() string {
	return l.path
}

// Exists reports whether the ledger file is present.
func (l *Ledger) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Append records name as present at now.
func (l *Ledger) Append(ctx context.Context, name string, now time.Time) (Record, error) {
	rec := Record{
		Name: name,
		Date: now.Format(DateLayout),
		Time: now.Format(TimeLayout),
	}

	db, err := open(l.path)
	if err != nil {
		return rec, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		"INSERT INTO attendance (Name, Date, Time) VALUES (?, ?, ?)",
		rec.Name, rec.Date, rec.Time)
	if err != nil {
		return rec, errors.Wrap(err, "Can not insert attendance record")
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return rec, errors.Wrap(err, "Can not read record id")
	}

	l.log.Info().Str("name", rec.Name).Str("date", rec.Date).Str("time", rec.Time).Msg("Attendance recorded")
	return rec, nil
}

// List returns every record in insertion order.
func (l *Ledger) List(ctx context.Context) ([]Record, error) {
	if !l.Exists() {
		return nil, ErrNotExist
	}

	db, err := open(l.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT id, Name, Date, Time FROM attendance ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "Can not query attendance records")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Date, &r.Time); err != nil {
			return nil, errors.Wrap(err, "Can not scan attendance record")
		}
		records = append(records, r)
	}
	return records, errors.Wrap(rows.Err(), "Can not read attendance records")
}

// Reset deletes the ledger file.
func (l *Ledger) Reset() error {
	if !l.Exists() {
		return ErrNotExist
	}
	if err := os.Remove(l.path); err != nil {
		return errors.Wrap(err, "Can not delete attendance records")
	}
	for _, suffix := range []string{"-journal", "-wal", "-shm"} {
		if err := os.Remove(l.path + suffix); err != nil && !os.IsNotExist(err) {
			l.log.Warn().Err(err).Str("file", l.path+suffix).Msg("Can not remove sqlite sidecar file")
		}
	}
	l.log.Info().Str("path", l.path).Msg("Attendance records reset")
	return nil
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "Can not open ledger")
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "Can not open ledger %s", path)
	}

	for _, stmt := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = FULL",
		schemaSQL,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "Can not prepare ledger %s", path)
		}
	}
	return db, nil
}
