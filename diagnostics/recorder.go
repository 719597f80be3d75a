// Package diagnostics offers an optional SQLite-backed event recorder, for
// post-run analysis of a simulation's dispatch trace. It is entirely
// separate from the core Diagnostic warning channel (desim.Diagnostic):
// this package persists structured event records, that one reports
// advisory text.
//
// Grounded on the teacher's datarecording.DataRecorder (CreateTable,
// InsertData, ListTables, Flush, the batched-insert sqliteWriter built on
// github.com/fatih/structs.Names, and its atexit.Register-on-exit flush),
// generalized from arbitrary struct entries to a single fixed EventRecord
// schema.
package diagnostics

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/structs"
	// Registers the "sqlite3" driver used by sql.Open below.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/dcsdes/desim"
)

// EventRecord is one row of the "events" table: the fields of a fired
// desim.Event flattened to SQLite-storable types. Column names and insert
// placeholders are both derived from this struct's field names via
// github.com/fatih/structs, so adding a field here is enough to extend
// the schema.
type EventRecord struct {
	ID            string
	Source        string
	ScheduledTime float64
	FireTime      float64
	IsInternal    bool
}

// Recorder records fired events to a batch of in-memory rows, periodically
// flushed to a SQLite database file.
type Recorder struct {
	db        *sql.DB
	columns   []string
	lock      sync.Mutex
	rows      []EventRecord
	batchSize int
	path      string
}

// NewRecorder opens (and creates, if necessary) a SQLite database at path
// and registers an atexit flush, the same as datarecording.New. If path is
// empty, a unique name is generated from an xid, mirroring the teacher's
// "akita_data_recording_<xid>" default.
func NewRecorder(path string) (*Recorder, error) {
	if path == "" {
		path = "desim_recording_" + xid.New().String() + ".sqlite3"
	}

	columns := structs.Names(EventRecord{})

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	createTableSQL := "CREATE TABLE IF NOT EXISTS events (\n\t" +
		strings.Join(columns, ",\n\t") + "\n)"

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()

		return nil, err
	}

	r := &Recorder{db: db, columns: columns, batchSize: 100000, path: path}

	atexit.Register(func() { _ = r.Flush() })

	return r, nil
}

// Sink returns a desim.Sink suitable for connecting to
// Engine.AfterOfEventFiringSource: every wrapped event is recorded, user
// events and the engine's immediately fired lifecycle events alike (the
// latter with IsInternal set).
func (r *Recorder) Sink() desim.Sink {
	return desim.SinkFunc(func(e *desim.Event, ctx *desim.Context) {
		origin := e.Embedded()
		if origin == nil {
			return
		}

		r.Record(origin)
	})
}

// Record appends e to the pending batch, flushing automatically once
// batchSize rows have accumulated.
func (r *Recorder) Record(e *desim.Event) {
	r.lock.Lock()
	defer r.lock.Unlock()

	source := ""
	if e.Source() != nil {
		source = e.Source().Name()
	}

	r.rows = append(r.rows, EventRecord{
		ID:            e.ID(),
		Source:        source,
		ScheduledTime: float64(e.ScheduledTime()),
		FireTime:      float64(e.FireTime()),
		IsInternal:    e.IsInternal(),
	})

	if len(r.rows) >= r.batchSize {
		r.flushLocked()
	}
}

// Flush writes every pending row to the database inside one transaction,
// the same batched-insert shape as datarecording.sqliteWriter.Flush.
func (r *Recorder) Flush() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.flushLocked()
}

func (r *Recorder) flushLocked() error {
	if len(r.rows) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	placeholders := make([]string, len(r.columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	insertSQL := fmt.Sprintf("INSERT INTO events VALUES (%s)", strings.Join(placeholders, ", "))

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		tx.Rollback()

		return err
	}

	for _, row := range r.rows {
		values := structs.Values(row)

		if _, err := stmt.Exec(values...); err != nil {
			stmt.Close()
			tx.Rollback()

			return err
		}
	}

	stmt.Close()

	if err := tx.Commit(); err != nil {
		return err
	}

	r.rows = nil

	return nil
}

// Close flushes any pending rows and closes the underlying database
// connection.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}

	return r.db.Close()
}

// Path returns the SQLite file path this Recorder writes to.
func (r *Recorder) Path() string {
	return r.path
}
