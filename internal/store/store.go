// Package store exports converted datasets to PostgreSQL.
//
// Every conversion run writes one row per country per day into the daily
// table, stamped with the run ID, and one summary row into the runs table
// (<table>_runs). Rows are streamed with COPY.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/covidconv/internal/dataset"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultTable is the daily table used when none is configured.
const DefaultTable = "covid_daily"

// Columns of the daily table, in COPY order.
var Columns = []string{
	"run_id", "code", "name", "region", "lat", "lon",
	"day", "confirmed", "recovered", "dead",
}

// Copier is the subset of *pgxpool.Pool the exporter needs. Schema
// statements run directly; each export runs in its own transaction.
type Copier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Exporter writes datasets into Table and Table_runs.
type Exporter struct {
	DB    Copier
	Table string
}

// New returns an Exporter for table, or DefaultTable if table is empty.
func New(db Copier, table string) *Exporter {
	if table == "" {
		table = DefaultTable
	}
	return &Exporter{DB: db, Table: table}
}

func (e *Exporter) dailyTable() pgx.Identifier { return pgx.Identifier{e.Table} }

func (e *Exporter) runsTable() pgx.Identifier { return pgx.Identifier{e.Table + "_runs"} }

// EnsureSchema creates both tables if they do not exist.
func (e *Exporter) EnsureSchema(ctx context.Context) error {
	daily := e.dailyTable().Sanitize()
	runs := e.runsTable().Sanitize()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + runs + ` (
			run_id      uuid PRIMARY KEY,
			countries   integer NOT NULL,
			records     integer NOT NULL,
			created_at  timestamptz NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + daily + ` (
			run_id     uuid NOT NULL,
			code       text NOT NULL,
			name       text NOT NULL,
			region     text NOT NULL,
			lat        double precision NOT NULL,
			lon        double precision NOT NULL,
			day        date NOT NULL,
			confirmed  bigint NOT NULL,
			recovered  bigint NOT NULL,
			dead       bigint NOT NULL,
			PRIMARY KEY (run_id, code, day)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := e.DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Save records the run and copies every record of ds in one transaction.
// It returns the number of daily rows copied.
//
// Rows are built before anything is sent, so a record with an unpopulated
// metric fails the export without touching the database. A failed copy
// rolls back the run row with it.
func (e *Exporter) Save(ctx context.Context, runID uuid.UUID, ds *dataset.Dataset) (int64, error) {
	rows, err := Rows(runID, ds)
	if err != nil {
		return 0, err
	}

	tx, err := e.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO `+e.runsTable().Sanitize()+` (run_id, countries, records, created_at) VALUES ($1, $2, $3, $4)`,
		pgUUID(runID), ds.Len(), len(rows), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}

	n, err := tx.CopyFrom(ctx, e.dailyTable(), Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", e.Table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Rows builds one COPY row per record of ds, in country then date order.
func Rows(runID uuid.UUID, ds *dataset.Dataset) ([][]any, error) {
	id := pgUUID(runID)

	rows := make([][]any, 0, ds.Records())
	for _, c := range ds.Countries() {
		for _, e := range c.Entries() {
			confirmed, recovered, dead, err := e.Values()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", c.Code, err)
			}
			rows = append(rows, []any{
				id,
				pgtype.Text{String: c.Code, Valid: true},
				pgtype.Text{String: c.Name, Valid: true},
				pgtype.Text{String: c.Region, Valid: true},
				pgtype.Float8{Float64: c.Lat, Valid: true},
				pgtype.Float8{Float64: c.Lon, Valid: true},
				pgDate(e.Date),
				pgtype.Int8{Int64: int64(confirmed), Valid: true},
				pgtype.Int8{Int64: int64(recovered), Valid: true},
				pgtype.Int8{Int64: int64(dead), Valid: true},
			})
		}
	}
	return rows, nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// pgDate drops the midday anchor; the column holds the calendar day.
func pgDate(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}
