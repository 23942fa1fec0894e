package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wasteboard/internal/core"

	_ "modernc.org/sqlite"
)

const dateFormat = "2006-01-02"

// SQLiteRepository holds ingested audit records and serves filtered
// selections for the dashboard. Aggregation stays in the report package;
// the repository only narrows rows.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertRecords bulk-inserts records in one transaction.
func (r *SQLiteRepository) InsertRecords(ctx context.Context, records []core.WasteRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO waste_records (record_date, department, weight_kg, infectious, waste_type, month, bin_color)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		_, err := stmt.ExecContext(ctx,
			rec.Date.Format(dateFormat),
			rec.Department,
			rec.Weight.String(),
			string(rec.Infectious),
			rec.WasteType,
			rec.Month,
			string(rec.BinColor),
		)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Records ingested into SQLite", "count", len(records))
	return nil
}

// Count returns the number of stored records.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waste_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Options returns the distinct filter values present in the table.
func (r *SQLiteRepository) Options(ctx context.Context) (core.FilterOptions, error) {
	var opts core.FilterOptions

	months := make(map[string]bool)
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT month FROM waste_records`)
	if err != nil {
		return opts, fmt.Errorf("distinct months: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return opts, fmt.Errorf("scan month: %w", err)
		}
		months[m] = true
	}
	if err := rows.Err(); err != nil {
		return opts, fmt.Errorf("iterate months: %w", err)
	}
	opts.Months = core.MonthsInCalendarOrder(months)

	deptRows, err := r.db.QueryContext(ctx, `SELECT DISTINCT department FROM waste_records ORDER BY department`)
	if err != nil {
		return opts, fmt.Errorf("distinct departments: %w", err)
	}
	defer deptRows.Close()
	for deptRows.Next() {
		var d string
		if err := deptRows.Scan(&d); err != nil {
			return opts, fmt.Errorf("scan department: %w", err)
		}
		opts.Departments = append(opts.Departments, d)
	}
	if err := deptRows.Err(); err != nil {
		return opts, fmt.Errorf("iterate departments: %w", err)
	}

	// The table always has a waste_type column; treat the view as available
	// only when at least one row carries a non-empty label.
	var typed int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM waste_records WHERE waste_type <> ''`).Scan(&typed); err != nil {
		return opts, fmt.Errorf("count waste types: %w", err)
	}
	opts.HasWasteType = typed > 0

	return opts, nil
}

// Select returns the records matching both selection sets, ordered by
// insertion. Empty selection sets select nothing.
func (r *SQLiteRepository) Select(ctx context.Context, f core.Filter) ([]core.WasteRecord, error) {
	if len(f.Months) == 0 || len(f.Departments) == 0 {
		return []core.WasteRecord{}, nil
	}

	query := `
		SELECT record_date, department, weight_kg, infectious, waste_type, month, bin_color
		FROM waste_records
		WHERE month IN (` + placeholders(len(f.Months)) + `)
		  AND department IN (` + placeholders(len(f.Departments)) + `)
		ORDER BY id`

	args := make([]any, 0, len(f.Months)+len(f.Departments))
	for _, m := range f.Months {
		args = append(args, m)
	}
	for _, d := range f.Departments {
		args = append(args, d)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer rows.Close()

	out := []core.WasteRecord{}
	for rows.Next() {
		var (
			rec        core.WasteRecord
			rawDate    string
			rawWeight  string
			infectious string
			binColor   string
		)
		if err := rows.Scan(&rawDate, &rec.Department, &rawWeight, &infectious, &rec.WasteType, &rec.Month, &binColor); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Date, err = time.ParseInLocation(dateFormat, rawDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", rawDate, err)
		}
		rec.Weight, err = decimal.NewFromString(rawWeight)
		if err != nil {
			return nil, fmt.Errorf("parse stored weight %q: %w", rawWeight, err)
		}
		rec.Infectious = core.Infectious(infectious)
		rec.BinColor = core.BinColor(binColor)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
