package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the collection in a local SQLite database. It
// follows the same whole-collection policy as the JSON file: every Save
// replaces the table contents inside one transaction.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: filepath.Dir(dbPath), Err: err}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &IOError{Op: "open", Path: dbPath, Err: err}
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements Repository
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount, category, date, notes FROM expenses ORDER BY position`)
	if err != nil {
		return nil, &IOError{Op: "query", Path: r.path, Err: err}
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for i := 0; rows.Next(); i++ {
		var amount, category, date, notes string
		if err := rows.Scan(&amount, &category, &date, &notes); err != nil {
			return nil, &IOError{Op: "scan", Path: r.path, Err: err}
		}
		e, err := rowToExpense(amount, category, date, notes)
		if err != nil {
			return nil, &MalformedDataError{Path: r.path, Index: i, Err: err}
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "query", Path: r.path, Err: err}
	}

	slog.DebugContext(ctx, "Expenses loaded from SQLite", storageAttrs(r.path, log.FieldCount, len(expenses))...)
	return expenses, nil
}

// Save implements Repository
func (r *SQLiteRepository) Save(ctx context.Context, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &IOError{Op: "begin", Path: r.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return &IOError{Op: "delete", Path: r.path, Err: err}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (position, amount, category, date, notes) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return &IOError{Op: "prepare", Path: r.path, Err: err}
	}
	defer stmt.Close()

	for i, e := range expenses {
		if _, err := stmt.ExecContext(ctx, i, e.Amount.String(), e.Category, e.Date.String(), e.Notes); err != nil {
			return &IOError{Op: "insert", Path: r.path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &IOError{Op: "commit", Path: r.path, Err: err}
	}

	slog.DebugContext(ctx, "Expenses saved to SQLite", storageAttrs(r.path, log.FieldCount, len(expenses))...)
	return nil
}

func rowToExpense(amount, category, date, notes string) (core.Expense, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	day, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		Date:     day,
		Amount:   core.NewMoney(d),
		Category: category,
		Notes:    notes,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
