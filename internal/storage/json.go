package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// record is the on-disk shape of an expense. Pointer fields distinguish a
// missing key from an empty value.
type record struct {
	Amount   *json.Number `json:"amount"`
	Category *string      `json:"category"`
	Date     *string      `json:"date"`
	Notes    string       `json:"notes"`
}

// JSONRepository stores the collection as a JSON array in a single file.
type JSONRepository struct {
	path string
}

func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{path: path}
}

// Path returns the backing file location.
func (r *JSONRepository) Path() string {
	return r.path
}

// Load implements Repository. A missing file yields an empty collection.
func (r *JSONRepository) Load(ctx context.Context) ([]core.Expense, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Expense file not found, starting empty", storageAttrs(r.path)...)
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, &IOError{Op: "read", Path: r.path, Err: err}
	}

	expenses, err := decodeExpenses(data)
	if err != nil {
		var mde *MalformedDataError
		if errors.As(err, &mde) {
			mde.Path = r.path
		}
		return nil, err
	}

	slog.DebugContext(ctx, "Expenses loaded", storageAttrs(r.path, log.FieldCount, len(expenses))...)
	return expenses, nil
}

// Save implements Repository. The file is written to a temporary sibling
// and renamed into place, so readers see either the old or the new content.
func (r *JSONRepository) Save(ctx context.Context, expenses []core.Expense) error {
	data, err := encodeExpenses(expenses)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	if err := renameio.WriteFile(r.path, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: r.path, Err: err}
	}

	slog.DebugContext(ctx, "Expenses saved", storageAttrs(r.path, log.FieldCount, len(expenses))...)
	return nil
}

func encodeExpenses(expenses []core.Expense) ([]byte, error) {
	records := make([]record, len(expenses))
	for i, e := range expenses {
		amount := json.Number(e.Amount.String())
		category := e.Category
		date := e.Date.String()
		records[i] = record{
			Amount:   &amount,
			Category: &category,
			Date:     &date,
			Notes:    e.Notes,
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeExpenses(data []byte) ([]core.Expense, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, &MalformedDataError{Index: -1, Err: err}
	}
	if records == nil {
		return nil, &MalformedDataError{Index: -1, Err: errors.New("expected a list of expenses, got null")}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &MalformedDataError{Index: -1, Err: errors.New("unexpected data after expense list")}
	}

	expenses := make([]core.Expense, 0, len(records))
	for i, rec := range records {
		e, err := rec.toExpense()
		if err != nil {
			return nil, &MalformedDataError{Index: i, Err: err}
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func (rec record) toExpense() (core.Expense, error) {
	switch {
	case rec.Amount == nil:
		return core.Expense{}, errors.New("missing field \"amount\"")
	case rec.Category == nil:
		return core.Expense{}, errors.New("missing field \"category\"")
	case rec.Date == nil:
		return core.Expense{}, errors.New("missing field \"date\"")
	}

	amount, err := decimal.NewFromString(rec.Amount.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", rec.Amount.String(), err)
	}
	date, err := core.ParseDate(*rec.Date)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Date:     date,
		Amount:   core.NewMoney(amount),
		Category: *rec.Category,
		Notes:    rec.Notes,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
