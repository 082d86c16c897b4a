package storage

import (
	"context"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// Repository persists the whole expense collection. Load returns records in
// insertion order; Save replaces everything previously stored.
type Repository interface {
	Load(ctx context.Context) ([]core.Expense, error)
	Save(ctx context.Context, expenses []core.Expense) error
}

// storageAttrs tags repository log records with the storage component and
// the backing location.
func storageAttrs(path string, extra ...any) []any {
	return append([]any{log.FieldComponent, log.ComponentStorage, log.FieldPath, path}, extra...)
}
