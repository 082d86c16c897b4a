package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// ErrNoData is returned by MonthlySummary when no expense was recorded in
// the requested month. It is distinct from a month whose total is zero.
var ErrNoData = errors.New("no data available for selected period")

// ExpenseService owns the expense collection: it loads it once from the
// repository, keeps it in insertion order and rewrites the repository on
// every successful append. It is not safe for concurrent use.
type ExpenseService struct {
	repo     storage.Repository
	logger   *log.Logger
	expenses []core.Expense
}

// NewExpenseService creates the service and loads the persisted collection.
func NewExpenseService(ctx context.Context, repo storage.Repository, logger *log.Logger) (*ExpenseService, error) {
	if logger == nil {
		logger = log.Discard()
	}
	s := &ExpenseService{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentStore),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory collection with the persisted one.
func (s *ExpenseService) Reload(ctx context.Context) error {
	expenses, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load expenses",
			log.NewFields().WithOperation(log.OpLoad).WithError(err).ToSlice()...)
		return fmt.Errorf("load expenses: %w", err)
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	s.expenses = expenses
	s.logger.DebugContext(ctx, "Expenses loaded", log.FieldCount, len(expenses))
	return nil
}

// AddExpense parses the raw input, appends the expense and persists the
// collection. Amount must be a positive number (core.ErrInvalidAmount) and
// date must be YYYY-MM-DD (core.ErrInvalidDate). Nothing is stored when
// either check fails.
func (s *ExpenseService) AddExpense(ctx context.Context, amount, category, date, notes string) (core.Expense, error) {
	money, err := core.ParseAmount(amount)
	if err != nil {
		return core.Expense{}, err
	}
	day, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Date:     day,
		Amount:   money,
		Category: category,
		Notes:    notes,
	}
	if err := s.Append(ctx, e); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// Append stores a validated expense at the end of the collection and
// rewrites the repository. If the write fails the in-memory collection is
// left as it was before the call.
func (s *ExpenseService) Append(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	next := append(slices.Clip(s.expenses), e)
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist expense",
			log.NewFields().WithOperation(log.OpAppend).WithExpense(e).WithError(err).ToSlice()...)
		return fmt.Errorf("save expenses: %w", err)
	}
	s.expenses = next

	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithOperation(log.OpAppend).WithExpense(e).ToSlice()...)
	return nil
}

// Expenses returns the stored expenses matching f in insertion order. The
// result is a fresh slice and never nil.
func (s *ExpenseService) Expenses(f core.Filter) []core.Expense {
	out := f.Apply(s.expenses)
	s.logger.Debug("Expenses queried", log.FieldOperation, log.OpQuery, log.FieldCount, len(out))
	return out
}

// Len returns the number of stored expenses.
func (s *ExpenseService) Len() int {
	return len(s.expenses)
}

// MonthlySummary totals the expenses recorded in year/month. It returns
// ErrNoData when nothing was recorded in that month.
func (s *ExpenseService) MonthlySummary(year, month int) (core.MonthOverview, error) {
	if err := core.ValidatePeriod(year, month); err != nil {
		return core.MonthOverview{}, err
	}
	overview, ok := core.Summarize(s.expenses, year, month)
	if !ok {
		return core.MonthOverview{Year: year, Month: month}, ErrNoData
	}
	s.logger.Debug("Monthly summary computed",
		log.NewFields().WithOperation(log.OpSummary).WithPeriod(year, month).ToSlice()...)
	return overview, nil
}

// Categories returns the suggested categories followed by any other
// category already in use, without duplicates.
func (s *ExpenseService) Categories(suggested []string) []string {
	seen := make(map[string]struct{}, len(suggested))
	out := make([]string, 0, len(suggested))
	add := func(c string) {
		if c == "" {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, c := range suggested {
		add(c)
	}
	for _, e := range s.expenses {
		add(e.Category)
	}
	return out
}

// Close releases the repository when it holds resources.
func (s *ExpenseService) Close() error {
	if c, ok := s.repo.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close repository: %w", err)
		}
	}
	return nil
}
