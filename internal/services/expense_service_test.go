package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

func newService(t *testing.T, repo storage.Repository) *ExpenseService {
	t.Helper()
	s, err := NewExpenseService(context.Background(), repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

func mustAdd(t *testing.T, s *ExpenseService, amount, category, date, notes string) {
	t.Helper()
	if _, err := s.AddExpense(context.Background(), amount, category, date, notes); err != nil {
		t.Fatalf("add %s/%s/%s: %v", amount, category, date, err)
	}
}

func TestNewExpenseService_EmptyWhenFileAbsent(t *testing.T) {
	repo := storage.NewJSONRepository(filepath.Join(t.TempDir(), "expenses.json"))
	s := newService(t, repo)
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
	if got := s.Expenses(core.Filter{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestNewExpenseService_MalformedFileFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	if err := os.WriteFile(path, []byte(`{broken`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewExpenseService(context.Background(), storage.NewJSONRepository(path), nil)
	if !errors.Is(err, storage.ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData, got %v", err)
	}
}

func TestAddExpense_PersistsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	s := newService(t, storage.NewJSONRepository(path))

	mustAdd(t, s, "12.5", "Food", "2024-03-01", "lunch")
	mustAdd(t, s, "40", "Bills", "2024-03-05", "")

	// A fresh store sees the new record at the end.
	fresh := newService(t, storage.NewJSONRepository(path))
	got := fresh.Expenses(core.Filter{})
	if len(got) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(got))
	}
	last := got[1]
	if last.Category != "Bills" || !last.Amount.Equal(core.MustMoney("40")) || last.Date.String() != "2024-03-05" {
		t.Fatalf("unexpected last expense %+v", last)
	}
	if got[0].Notes != "lunch" {
		t.Fatalf("insertion order not preserved: %+v", got)
	}
}

func TestAddExpense_InvalidAmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	s := newService(t, storage.NewJSONRepository(path))
	mustAdd(t, s, "10", "Food", "2024-03-01", "")

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	for _, amount := range []string{"abc", "", "-5", "0"} {
		_, err := s.AddExpense(context.Background(), amount, "Food", "2024-03-02", "")
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	if s.Len() != 1 {
		t.Fatalf("collection mutated: %d records", s.Len())
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("persisted file changed after rejected add")
	}
}

func TestAddExpense_InvalidDate(t *testing.T) {
	repo := storage.NewMemoryRepository()
	s := newService(t, repo)
	_, err := s.AddExpense(context.Background(), "10", "Food", "01/03/2024", "")
	if !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if s.Len() != 0 || repo.Saves() != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestAppend_SaveFailureRollsBack(t *testing.T) {
	repo := storage.NewMemoryRepository()
	s := newService(t, repo)
	mustAdd(t, s, "1", "Food", "2024-03-01", "")

	diskFull := &storage.IOError{Op: "write", Path: "expenses.json", Err: errors.New("no space left on device")}
	repo.FailSave = diskFull

	_, err := s.AddExpense(context.Background(), "2", "Food", "2024-03-02", "")
	if !errors.Is(err, storage.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("in-memory collection should be unchanged, got %d records", s.Len())
	}

	repo.FailSave = nil
	mustAdd(t, s, "3", "Food", "2024-03-03", "")
	got := s.Expenses(core.Filter{})
	if len(got) != 2 || !got[1].Amount.Equal(core.MustMoney("3")) {
		t.Fatalf("unexpected collection after recovery %+v", got)
	}
}

func TestExpenses_Filter(t *testing.T) {
	s := newService(t, storage.NewMemoryRepository())
	mustAdd(t, s, "5", "Food", "2024-01-15", "")
	mustAdd(t, s, "7", "Food", "2024-02-10", "")
	mustAdd(t, s, "9", "Bills", "2024-02-20", "")

	byDate := s.Expenses(core.Filter{Start: core.NewDate(2024, 2, 1), End: core.NewDate(2024, 2, 28)})
	if len(byDate) != 2 || byDate[0].Date.String() != "2024-02-10" || byDate[1].Date.String() != "2024-02-20" {
		t.Fatalf("unexpected date filter result %+v", byDate)
	}

	byCategory := s.Expenses(core.Filter{}.InCategory("Food"))
	if len(byCategory) != 2 || byCategory[0].Date.String() != "2024-01-15" || byCategory[1].Date.String() != "2024-02-10" {
		t.Fatalf("unexpected category filter result %+v", byCategory)
	}

	// Results are copies; mutating them does not touch the store.
	byCategory[0].Category = "changed"
	if s.Expenses(core.Filter{})[0].Category != "Food" {
		t.Fatalf("query result aliases the store")
	}
}

func TestMonthlySummary(t *testing.T) {
	s := newService(t, storage.NewMemoryRepository())
	mustAdd(t, s, "10.00", "Food", "2024-03-02", "")
	mustAdd(t, s, "25.50", "Bills", "2024-03-20", "")
	mustAdd(t, s, "100", "Food", "2024-04-01", "")

	ov, err := s.MonthlySummary(2024, 3)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !ov.Total.Equal(core.MustMoney("35.50")) {
		t.Fatalf("unexpected total %s", ov.Total)
	}
	want := map[string]string{"Food": "10.00", "Bills": "25.50"}
	if len(ov.ByCategory) != len(want) {
		t.Fatalf("unexpected breakdown %+v", ov.ByCategory)
	}
	for _, c := range ov.ByCategory {
		if !c.Amount.Equal(core.MustMoney(want[c.Name])) {
			t.Fatalf("category %s: expected %s, got %s", c.Name, want[c.Name], c.Amount)
		}
	}
}

func TestMonthlySummary_NoData(t *testing.T) {
	empty := newService(t, storage.NewMemoryRepository())
	if _, err := empty.MonthlySummary(2024, 3); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for empty store, got %v", err)
	}

	s := newService(t, storage.NewMemoryRepository())
	mustAdd(t, s, "10", "Food", "2024-03-02", "")
	if _, err := s.MonthlySummary(2024, 4); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for month without expenses, got %v", err)
	}
}

func TestMonthlySummary_InvalidMonth(t *testing.T) {
	s := newService(t, storage.NewMemoryRepository())
	if _, err := s.MonthlySummary(2024, 13); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	a := newService(t, storage.NewJSONRepository(path))
	b := newService(t, storage.NewJSONRepository(path))

	mustAdd(t, a, "1", "Food", "2024-03-01", "")
	if b.Len() != 0 {
		t.Fatalf("b should not see the write before reload")
	}
	if err := b.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 record after reload, got %d", b.Len())
	}
}

func TestCategories(t *testing.T) {
	s := newService(t, storage.NewMemoryRepository())
	mustAdd(t, s, "1", "Gifts", "2024-03-01", "")
	mustAdd(t, s, "1", "Food", "2024-03-01", "")
	mustAdd(t, s, "1", "", "2024-03-01", "")

	got := s.Categories([]string{"Food", "Bills"})
	want := []string{"Food", "Bills", "Gifts"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestExpenseService_Close(t *testing.T) {
	t.Run("repository without resources", func(t *testing.T) {
		s := newService(t, storage.NewMemoryRepository())
		if err := s.Close(); err != nil {
			t.Fatalf("Close should not return error: %v", err)
		}
	})

	t.Run("sqlite repository", func(t *testing.T) {
		repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		s := newService(t, repo)
		mustAdd(t, s, "2.5", "Food", "2024-03-01", "")
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
}
