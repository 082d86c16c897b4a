package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepositoryLoadReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository(sampleExpenses()...)
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got[0].Category = "changed"

	again, _ := repo.Load(context.Background())
	if again[0].Category != "Food" {
		t.Fatalf("repository content was modified through Load result")
	}
}

func TestMemoryRepositorySave(t *testing.T) {
	repo := NewMemoryRepository()
	if err := repo.Save(context.Background(), sampleExpenses()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := repo.Load(context.Background())
	assertSameExpenses(t, got, sampleExpenses())
	if repo.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", repo.Saves())
	}

	repo.FailSave = errors.New("disk full")
	if err := repo.Save(context.Background(), nil); err == nil {
		t.Fatalf("expected failure")
	}
	got, _ = repo.Load(context.Background())
	if len(got) != 3 || repo.Saves() != 1 {
		t.Fatalf("failed save must not change content")
	}
}
