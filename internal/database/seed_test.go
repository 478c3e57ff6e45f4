package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benvon/todo-items/internal/models"
	"go.uber.org/zap"
)

func TestSampleItems(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	items := SampleItems(at)

	if len(items) != 2 {
		t.Fatalf("Expected 2 sample items, got %d", len(items))
	}

	tests := []struct {
		name        string
		description string
		priority    models.Priority
		due         time.Time
	}{
		{"Buy groceries", "Milk, Eggs, Bread, Cheese", models.PriorityHigh, at.AddDate(0, 0, 2)},
		{"Call Mom", "Wish her a happy birthday", models.PriorityMedium, at.AddDate(0, 0, 1)},
	}

	for i, want := range tests {
		got := items[i]
		if got.Name != want.name {
			t.Errorf("item %d: expected name %q, got %q", i, want.name, got.Name)
		}
		if got.Description == nil || *got.Description != want.description {
			t.Errorf("item %d: expected description %q, got %v", i, want.description, got.Description)
		}
		if got.Priority != want.priority {
			t.Errorf("item %d: expected priority %q, got %q", i, want.priority, got.Priority)
		}
		if !got.DueDate.Equal(want.due) {
			t.Errorf("item %d: expected due date %s, got %s", i, want.due, got.DueDate)
		}
		if got.IsCompleted {
			t.Errorf("item %d: expected not completed", i)
		}
	}
}

func TestSeeder_SeedsEmptyStoreOnce(t *testing.T) {
	t.Parallel()

	store := NewMemoryTodoRepository()
	seeder := NewSeeder(store, zap.NewNop())
	ctx := context.Background()

	seeded, err := seeder.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if !seeded {
		t.Error("Expected first run to seed")
	}

	seeded, err = seeder.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed() second run error = %v", err)
	}
	if seeded {
		t.Error("Expected second run to be a no-op")
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items after seeding twice, got %d", len(items))
	}
	if items[0].Name != "Buy groceries" || items[1].Name != "Call Mom" {
		t.Errorf("Unexpected seeded names: %q, %q", items[0].Name, items[1].Name)
	}
}

func TestSeeder_SkipsNonEmptyStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryTodoRepository()
	ctx := context.Background()
	if err := store.Create(ctx, newItem("existing")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	seeded, err := NewSeeder(store, zap.NewNop()).Seed(ctx)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if seeded {
		t.Error("Expected seeding to skip a store with existing items")
	}
	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("Expected 1 item, got %d", count)
	}
}

// failingCountStore fails Count to exercise error propagation
type failingCountStore struct {
	*MemoryTodoRepository
}

func (s failingCountStore) Count(ctx context.Context) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestSeeder_PropagatesErrors(t *testing.T) {
	t.Parallel()

	store := failingCountStore{NewMemoryTodoRepository()}
	_, err := NewSeeder(store, zap.NewNop()).Seed(context.Background())
	if err == nil {
		t.Fatal("Expected an error when the store cannot be counted")
	}
}
