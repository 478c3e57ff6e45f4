package database

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/todo-items/internal/models"
	"go.uber.org/zap"
)

// Seeder inserts the sample todo items into an empty store
type Seeder struct {
	store  TodoStore
	logger *zap.Logger
	clock  func() time.Time
}

// NewSeeder creates a new seeder instance
func NewSeeder(store TodoStore, logger *zap.Logger) *Seeder {
	return &Seeder{store: store, logger: logger, clock: time.Now}
}

// SampleItems returns the fixed seed records, with due dates relative to the given time
func SampleItems(at time.Time) []*models.TodoItem {
	groceries := models.NewTodoItem(at)
	groceries.Name = "Buy groceries"
	groceries.Description = stringPtr("Milk, Eggs, Bread, Cheese")
	groceries.Priority = models.PriorityHigh
	groceries.DueDate = at.UTC().AddDate(0, 0, 2)

	callMom := models.NewTodoItem(at)
	callMom.Name = "Call Mom"
	callMom.Description = stringPtr("Wish her a happy birthday")
	callMom.Priority = models.PriorityMedium
	callMom.DueDate = at.UTC().AddDate(0, 0, 1)

	return []*models.TodoItem{groceries, callMom}
}

// Seed inserts the sample items when the store holds no items at all and
// reports whether anything was written. Any existing item makes it a no-op.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing todo items: %w", err)
	}
	if count > 0 {
		s.logger.Info("seed_skipped_store_not_empty", zap.Int64("existing_items", count))
		return false, nil
	}

	items := SampleItems(s.clock())
	if err := s.store.CreateBatch(ctx, items); err != nil {
		return false, fmt.Errorf("failed to seed todo items: %w", err)
	}

	s.logger.Info("seeded_todo_items", zap.Int("items", len(items)))
	return true, nil
}

func stringPtr(s string) *string {
	return &s
}
