package database

import (
	"context"

	"github.com/benvon/todo-items/internal/models"
)

// TodoStore defines the persistence operations for todo items.
// Implementations commit every mutation before returning.
type TodoStore interface {
	List(ctx context.Context) ([]*models.TodoItem, error)
	GetByID(ctx context.Context, id int64) (*models.TodoItem, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	// Create assigns the id and writes the stored timestamps and version back onto item
	Create(ctx context.Context, item *models.TodoItem) error
	// CreateBatch inserts all items atomically
	CreateBatch(ctx context.Context, items []*models.TodoItem) error
	// Replace overwrites every mutable field of the row with item.ID. A
	// non-zero item.Version must match the stored version. ErrConflict is
	// returned when no row matched.
	Replace(ctx context.Context, item *models.TodoItem) error
	Delete(ctx context.Context, id int64) error
}

// Ensure concrete types implement the interfaces
var (
	_ TodoStore = (*TodoRepository)(nil)
	_ TodoStore = (*MemoryTodoRepository)(nil)
)
