package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/benvon/todo-items/internal/models"
	"github.com/benvon/todo-items/internal/validation"
)

// MemoryTodoRepository keeps todo items in process memory. It follows the
// same contract as TodoRepository, including id assignment and the version
// check on replace.
type MemoryTodoRepository struct {
	mu     sync.RWMutex
	items  map[int64]*models.TodoItem
	nextID int64
}

// NewMemoryTodoRepository creates an empty in-memory repository
func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{
		items:  make(map[int64]*models.TodoItem),
		nextID: 1,
	}
}

func cloneTodo(item *models.TodoItem) *models.TodoItem {
	c := *item
	if item.Description != nil {
		d := *item.Description
		c.Description = &d
	}
	if item.CompletedAt != nil {
		t := *item.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// List returns every stored item ordered by id
func (r *MemoryTodoRepository) List(ctx context.Context) ([]*models.TodoItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*models.TodoItem, 0, len(r.items))
	for id := int64(1); id < r.nextID; id++ {
		if item, ok := r.items[id]; ok {
			items = append(items, cloneTodo(item))
		}
	}
	return items, nil
}

// GetByID returns a copy of the item with the given ID
func (r *MemoryTodoRepository) GetByID(ctx context.Context, id int64) (*models.TodoItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("todo item %d: %w", id, ErrNotFound)
	}
	return cloneTodo(item), nil
}

// Exists reports whether an item with the given ID is stored
func (r *MemoryTodoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[id]
	return ok, nil
}

// Count returns the number of stored items
func (r *MemoryTodoRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items)), nil
}

// insertLocked stores item under a fresh id; callers hold mu
func (r *MemoryTodoRepository) insertLocked(item *models.TodoItem) {
	ts := now()
	item.ID = r.nextID
	r.nextID++
	item.DueDate = dueDateOrDefault(item.DueDate)
	item.CreatedAt = ts
	item.UpdatedAt = ts
	item.Version = 1
	r.items[item.ID] = cloneTodo(item)
}

// Create stores a new item and assigns its ID
func (r *MemoryTodoRepository) Create(ctx context.Context, item *models.TodoItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validation.ValidateTodoItem(item); err != nil {
		return fmt.Errorf("failed to create todo item: %w: %s", ErrInvalid, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.insertLocked(item)
	return nil
}

// CreateBatch stores all items or none of them
func (r *MemoryTodoRepository) CreateBatch(ctx context.Context, items []*models.TodoItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, item := range items {
		if err := validation.ValidateTodoItem(item); err != nil {
			return fmt.Errorf("failed to create todo item %q: %w: %s", item.Name, ErrInvalid, err)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.insertLocked(item)
	}
	return nil
}

// Replace overwrites the stored item with item.ID
func (r *MemoryTodoRepository) Replace(ctx context.Context, item *models.TodoItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validation.ValidateTodoItem(item); err != nil {
		return fmt.Errorf("failed to replace todo item: %w: %s", ErrInvalid, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok || (item.Version != 0 && item.Version != stored.Version) {
		return fmt.Errorf("todo item %d: %w", item.ID, ErrConflict)
	}

	item.DueDate = dueDateOrDefault(item.DueDate)
	item.CreatedAt = stored.CreatedAt
	item.UpdatedAt = now()
	item.Version = stored.Version + 1
	r.items[item.ID] = cloneTodo(item)
	return nil
}

// Delete removes the item with the given ID
func (r *MemoryTodoRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("todo item %d: %w", id, ErrNotFound)
	}
	delete(r.items, id)
	return nil
}
