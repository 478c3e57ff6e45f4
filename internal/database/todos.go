package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/todo-items/internal/models"
)

const todoColumns = `id, name, description, is_completed, priority, completed_at, due_date, created_at, updated_at, version`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// TodoRepository handles todo item database operations
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// now returns the current time at the precision PostgreSQL stores
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func scanTodo(row rowScanner) (*models.TodoItem, error) {
	item := &models.TodoItem{}
	var description sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.Name,
		&description,
		&item.IsCompleted,
		&item.Priority,
		&completedAt,
		&item.DueDate,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.Version,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		item.Description = &description.String
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		item.CompletedAt = &t
	}
	item.DueDate = item.DueDate.UTC()
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()

	return item, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func dueDateOrDefault(t time.Time) time.Time {
	if t.IsZero() {
		return models.NoDueDate
	}
	return t
}

// List retrieves all todo items ordered by id
func (r *TodoRepository) List(ctx context.Context) ([]*models.TodoItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+todoColumns+` FROM todo_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todo items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.TodoItem, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a todo item by ID
func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*models.TodoItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todo_items WHERE id = $1`, id)
	item, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo item: %w", err)
	}
	return item, nil
}

// Exists reports whether a todo item with the given ID is stored
func (r *TodoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM todo_items WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check todo item existence: %w", err)
	}
	return exists, nil
}

// Count returns the number of stored todo items
func (r *TodoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todo_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count todo items: %w", err)
	}
	return count, nil
}

const insertTodoQuery = `
	INSERT INTO todo_items (name, description, is_completed, priority, completed_at, due_date, created_at, updated_at, version)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7, 1)
	RETURNING id, created_at, updated_at, version
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertTodo(ctx context.Context, q queryRower, item *models.TodoItem) error {
	item.DueDate = dueDateOrDefault(item.DueDate)
	err := q.QueryRowContext(ctx, insertTodoQuery,
		item.Name,
		item.Description,
		item.IsCompleted,
		item.Priority,
		nullableTime(item.CompletedAt),
		item.DueDate,
		now(),
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt, &item.Version)
	if err != nil {
		return translateError(err)
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return nil
}

// Create inserts a new todo item; the database assigns the ID
func (r *TodoRepository) Create(ctx context.Context, item *models.TodoItem) error {
	if err := insertTodo(ctx, r.db, item); err != nil {
		return fmt.Errorf("failed to create todo item: %w", err)
	}
	return nil
}

// CreateBatch inserts all items in a single transaction
func (r *TodoRepository) CreateBatch(ctx context.Context, items []*models.TodoItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after Commit is a no-op
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if err := insertTodo(ctx, tx, item); err != nil {
			return fmt.Errorf("failed to create todo item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit todo items: %w", err)
	}
	return nil
}

// Replace overwrites an existing todo item. The version check is skipped
// when item.Version is zero.
func (r *TodoRepository) Replace(ctx context.Context, item *models.TodoItem) error {
	query := `
		UPDATE todo_items
		SET name = $2, description = $3, is_completed = $4, priority = $5,
			completed_at = $6, due_date = $7, updated_at = $8, version = version + 1
		WHERE id = $1 AND ($9::bigint = 0 OR version = $9::bigint)
		RETURNING created_at, updated_at, version
	`

	item.DueDate = dueDateOrDefault(item.DueDate)
	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		item.IsCompleted,
		item.Priority,
		nullableTime(item.CompletedAt),
		item.DueDate,
		now(),
		item.Version,
	).Scan(&item.CreatedAt, &item.UpdatedAt, &item.Version)

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("todo item %d: %w", item.ID, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to replace todo item: %w", translateError(err))
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()

	return nil
}

// Delete deletes a todo item by ID
func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todo_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("todo item %d: %w", id, ErrNotFound)
	}

	return nil
}
