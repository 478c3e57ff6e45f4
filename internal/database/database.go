package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no todo item matches the requested id
	ErrNotFound = errors.New("todo item not found")
	// ErrConflict is returned when a replace matched no row: the item was
	// deleted or its version changed since the caller read it
	ErrConflict = errors.New("todo item was modified concurrently")
	// ErrInvalid is returned when the database rejects a row on constraint grounds
	ErrInvalid = errors.New("todo item violates a database constraint")
)

// MemoryURL selects the in-process store instead of PostgreSQL
const MemoryURL = "memory://"

// DB wraps the PostgreSQL connection pool
type DB struct {
	*sql.DB
}

// New opens a PostgreSQL connection pool and verifies it with a ping
func New(databaseURL string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// Connection bundles the todo store with whatever backs it
type Connection struct {
	db    *DB
	Todos TodoStore
}

// Connect opens the store named by databaseURL. MemoryURL yields an
// in-process store that needs no migrations.
func Connect(databaseURL string) (*Connection, error) {
	if strings.HasPrefix(databaseURL, MemoryURL) {
		return &Connection{Todos: NewMemoryTodoRepository()}, nil
	}
	db, err := New(databaseURL)
	if err != nil {
		return nil, err
	}
	return &Connection{db: db, Todos: NewTodoRepository(db)}, nil
}

// DB returns the SQL pool, or nil for the memory store
func (c *Connection) DB() *DB {
	return c.db
}

// PingContext checks that the backing store is reachable
func (c *Connection) PingContext(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.PingContext(ctx)
}

// Close releases the connection pool
func (c *Connection) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// translateError maps driver errors onto the package sentinels
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "check_violation", "not_null_violation", "string_data_right_truncation", "invalid_text_representation":
			return fmt.Errorf("%w: %s", ErrInvalid, pqErr.Message)
		}
	}
	return err
}
