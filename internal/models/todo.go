package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority represents how important a todo item is
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every valid priority in ascending order
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority resolves a priority name case-insensitively
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority: %q (must be 'Low', 'Medium', or 'High')", s)
}

// Valid reports whether p is one of the three known levels
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// UnmarshalJSON accepts any casing of a known priority name
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("priority must be a string: %w", err)
	}
	parsed, err := ParsePriority(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

const (
	// MaxNameLength is the maximum length for a todo name, in characters
	MaxNameLength = 200
)

// NoDueDate is stored when an item has no due date
var NoDueDate = time.Date(9999, time.December, 31, 23, 59, 59, 999999000, time.UTC)

// TodoItem represents a todo item
type TodoItem struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name" validate:"required,notblank,max=200"`
	Description *string    `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	Priority    Priority   `json:"priority" validate:"priority"`
	CompletedAt *time.Time `json:"completedAt"`
	DueDate     time.Time  `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	// Version is the optimistic concurrency token; 0 on input means "don't check"
	Version int64 `json:"version"`
}

// NewTodoItem returns an item carrying every default. Request bodies are
// decoded on top of it so omitted fields keep their default value.
func NewTodoItem(now time.Time) *TodoItem {
	now = now.UTC()
	return &TodoItem{
		IsCompleted: false,
		Priority:    PriorityMedium,
		DueDate:     NoDueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasDueDate reports whether a real due date is set
func (t *TodoItem) HasDueDate() bool {
	return !t.DueDate.IsZero() && t.DueDate.Before(NoDueDate)
}
