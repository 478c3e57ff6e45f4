package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/benvon/todo-items/internal/models"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored todo items",
		Long:  "List every stored todo item in id order",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			items, err := s.conn.Todos.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list todo items: %w", err)
			}
			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	}

	return cmd
}

func printItems(w io.Writer, items []*models.TodoItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No todo items")
		return
	}

	fmt.Fprintln(w, "Todo items:")
	for _, item := range items {
		status := " "
		if item.IsCompleted {
			status = "x"
		}
		fmt.Fprintf(w, "  [%s] #%d %s\n", status, item.ID, item.Name)
		fmt.Fprintf(w, "      Priority: %s\n", item.Priority)
		if item.Description != nil {
			fmt.Fprintf(w, "      Description: %s\n", *item.Description)
		}
		if item.HasDueDate() {
			fmt.Fprintf(w, "      Due: %s\n", item.DueDate.Format(time.RFC3339))
		}
	}
}
