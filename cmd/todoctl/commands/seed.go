package commands

import (
	"fmt"

	"github.com/benvon/todo-items/internal/database"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample todo items into an empty store",
		Long:  "Migrate the schema, then insert the sample todo items if the store holds no items. A non-empty store is left untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if !skipMigrate {
				if err := s.conn.Migrate(ctx, s.logger); err != nil {
					return fmt.Errorf("failed to migrate: %w", err)
				}
			}

			seeded, err := database.NewSeeder(s.conn.Todos, s.logger).Seed(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Inserted sample todo items")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Store already has todo items; nothing seeded")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply pending migrations first")
	return cmd
}
