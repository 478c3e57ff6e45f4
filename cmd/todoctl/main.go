package main

import (
	"fmt"
	"os"

	"github.com/benvon/todo-items/cmd/todoctl/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:           "todoctl",
		Short:         "Administration tool for the Todo Items API",
		Long:          "CLI tool for applying schema migrations, seeding sample data and inspecting stored todo items",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewMigrateCmd())
	rootCmd.AddCommand(commands.NewSeedCmd())
	rootCmd.AddCommand(commands.NewListCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
