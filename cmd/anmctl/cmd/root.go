// Package cmd contains the anmctl commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/adminnotices/internal/storage"
)

// defaultDBPath is the default database path, can be overridden via ANM_DB_PATH env var
var defaultDBPath = "./data/adminnotices.db"

var (
	dbPath string
	output string
)

var rootCmd = &cobra.Command{
	Use:   "anmctl",
	Short: "Admin Notices Manager administration tool",
	Long: `anmctl manages the Admin Notices Manager database directly.

It creates and updates users, inspects and resets the notice ledger and
the hidden-forever list, and resets onboarding pointers.

Examples:
  # List recorded notices
  anmctl notices list

  # Forget every hidden notice
  anmctl notices reset --hidden --yes

  # Show the onboarding pointers to admin again
  anmctl pointers reset --username admin`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if envPath := os.Getenv("ANM_DB_PATH"); envPath != "" {
		defaultDBPath = envPath
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "path to SQLite database file")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
}

// openDatabase opens an existing SQLite database.
func openDatabase(path string) (*storage.SQLiteStorage, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file not found: %s", path)
	}

	store := storage.NewSQLiteStorage(path)
	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return store, nil
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

func printOK(format string, args ...any) {
	fmt.Printf("%s %s\n", okColor.Sprint("✓"), fmt.Sprintf(format, args...))
}
