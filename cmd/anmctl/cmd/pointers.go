package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/adminnotices/internal/pointers"
)

var pointerUsername string

var pointersCmd = &cobra.Command{
	Use:   "pointers",
	Short: "Manage onboarding pointers",
}

var pointersResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Show the onboarding pointers to a user again",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		user, err := store.Users().GetByUsername(ctx, pointerUsername)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user '%s' not found", pointerUsername)
		}

		seq := pointers.NewSequencer(store.Options(), store.UserMeta(), nil)
		if err := seq.Reset(ctx, user.ID); err != nil {
			return err
		}
		printOK("pointers reset for %s", user.Username)

		eligible, err := seq.Eligible(ctx, user.ID)
		if err != nil {
			return err
		}
		if !eligible {
			warnColor.Printf("%s did not install the notices manager and will not see pointers.\n", user.Username)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pointersCmd)
	pointersCmd.AddCommand(pointersResetCmd)

	pointersResetCmd.Flags().StringVar(&pointerUsername, "username", "", "user whose pointers to reset (required)")
	pointersResetCmd.MarkFlagRequired("username")
}
