package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/adminnotices/internal/notices"
)

var (
	resetLedger bool
	resetHidden bool
	assumeYes   bool
)

var noticesCmd = &cobra.Command{
	Use:   "notices",
	Short: "Inspect and reset the notice ledger",
}

var noticesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded notices with their first-seen time",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		ledger := notices.NewLedger(store.Options(), notices.LedgerConfig{})
		entries, err := ledger.Entries(ctx)
		if err != nil {
			return fmt.Errorf("list notices: %w", err)
		}

		if output == "json" {
			data, _ := json.MarshalIndent(entries, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		if len(entries) == 0 {
			fmt.Println("No notices recorded.")
			return nil
		}

		fmt.Printf("\n%-32s  %-28s  %s\n", "FINGERPRINT", "FIRST SEEN", "STATUS")
		fmt.Println(strings.Repeat("-", 76))
		hidden := 0
		for _, e := range entries {
			first := dimColor.Sprint("never shown")
			if !e.FirstSeen.IsZero() {
				if first, err = ledger.Format(ctx, e.FirstSeen); err != nil {
					return err
				}
			}
			status := okColor.Sprint("visible")
			if e.Hidden {
				status = warnColor.Sprint("hidden")
				hidden++
			}
			fmt.Printf("%-32s  %-28s  %s\n", e.Fingerprint, first, status)
		}
		fmt.Printf("\nTotal: %d notice(s), %d hidden\n", len(entries), hidden)
		return nil
	},
}

var noticesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the notice ledger and/or the hidden list",
	Long: `Clear persisted notice data.

--ledger forgets first-seen times; notices get a new time on the next page
load. --hidden forgets every hide-forever choice. With neither flag both are
cleared.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := resetScope(resetLedger, resetHidden)

		if !assumeYes && !confirm(fmt.Sprintf("Clear %s? [y/N] ", describeScope(scope))) {
			fmt.Println("Aborted.")
			return nil
		}

		store, err := openDatabase(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ledger := notices.NewLedger(store.Options(), notices.LedgerConfig{})
		if err := ledger.Reset(context.Background(), scope); err != nil {
			return err
		}
		printOK("cleared %s", describeScope(scope))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(noticesCmd)
	noticesCmd.AddCommand(noticesListCmd)
	noticesCmd.AddCommand(noticesResetCmd)

	noticesResetCmd.Flags().BoolVar(&resetLedger, "ledger", false, "clear first-seen times")
	noticesResetCmd.Flags().BoolVar(&resetHidden, "hidden", false, "clear hidden-forever notices")
	noticesResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}

func resetScope(ledger, hidden bool) notices.ResetScope {
	switch {
	case ledger && !hidden:
		return notices.ResetLedger
	case hidden && !ledger:
		return notices.ResetHidden
	default:
		return notices.ResetAll
	}
}

func describeScope(scope notices.ResetScope) string {
	switch scope {
	case notices.ResetLedger:
		return "the notice ledger"
	case notices.ResetHidden:
		return "the hidden notices"
	default:
		return "the notice ledger and the hidden notices"
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
