package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/good-yellow-bee/adminnotices/internal/models"
)

var (
	userUsername string
	userRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
	Long: `Commands for managing console users.

These commands operate directly on the database file and are intended
for system administrators to manage users outside of the web interface.`,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		userList, err := store.Users().List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		installer, _, err := store.Options().Get(ctx, models.OptionInstalledBy)
		if err != nil {
			return fmt.Errorf("get installer: %w", err)
		}

		if output == "json" {
			data, _ := json.MarshalIndent(userList, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		if len(userList) == 0 {
			fmt.Println("No users found.")
			return nil
		}

		fmt.Printf("\n%-36s  %-20s  %-8s  %s\n", "ID", "USERNAME", "ROLE", "CREATED")
		fmt.Println(strings.Repeat("-", 90))
		for _, u := range userList {
			marker := ""
			if u.ID == installer {
				marker = dimColor.Sprint("  (installer)")
			}
			fmt.Printf("%-36s  %-20s  %-8s  %s%s\n",
				u.ID, u.Username, u.Role, u.CreatedAt.Format("2006-01-02 15:04:05"), marker)
		}
		fmt.Printf("\nTotal: %d user(s)\n", len(userList))
		return nil
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	Long: `Create a new user in the database.

The password is prompted interactively so it never lands in shell history.

Available roles:
  - admin:  sees the notice panel and manages settings
  - editor: can view the notice ledger
  - viewer: admin pages only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := models.ValidateUsername(userUsername); err != nil {
			return fmt.Errorf("invalid username: %w", err)
		}
		roleName := strings.ToLower(strings.TrimSpace(userRole))
		role := models.ParseRole(roleName)
		if string(role) != roleName {
			return fmt.Errorf("invalid role %q: must be one of admin, editor, viewer", userRole)
		}

		password, err := promptNewPassword("Enter password: ", "Confirm password: ")
		if err != nil {
			return err
		}

		store, err := openDatabase(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		existing, err := store.Users().GetByUsername(ctx, userUsername)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("username '%s' already exists", userUsername)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user := models.NewUser(strings.TrimSpace(userUsername), role)
		user.ID = uuid.New().String()
		user.PasswordHash = string(hash)
		if err := store.Users().Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		printOK("user %s created (%s, %s)", user.Username, user.Role, user.ID)
		return nil
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change a user's password",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		user, err := store.Users().GetByUsername(ctx, userUsername)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user '%s' not found", userUsername)
		}

		password, err := promptNewPassword("Enter new password: ", "Confirm new password: ")
		if err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
		user.UpdatedAt = time.Now()
		if err := store.Users().Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		printOK("password changed for %s", user.Username)
		warnColor.Println("Sessions already issued stay valid until they expire.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userPasswdCmd)

	userCreateCmd.Flags().StringVar(&userUsername, "username", "", "username for the new user (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", "viewer", "role: admin, editor, or viewer")
	userCreateCmd.MarkFlagRequired("username")

	userPasswdCmd.Flags().StringVar(&userUsername, "username", "", "username of the user to update (required)")
	userPasswdCmd.MarkFlagRequired("username")
}

// promptNewPassword asks for a password twice and validates it.
func promptNewPassword(prompt, confirm string) (string, error) {
	password, err := promptPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if err := models.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}
	again, err := promptPassword(confirm)
	if err != nil {
		return "", fmt.Errorf("read password confirmation: %w", err)
	}
	if password != again {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// promptPassword prompts for a password without echoing to the terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		passwordBytes, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(passwordBytes), nil
	}

	// Fallback for non-terminal input (e.g., piped input)
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(password), nil
}
