// Package cli implements the command-line subcommands of the binary.
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dallaire44/liftingdiarycourse/internal/auth"
	"github.com/dallaire44/liftingdiarycourse/internal/config"
	"github.com/dallaire44/liftingdiarycourse/internal/database"
	"github.com/dallaire44/liftingdiarycourse/internal/database/users"
)

// CreateUserCommand creates a user account from the command line, for
// provisioning without going through the HTTP setup endpoint.
type CreateUserCommand struct {
	Username     string
	Email        string
	DatabasePath string
}

// NewCreateUserCommand creates a new CreateUserCommand.
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags.
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address for the new account")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account. The password is read interactively.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		fs.Usage()
		return fmt.Errorf("username is required")
	}

	return nil
}

// Run creates the user.
func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	userRepo := users.NewRepository(db.DB)
	if _, err := userRepo.GetUserByUsername(cmd.Username); err == nil {
		return fmt.Errorf("user %q already exists", cmd.Username)
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	user, err := service.CreateUser(cmd.Username, cmd.Email, password)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user %q (id %d)\n", user.Username, user.ID)
	return nil
}

func promptPassword() (string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("Password (min %d characters): ", auth.MinPasswordLength)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")

	fmt.Print("Confirm password: ")
	confirm, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}
	confirm = strings.TrimRight(confirm, "\r\n")

	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}
