package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/s0up4200/einthusarr/session"
)

var saveCredentials bool

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Einthusan for premium (HD) downloads",
	Long: `Authenticate against Einthusan and persist the session cookies.
Saved credentials are used when present; otherwise email and password
are prompted for interactively.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&saveCredentials, "save-credentials", false, "save the entered credentials for future logins")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	creds, err := store.LoadCredentials()
	switch {
	case err == nil:
		fmt.Printf("Using saved credentials for %s\n", creds.Email)
	case errors.Is(err, fs.ErrNotExist):
		prompted, promptErr := promptCredentials()
		if promptErr != nil {
			return promptErr
		}
		creds = prompted
	default:
		return fmt.Errorf("failed to read saved credentials: %w", err)
	}

	newSess, err := siteClient.Login(ctx, *creds)
	if err != nil {
		return err
	}

	if err := store.SaveSession(newSess); err != nil {
		return err
	}
	fmt.Printf("✓ Logged in; session saved to %s\n", store.CookiePath())

	if saveCredentials {
		if err := store.SaveCredentials(*creds); err != nil {
			return err
		}
		fmt.Printf("✓ Credentials saved to %s\n", store.CredentialsPath())
	}

	return nil
}

func promptCredentials() (*session.Credentials, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read email: %w", err)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return &session.Credentials{
		Email:    strings.TrimSpace(email),
		Password: string(password),
	}, nil
}
