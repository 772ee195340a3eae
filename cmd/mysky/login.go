package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/SkynetHQ/skynet-mysky/internal/seed"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the portal with a seed phrase",
	Long: `Login authenticates the seed's account against the configured portal
and stores the seed for future sessions. The phrase is prompted without
echo unless --phrase is given.`,
	Example: `  mysky login
  mysky login --email user@example.com`,
	RunE: runLogin,
}

var (
	loginPhrase string
	loginEmail  string
)

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginPhrase, "phrase", "",
		"Seed phrase (will prompt if not provided)")
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "",
		"Account email to remember for automatic re-login")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	phrase := loginPhrase
	if phrase == "" {
		var err error
		phrase, err = promptSecret("Seed phrase: ")
		if err != nil {
			return fmt.Errorf("read phrase: %w", err)
		}
	}

	entropy, err := seed.ValidatePhrase(phrase)
	if err != nil {
		if !jsonOutput {
			printError("Invalid phrase: %v", err)
		}
		return err
	}

	if err := apiClient.Login(ctx, entropy, loginEmail); err != nil {
		if jsonOutput {
			printJSON(map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
		} else {
			printError("Login failed: %v", err)
		}
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true})
	} else {
		printSuccess("Successfully logged in")
	}
	return nil
}

func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	// Read without echo
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", err
	}
	return string(secret), nil
}
