package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SkynetHQ/skynet-mysky/internal/seed"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a portal account for a new or existing seed",
	Long: `Register creates a portal account bound to the seed's login key.
Without --phrase a fresh seed is generated and printed; keep it safe.`,
	Example: `  mysky register --email user@example.com
  mysky register --email user@example.com --phrase "abbey afield ..."`,
	RunE: runRegister,
}

var (
	registerPhrase string
	registerEmail  string
)

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVar(&registerPhrase, "phrase", "",
		"Existing seed phrase (a new one is generated if omitted)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "",
		"Account email (required)")

	_ = registerCmd.MarkFlagRequired("email")
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	phrase := registerPhrase
	generated := false
	if phrase == "" {
		var err error
		phrase, err = seed.GeneratePhrase()
		if err != nil {
			return fmt.Errorf("generate phrase: %w", err)
		}
		generated = true
	}

	entropy, err := seed.ValidatePhrase(phrase)
	if err != nil {
		if !jsonOutput {
			printError("Invalid phrase: %v", err)
		}
		return err
	}

	if err := apiClient.Register(ctx, entropy, registerEmail); err != nil {
		if jsonOutput {
			printJSON(map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
		} else {
			printError("Registration failed: %v", err)
		}
		return err
	}

	if jsonOutput {
		out := map[string]interface{}{
			"success": true,
			"email":   registerEmail,
		}
		if generated {
			out["phrase"] = phrase
		}
		printJSON(out)
		return nil
	}

	printSuccess("Account registered for %s", registerEmail)
	if generated {
		printInfo("%s", phrase)
		printWarning("Store this phrase safely. It cannot be recovered.")
	}
	return nil
}
