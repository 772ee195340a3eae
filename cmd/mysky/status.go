package main

import (
	"context"
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/SkynetHQ/skynet-mysky/internal/derive"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and authority connection state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := apiClient.Start(ctx); err != nil {
		return err
	}

	state := apiClient.Session.State()
	out := map[string]interface{}{
		"session":   state.String(),
		"portal":    cfg.Portal.BaseURL,
		"authority": cfg.Authority.URL,
	}

	if state == models.SessionLoggedIn {
		out["connection"] = apiClient.Session.ConnState().String()
		if entropy, err := apiClient.Session.Entropy(); err == nil {
			if keys, err := derive.NewKeyPair(entropy); err == nil {
				out["public_key"] = hex.EncodeToString(keys.PublicKey)
			}
		}
	}

	if jsonOutput {
		printJSON(out)
		return nil
	}

	printInfo("Session:   %s", out["session"])
	printInfo("Portal:    %s", out["portal"])
	printInfo("Authority: %s", out["authority"])
	if state == models.SessionLoggedIn {
		printInfo("Connection: %s", out["connection"])
		if pk, ok := out["public_key"]; ok {
			printInfo("Public key: %s", pk)
		}
	}
	return nil
}
