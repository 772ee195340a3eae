package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/SkynetHQ/skynet-mysky/internal/client"
	"github.com/SkynetHQ/skynet-mysky/internal/config"
	"github.com/SkynetHQ/skynet-mysky/internal/events"
)

var rootCmd = &cobra.Command{
	Use:   "mysky",
	Short: "Seed-based identity for the Skynet portal",
	Long: `MySky manages a seed-phrase identity: generate and validate seed
phrases, register or log in to a portal account, and inspect session state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if apiClient != nil {
			_ = apiClient.Close()
		}
	},
}

var (
	cfgPath    string
	jsonOutput bool
	verbose    bool

	cfg       *config.Config
	logger    *events.Logger
	apiClient *client.Client
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Config file path (default: ./mysky.json, ~/.config/mysky/mysky.json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

func setup() error {
	var err error
	cfg, err = config.NewLoader(cfgPath).Load()
	if err != nil {
		return err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err = events.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return err
	}

	apiClient, err = client.New(cfg, logger)
	return err
}

func printSuccess(format string, args ...interface{}) {
	color.Green(format, args...)
}

func printInfo(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

func printWarning(format string, args ...interface{}) {
	color.Yellow(format, args...)
}

func printError(format string, args ...interface{}) {
	color.Red(format, args...)
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError("Failed to encode JSON: %v", err)
		return
	}
	fmt.Println(string(data))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("Error: %v", err)
		os.Exit(1)
	}
}
