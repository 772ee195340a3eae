package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SkynetHQ/skynet-mysky/internal/seed"
)

var phraseCmd = &cobra.Command{
	Use:   "phrase",
	Short: "Generate and validate seed phrases",
}

var phraseGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a fresh seed phrase",
	Long: `Generate creates a new random seed phrase. The phrase is the only
backup of the identity; anyone holding it holds the account.`,
	RunE: runPhraseGenerate,
}

var phraseValidateCmd = &cobra.Command{
	Use:   "validate <phrase...>",
	Short: "Validate a seed phrase",
	Example: `  mysky phrase validate abbey afield bulb scoop agenda below jingle \
      addicted amused dagger science evaluate affair saucepan utopia`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPhraseValidate,
}

var validateShowEntropy bool

func init() {
	rootCmd.AddCommand(phraseCmd)
	phraseCmd.AddCommand(phraseGenerateCmd)
	phraseCmd.AddCommand(phraseValidateCmd)

	phraseValidateCmd.Flags().BoolVar(&validateShowEntropy, "show-entropy", false,
		"Print the decoded entropy as hex")
}

func runPhraseGenerate(cmd *cobra.Command, args []string) error {
	phrase, err := seed.GeneratePhrase()
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"phrase": phrase})
		return nil
	}

	printInfo("%s", phrase)
	printWarning("Store this phrase safely. It cannot be recovered.")
	return nil
}

func runPhraseValidate(cmd *cobra.Command, args []string) error {
	phrase := strings.Join(args, " ")

	entropy, err := seed.ValidatePhrase(phrase)
	if err != nil {
		if jsonOutput {
			printJSON(map[string]interface{}{
				"valid": false,
				"error": err.Error(),
			})
		} else {
			printError("Invalid phrase: %v", err)
		}
		return err
	}

	if jsonOutput {
		out := map[string]interface{}{"valid": true}
		if validateShowEntropy {
			out["entropy"] = hex.EncodeToString(entropy)
		}
		printJSON(out)
		return nil
	}

	printSuccess("Phrase is valid")
	if validateShowEntropy {
		fmt.Printf("Entropy: %s\n", hex.EncodeToString(entropy))
	}
	return nil
}
