package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docbot/config"
	"docbot/internal/logger"
)

var (
	cfgFile     string
	verboseFlag bool
	cfg         *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "docbot",
	Short: "Telegram assistant answering questions about a reference document",
	Long: `docbot answers user questions about a single reference document over
Telegram. Questions in Uzbek, Russian or English are translated to the
retrieval language, matched against cached passage embeddings, answered by a
language model and translated back.

Example usage:
  docbot index                # (re)build the embedding cache
  docbot ask -q "question"    # answer one question from the terminal
  docbot serve                # run the Telegram bot
  docbot export -o stats.xlsx # dump usage statistics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.SetVerbose(cfg.Logging.Verbose || verboseFlag)
		return nil
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docbot.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}
