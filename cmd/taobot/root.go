package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taobot/taobot/config"
	"github.com/taobot/taobot/constants"
	"github.com/taobot/taobot/utils"
)

var (
	configPath string
	debug      bool
)

// NewRootCmd creates the root 'taobot' command with persistent flags and subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taobot",
		Short:         "Tao Bot API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Inside the Lambda runtime the bare binary serves events.
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv(constants.EnvLambdaFunctionID) != "" {
				return runLambda()
			}
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", constants.ConfigFileName, "Path to taobot config (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	rootCmd.AddCommand(
		newServeCmd(),
		newLambdaCmd(),
		newSpecCmd(),
	)
	return rootCmd
}

// loadConfig reads the config file named by --config and applies the
// environment on top. --debug wins over the configured log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	if err := utils.SetLevel(cfg.Log.Level); err != nil {
		utils.Warn("%v", err)
	}
	return cfg, nil
}
