package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"mini-social/config"
	"mini-social/utils"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "mini-social [command]",
	Short:         "Social media API: accounts, posts, comments and likes",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		utils.LogError(err, "Command failed")
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := utils.InitLogger(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}
