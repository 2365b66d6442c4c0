// Package app implements the main application commands.
package app

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	configPath string // Path to the configuration directory

	rootCmd = &cobra.Command{
		Use:   "bayipanel",
		Short: "BayiPanel serves role based permissions for the dealer admin panel",
		Long: `BayiPanel resolves and enforces role based permissions of the dealer
admin panel: role administration, permission checks, menu filtering and
route gating.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "path to the directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
