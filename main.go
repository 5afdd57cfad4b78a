// Command mediaplayerd is a headless media player daemon: it plays the media
// found in the configured directories, publishes playback events, and takes
// commands from MPRIS clients or a paired Bluetooth remote.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "mediaplayerd",
	Short:         "Headless media player daemon",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to an additional config.toml")
	rootCmd.AddCommand(serveCmd, scanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
