package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/catalog"
	"github.com/llehouerou/mediaplayerd/internal/config"
)

type scanEntry struct {
	Path     string `json:"path"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Album    string `json:"album,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Duration int64  `json:"duration,omitempty"`
}

var scanCmd = &cobra.Command{
	Use:   "scan [dir...]",
	Short: "Print the media catalog as a JSON playlist",
	Long: "Scan the configured media directories (or the given ones) and print the " +
		"result in the format accepted by playlist replacement.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := args
		if len(dirs) == 0 {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			dirs = cfg.MediaDirs
		}

		items := catalog.New(dirs, zap.NewNop()).Scan()
		out := make([]scanEntry, len(items))
		for i, it := range items {
			out[i] = scanEntry(it)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}
