package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/keller/citefmt/internal/cache"
	"github.com/keller/citefmt/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the lookup cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and entry count",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := mustOpenCache()
		defer store.Close()

		count, err := store.Count()
		if err != nil {
			exitWithError(ExitError, "counting cache entries: %v", err)
		}

		if humanOutput {
			fmt.Printf("Path:    %s\nEntries: %d\n", store.Path(), count)
			return nil
		}
		return outputJSON(struct {
			Path    string `json:"path"`
			Entries int    `json:"entries"`
		}{Path: store.Path(), Entries: count})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := mustOpenCache()
		defer store.Close()

		if err := store.Clear(); err != nil {
			exitWithError(ExitError, "clearing cache: %v", err)
		}

		if humanOutput {
			fmt.Println("Cache cleared.")
			return nil
		}
		return outputJSON(StatusResponse{Status: "cleared", Path: store.Path()})
	},
}

// mustOpenCache opens the cache store, exiting on error.
func mustOpenCache() *cache.Store {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	path := config.CachePath()
	if path == "" {
		exitWithError(ExitConfigError, "cannot determine cache path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	store, err := cache.Open(path, cfg.CacheTTL())
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return store
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
