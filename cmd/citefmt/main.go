// Package main provides the citefmt CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citefmt",
	Short: "Parse, enrich, and format academic citations",
	Long: `citefmt parses free-form academic citations into structured records,
optionally fills missing fields from the CrossRef API, and renders them
in APA, MLA, Chicago, or Harvard style.

Input is plain text (stdin, a file, or a PDF's references section), one
citation per line or separated by blank lines. Successful lookups are
cached in SQLite so repeated runs stay off the network.

All commands output JSON by default; pass --human for plain text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
