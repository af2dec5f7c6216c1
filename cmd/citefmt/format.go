package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/keller/citefmt/internal/cache"
	"github.com/keller/citefmt/internal/config"
	"github.com/keller/citefmt/internal/crossref"
	"github.com/keller/citefmt/internal/enrich"
	"github.com/keller/citefmt/internal/pdfref"
	"github.com/keller/citefmt/internal/pipeline"
	"github.com/keller/citefmt/internal/reference"
	"github.com/keller/citefmt/internal/style"
)

var (
	formatStyle    string
	formatAll      bool
	formatEnrich   bool
	formatPDF      string
	formatNoCache  bool
	formatTimeout  int
	formatParallel int
)

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Parse citations and render them in a bibliography style",
	Long: `Parse free-form citation text into structured records and render them.

Input comes from a file argument, stdin, or a PDF (--pdf), with one
citation per line or separated by blank lines. With --enrich, records
missing fields are completed from CrossRef; parsed values always win
over fetched ones.`,
	Example: `  citefmt format refs.txt --style mla
  pbpaste | citefmt format --enrich --human
  citefmt format --pdf paper.pdf --all
  echo 'https://doi.org/10.1038/nature12345' | citefmt format --enrich`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().StringVarP(&formatStyle, "style", "s", "apa", "Citation style (apa, mla, chicago, harvard)")
	formatCmd.Flags().BoolVar(&formatAll, "all", false, "Render every supported style per citation")
	formatCmd.Flags().BoolVarP(&formatEnrich, "enrich", "e", false, "Fill missing fields from CrossRef")
	formatCmd.Flags().StringVar(&formatPDF, "pdf", "", "Read citations from a PDF's references section")
	formatCmd.Flags().BoolVar(&formatNoCache, "no-cache", false, "Bypass the lookup cache")
	formatCmd.Flags().IntVar(&formatTimeout, "timeout", 0, "Per-lookup timeout in seconds (overrides config)")
	formatCmd.Flags().IntVar(&formatParallel, "parallel", 0, "Maximum concurrent lookups (overrides config)")
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	// Load .env file if present (for CITEFMT_MAILTO etc.)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	raw, err := readInput(args)
	if err != nil {
		exitWithError(ExitDataError, "reading input: %v", err)
	}

	var lookup enrich.Lookup
	if formatEnrich {
		client := newCrossRefClient(cfg)
		lookup = client
		if !formatNoCache {
			if store := openCacheStore(cfg); store != nil {
				defer store.Close()
				lookup = cache.NewLookup(client, store)
			}
		}
	}

	timeout := cfg.Timeout()
	if formatTimeout > 0 {
		timeout = time.Duration(formatTimeout) * time.Second
	}
	parallel := cfg.MaxParallel
	if formatParallel > 0 {
		parallel = formatParallel
	}

	opts := pipeline.Options{
		AllStyles:   formatAll,
		Enrich:      formatEnrich,
		MaxParallel: parallel,
		Timeout:     timeout,
	}
	if !formatAll {
		st, err := style.Parse(formatStyle)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		opts.Style = st
	}

	batch, err := pipeline.New(lookup).Process(cmd.Context(), raw, opts)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		printBatchHuman(batch)
		return nil
	}
	return outputJSON(batch)
}

// readInput returns the raw citation text from the PDF flag, the file
// argument, or stdin, in that order of precedence.
func readInput(args []string) (string, error) {
	if formatPDF != "" {
		return pdfref.ExtractReferences(formatPDF)
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newCrossRefClient(cfg *config.Config) *crossref.Client {
	var opts []crossref.ClientOption
	if cfg.CrossRefMailto != "" {
		opts = append(opts, crossref.WithMailto(cfg.CrossRefMailto))
	}
	if cfg.CrossRefAPIURL != "" {
		opts = append(opts, crossref.WithBaseURL(cfg.CrossRefAPIURL))
	}
	return crossref.NewClient(opts...)
}

// openCacheStore opens the lookup cache. A cache that cannot be opened
// degrades to uncached lookups rather than failing the run.
func openCacheStore(cfg *config.Config) *cache.Store {
	path := config.CachePath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil
	}
	store, err := cache.Open(path, cfg.CacheTTL())
	if err != nil {
		return nil
	}
	return store
}

func printBatchHuman(batch *pipeline.Batch) {
	for i, res := range batch.Results {
		if formatAll {
			fmt.Printf("[%d] %s\n", i+1, res.Status)
			for _, st := range style.All() {
				fmt.Printf("  %-8s %s\n", string(st)+":", res.FormattedAll[st])
			}
			fmt.Println()
			continue
		}
		if res.Status == reference.StatusFailed {
			fmt.Printf("%s  [failed]\n", res.Formatted)
			continue
		}
		fmt.Println(res.Formatted)
	}
}
