package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docsearch/config"
	"docsearch/internal/adapter/analyzer"
	"docsearch/internal/adapter/extract"
	"docsearch/internal/adapter/fs"
	"docsearch/internal/adapter/store"
	"docsearch/internal/usecase"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index documents for search",
	Long: `Index every document found under the given folder, one record per
page. The index is stored in .docsearch/index.db within the target folder.
Re-running updates changed pages in place; records of renamed or removed
files stay behind until a --rebuild run clears them.

Examples:
  docsearch index .                  # Index current directory
  docsearch index /srv/library       # Index a document folder
  docsearch index --rebuild .        # Drop the index and start over`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "clear the existing index before ingesting")
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	if err := config.EnsureDataDir(path); err != nil {
		return fmt.Errorf("failed to create .docsearch directory: %w", err)
	}

	dbPath := config.IndexDBPath(path)
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index store: %w", err)
	}
	defer st.Close()

	if indexRebuild {
		fmt.Println("Clearing existing index...")
		if err := st.Clear(); err != nil {
			return fmt.Errorf("failed to clear index: %w", err)
		}
	}

	walker := fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes)
	source := extract.NewCompositeSource()
	tokenizer := analyzer.NewTokenizer()

	indexUC := usecase.NewIndexUseCase(st, walker, source, tokenizer)

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var initialized bool

	progress := func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if !initialized {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
			initialized = true
		}
		bar.Set(processed)
	}

	result, err := indexUC.Index(path, progress)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Files indexed: %d\n", result.FilesIndexed)
	fmt.Printf("  Files skipped: %d (unreadable)\n", result.FilesSkipped)
	fmt.Printf("  Pages indexed: %d\n", result.PagesIndexed)

	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nIndex stored at: %s\n", dbPath)
	return nil
}
