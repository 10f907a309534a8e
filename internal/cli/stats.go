package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docsearch/config"
	"docsearch/internal/adapter/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	rootDir := GetRootDir()

	dbPath := config.IndexDBPath(rootDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no index found. Run 'docsearch index' first")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	snap, err := st.Snapshot()
	if err != nil {
		return err
	}
	defer snap.Close()

	stats, err := snap.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Index: %s\n", dbPath)
	fmt.Printf("  Pages indexed:   %d\n", stats.TotalPages)
	fmt.Printf("  Tokens indexed:  %d\n", stats.TotalTokens)
	fmt.Printf("  Avg page length: %.1f tokens\n", stats.AvgPageLen)
	return nil
}
