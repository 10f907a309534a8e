package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"docsearch/config"
	"docsearch/internal/adapter/analyzer"
	"docsearch/internal/adapter/cache"
	"docsearch/internal/adapter/retriever"
	"docsearch/internal/adapter/store"
	"docsearch/internal/query"
	"docsearch/internal/usecase"
)

var (
	queryText  string
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search indexed documents",
	Long: `Search the page index. A single word matches pages containing it;
several words, quoted or not, match pages containing them as an exact
adjacent phrase.

Examples:
  docsearch query -q "double taxation"
  docsearch query -q invoice --limit 5 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
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

	tokenizer := analyzer.NewTokenizer()
	searcher := retriever.NewSearcher(st, tokenizer, cfg.Index.K1, cfg.Index.B)
	hitCache := cache.NewHitCache(cfg.Search.CacheSize, time.Duration(cfg.Search.CacheTTLSecs)*time.Second)
	searchUC := usecase.NewSearchUseCase(searcher, hitCache)

	limit := cfg.Search.Limit
	if queryLimit > 0 {
		limit = queryLimit
	}

	hits, err := searchUC.Query(queryText, limit)
	if err != nil {
		var parseErr *query.ParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("invalid query: %w", parseErr)
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(hits, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(hits), queryText)
	for i, h := range hits {
		fmt.Printf("%2d. %s (%s, page %d) score=%.2f\n", i+1, h.Title, h.Filename, h.Page, h.Score)
	}
	return nil
}
