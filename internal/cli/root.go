package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docsearch/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "docsearch - full-text search over paginated documents",
	Long: `docsearch indexes the text of paginated documents (PDF and plain text)
page by page into a local inverted index and answers full-text queries
with the matching documents and page numbers.

Example usage:
  docsearch index ./library            # Index every document under ./library
  docsearch query -q "tax treaty"      # Find pages containing that phrase
  docsearch stats                      # Show corpus counters`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docsearch.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
