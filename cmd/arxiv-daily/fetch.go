package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-daily/internal/history"
	"github.com/pdiddy/arxiv-daily/internal/logger"
	"github.com/pdiddy/arxiv-daily/internal/search"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "List new arXiv papers without recommending or sending them",
	Long: `Fetch runs the configured arXiv query and prints the papers that no earlier
run has processed. It does not call the language model, send email, or
update the state file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
			cfg.MaxResults = n
		}

		log := logger.New(os.Stderr, cfg.LogLevel)
		store := history.NewStore(cfg.StateFile)
		fetcher := search.NewFetcher(&search.ArxivClient{}, store, cfg, log)

		papers, err := fetcher.Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching papers: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return search.FormatJSON(papers, os.Stdout)
		}
		search.FormatTable(papers, os.Stdout)
		return nil
	},
}

func init() {
	fetchCmd.Flags().Int("max-results", 0, "override max_results from the config file")
	fetchCmd.Flags().Bool("json", false, "output papers as JSON")

	rootCmd.AddCommand(fetchCmd)
}
