package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-daily/internal/convert"
	"github.com/pdiddy/arxiv-daily/internal/history"
	"github.com/pdiddy/arxiv-daily/internal/logger"
	"github.com/pdiddy/arxiv-daily/internal/notify"
	"github.com/pdiddy/arxiv-daily/internal/pipeline"
	"github.com/pdiddy/arxiv-daily/internal/recommend"
	"github.com/pdiddy/arxiv-daily/internal/render"
	"github.com/pdiddy/arxiv-daily/internal/search"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build and email today's digest",
	Long: `Run performs one digest: fetch new papers, ask the language model for
recommendations, render the Markdown digest, convert it to PDF when possible,
email the files, and record every fetched paper as processed.

The run exits successfully without sending anything when there are no new
papers. Progress is written to the log file configured by log_file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		log, closer, err := logger.OpenFile(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer closer.Close()

		store := history.NewStore(cfg.StateFile)
		p := &pipeline.Pipeline{
			Fetcher:     search.NewFetcher(&search.ArxivClient{}, store, cfg, log),
			Recommender: recommend.NewEngine(recommend.NewLazyModel(cfg, loadedSecrets.OpenAIKey()), cfg, log),
			Renderer:    render.NewRenderer(cfg),
			Notifier:    notify.NewMailer(meta, cfg, loadedSecrets.SMTPPassword(), log),
			Store:       store,
			Log:         log,
		}
		if noPDF, _ := cmd.Flags().GetBool("no-pdf"); !noPDF {
			tool, err := convert.ToolFor(cfg)
			if err != nil {
				return err
			}
			p.Converter = convert.New(tool, log)
		}

		sum, err := p.Run(cmd.Context())
		if err != nil {
			log.Error("run failed", "error", err)
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeSummaryJSON(os.Stdout, sum)
		}
		writeSummary(os.Stderr, sum)
		return nil
	},
}

func writeSummary(w io.Writer, sum pipeline.Summary) {
	if sum.Fetched == 0 {
		fmt.Fprintln(w, "No new papers.")
		return
	}
	fmt.Fprintf(w, "Fetched %d papers, recommended %d in %d categories.\n", sum.Fetched, sum.Recommended, sum.Categories)
	fmt.Fprintf(w, "Digest: %s\n", sum.Document)
	if sum.Converted != "" {
		fmt.Fprintf(w, "PDF: %s\n", sum.Converted)
	}
}

func writeSummaryJSON(w io.Writer, sum pipeline.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

func init() {
	runCmd.Flags().Bool("no-pdf", false, "skip PDF conversion and send only the Markdown digest")
	runCmd.Flags().Bool("json", false, "print the run summary as JSON")

	rootCmd.AddCommand(runCmd)
}
