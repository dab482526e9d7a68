// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-daily CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-daily/internal/logger"
	"github.com/pdiddy/arxiv-daily/internal/secrets"
	"github.com/pdiddy/arxiv-daily/internal/settings"
	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the arxiv-daily CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-daily",
	Short: "Daily arXiv paper digest",
	Long: `arxiv-daily fetches the newest arXiv papers for a query, asks a language
model which ones match your research interests, and emails the result as a
Markdown digest with a PDF copy.

Configuration comes from the [tool.arxiv_daily.app] table of pyproject.toml.
Email settings come from the environment (EMAIL_SENDER, EMAIL_RECEIVERS,
SMTP_SERVER, SMTP_PORT, SMTP_USERNAME) or a .env file. Passwords and API keys
may also be stored in .secrets/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}

		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(secretsDir, logger.New(os.Stderr, "warn"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "pyproject.toml", "TOML file holding [project] and [tool.arxiv_daily.app]")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of credential files")
}

// loadSettings reads the file named by --config.
func loadSettings(cmd *cobra.Command) (types.ProjectMeta, types.AppConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	return settings.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
