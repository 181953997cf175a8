// Package main provides the edimap command line: workbook ingestion,
// offline mapping and the message API server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ukaji3/edimap-go/internal/config"
	"github.com/ukaji3/edimap-go/internal/logging"
)

var (
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "edimap",
		Short: "Extract EDI standard tables and map application data to them",
		Long: `edimap reads SME common EDI standard workbooks, detects the table regions
on each sheet and writes the information-item, mapping and code definition
tables as JSON. The same tables drive the mapping engine and the message API.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: environment only)")

	rootCmd.AddCommand(newIngestCmd(), newMapCmd(), newServeCmd(), newAppsCmd())
	return rootCmd
}

// loadConfig reads .env, then the config file or environment.
func loadConfig(cmd *cobra.Command, args []string) error {
	// .env values win over the inherited environment
	_ = godotenv.Overload()

	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}
	cfg = c
	logger = logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return nil
}
