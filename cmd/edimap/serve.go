package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ukaji3/edimap-go/internal/server"
	"github.com/ukaji3/edimap-go/pkg/edimap/output"
	"github.com/ukaji3/edimap-go/pkg/edimap/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the message API server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"db_path", cfg.Database.Path,
		"data_dir", cfg.Ingest.DataDir,
	)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	catalog, err := output.LoadCatalog(cfg.Ingest.DataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}
	logger.Info("tables loaded", "message_types", len(catalog.MessageTypes()))

	srv := server.New(cfg.Server, st, catalog, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return <-errCh
}

func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.Database.Path, store.WithBusyTimeout(cfg.Database.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}
