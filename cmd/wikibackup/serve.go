package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ukaji3/wikibackup-go/internal/server"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/delivery"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/encoder"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/notify"
)

var serveAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the backup as a browser download at /export",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStore()

	// One provider for the process: the encoder is acquired by the first
	// request and reused afterwards.
	provider := encoder.NewLazy(encoder.LoadWorkbook, cfg.Export.EncoderTimeout)
	opts := exportOptions(cfg, logger)

	build := func(d delivery.Deliverer, n notify.Notifier) *wikibackup.Exporter {
		return wikibackup.New(store, provider, d, n, opts)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(build, logger).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", slog.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
