package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mytheresa/product-catalog/app/catalog"
	"github.com/mytheresa/product-catalog/config"
	"github.com/mytheresa/product-catalog/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open stores", zap.String("driver", cfg.StoreDriver), zap.Error(err))
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Error("Failed to close stores", zap.Error(err))
		}
	}()

	photos, err := catalog.NewPhotoStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	svc := catalog.NewService(st.products, st.categories, log)
	handler := newRouter(svc, photos, catalog.NewFormSession(cfg.FormSecret), log, catalog.Options{
		DataDriverDelay: cfg.DataDriverDelay,
		RepeatCount:     cfg.RepeatCount,
	})

	// No WriteTimeout: the paced and chunked listings stream for longer
	// than any sensible fixed limit.
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("store", cfg.StoreDriver),
			zap.String("upload_dir", cfg.UploadDir),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Info("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	log.Info("Server stopped")
	return nil
}
