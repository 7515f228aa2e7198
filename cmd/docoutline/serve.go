package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the outline HTTP service",
	Long: `Start the docoutline HTTP API.

Endpoints:
  GET  /health
  POST /api/outline            queue one upload (multipart field "file")
  POST /api/outline/batch      queue several uploads (field "files")
  POST /api/outline/sync       process one upload and return the outline
  GET  /api/outline/{id}       result (?format=json|yaml|markdown|html)
  GET  /api/outline/{id}/status
  GET  /api/outline/{id}/tree
  GET  /api/stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}
		log := newLogger(os.Stdout, cfg)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		orch := pipeline.NewOrchestrator(cfg, log)
		orch.Start(ctx)

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      api.NewServer(orch, log, cfg),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting docoutline", "port", cfg.Port, "workers", cfg.WorkerCount)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			orch.Stop()
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
		orch.Stop()
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (overrides config)")
}
