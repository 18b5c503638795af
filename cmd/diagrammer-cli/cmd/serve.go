package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"diagrammer/internal/adapters/httpapi"
	"diagrammer/internal/adapters/launcher"
)

var (
	serveAddr string
	serveOpen string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagrams over HTTP",
	Long: `Serve the diagram snapshots as JSON for a browser canvas.

Routes:
  GET    /api/:kind             snapshot
  PUT    /api/:kind             replace snapshot
  DELETE /api/:kind             clear
  GET    /api/erd/sql           MySQL DDL
  GET    /api/:kind/integrity   dangling connections
  GET    /healthz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		gin.SetMode(gin.ReleaseMode)
		router := httpapi.NewRouter(GetSession(), httpapi.Options{
			CORSOrigins: cfg.CORSOrigins,
			Logger:      logger,
		})
		srv := httpapi.NewServer(addr, router)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		if serveOpen != "" {
			kind, err := parseKind(serveOpen)
			if err != nil {
				return err
			}
			if err := launcher.NewOpener(addr).OpenDiagram(kind); err != nil {
				logger.Warn("failed to open browser", "error", err)
			}
		}

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config http_addr)")
	serveCmd.Flags().StringVar(&serveOpen, "open", "", "open a diagram kind in the browser once listening")
	rootCmd.AddCommand(serveCmd)
}
