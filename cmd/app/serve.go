package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"NPTEL-Assignment-Analyzer/internal/api"
	"NPTEL-Assignment-Analyzer/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load func(console io.Writer) (*app, error)) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()
			if port != "" {
				a.cfg.Server.Port = port
			}
			return runServe(a)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen address, overrides server.port (e.g. :8080)")
	return cmd
}

func runServe(a *app) error {
	if a.cfg.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := router.SetupRouter(router.Handlers{
		API:   api.NewAnalyzerHandler(a.analyzer),
		Pages: api.NewPageHandler(a.analyzer),
	}, a.metrics, a.cfg.CORS.AllowedOrigins, a.log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("server listening", zap.String("addr", "http://localhost"+a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.log.Info("server stopped")
	return nil
}
