package main

import (
	"fmt"
	"io"
	"log"

	"NPTEL-Assignment-Analyzer/internal/client"
	"NPTEL-Assignment-Analyzer/internal/config"
	"NPTEL-Assignment-Analyzer/internal/logger"
	"NPTEL-Assignment-Analyzer/internal/monitoring"
	"NPTEL-Assignment-Analyzer/internal/repository"
	"NPTEL-Assignment-Analyzer/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is everything a command needs once configuration has been read.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	metrics  *monitoring.Metrics
	analyzer *service.AnalyzerService
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "app",
		Short:         "Submit NPTEL assignment question images to the OCR backend and collect answers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding config.yaml (default ./config then .)")

	load := func(console io.Writer) (*app, error) {
		var paths []string
		if configDir != "" {
			paths = append(paths, configDir)
		}
		return newApp(console, paths...)
	}

	serve := newServeCmd(load)
	root.AddCommand(serve, newAnalyzeCmd(load))
	root.RunE = serve.RunE
	return root
}

// newApp wires the service graph. Console log lines go to console.
func newApp(console io.Writer, configPaths ...string) (*app, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := config.Load(configPaths...)
	if err != nil {
		return nil, err
	}

	zlog, err := logger.New(cfg.Log, cfg.IsDebug(), console)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	ocrClient := client.NewOcrApiClient(cfg.Backend.BaseURL, cfg.Backend.TimeoutSeconds, zlog)
	analyzer := service.NewAnalyzerService(
		ocrClient,
		repository.NewSessionRepository(zlog),
		service.Options{ImageBaseURL: cfg.Storage.ImageBaseURL, Prompt: cfg.Analyzer.Prompt},
		metrics,
		zlog,
	)

	return &app{cfg: cfg, log: zlog, metrics: metrics, analyzer: analyzer}, nil
}

func (a *app) close() {
	a.analyzer.Close()
	_ = a.log.Sync()
}
