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

	"github.com/kestrelops/liaison/internal/archive"
	"github.com/kestrelops/liaison/internal/collab"
	"github.com/kestrelops/liaison/internal/config"
	"github.com/kestrelops/liaison/internal/events"
	"github.com/kestrelops/liaison/internal/history"
	"github.com/kestrelops/liaison/internal/server"
	"github.com/kestrelops/liaison/internal/workflow"
	"github.com/kestrelops/liaison/pkg/log"
)

type liaison struct {
	cfg        *config.Config
	history    *history.Store
	archive    *archive.Archive
	hub        *events.Hub
	orch       *workflow.Orchestrator
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the orchestrator and its HTTP API.

Collaborators run against the built-in loopback platform unless real
platform adapters are wired in. Run history requires a Redis endpoint
(HISTORY_REDIS_ADDR); artifact archival requires a bucket URL
(ARCHIVE_BUCKET_URL).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		s := &liaison{
			cfg:  cfg,
			quit: make(chan os.Signal, 1),
		}
		return s.run(cmd.Context())
	},
}

func (s *liaison) run(ctx context.Context) error {
	if err := s.initializeServices(ctx); err != nil {
		return err
	}

	if err := s.initializeOrchestrator(ctx); err != nil {
		return err
	}
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *liaison) initializeServices(ctx context.Context) error {
	s.hub = events.NewHub()

	if s.cfg.History.Enabled {
		s.history = history.New(s.cfg.History)
		slog.Info("Run history enabled",
			slog.String("redis_addr", s.cfg.History.Addr))
	}

	if s.cfg.ArchiveBucketURL != "" {
		arc, err := archive.Open(
			ctx, s.cfg.ArchiveBucketURL, s.cfg.ArchivePrefix,
		)
		if err != nil {
			return err
		}
		s.archive = arc
		slog.Info("Artifact archive enabled",
			slog.String("bucket_url", s.cfg.ArchiveBucketURL))
	}

	return nil
}

func (s *liaison) initializeOrchestrator(ctx context.Context) error {
	loop := collab.NewLoopback()
	orch, err := workflow.New(s.cfg, workflow.Dependencies{
		SourceControl: loop,
		Chat:          loop,
		Documents:     loop,
		Scheduling:    loop,
		History:       s.history,
		Archive:       s.archive,
		Hub:           s.hub,
	})
	if err != nil {
		return err
	}
	s.orch = orch
	return s.orch.Initialize(ctx)
}

func (s *liaison) startServer() {
	s.apiServer = server.NewServer(s.orch, s.history, s.hub)
	mux := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

func (s *liaison) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	s.apiServer.CloseWebSockets()
	s.orch.Cleanup(ctx)
	s.hub.Close()

	if err := s.history.Close(); err != nil {
		slog.Error("History close failed", log.Error(err))
	}
	if err := s.archive.Close(); err != nil {
		slog.Error("Archive close failed", log.Error(err))
	}

	slog.Info("Server exited")
}
