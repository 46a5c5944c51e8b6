package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/auth"
	"github.com/mauv0809/courtside/internal/config"
	server "github.com/mauv0809/courtside/internal/http"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/notifier/slack"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/storage"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	ctx := context.Background()

	stores, storageTeardown, err := storage.Open(ctx, cfg)
	log.Info("Storage initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize storage: %s", err)
	}
	defer func() {
		log.Info("Closing storage connection")
		storageTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var publisher pubsub.PubSubClient
	if cfg.ProjectID != "" {
		client, teardown, err := pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer teardown()
		publisher = client
	} else {
		log.Warn("GCP_PROJECT not set, match events will not be published")
	}

	var n notifier.Notifier
	if cfg.SlackEnabled() {
		n = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, stores.Users, metricsSvc)
	} else {
		log.Info("Slack not configured, match event notifications disabled")
	}

	identity := auth.NewJWTProvider(cfg.JWTSecret, "courtside")
	service := matchmaking.NewService(stores.Matches, stores.Users, stores.Leagues, matchmaking.SystemClock{}, publisher, metricsSvc)

	s := server.NewServer(service, identity, metricsHandler, cfg, n, publisher, stores.DB)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
