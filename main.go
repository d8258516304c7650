package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/LinukPerera/IoT-Buoy-2025/core/server"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/config"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/db"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client, err := db.NewMongoConnection(cfg.MongoURI)
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}

	options := []server.ConfigOption{
		server.WithMongoDB(client, cfg.DBName),
		server.WithPort(cfg.Port),
		server.WithLogger(logger),
		server.WithWorkerConfig(cfg.Uplink.Workers, cfg.Uplink.BatchSize),
	}

	if cfg.MirrorEnabled() {
		options = append(options, server.WithRTDBMirror(cfg.Firebase.DatabaseURL, cfg.Firebase.CredentialsFile))
	} else {
		logger.Info("realtime mirror not configured; running with durable store only")
	}

	if cfg.UplinkEnabled() {
		options = append(options, server.WithKafkaUplink(cfg.Uplink.Brokers, cfg.Uplink.Topic, cfg.Uplink.Group))
	}

	srv, err := server.NewServer(options...)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	srv.Close()
	logger.Info("server shutdown complete")
}
