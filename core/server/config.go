package server

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/LinukPerera/IoT-Buoy-2025/internal/broker"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/db"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/domain"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/mirror"
)

type ServerConfig struct {
	Store       domain.ReadingStore
	Mirror      mirror.Mirror
	UplinkQueue broker.MessageQueue
	Logger      *slog.Logger
	WorkerCount int
	BatchSize   int
	Port        string
}

type ConfigOption func(*ServerConfig) error

func WithMongoDB(client *mongo.Client, database string) ConfigOption {
	return func(config *ServerConfig) error {
		store, err := db.NewMongoReadingStore(client, database)
		if err != nil {
			return err
		}
		config.Store = store
		return nil
	}
}

// WithStore injects a ready store directly; used by tests and alternative
// backends.
func WithStore(store domain.ReadingStore) ConfigOption {
	return func(config *ServerConfig) error {
		config.Store = store
		return nil
	}
}

func WithRTDBMirror(databaseURL, credentialsFile string) ConfigOption {
	return func(config *ServerConfig) error {
		m, err := mirror.NewRTDBMirror(context.Background(), databaseURL, credentialsFile)
		if err != nil {
			return err
		}
		config.Mirror = m
		return nil
	}
}

func WithMirror(m mirror.Mirror) ConfigOption {
	return func(config *ServerConfig) error {
		config.Mirror = m
		return nil
	}
}

func WithKafkaUplink(brokers, topic, group string) ConfigOption {
	return func(config *ServerConfig) error {
		mq, err := broker.NewKafkaQueue(brokers, topic, group)
		if err != nil {
			return err
		}
		config.UplinkQueue = mq
		return nil
	}
}

func WithWorkerConfig(workerCount, batchSize int) ConfigOption {
	return func(config *ServerConfig) error {
		config.WorkerCount = workerCount
		config.BatchSize = batchSize
		return nil
	}
}

func WithPort(port string) ConfigOption {
	return func(config *ServerConfig) error {
		config.Port = port
		return nil
	}
}

func WithLogger(logger *slog.Logger) ConfigOption {
	return func(config *ServerConfig) error {
		config.Logger = logger
		return nil
	}
}
