package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config wires the process: durable store, optional mirror, optional uplink
// queue. Values come from an optional YAML file (BUOY_CONFIG) with env-var
// overrides on top.
type Config struct {
	Port     string         `yaml:"port"`
	MongoURI string         `yaml:"mongo_uri"`
	DBName   string         `yaml:"db_name"`
	Firebase FirebaseConfig `yaml:"firebase"`
	Uplink   UplinkConfig   `yaml:"uplink"`
}

// FirebaseConfig selects the realtime mirror. An empty DatabaseURL means the
// mirror is disabled.
type FirebaseConfig struct {
	DatabaseURL     string `yaml:"database_url"`
	CredentialsFile string `yaml:"credentials_file"`
}

// UplinkConfig selects the Kafka ingest side door. Empty Brokers disables it.
type UplinkConfig struct {
	Brokers   string `yaml:"brokers"`
	Topic     string `yaml:"topic"`
	Group     string `yaml:"group"`
	Workers   int    `yaml:"workers"`
	BatchSize int    `yaml:"batch_size"`
}

func Load() (Config, error) {
	cfg := Config{
		Port:     "8080",
		MongoURI: "mongodb://localhost:27017",
		DBName:   "buoy_db",
		Uplink: UplinkConfig{
			Topic:     "buoy-uplink",
			Group:     "buoy-ingest",
			Workers:   4,
			BatchSize: 100,
		},
	}

	if path := os.Getenv("BUOY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.MongoURI = getenvDefault("MONGO_URI", cfg.MongoURI)
	cfg.DBName = getenvDefault("DB_NAME", cfg.DBName)
	cfg.Firebase.DatabaseURL = getenvDefault("FIREBASE_DATABASE_URL", cfg.Firebase.DatabaseURL)
	cfg.Firebase.CredentialsFile = getenvDefault("FIREBASE_CREDENTIALS_FILE", cfg.Firebase.CredentialsFile)
	cfg.Uplink.Brokers = getenvDefault("KAFKA_BROKERS", cfg.Uplink.Brokers)
	cfg.Uplink.Topic = getenvDefault("KAFKA_TOPIC", cfg.Uplink.Topic)
	cfg.Uplink.Group = getenvDefault("KAFKA_GROUP", cfg.Uplink.Group)
	cfg.Uplink.Workers = getenvIntDefault("UPLINK_WORKERS", cfg.Uplink.Workers)
	cfg.Uplink.BatchSize = getenvIntDefault("UPLINK_BATCH_SIZE", cfg.Uplink.BatchSize)

	return cfg, nil
}

// MirrorEnabled reports whether a realtime mirror is configured.
func (c Config) MirrorEnabled() bool {
	return c.Firebase.DatabaseURL != ""
}

// UplinkEnabled reports whether the Kafka ingest path is configured.
func (c Config) UplinkEnabled() bool {
	return c.Uplink.Brokers != ""
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvIntDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
