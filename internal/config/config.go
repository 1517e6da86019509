// Package config loads storefront settings from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type Config struct {
	// BackendURL is the catalog backend base URL.
	BackendURL string `yaml:"backend_url"`
	// StatePath is the JSON file holding persisted client state. Empty
	// selects the in-memory store.
	StatePath string `yaml:"state_path"`
	// ContextID namespaces Redis-held state per visitor context.
	ContextID string `yaml:"context_id"`
	// Redis, when Addr is set, replaces the file store for session state.
	Redis RedisConfig `yaml:"redis"`
	// Kafka, when brokers are set, replaces the HTTP analytics sink.
	Kafka KafkaConfig `yaml:"kafka"`
}

func Default() Config {
	return Config{
		BackendURL: "http://localhost:8000",
		StatePath:  defaultStatePath(),
		ContextID:  "default",
	}
}

// Load reads the YAML file at path (missing file falls back to defaults),
// then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
				return cfg, fmt.Errorf("parse config: %w", errUnmarshal)
			}
		}
	}

	cfg.BackendURL = getEnv("STOREFRONT_BACKEND_URL", cfg.BackendURL)
	cfg.StatePath = getEnv("STOREFRONT_STATE_PATH", cfg.StatePath)
	cfg.ContextID = getEnv("STOREFRONT_CONTEXT_ID", cfg.ContextID)
	cfg.Redis.Addr = getEnv("STOREFRONT_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("STOREFRONT_REDIS_PASSWORD", cfg.Redis.Password)
	if brokers := os.Getenv("STOREFRONT_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Kafka.Topic = getEnv("STOREFRONT_KAFKA_TOPIC", cfg.Kafka.Topic)
	return cfg, nil
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "storefront-state.json"
	}
	return filepath.Join(home, ".storefront", "state.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
