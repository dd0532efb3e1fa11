package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Companion CompanionConfig `yaml:"companion"`
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig 描述日志级别。
type LogConfig struct {
	Level string `yaml:"level"`
}

// StoreConfig 选择会话存储实现。
type StoreConfig struct {
	Driver           string `yaml:"driver"`
	DatabaseURL      string `yaml:"databaseUrl"`
	MaxConversations int    `yaml:"maxConversations"`
}

// MetricsConfig 控制 Prometheus 指标。
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// CompanionConfig 控制每轮读取的情绪历史条数。
type CompanionConfig struct {
	EmotionHistoryLimit int `yaml:"emotionHistoryLimit"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server:    ServerConfig{Addr: ":8080"},
		Log:       LogConfig{Level: "info"},
		Store:     StoreConfig{Driver: StoreMemory, MaxConversations: 1024},
		Metrics:   MetricsConfig{Enabled: true, Namespace: "companion"},
		Companion: CompanionConfig{EmotionHistoryLimit: 10},
	}
}

// Load 从可选的 YAML 文件（CONFIG_FILE）和环境变量加载配置，环境变量优先。
func Load() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Companion.EmotionHistoryLimit < 1 {
		return fmt.Errorf("emotion history limit must be positive, got %d", c.Companion.EmotionHistoryLimit)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		addr, err := parseAddr(port)
		if err != nil {
			return err
		}
		cfg.Server.Addr = addr
	}

	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Store.Driver = strings.ToLower(getEnvOrDefault("STORE_DRIVER", cfg.Store.Driver))
	cfg.Store.DatabaseURL = getEnvOrDefault("DATABASE_URL", cfg.Store.DatabaseURL)
	cfg.Metrics.Namespace = getEnvOrDefault("METRICS_NAMESPACE", cfg.Metrics.Namespace)

	maxConversations, err := parseOptionalIntEnv("MEMORY_MAX_CONVERSATIONS")
	if err != nil {
		return err
	}
	if maxConversations != nil {
		cfg.Store.MaxConversations = *maxConversations
	}

	historyLimit, err := parseOptionalIntEnv("EMOTION_HISTORY_LIMIT")
	if err != nil {
		return err
	}
	if historyLimit != nil {
		cfg.Companion.EmotionHistoryLimit = *historyLimit
	}

	metricsEnabled, err := parseBoolEnv("METRICS_ENABLED", cfg.Metrics.Enabled)
	if err != nil {
		return err
	}
	cfg.Metrics.Enabled = metricsEnabled
	return nil
}

// parseAddr 解析服务器监听地址。
func parseAddr(port string) (string, error) {
	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}
	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}
	return ":" + port, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
