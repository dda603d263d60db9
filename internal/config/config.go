package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Storage
	StorageDir string

	// Server
	ServerPort      string
	ShutdownTimeout time.Duration

	// RSSフィードのリンク組み立てに使う外部公開URL
	BaseURL string

	// Logging
	LogLevel string

	// Rate Limit
	RateLimitGeneral int
	RateLimitWrite   int

	// Theme
	UpcomingDaysMax int
}

// Load は.env（存在すれば）と環境変数からConfigを読み込む。
// すべての項目に既定値があり、未設定でも起動できる。
func Load() (*Config, error) {
	// .envはローカル開発用。無ければ環境変数だけで動く。
	_ = godotenv.Load()

	cfg := &Config{
		StorageDir:       getEnvString("STORAGE_DIR", "./storage"),
		ServerPort:       getEnvString("SERVER_PORT", "8080"),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		BaseURL:          getEnvString("BASE_URL", "http://localhost:8080"),
		LogLevel:         getEnvString("LOG_LEVEL", "info"),
		RateLimitGeneral: getEnvInt("RATE_LIMIT_GENERAL", 120),
		RateLimitWrite:   getEnvInt("RATE_LIMIT_WRITE", 30),
		UpcomingDaysMax:  getEnvInt("UPCOMING_DAYS_MAX", 30),
	}

	if cfg.UpcomingDaysMax < 1 {
		return nil, fmt.Errorf("UPCOMING_DAYS_MAX must be at least 1, got %d", cfg.UpcomingDaysMax)
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
