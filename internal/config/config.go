package config

import (
	"os"
	"strconv"
	"time"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
	BackendRedis = "redis"
)

type Config struct {
	HTTPAddr     string
	StoreBackend string
	DataFilePath string
	MySQLDSN     string
	RedisAddr    string
	StoreTimeout time.Duration
	AuditDir     string
	LogLevel     string
	LogFormat    string
}

// Load reads configuration from the environment, falling back to defaults
// that run a file-backed instance out of the working directory.
func Load() *Config {
	cfg := &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		StoreBackend: getEnv("STORE_BACKEND", BackendFile),
		DataFilePath: getEnv("DATA_FILE_PATH", "data/mockdb.json"),
		MySQLDSN:     getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/bloodbank?parseTime=true"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		StoreTimeout: 5 * time.Second,
		AuditDir:     getEnv("AUDIT_DIR", "logs"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
	}

	if v := os.Getenv("STORE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StoreTimeout = time.Duration(n) * time.Second
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
