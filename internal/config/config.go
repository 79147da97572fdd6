package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr   string
	APIBaseURL string // product detail is read from a public GET /products/{id}
	APITimeout time.Duration

	StorageDriver    string
	StorageDir       string
	StorageNamespace string
	PostgresDSN      string
	RedisAddr        string

	KafkaBrokers    []string
	ActivityTopic   string
	ActivityGroup   string
	ActivityWorkers int

	ServiceName string
	LogLevel    string
	LogFormat   string
}

func Load() Config {
	return Config{
		HTTPAddr:   getenv("HTTP_ADDR", "127.0.0.1:3000"),
		APIBaseURL: getenv("API_BASE_URL", "http://localhost:8000/api"),
		APITimeout: getduration("API_TIMEOUT", 10*time.Second),

		StorageDriver:    getenv("STORAGE_DRIVER", "file"),
		StorageDir:       getenv("STORAGE_DIR", ".storefront"),
		StorageNamespace: getenv("STORAGE_NAMESPACE", "default"),
		PostgresDSN:      getenv("POSTGRES_DSN", ""),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),

		KafkaBrokers:    splitCSV(getenv("KAFKA_BROKERS", "")),
		ActivityTopic:   getenv("ACTIVITY_TOPIC", "storefront.activity"),
		ActivityGroup:   getenv("ACTIVITY_GROUP", "storefront-activity"),
		ActivityWorkers: getint("ACTIVITY_WORKERS", 2),

		ServiceName: getenv("SERVICE_NAME", "storefront"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "text"),
	}
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q is not an absolute URL", c.APIBaseURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	switch c.StorageDriver {
	case "file":
		if c.StorageDir == "" {
			return fmt.Errorf("STORAGE_DIR is required for the file driver")
		}
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.ActivityWorkers < 1 {
		return fmt.Errorf("ACTIVITY_WORKERS must be at least 1")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// ActivityEnabled is true when brokers are configured.
func (c Config) ActivityEnabled() bool { return len(c.KafkaBrokers) > 0 }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return d
	}
	return def
}

func getint(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
