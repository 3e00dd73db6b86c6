package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DocStoreMemory keeps documents in process memory (single node, dev).
	DocStoreMemory = "memory"
	// DocStoreRedis persists documents in Redis with a TTL.
	DocStoreRedis = "redis"
)

type Config struct {
	// Server settings
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Cheatsheet catalog
	CheatsheetFile string // path to the cheatsheet.yaml file (optional, empty = catalog disabled)

	// Document store (server side)
	DocStore        string        // "memory" | "redis"
	DocTTL          time.Duration // TTL for stored documents (redis)
	JanitorInterval time.Duration // interval between stale-document sweeps (memory)
	JanitorMaxAge   time.Duration // documents untouched longer than this are pruned (memory)

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)

	// Boundary protection
	RateLimitBurst  int      // token bucket capacity per IP
	RateLimitPerMin int      // refill rate per IP per minute
	TrustProxy      bool     // true => trust X-Forwarded-For headers
	AllowedOrigins  []string // CORS origins ("*" allowed for dev)
	AllowedCIDRS    []string // optional, restrict healthz/readyz to specific IPs

	// Client (sync engine) settings
	DataDir        string        // local persistence directory
	RemoteProvider string        // "memory" | "redis" | "http"
	RemoteURL      string        // base URL of the sync endpoint (http provider)
	SyncDebounce   time.Duration // quiet period before a remote write (default 500ms)
	RetryCooldown  time.Duration // minimum gap between signal-triggered retries
}

func Load() *Config {
	// Optional .env for local development; missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SHELF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SHELF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SHELF_PRETTY_LOG", true),

		// Cheatsheet catalog
		CheatsheetFile: getenv("SHELF_CHEATSHEET_FILE", ""),

		// Document store
		DocStore:        getenv("SHELF_DOC_STORE", DocStoreMemory),
		DocTTL:          mustDuration("SHELF_DOC_TTL", 90*24*time.Hour),
		JanitorInterval: mustDuration("SHELF_JANITOR_INTERVAL", 24*time.Hour),
		JanitorMaxAge:   mustDuration("SHELF_JANITOR_MAX_AGE", 90*24*time.Hour),

		// Redis settings
		RedisAddr:           getenv("SHELF_REDIS_ADDR", ""),
		RedisUser:           getenv("SHELF_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("SHELF_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("SHELF_REDIS_DB", 0),
		RedisDT:             mustDuration("SHELF_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("SHELF_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("SHELF_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("SHELF_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("SHELF_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("SHELF_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("SHELF_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("SHELF_REDIS_PING_TIMEOUT", 5*time.Second),

		// Boundary protection
		RateLimitBurst:  getenvInt("SHELF_RATE_LIMIT_BURST", 20),
		RateLimitPerMin: getenvInt("SHELF_RATE_LIMIT_PER_MIN", 60),
		TrustProxy:      mustBool("SHELF_TRUST_PROXY", false),
		AllowedOrigins:  splitAndTrim(getenv("SHELF_ALLOWED_ORIGINS", "*")),
		AllowedCIDRS:    splitAndTrim(getenv("SHELF_ALLOWED_CIDRS", "")),

		// Client settings
		DataDir:        getenv("SHELF_DATA_DIR", defaultDataDir()),
		RemoteProvider: getenv("SHELF_REMOTE_PROVIDER", "http"),
		RemoteURL:      getenv("SHELF_REMOTE_URL", "http://localhost:8080"),
		SyncDebounce:   mustDuration("SHELF_SYNC_DEBOUNCE", 500*time.Millisecond),
		RetryCooldown:  mustDuration("SHELF_RETRY_COOLDOWN", 10*time.Second),
	}

	if cfg.DocStore == DocStoreRedis && cfg.RedisAddr == "" {
		panic("❌ FATAL: SHELF_REDIS_ADDR is required when SHELF_DOC_STORE=redis")
	}
	if cfg.RemoteProvider == "redis" && cfg.RedisAddr == "" {
		panic("❌ FATAL: SHELF_REDIS_ADDR is required when SHELF_REMOTE_PROVIDER=redis")
	}

	return cfg
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.shelfsync"
	}
	return ".shelfsync"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// Redacted returns a copy safe for debug logging.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	return cp
}

// String implements fmt.Stringer so accidental %v prints stay redacted.
func (c *Config) String() string {
	cp := c.Redacted()
	return fmt.Sprintf("%+v", cp)
}
