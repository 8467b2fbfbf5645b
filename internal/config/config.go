// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bookjourney/internal/isbn"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	DSN       string
	DBTimeout time.Duration
	JWTSecret string

	ISBNFormats isbn.Format

	OpenLibraryUserAgent string
	OpenLibraryRPS       int
	OpenLibraryRetries   int

	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool

	// PublicBaseURL is the site that printed book labels point at.
	PublicBaseURL string

	CORSAllowedOrigins []string
	EnableHSTS         bool
	MaxBodyBytes       int64
	MigrationsDir      string
}

// LoadEnvFiles reads .env and .env.local if present. Variables already set
// in the environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load returns the configuration from the current environment. An empty
// DB_DSN selects the in-memory store.
func Load() (Config, error) {
	formats, err := isbn.ParseFormats(getEnv("ISBN_FORMATS", "10,13"))
	if err != nil {
		return Config{}, fmt.Errorf("ISBN_FORMATS: %w", err)
	}

	cfg := Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		DSN:                  os.Getenv("DB_DSN"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		ISBNFormats:          formats,
		OpenLibraryUserAgent: getEnv("OPENLIBRARY_USER_AGENT", "bookjourney/1.0"),
		PublicBaseURL:        strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		CORSAllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", "db/migrations"),
	}

	if cfg.DBTimeout, err = getDuration("DB_TIMEOUT", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.OpenLibraryRPS, err = getInt("OPENLIBRARY_RPS", 1); err != nil {
		return Config{}, err
	}
	if cfg.OpenLibraryRetries, err = getInt("OPENLIBRARY_RETRIES", 3); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, err
	}
	if cfg.TrustProxy, err = getBool("TRUST_PROXY", false); err != nil {
		return Config{}, err
	}
	if cfg.EnableHSTS, err = getBool("ENABLE_HSTS", false); err != nil {
		return Config{}, err
	}
	maxBody, err := getInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = int64(maxBody)

	return cfg, nil
}

// UsesPostgres reports whether a database DSN was configured.
func (c Config) UsesPostgres() bool {
	return c.DSN != ""
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RedactDSN hides the credentials of a connection string for logging.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
