package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseType string
	DatabaseURL  string
	DBTimeout    time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	AdminUsername string
	AdminPassword string
	AdminEmail    string
	SetupToken    string

	RedisURL   string
	RateLimit  int
	RateWindow time.Duration
	TrustProxy bool

	CORSOrigin     string
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

// envFile is loaded before flags are parsed. Tests point it elsewhere.
var envFile = ".env"

// ParseFlags builds the Config from flags, then environment, then defaults.
func ParseFlags(args []string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var cfg Config

	flags := flag.NewFlagSet("feetinfra-api", flag.ContinueOnError)

	// Network and storage
	flags.IntVar(&cfg.Port, "p", 5000, "Server port")
	flags.StringVar(&cfg.DatabaseType, "t", "postgres", "Database type (postgres or sqlite)")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.DurationVar(&cfg.DBTimeout, "db-timeout", 5*time.Second, "Per-statement database timeout")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Token signing secret (prefer env)")
	flags.DurationVar(&cfg.TokenTTL, "token-ttl", 24*time.Hour, "Admin token lifetime")
	flags.StringVar(&cfg.AdminUsername, "admin-user", "admin", "Default admin username")
	flags.StringVar(&cfg.AdminPassword, "admin-password", "", "Default admin password (generated when empty)")
	flags.StringVar(&cfg.AdminEmail, "admin-email", "admin@feetinfra.com", "Default admin email")
	flags.StringVar(&cfg.SetupToken, "setup-token", "", "Enables admin creation when set (prefer env)")

	// Rate limiting
	flags.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for shared rate limits")
	flags.IntVar(&cfg.RateLimit, "rate-limit", 5, "Requests allowed per window and route")
	flags.DurationVar(&cfg.RateWindow, "rate-window", 15*time.Minute, "Rate limit window")
	flags.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "Use X-Forwarded-For for client addresses")

	// HTTP and observability
	flags.StringVar(&cfg.CORSOrigin, "cors-origin", "", "Allowed CORS origin (empty reflects the request)")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", "text", "Log format (text or json)")
	flags.BoolVar(&cfg.MetricsEnabled, "metrics", true, "Serve Prometheus metrics on /metrics")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Fall back to environment variables for anything not given on the CLI
	env := func(name, key string, apply func(string) error) error {
		if set[name] {
			return nil
		}
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		if err := apply(v); err != nil {
			return fmt.Errorf("invalid %s env variable: %w", key, err)
		}
		return nil
	}
	str := func(dst *string) func(string) error {
		return func(v string) error { *dst = v; return nil }
	}
	num := func(dst *int) func(string) error {
		return func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		}
	}
	dur := func(dst *time.Duration) func(string) error {
		return func(v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			*dst = d
			return nil
		}
	}
	boolean := func(dst *bool) func(string) error {
		return func(v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			*dst = b
			return nil
		}
	}

	for _, e := range []error{
		env("p", "PORT", num(&cfg.Port)),
		env("t", "DATABASE_TYPE", str(&cfg.DatabaseType)),
		env("d", "DATABASE_URL", str(&cfg.DatabaseURL)),
		env("db-timeout", "DB_TIMEOUT", dur(&cfg.DBTimeout)),
		env("jwt-secret", "JWT_SECRET", str(&cfg.JWTSecret)),
		env("token-ttl", "TOKEN_TTL", dur(&cfg.TokenTTL)),
		env("admin-user", "ADMIN_DEFAULT_USERNAME", str(&cfg.AdminUsername)),
		env("admin-password", "ADMIN_DEFAULT_PASSWORD", str(&cfg.AdminPassword)),
		env("admin-email", "ADMIN_DEFAULT_EMAIL", str(&cfg.AdminEmail)),
		env("setup-token", "ADMIN_SETUP_TOKEN", str(&cfg.SetupToken)),
		env("redis", "REDIS_URL", str(&cfg.RedisURL)),
		env("rate-limit", "RATE_LIMIT_MAX", num(&cfg.RateLimit)),
		env("rate-window", "RATE_LIMIT_WINDOW", dur(&cfg.RateWindow)),
		env("trust-proxy", "TRUST_PROXY", boolean(&cfg.TrustProxy)),
		env("cors-origin", "CORS_ORIGIN", str(&cfg.CORSOrigin)),
		env("log-level", "LOG_LEVEL", str(&cfg.LogLevel)),
		env("log-format", "LOG_FORMAT", str(&cfg.LogFormat)),
		env("metrics", "METRICS_ENABLED", boolean(&cfg.MetricsEnabled)),
	} {
		if e != nil {
			return Config{}, e
		}
	}

	if cfg.DatabaseURL == "" && cfg.DatabaseType == "postgres" {
		cfg.DatabaseURL = postgresURLFromEnv()
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// postgresURLFromEnv assembles a connection string from the discrete DB_*
// variables. It returns "" when DB_HOST is unset.
func postgresURLFromEnv() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")),
		Host:     host + ":" + port,
		Path:     "/" + os.Getenv("DB_NAME"),
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseType != "postgres" && c.DatabaseType != "sqlite" {
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d, DATABASE_URL or DB_HOST)")
	}
	// Secrets - MUST be provided
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.AdminUsername == "" {
		return errors.New("default admin username must not be empty")
	}
	if c.RateLimit <= 0 {
		return errors.New("rate limit must be positive")
	}
	if c.RateWindow <= 0 {
		return errors.New("rate window must be positive")
	}
	if c.DBTimeout <= 0 {
		return errors.New("database timeout must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	return nil
}
