// Package config reads service settings from flags, falling back to the
// environment (optionally populated from a .env file).
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultOptions is the closed list of parties voters choose from.
var DefaultOptions = []string{"AIADMK", "BJP", "DMK", "TVK", "PMK", "VCK", "DMDK"}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d Database) ConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type Config struct {
	Database Database

	HTTPAddr      string
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	BallotKeys []string
	Options    []string

	ResultsInterval      time.Duration
	ResultsRetryInterval time.Duration

	LogLevel string

	// Args holds the positional arguments left after flags.
	Args []string
}

// LoadEnv loads a .env file when present. A missing file is not an error.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Parse builds the configuration from args with environment defaults.
func Parse(name string, args []string) (Config, error) {
	var (
		cfg                 Config
		ballotKeys, options string
		sessionTTL          string
		interval, retry     string
		cookieSecure        string
	)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&cfg.Database.Host, "db-host", envOr("POSTGRES_HOST", "localhost"), "Database host")
	fs.StringVar(&cfg.Database.Port, "db-port", envOr("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&cfg.Database.User, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&cfg.Database.Password, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&cfg.Database.Name, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	fs.StringVar(&cfg.Database.SSLMode, "db-sslmode", envOr("POSTGRES_SSLMODE", "disable"), "Database sslmode")

	fs.StringVar(&cfg.HTTPAddr, "addr", envOr("HTTP_ADDR", "0.0.0.0:8080"), "HTTP listen address")
	fs.StringVar(&cfg.SessionSecret, "session-secret", os.Getenv("SESSION_SECRET"), "Session signing secret (prefer env)")
	fs.StringVar(&sessionTTL, "session-ttl", envOr("SESSION_TTL", "30m"), "Session lifetime")
	fs.StringVar(&cookieSecure, "cookie-secure", envOr("COOKIE_SECURE", "true"), "Mark session cookie Secure")

	fs.StringVar(&ballotKeys, "ballot-keys", os.Getenv("BALLOT_KEYS"), "Comma separated fernet keys, newest first (prefer env)")
	fs.StringVar(&options, "options", envOr("VOTE_OPTIONS", strings.Join(DefaultOptions, ",")), "Comma separated vote options")

	fs.StringVar(&interval, "results-interval", envOr("RESULTS_INTERVAL", "5s"), "Results feed poll interval")
	fs.StringVar(&retry, "results-retry-interval", envOr("RESULTS_RETRY_INTERVAL", "10s"), "Results feed retry interval after a failed poll")

	fs.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(sessionTTL); err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}
	if cfg.ResultsInterval, err = time.ParseDuration(interval); err != nil {
		return Config{}, fmt.Errorf("invalid results interval: %w", err)
	}
	if cfg.ResultsRetryInterval, err = time.ParseDuration(retry); err != nil {
		return Config{}, fmt.Errorf("invalid results retry interval: %w", err)
	}
	if cfg.CookieSecure, err = strconv.ParseBool(cookieSecure); err != nil {
		return Config{}, fmt.Errorf("invalid cookie-secure value: %w", err)
	}

	cfg.Args = fs.Args()
	cfg.BallotKeys = splitList(ballotKeys)
	cfg.Options = splitList(options)

	return cfg, nil
}

// Validate checks what the HTTP server needs. Batch commands only need the
// database and use Database.Validate.
func (c Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET required")
	}
	if len(c.BallotKeys) == 0 {
		return errors.New("BALLOT_KEYS required")
	}
	if len(c.Options) == 0 {
		return errors.New("at least one vote option is required")
	}
	seen := make(map[string]struct{}, len(c.Options))
	for _, opt := range c.Options {
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("duplicate vote option %q", opt)
		}
		seen[opt] = struct{}{}
	}
	if c.ResultsInterval <= 0 || c.ResultsRetryInterval <= 0 {
		return errors.New("results intervals must be positive")
	}
	return nil
}

func (d Database) Validate() error {
	if d.User == "" || d.Name == "" {
		return errors.New("database user and name required (POSTGRES_USER, POSTGRES_DB)")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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
