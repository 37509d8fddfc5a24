package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables names
const (
	EnvTMDBAPIKey         = "TMDB_API_KEY"
	EnvCookieSecret       = "COOKIE_SECRET"
	EnvListenAddr         = "LISTEN_ADDR"
	EnvItemsPerPage       = "ITEMS_PER_PAGE"
	EnvFeaturedInterval   = "FEATURED_INTERVAL"
	EnvVisitorIdleTimeout = "VISITOR_IDLE_TIMEOUT"
	EnvMaxVisitors        = "MAX_VISITORS"
	EnvTMDBTimeout        = "TMDB_TIMEOUT"
	EnvCachePath          = "CACHE_PATH"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogFormat          = "LOG_FORMAT"
)

type Config struct {
	TMDBAPIKey         string
	CookieSecret       string
	ListenAddr         string
	ItemsPerPage       int64
	FeaturedInterval   time.Duration
	VisitorIdleTimeout time.Duration
	MaxVisitors        int
	TMDBTimeout        time.Duration
	// CachePath is empty when images are not cached
	CachePath string
	LogLevel  zerolog.Level
	// LogFormat is either "json" or "console"
	LogFormat string
}

// Load reads the .env files if any, then the environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function, applying defaults
func FromEnv(getenv func(string) string) (*Config, error) {
	var (
		conf = &Config{
			TMDBAPIKey:   getenv(EnvTMDBAPIKey),
			CookieSecret: getenv(EnvCookieSecret),
			ListenAddr:   withDefault(getenv(EnvListenAddr), ":8080"),
			CachePath:    getenv(EnvCachePath),
			LogFormat:    strings.ToLower(withDefault(getenv(EnvLogFormat), "json")),
		}
		errs []error
		err  error
	)

	if conf.TMDBAPIKey == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvTMDBAPIKey))
	}
	if conf.CookieSecret == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvCookieSecret))
	}

	conf.ItemsPerPage, err = strconv.ParseInt(withDefault(getenv(EnvItemsPerPage), "20"), 10, 64)
	if err != nil || conf.ItemsPerPage <= 0 {
		errs = append(errs, fmt.Errorf("%s must be a positive integer", EnvItemsPerPage))
	}
	conf.MaxVisitors, err = strconv.Atoi(withDefault(getenv(EnvMaxVisitors), "10000"))
	if err != nil || conf.MaxVisitors <= 0 {
		errs = append(errs, fmt.Errorf("%s must be a positive integer", EnvMaxVisitors))
	}
	if conf.FeaturedInterval, err = parseDuration(getenv, EnvFeaturedInterval, "3s"); err != nil {
		errs = append(errs, err)
	}
	if conf.VisitorIdleTimeout, err = parseDuration(getenv, EnvVisitorIdleTimeout, "30m"); err != nil {
		errs = append(errs, err)
	}
	if conf.TMDBTimeout, err = parseDuration(getenv, EnvTMDBTimeout, "10s"); err != nil {
		errs = append(errs, err)
	}

	conf.LogLevel, err = zerolog.ParseLevel(strings.ToLower(withDefault(getenv(EnvLogLevel), "info")))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
	}
	if conf.LogFormat != "json" && conf.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("%s must be json or console", EnvLogFormat))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return conf, nil
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func parseDuration(getenv func(string) string, name, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(withDefault(getenv(name), fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as %s", name, fallback)
	}
	return d, nil
}

// Logger returns the logger described by the configuration, writing to w
func (c Config) Logger(w io.Writer) zerolog.Logger {
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(c.LogLevel).With().Timestamp().Logger()
}
