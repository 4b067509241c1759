package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/SanteonNL/sift/util"
)

const (
	backendSqlx = "sqlx"
	backendGorm = "gorm"
)

type Config struct {
	DatabaseURL   string
	ListenAddr    string
	DefaultLocale string
	Locales       []string
	Declarations  string
	Backend       string
	LogLevel      zerolog.Level
	MaxRows       int
}

// LoadConfig loads envFile when it exists and reads the configuration from
// the environment.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		DatabaseURL:   getenv("SIFT_DATABASE_URL"),
		ListenAddr:    getenv("SIFT_LISTEN_ADDR"),
		DefaultLocale: getenv("SIFT_DEFAULT_LOCALE"),
		Locales:       util.SplitList(getenv("SIFT_LOCALES")),
		Backend:       getenv("SIFT_BACKEND"),
		LogLevel:      zerolog.InfoLevel,
		MaxRows:       500,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("SIFT_DATABASE_URL not set")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}

	switch cfg.Backend {
	case "":
		cfg.Backend = backendSqlx
	case backendSqlx, backendGorm:
	default:
		return Config{}, fmt.Errorf("SIFT_BACKEND must be %s or %s, got %q", backendSqlx, backendGorm, cfg.Backend)
	}

	declarations, err := util.ResolvePath(getenv("SIFT_DECLARATIONS"))
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve SIFT_DECLARATIONS: %w", err)
	}
	cfg.Declarations = declarations

	if level := getenv("SIFT_LOG_LEVEL"); level != "" {
		if cfg.LogLevel, err = zerolog.ParseLevel(level); err != nil {
			return Config{}, fmt.Errorf("invalid SIFT_LOG_LEVEL: %w", err)
		}
	}

	if maxRows := getenv("SIFT_MAX_ROWS"); maxRows != "" {
		if cfg.MaxRows, err = strconv.Atoi(maxRows); err != nil || cfg.MaxRows < 0 {
			return Config{}, fmt.Errorf("invalid SIFT_MAX_ROWS %q", maxRows)
		}
	}

	return cfg, nil
}
