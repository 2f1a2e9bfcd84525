package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/prajeetp/blackhole-cli/internal/adapters/auth"
	"github.com/prajeetp/blackhole-cli/internal/adapters/state"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

const (
	envUser = "BH_HTTP_USER"
	envPass = "BH_HTTP_PASS"

	baseURLKey   = "portal.base_url"
	verifyTLSKey = "portal.verify_tls"
	workersKey   = "batch.workers"
	timeoutKey   = "batch.timeout_seconds"
	logsDirKey   = "logs.dir"
)

type app struct {
	store   ports.SessionStore
	prober  auth.Prober
	baseURL string
	verify  bool
	workers int
	timeout time.Duration
	logsDir string
}

func wireApp() (*app, error) {
	// A local .env is a convenience for the credential env vars; absence is
	// not an error.
	_ = godotenv.Load()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(filepath.Join(homeDir, ".blackhole"))
	cfg.SetDefault(baseURLKey, "")
	cfg.SetDefault(verifyTLSKey, false)
	cfg.SetDefault(workersKey, 0)
	cfg.SetDefault(timeoutKey, 0)
	cfg.SetDefault(logsDirKey, filepath.Join(homeDir, ".blackhole", "logs"))

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	store, err := state.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	return &app{
		store:   store,
		prober:  auth.Prober{},
		baseURL: cfg.GetString(baseURLKey),
		verify:  cfg.GetBool(verifyTLSKey),
		workers: cfg.GetInt(workersKey),
		timeout: time.Duration(cfg.GetInt(timeoutKey)) * time.Second,
		logsDir: cfg.GetString(logsDirKey),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
