// Package state persists the portal session bundle to a TOML file so that a
// login survives across CLI invocations. The password is never written to
// disk; a loaded session carries only the endpoint, user, TLS policy, and
// cookies.
package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/prajeetp/blackhole-cli/internal/domain"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

const (
	configName      = "config"
	configType      = "toml"
	sessionPathKey  = "session.path"
	sessionFileMode = 0o600
	sessionDirMode  = 0o700
	sessionDir      = ".blackhole"
	sessionFile     = "session.toml"
	tempFilePattern = ".session-*.toml.tmp"
)

type Store struct {
	sessionPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, sessionDir, sessionFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, sessionDir))
	cfg.SetDefault(sessionPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	sessionPath := cfg.GetString(sessionPathKey)
	if sessionPath == "" {
		return nil, errors.New("session path is empty")
	}
	sessionPath, err = normalizeSessionPath(sessionPath)
	if err != nil {
		return nil, err
	}

	return &Store{sessionPath: sessionPath, mu: lockForPath(sessionPath)}, nil
}

func (s *Store) Load(ctx context.Context) (domain.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return domain.Credentials{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.sessionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Credentials{}, domain.ErrNoSession
		}
		return domain.Credentials{}, fmt.Errorf("read session file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Credentials{}, fmt.Errorf("decode session file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.Credentials{}, err
	}

	creds := fromSchema(file)
	if !creds.Ready() {
		return domain.Credentials{}, domain.ErrNoSession
	}

	return creds, nil
}

func (s *Store) Save(ctx context.Context, creds domain.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file := toSchema(creds)
	file.applyDefaults()

	return s.writeSchema(file)
}

func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}

func normalizeSessionPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (s *Store) writeSchema(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(s.sessionPath), sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.sessionPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, s.sessionPath); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.sessionPath, sessionFileMode); err != nil {
		return fmt.Errorf("chmod session file: %w", err)
	}

	return nil
}

func toSchema(creds domain.Credentials) fileSchema {
	cookies := make([]cookieSchema, 0, len(creds.Cookies))
	for _, cookie := range creds.Cookies {
		cookies = append(cookies, cookieSchema{
			Name:   cookie.Name,
			Value:  cookie.Value,
			Path:   cookie.Path,
			Domain: cookie.Domain,
		})
	}

	return fileSchema{
		Version:   currentSchemaVersion,
		BaseURL:   creds.BaseURL,
		Username:  creds.Username,
		VerifyTLS: creds.VerifyTLS,
		SavedAt:   time.Now().UTC().Format(time.RFC3339),
		Cookies:   cookies,
	}
}

func fromSchema(file fileSchema) domain.Credentials {
	cookies := make([]domain.Cookie, 0, len(file.Cookies))
	for _, cookie := range file.Cookies {
		cookies = append(cookies, domain.Cookie{
			Name:   cookie.Name,
			Value:  cookie.Value,
			Path:   cookie.Path,
			Domain: cookie.Domain,
		})
	}

	return domain.Credentials{
		BaseURL:   domain.NormalizeBaseURL(file.BaseURL),
		Username:  file.Username,
		VerifyTLS: file.VerifyTLS,
		Cookies:   cookies,
	}
}
