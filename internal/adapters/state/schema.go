package state

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int            `toml:"version"`
	BaseURL   string         `toml:"base_url"`
	Username  string         `toml:"username"`
	VerifyTLS bool           `toml:"verify_tls"`
	SavedAt   string         `toml:"saved_at,omitempty"`
	Cookies   []cookieSchema `toml:"cookies,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type cookieSchema struct {
	Name   string `toml:"name"`
	Value  string `toml:"value"`
	Path   string `toml:"path,omitempty"`
	Domain string `toml:"domain,omitempty"`
}
