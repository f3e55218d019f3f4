package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/tossfile/internal/settings"
)

// settingsEnv lists the settings keys that environment variables may
// override in the global document.
var settingsEnv = map[string]string{
	EnvPrefix + "REPLACE_IF_EXISTS": settings.KeyReplaceIfExists,
	EnvPrefix + "STATUS_TIMEOUT":    settings.KeyStatusTimeout,
}

// SettingsSource locates the global and project settings documents.
// Nothing is cached: every Load reads both files again.
type SettingsSource struct {
	GlobalPath  string
	ProjectRoot string
}

// NewSettingsSource returns the source described by cfg.
func NewSettingsSource(cfg *Config) *SettingsSource {
	return &SettingsSource{GlobalPath: cfg.GlobalConfig, ProjectRoot: cfg.ProjectRoot}
}

// ProjectPath returns the project settings file, or "" when there is none.
func (s *SettingsSource) ProjectPath() string {
	return projectFileIn(s.ProjectRoot)
}

// Documents reads the global document (with environment overrides) and the
// project document. Missing files yield empty documents.
func (s *SettingsSource) Documents() (global, project settings.Document, err error) {
	gk := koanf.New(".")
	if err := loadFile(gk, s.GlobalPath); err != nil {
		return nil, nil, err
	}
	if err := gk.Load(env.Provider(EnvPrefix, ".", func(v string) string {
		return settingsEnv[strings.ToUpper(v)]
	}), nil); err != nil {
		return nil, nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	pk := koanf.New(".")
	if path := s.ProjectPath(); path != "" {
		if err := loadFile(pk, path); err != nil {
			return nil, nil, err
		}
	}

	return gk.Raw(), pk.Raw(), nil
}

// Load reads both documents and resolves the effective settings.
func (s *SettingsSource) Load(logger *slog.Logger) (*settings.Effective, error) {
	global, project, err := s.Documents()
	if err != nil {
		return nil, err
	}
	return settings.Resolve(global, project, logger)
}

func loadFile(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("error reading settings file %s: %w", path, err)
	}
	return nil
}
