package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the deployment settings flick needs: where the API lives
// and where local records go.
type Config struct {
	APIBaseURL string `env:"FLICK_API_BASE_URL"`
	DataDir    string `env:"FLICK_DATA_DIR"`
}

const (
	defaultConfigPath = "~/.config/flick/config.toml"
	defaultAPIBaseURL = "http://127.0.0.1:8000/api"
	defaultDataDir    = "~/.local/share/flick"
)

// Load parses the config file, falling back to defaults when it is missing,
// then applies FLICK_* environment overrides on top.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{APIBaseURL: defaultAPIBaseURL, DataDir: defaultDataDir}

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
	} else {
		defer file.Close()

		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		var raw struct {
			APIBaseURL string `toml:"api_base_url"`
			DataDir    string `toml:"data_dir"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
			cfg.APIBaseURL = v
		}
		if v := strings.TrimSpace(raw.DataDir); v != "" {
			cfg.DataDir = v
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env overrides: %w", err)
	}

	cfg.DataDir = mustExpand(cfg.DataDir)
	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
