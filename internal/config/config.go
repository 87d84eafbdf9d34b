package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields plume needs to talk to an instance.
type Config struct {
	Server      string
	AccessToken string
	Account     string // default profile to open: handle or account id
	PageSize    int
}

const (
	defaultConfigPath = "~/.config/plume/config.toml"
	defaultPageSize   = 20
)

// Load locates and parses the plume config. A missing file yields defaults;
// the server and account can still come from the command line.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{PageSize: defaultPageSize}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Server      string `toml:"server"`
		AccessToken string `toml:"access_token"`
		Account     string `toml:"account"`
		PageSize    int    `toml:"page_size"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Server = strings.TrimSpace(raw.Server)
	cfg.AccessToken = strings.TrimSpace(raw.AccessToken)
	cfg.Account = strings.TrimSpace(raw.Account)
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
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
