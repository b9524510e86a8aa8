package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const noManifestMessage = "no tokensheet.toml found\nplease name the sheet explicitly, e.g.:\n  tokensheet validate --sheet path/to/tokens.xml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Sheet    sheetConfig    `toml:"sheet"`
	Defaults defaultsConfig `toml:"defaults"`
}

type sheetConfig struct {
	Path string `toml:"path"`
}

type defaultsConfig struct {
	Model string `toml:"model"`
	OS    string `toml:"os"`
	Lang  string `toml:"lang"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "tokensheet.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadManifestConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadManifestConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("sheet") {
		return projectConfig{}, fmt.Errorf("%s: missing [sheet]", path)
	}
	if !meta.IsDefined("sheet", "path") || strings.TrimSpace(cfg.Sheet.Path) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [sheet].path", path)
	}
	return cfg, nil
}

// sheetPath resolves the manifest's sheet path relative to the manifest.
func (m *projectManifest) sheetPath() string {
	p := filepath.FromSlash(strings.TrimSpace(m.Config.Sheet.Path))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}
