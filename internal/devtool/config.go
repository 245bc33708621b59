package devtool

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFile is read from the repository root when present.
const ConfigFile = "devtool.toml"

type Config struct {
	AppsDir    string
	ScriptsDir string
	// Tools must be on PATH before any project is set up.
	Tools []string
	// Exclude hides projects from the interactive picker.
	Exclude []string
	// Clean lists glob patterns of artifacts removed by clean. Patterns
	// without a slash match a base name at any depth.
	Clean []string
}

func DefaultConfig() Config {
	return Config{
		AppsDir:    "apps",
		ScriptsDir: "scripts",
		Tools:      []string{"go"},
		Exclude:    []string{"devtool"},
		Clean: []string{
			"bin",
			"tmp",
			"node_modules",
			"coverage.out",
			"*.test",
			"*.prof",
			"__debug_bin*",
		},
	}
}

type fileConfig struct {
	AppsDir    string   `toml:"apps_dir"`
	ScriptsDir string   `toml:"scripts_dir"`
	Tools      []string `toml:"tools"`
	Exclude    []string `toml:"exclude"`
	Clean      []string `toml:"clean"`
}

// LoadConfig overlays root/devtool.toml on DefaultConfig. A missing file is not an error.
func LoadConfig(root string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(filepath.Join(root, ConfigFile), &raw)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", ConfigFile, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load %s: unknown key %q", ConfigFile, undecoded[0].String())
	}

	if meta.IsDefined("apps_dir") {
		cfg.AppsDir = strings.TrimSpace(raw.AppsDir)
	}
	if meta.IsDefined("scripts_dir") {
		cfg.ScriptsDir = strings.TrimSpace(raw.ScriptsDir)
	}
	if meta.IsDefined("tools") {
		cfg.Tools = raw.Tools
	}
	if meta.IsDefined("exclude") {
		cfg.Exclude = raw.Exclude
	}
	if meta.IsDefined("clean") {
		cfg.Clean = raw.Clean
	}
	for _, p := range cfg.Clean {
		if _, err := filepath.Match(p, "x"); err != nil {
			return Config{}, fmt.Errorf("load %s: clean pattern %q: %w", ConfigFile, p, err)
		}
	}
	return cfg, nil
}

func (c Config) excluded(name string) bool {
	for _, e := range c.Exclude {
		if e == name {
			return true
		}
	}
	return false
}
