package devtool

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestFile marks a directory under the apps or scripts dir as a project.
const ManifestFile = "project.toml"

// Step is one command run by the devtool.
type Step struct {
	Description string   `toml:"description"`
	Command     []string `toml:"command"`
	// ClearEnv names environment variables removed before the command runs.
	ClearEnv []string `toml:"clear_env"`
	// IfExists skips the step unless this path exists in the working directory.
	IfExists string `toml:"if_exists"`
}

func (s Step) label() string {
	if s.Description != "" {
		return s.Description
	}
	return strings.Join(s.Command, " ")
}

// Dev describes how an app is launched for development.
type Dev struct {
	Server Step  `toml:"server"`
	Watch  *Step `toml:"watch"`
}

type Manifest struct {
	Name string `toml:"name"`
	// Workdir is relative to the repository root. Empty means the project dir.
	Workdir  string   `toml:"workdir"`
	Requires []string `toml:"requires"`
	Setup    []Step   `toml:"setup"`
	Check    []Step   `toml:"check"`
	Dev      *Dev     `toml:"dev"`
}

type Kind int

const (
	KindApp Kind = iota
	KindScript
)

func (k Kind) String() string {
	if k == KindApp {
		return "app"
	}
	return "script"
}

type Project struct {
	Name     string
	Dir      string
	Kind     Kind
	Manifest Manifest
	root     string
}

// Workdir is the directory the project's commands run in.
func (p Project) Workdir() string {
	if p.Manifest.Workdir == "" {
		return p.Dir
	}
	return filepath.Join(p.root, filepath.FromSlash(p.Manifest.Workdir))
}

// LoadManifest parses a project.toml file.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("load %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Manifest{}, fmt.Errorf("load %s: unknown key %q", path, undecoded[0].String())
	}
	if err := m.validate(); err != nil {
		return Manifest{}, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

func (m Manifest) validate() error {
	if filepath.IsAbs(m.Workdir) {
		return fmt.Errorf("workdir must be relative to the repository root")
	}
	for i, s := range m.Setup {
		if len(s.Command) == 0 {
			return fmt.Errorf("setup step %d has no command", i+1)
		}
	}
	for i, s := range m.Check {
		if len(s.Command) == 0 {
			return fmt.Errorf("check step %d has no command", i+1)
		}
	}
	if m.Dev != nil {
		if len(m.Dev.Server.Command) == 0 {
			return fmt.Errorf("dev.server has no command")
		}
		if m.Dev.Watch != nil && len(m.Dev.Watch.Command) == 0 {
			return fmt.Errorf("dev.watch has no command")
		}
	}
	return nil
}

// Discover returns the apps and then the scripts found under root, each
// group sorted by name.
func Discover(root string, cfg Config) ([]Project, error) {
	apps, err := scan(root, cfg.AppsDir, KindApp)
	if err != nil {
		return nil, err
	}
	scripts, err := scan(root, cfg.ScriptsDir, KindScript)
	if err != nil {
		return nil, err
	}
	return append(apps, scripts...), nil
}

func scan(root, dir string, kind Kind) ([]Project, error) {
	if dir == "" {
		return nil, nil
	}
	base := filepath.Join(root, dir)
	entries, err := os.ReadDir(base)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var out []Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(base, e.Name(), ManifestFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		m, err := LoadManifest(path)
		if err != nil {
			return nil, err
		}
		name := m.Name
		if name == "" {
			name = e.Name()
		}
		out = append(out, Project{
			Name:     name,
			Dir:      filepath.Join(base, e.Name()),
			Kind:     kind,
			Manifest: m,
			root:     root,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
