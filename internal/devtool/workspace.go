package devtool

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Workspace is the repository as seen by the devtool.
type Workspace struct {
	Root     string
	Config   Config
	Projects []Project

	runner *Runner
	out    *Printer
	log    *zap.Logger
}

// Open loads the devtool config and discovers the projects under root.
func Open(root string, runner *Runner, out *Printer, log *zap.Logger) (*Workspace, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}
	projects, err := Discover(root, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("projects discovered", zap.String("root", root), zap.Int("count", len(projects)))
	return &Workspace{
		Root:     root,
		Config:   cfg,
		Projects: projects,
		runner:   runner,
		out:      out,
		log:      log,
	}, nil
}

// Selectable returns the projects offered by the interactive picker.
func (w *Workspace) Selectable() []Project {
	out := make([]Project, 0, len(w.Projects))
	for _, p := range w.Projects {
		if !w.Config.excluded(p.Name) {
			out = append(out, p)
		}
	}
	return out
}

// Tools returns the configured tools plus every tool a manifest requires.
func (w *Workspace) Tools() []string {
	seen := map[string]bool{}
	var out []string
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range w.Config.Tools {
		add(t)
	}
	var extra []string
	for _, p := range w.Projects {
		extra = append(extra, p.Manifest.Requires...)
	}
	sort.Strings(extra)
	for _, t := range extra {
		add(t)
	}
	return out
}

// SetupAll checks the required tools, then sets up every project in order.
func (w *Workspace) SetupAll(ctx context.Context, projects []Project) error {
	tools := w.Tools()
	if err := EnsureTools(tools); err != nil {
		return err
	}
	w.out.Success("Required tools found: %v", tools)

	for _, p := range projects {
		if err := w.Setup(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Setup runs a project's setup steps followed by its quality checks.
func (w *Workspace) Setup(ctx context.Context, p Project) error {
	w.out.Heading("\nProcessing %s: %s", p.Kind, p.Name)
	dir := p.Workdir()
	for _, s := range p.Manifest.Setup {
		if err := w.runner.Run(ctx, dir, s); err != nil {
			return fmt.Errorf("setup %s: %w", p.Name, err)
		}
	}
	if len(p.Manifest.Check) > 0 {
		w.out.Heading("Running quality checks for: %s", p.Name)
	}
	for _, s := range p.Manifest.Check {
		if err := w.runner.Run(ctx, dir, s); err != nil {
			return fmt.Errorf("check %s: %w", p.Name, err)
		}
	}
	return nil
}

var ErrNotLaunchable = errors.New("project has no dev server")

// Launch starts the app's watcher in the background and runs its dev server
// in the foreground until it exits or ctx is cancelled. The watcher is
// always stopped before Launch returns.
func (w *Workspace) Launch(ctx context.Context, p Project) error {
	dev := p.Manifest.Dev
	if p.Kind != KindApp || dev == nil {
		return fmt.Errorf("%s: %w", p.Name, ErrNotLaunchable)
	}
	dir := p.Workdir()
	w.out.Heading("\nLaunching app: %s", p.Name)

	if dev.Watch != nil {
		watcher, err := w.runner.Start(ctx, dir, *dev.Watch)
		if err != nil {
			return fmt.Errorf("launch %s: %w", p.Name, err)
		}
		w.out.Muted("Started watcher: %s", dev.Watch.label())
		defer func() {
			w.out.Info("Terminating watcher...")
			if stopErr := watcher.Stop(); stopErr != nil {
				w.log.Debug("watcher exited", zap.Error(stopErr))
			}
			w.out.Success("Cleanup complete")
		}()
	}

	err := w.runner.Run(ctx, dir, dev.Server)
	if ctx.Err() != nil {
		w.out.Info("Server stopped by user")
		return nil
	}
	if err != nil {
		return fmt.Errorf("launch %s: %w", p.Name, err)
	}
	return nil
}
