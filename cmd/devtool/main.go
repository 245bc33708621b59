package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dunamismax/hypermedia/internal/devtool"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose  bool
	rootFlag string
	marker   string
	force    bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "devtool",
	Short: "Set up, run and clean the projects in this repository",
	Long: `devtool discovers the apps and scripts of the repository (directories under
apps/ and scripts/ holding a project.toml) and manages them.

  devtool setup       install dependencies and run quality checks for every project
  devtool run         pick a project interactively; apps are launched after setup
  devtool clean       remove build artifacts`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install dependencies and run quality checks for every project",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Pick a project to set up, or an app to set up and launch",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Find and delete build artifacts",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Repository root (default: discovered from the working directory)")
	rootCmd.PersistentFlags().StringVar(&marker, "marker", devtool.DefaultMarker, "File or directory that marks the repository root")

	cleanCmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without asking for confirmation")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cleanCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, devtool.ErrorLine(err))
		os.Exit(1)
	}
}

func findRoot() (string, error) {
	if rootFlag != "" {
		return rootFlag, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return devtool.FindRoot(wd, marker)
}

func openWorkspace(cmd *cobra.Command) (*devtool.Workspace, *devtool.Printer, error) {
	root, err := findRoot()
	if err != nil {
		return nil, nil, err
	}
	out := devtool.NewPrinter(cmd.OutOrStdout())
	runner := devtool.NewRunner(out, logger)
	runner.Stdin = cmd.InOrStdin()
	runner.Stdout = cmd.OutOrStdout()
	runner.Stderr = cmd.ErrOrStderr()

	ws, err := devtool.Open(root, runner, out, logger)
	if err != nil {
		return nil, nil, err
	}
	return ws, out, nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	ws, out, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	if len(ws.Projects) == 0 {
		out.Info("No applications or scripts found to set up.")
		return nil
	}

	out.Heading("Setting up all applications and scripts in %s", ws.Root)
	if err := ws.SetupAll(cmd.Context(), ws.Projects); err != nil {
		return err
	}
	out.Success("All projects have been set up!")
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	ws, out, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	projects := ws.Selectable()
	if len(projects) == 0 {
		out.Info("No applications or scripts found.")
		return nil
	}

	sel, err := devtool.Pick(projects, cmd.InOrStdin(), cmd.OutOrStdout())
	if errors.Is(err, devtool.ErrCancelled) {
		out.Info("No selection made. Exiting.")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("selected", zap.String("selection", sel.Describe()))

	ctx := cmd.Context()
	if sel.All {
		if err := ws.SetupAll(ctx, projects); err != nil {
			return err
		}
		out.Success("All projects have been set up!")
		return nil
	}

	p := *sel.Project
	if err := ws.SetupAll(ctx, []devtool.Project{p}); err != nil {
		return err
	}
	if p.Kind != devtool.KindApp {
		out.Success("Setup complete for script: %s", p.Name)
		return nil
	}
	return ws.Launch(ctx, p)
}

func runClean(cmd *cobra.Command, args []string) error {
	root, err := findRoot()
	if err != nil {
		return err
	}
	cfg, err := devtool.LoadConfig(root)
	if err != nil {
		return err
	}
	out := devtool.NewPrinter(cmd.OutOrStdout())

	out.Info("Searching for items to delete in %s...", root)
	targets, err := devtool.FindTargets(root, cfg.Clean)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		out.Success("No items to clean up. Project is already clean!")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), devtool.TargetTable(targets))

	if !force {
		ok, err := devtool.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to permanently delete these items?")
		if err != nil {
			return err
		}
		if !ok {
			out.Info("Aborted by user.")
			return nil
		}
	}

	out.Heading("Starting cleanup...")
	removed, errs := devtool.RemoveTargets(targets, out)
	if len(errs) > 0 {
		return fmt.Errorf("cleanup incomplete: %d removed, %d failed: %w", removed, len(errs), errors.Join(errs...))
	}
	out.Success("Cleanup complete! %d items removed.", removed)
	return nil
}
