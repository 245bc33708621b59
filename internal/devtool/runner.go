package devtool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var ErrCommandNotFound = errors.New("command not found")

// ExitError reports a command that ran and exited non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d", e.Command, e.Code)
}

// stopGrace is how long a stopped process gets before it is killed.
const stopGrace = 5 * time.Second

// Runner executes steps with the devtool's stdio attached.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is the base environment. Nil means os.Environ().
	Env []string

	out *Printer
	log *zap.Logger
}

func NewRunner(out *Printer, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		out:    out,
		log:    log,
	}
}

// Run executes step in dir and waits for it. A step whose IfExists path is
// missing is skipped.
func (r *Runner) Run(ctx context.Context, dir string, step Step) error {
	if r.skip(dir, step) {
		return nil
	}
	r.out.Info("Starting: %s in %s", step.label(), dir)

	cmd, err := r.command(ctx, dir, step)
	if err == nil {
		err = wait(cmd, step)
	}
	if errors.Is(err, ErrCommandNotFound) {
		r.out.Error("Command '%s' not found. Is it installed and in your PATH?", step.Command[0])
		return err
	}
	if err != nil {
		r.out.Error("%v", err)
		return err
	}
	r.out.Success("%s", step.label())
	return nil
}

// Process is a command started in the background.
type Process struct {
	cmd  *exec.Cmd
	step Step
	done chan error
}

// Start launches step in dir without waiting for it.
func (r *Runner) Start(ctx context.Context, dir string, step Step) (*Process, error) {
	cmd, err := r.command(ctx, dir, step)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", step.label(), err)
	}
	r.log.Debug("background process started", zap.String("step", step.label()), zap.Int("pid", cmd.Process.Pid))

	p := &Process{cmd: cmd, step: step, done: make(chan error, 1)}
	go func() {
		p.done <- exitError(cmd.Wait(), step)
		close(p.done)
	}()
	return p, nil
}

// Done receives the process's exit error once it has exited.
func (p *Process) Done() <-chan error {
	return p.done
}

// Stop asks the process to terminate and kills it after stopGrace.
func (p *Process) Stop() error {
	select {
	case err := <-p.done:
		return err
	default:
	}
	_ = p.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case err := <-p.done:
		return err
	case <-time.After(stopGrace):
		_ = p.cmd.Process.Kill()
		return <-p.done
	}
}

func (r *Runner) skip(dir string, step Step) bool {
	if step.IfExists == "" {
		return false
	}
	if _, err := os.Stat(filepath.Join(dir, step.IfExists)); err != nil {
		r.out.Muted("No %s found, skipping: %s", step.IfExists, step.label())
		return true
	}
	return false
}

func (r *Runner) command(ctx context.Context, dir string, step Step) (*exec.Cmd, error) {
	if len(step.Command) == 0 {
		return nil, fmt.Errorf("%s: empty command", step.label())
	}
	name := step.Command[0]
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}

	cmd := exec.CommandContext(ctx, name, step.Command[1:]...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Env = r.env(step.ClearEnv)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = stopGrace

	r.log.Debug("exec",
		zap.Strings("argv", step.Command),
		zap.String("dir", dir),
		zap.Strings("clear_env", step.ClearEnv),
	)
	return cmd, nil
}

func (r *Runner) env(clear []string) []string {
	base := r.Env
	if base == nil {
		base = os.Environ()
	}
	if len(clear) == 0 {
		return base
	}
	out := make([]string, 0, len(base))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		drop := false
		for _, c := range clear {
			if name == c {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, kv)
		}
	}
	return out
}

func wait(cmd *exec.Cmd, step Step) error {
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrCommandNotFound, step.Command[0])
		}
		return fmt.Errorf("start %s: %w", step.label(), err)
	}
	return exitError(cmd.Wait(), step)
}

func exitError(err error, step Step) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Command: step.label(), Code: ee.ExitCode()}
	}
	return fmt.Errorf("%s: %w", step.label(), err)
}

// EnsureTools checks that every tool is on PATH.
func EnsureTools(tools []string) error {
	var missing []string
	for _, t := range tools {
		if _, err := exec.LookPath(t); err != nil {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrCommandNotFound, strings.Join(missing, ", "))
	}
	return nil
}
