package devtool

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Target is a file or directory matched by a clean pattern.
type Target struct {
	Path string
	Rel  string
	Dir  bool
}

func (t Target) kind() string {
	if t.Dir {
		return "Directory"
	}
	return "File"
}

// FindTargets walks root and returns the artifacts matching patterns, in
// path order. Nothing inside a matched directory is reported separately and
// the .git directory is never entered.
func FindTargets(root string, patterns []string) ([]Target, error) {
	var out []Target
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if d.IsDir() && d.Name() == DefaultMarker {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(patterns, rel, d.Name()) {
			return nil
		}
		out = append(out, Target{Path: path, Rel: rel, Dir: d.IsDir()})
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return out, nil
}

func matchAny(patterns []string, rel, base string) bool {
	for _, p := range patterns {
		subject := base
		if strings.Contains(p, "/") {
			subject = rel
		}
		if ok, _ := filepath.Match(p, subject); ok {
			return true
		}
	}
	return false
}

// TargetTable renders targets as a table for confirmation.
func TargetTable(targets []Target) string {
	rows := make([][]string, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, []string{t.kind(), t.Rel})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(infoStyle).
		Headers("Type", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headingStyle.Padding(0, 1)
			case col == 0:
				return kindStyle.Padding(0, 1)
			default:
				return pathStyle.Padding(0, 1)
			}
		}).
		String()
}

// RemoveTargets deletes every target and returns how many were removed.
// Failures are reported and do not stop the run.
func RemoveTargets(targets []Target, out *Printer) (int, []error) {
	removed := 0
	var errs []error
	for _, t := range targets {
		if _, err := os.Lstat(t.Path); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(t.Path); err != nil {
			out.Error("Error deleting %s: %v", t.Rel, err)
			errs = append(errs, err)
			continue
		}
		removed++
		out.Muted("Deleted %s: %s", strings.ToLower(t.kind()), t.Rel)
	}
	return removed, errs
}

// Confirm asks a yes/no question on out and reads the answer from in.
// Anything but y or yes is a no.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s %s ", question, mutedStyle.Render("[y/N]:"))
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
