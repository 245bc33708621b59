package devtool

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTargets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "bin", "hook"), "")
	writeFile(t, filepath.Join(root, "bin", "todo"), "")
	writeFile(t, filepath.Join(root, "bin", "tmp", "nested"), "")
	writeFile(t, filepath.Join(root, "apps", "todo", "node_modules", "x", "node_modules", "y"), "")
	writeFile(t, filepath.Join(root, "internal", "repo", "repo.test"), "")
	writeFile(t, filepath.Join(root, "web", "static", "app.css.map"), "")
	writeFile(t, filepath.Join(root, "web", "static", "app.css"), "")
	writeFile(t, filepath.Join(root, "coverage.out"), "")

	targets, err := FindTargets(root, []string{"bin", "tmp", "node_modules", "*.test", "coverage.out", "web/static/*.map"})
	require.NoError(t, err)

	var rels []string
	for _, tg := range targets {
		rels = append(rels, tg.Rel)
	}
	assert.Equal(t, []string{
		"apps/todo/node_modules",
		"bin",
		"coverage.out",
		"internal/repo/repo.test",
		"web/static/app.css.map",
	}, rels)
	assert.True(t, targets[1].Dir)
	assert.False(t, targets[2].Dir)
}

func TestRemoveTargets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bin", "todo"), "")
	writeFile(t, filepath.Join(root, "coverage.out"), "")
	writeFile(t, filepath.Join(root, "main.go"), "package main")

	targets, err := FindTargets(root, DefaultConfig().Clean)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	var status bytes.Buffer
	removed, errs := RemoveTargets(targets, NewPrinter(&status))
	assert.Empty(t, errs)
	assert.Equal(t, 2, removed)
	assert.NoDirExists(t, filepath.Join(root, "bin"))
	assert.NoFileExists(t, filepath.Join(root, "coverage.out"))
	assert.FileExists(t, filepath.Join(root, "main.go"))
	assert.Contains(t, status.String(), "Deleted directory: bin")

	removed, errs = RemoveTargets(targets, NewPrinter(&status))
	assert.Empty(t, errs)
	assert.Zero(t, removed)
}

func TestTargetTable(t *testing.T) {
	out := TargetTable([]Target{{Rel: "bin", Dir: true}, {Rel: "coverage.out"}})
	assert.Contains(t, out, "Type")
	assert.Contains(t, out, "Directory")
	assert.Contains(t, out, "coverage.out")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(strings.NewReader(tt.input), &out, "Delete?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Delete?")
	}
}

func TestFindTargets_MissingRoot(t *testing.T) {
	_, err := FindTargets(filepath.Join(t.TempDir(), "gone"), []string{"bin"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
