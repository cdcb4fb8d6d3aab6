package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/mapbuilder/compiler/gen"
	"github.com/syssam/mapbuilder/compiler/load"
)

type run struct {
	report *gen.Report
	err    error
}

func nextRun(t *testing.T, runs <-chan run) run {
	t.Helper()
	select {
	case r := <-runs:
		return r
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a run")
		return run{}
	}
}

func TestWatcher(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"shop.go": "package shop\n\n//mapbuilder:record\ntype Customer struct {\n\tName string\n}\n",
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan run, 4)
	w, err := NewWatcher(ctx, &Options{Load: &load.Config{Dir: dir}}, 20*time.Millisecond, func(report *gen.Report, err error) {
		runs <- run{report, err}
	})
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, []string{dir}, w.Dirs())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := nextRun(t, runs)
	require.NoError(t, first.err)
	require.Len(t, first.report.Units, 1)
	assert.FileExists(t, filepath.Join(dir, "customer_builder.go"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "order.go"),
		[]byte("package shop\n\n//mapbuilder:record\ntype Order struct {\n\tID int64\n}\n"), 0o644))

	second := nextRun(t, runs)
	require.NoError(t, second.err)
	require.Len(t, second.report.Units, 2)
	assert.FileExists(t, filepath.Join(dir, "order_builder.go"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherRelevant(t *testing.T) {
	w := &Watcher{opts: &Options{Gen: gen.MustNewConfig()}}
	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"write source", fsnotify.Event{Name: "/src/shop/user.go", Op: fsnotify.Write}, true},
		{"create source", fsnotify.Event{Name: "/src/shop/order.go", Op: fsnotify.Create}, true},
		{"remove source", fsnotify.Event{Name: "/src/shop/order.go", Op: fsnotify.Remove}, true},
		{"chmod", fsnotify.Event{Name: "/src/shop/user.go", Op: fsnotify.Chmod}, false},
		{"generated file", fsnotify.Event{Name: "/src/shop/user_builder.go", Op: fsnotify.Write}, false},
		{"test file", fsnotify.Event{Name: "/src/shop/user_test.go", Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: "/src/shop/.user.go", Op: fsnotify.Write}, false},
		{"not go", fsnotify.Event{Name: "/src/shop/README.md", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.relevant(tt.event))
		})
	}
}

func TestNewWatcherErrors(t *testing.T) {
	t.Run("no packages", func(t *testing.T) {
		dir := writeModule(t, map[string]string{})
		_, err := NewWatcher(context.Background(), &Options{Load: &load.Config{Dir: dir}}, 0, nil)
		require.Error(t, err)
	})
}
