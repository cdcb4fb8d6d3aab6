package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Emitter writes generated units.
type Emitter interface {
	Emit(u *Unit) error
}

// FileEmitter writes each unit to its Path, replacing any previous
// content. Emitting the same unit twice leaves the same file.
type FileEmitter struct{}

// Emit renders the unit and writes it to disk. Nothing is written if
// rendering fails.
func (FileEmitter) Emit(u *Unit) error {
	var buf bytes.Buffer
	if err := u.File.Render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", u.Record.Name, err)
	}
	if err := os.MkdirAll(filepath.Dir(u.Path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", u.Path, err)
	}
	if err := os.WriteFile(u.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", u.Path, err)
	}
	return nil
}

// MemoryEmitter keeps rendered units in memory, keyed by path. It is
// used for dry runs.
type MemoryEmitter struct {
	mu    sync.Mutex
	files map[string][]byte
}

// Emit renders the unit into memory.
func (m *MemoryEmitter) Emit(u *Unit) error {
	var buf bytes.Buffer
	if err := u.File.Render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", u.Record.Name, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[u.Path] = buf.Bytes()
	return nil
}

// Paths returns the emitted paths in sorted order.
func (m *MemoryEmitter) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// File returns the content emitted for path.
func (m *MemoryEmitter) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	return b, ok
}

// Write emits the units in parallel. Every unit is attempted; failures
// are returned as joined GenerationErrors.
func (g *Generator) Write(ctx context.Context, units []*Unit, e Emitter) error {
	var (
		errs = make([]error, len(units))
		eg   errgroup.Group
	)
	eg.SetLimit(g.cfg.Workers)
	for i, u := range units {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = NewGenerationError("write", u.Path, "", err)
				return nil
			}
			if err := e.Emit(u); err != nil {
				errs[i] = NewGenerationError("write", u.Path, "", err)
				g.cfg.Logger.Error("writing builder", zap.String("file", u.Path), zap.Error(err))
				return nil
			}
			g.cfg.Logger.Info("wrote builder", zap.String("record", u.Record.String()), zap.String("file", u.Path))
			return nil
		})
	}
	_ = eg.Wait()
	return errors.Join(errs...)
}
