package compiler

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/syssam/mapbuilder/compiler/gen"
	"github.com/syssam/mapbuilder/compiler/load"
)

// DefaultDebounce is the quiet period before a change triggers a run.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc receives the outcome of every run of Watch.
type RunFunc func(*gen.Report, error)

// Watcher regenerates builders when the source of the watched packages
// changes. Rapid changes are debounced into a single run.
type Watcher struct {
	opts     *Options
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onRun    RunFunc
	log      *zap.Logger
}

// NewWatcher creates a watcher over the directories of the packages
// matched by the options. Close releases it.
func NewWatcher(ctx context.Context, o *Options, debounce time.Duration, onRun RunFunc) (*Watcher, error) {
	if o == nil {
		o = &Options{}
	}
	opts, err := o.defaults()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if onRun == nil {
		onRun = func(*gen.Report, error) {}
	}
	dirs, err := load.PackageDirs(ctx, opts.Load, opts.Patterns...)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, errors.WithHint(
			errors.Newf("watch: no package directories for %s", strings.Join(opts.Patterns, " ")),
			"patterns must match at least one package with Go files",
		)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch: create watcher")
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watch: add %s", dir)
		}
	}
	return &Watcher{
		opts:     opts,
		watcher:  fw,
		debounce: debounce,
		onRun:    onRun,
		log:      opts.Gen.Logger,
	}, nil
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	return w.watcher.WatchList()
}

// Run generates once, then again after every relevant change, until ctx
// is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.run(ctx)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("source changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.run(ctx)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	report, err := Generate(ctx, w.opts)
	if err != nil {
		w.log.Error("generation failed", zap.Error(err))
	}
	w.onRun(report, err)
}

// relevant reports whether the event may change a record. Generated
// files, test files and hidden files are ignored.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	switch {
	case !strings.HasSuffix(base, ".go"),
		strings.HasSuffix(base, "_test.go"),
		strings.HasPrefix(base, "."),
		strings.HasSuffix(base, w.opts.Gen.FileSuffix):
		return false
	}
	return true
}

// Watch is a shorthand for NewWatcher with the default debounce followed
// by Run.
func Watch(ctx context.Context, o *Options, onRun RunFunc) error {
	w, err := NewWatcher(ctx, o, DefaultDebounce, onRun)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx)
}
