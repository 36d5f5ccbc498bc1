package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// WatchOptions controls the watcher.
type WatchOptions struct {
	OutDir   string
	Stage    Stage
	Debounce time.Duration // quiet period before a changed file is rendered
	Logger   *zap.Logger
	OnRender func(RenderedDocument) // optional, called after each render
}

// Watcher re-renders markdown documents of a vault when they change.
type Watcher struct {
	vaultPath string
	opts      WatchOptions
	cfg       Config
	log       *zap.Logger
	fsw       *fsnotify.Watcher
	pending   map[string]time.Time // vault-relative path → last event
}

// NewWatcher creates a watcher over every non-hidden directory of the vault.
func NewWatcher(vaultPath string, opts WatchOptions) (*Watcher, error) {
	if _, err := ParseStage(string(opts.Stage)); err != nil {
		return nil, err
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := LoadConfig(vaultPath)
	if err != nil {
		return nil, err
	}
	if err := validateGlobPatterns(cfg.Build.ExcludePaths); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		vaultPath: vaultPath,
		opts:      opts,
		cfg:       cfg,
		log:       log,
		fsw:       fsw,
		pending:   make(map[string]time.Time),
	}
	if err := w.addTree(vaultPath); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and its non-hidden subdirectories.
func (w *Watcher) addTree(dir string) error {
	absOut, _ := filepath.Abs(w.opts.OutDir)
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.vaultPath && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if abs, _ := filepath.Abs(path); abs == absOut {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	ticker := time.NewTicker(w.opts.Debounce / 2)
	defer ticker.Stop()

	w.log.Info("watching vault", zap.String("vault", w.vaultPath), zap.String("out", w.opts.OutDir))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("watch directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !strings.HasSuffix(strings.ToLower(event.Name), ".md") {
		return
	}
	rel, err := filepath.Rel(w.vaultPath, event.Name)
	if err != nil {
		return
	}
	rel = NormalizePath(rel)
	if isExcluded(rel, w.cfg.Build.ExcludePaths) {
		return
	}
	w.pending[rel] = time.Now()
}

// flush renders every pending document that has been quiet for the debounce period.
func (w *Watcher) flush(now time.Time) {
	for rel, last := range w.pending {
		if now.Sub(last) < w.opts.Debounce {
			continue
		}
		delete(w.pending, rel)
		doc, err := renderFile(w.vaultPath, w.opts.OutDir, rel, w.opts.Stage)
		if err != nil {
			w.log.Error("render failed", zap.String("file", rel), zap.Error(err))
			continue
		}
		w.log.Info("rendered", zap.String("file", rel), zap.String("route", doc.Route))
		if w.opts.OnRender != nil {
			w.opts.OnRender(doc)
		}
	}
}
