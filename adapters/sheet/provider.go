package sheet

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"garment-cost/core/types"
	"garment-cost/internal/errors"
	"garment-cost/internal/logging"
)

// Provider serves costing-sheet defaults to the engine's callers.
// Staleness lives here: the provider caches the last good sheet and
// reloads it when the file changes. The engine itself stays stateless.
type Provider struct {
	path string

	mu       sync.RWMutex
	defaults types.Defaults
	loaded   bool
}

// NewProvider creates a provider for the given sheet path without loading it
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// Reload reads the sheet from disk. On failure the previous good defaults
// are kept and the error is returned.
func (p *Provider) Reload() error {
	defaults, err := Load(p.path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.defaults = defaults
	p.loaded = true
	p.mu.Unlock()

	logging.Info("costing sheet loaded",
		zap.String("path", p.path),
		zap.Int("operations", len(defaults.Operations)))
	return nil
}

// Defaults returns the current defaults bundle. It fails with a source
// error if no sheet has ever been loaded.
func (p *Provider) Defaults() (types.Defaults, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.loaded {
		return types.Defaults{}, errors.SourceUnavailable("costing sheet has not been loaded", nil)
	}
	return p.defaults, nil
}

// UseFallback seeds the provider with the hard-coded fallback defaults.
// Hosts opt into this explicitly; the engine never substitutes values on
// a failed fetch.
func (p *Provider) UseFallback() {
	p.mu.Lock()
	p.defaults = Fallback()
	p.loaded = true
	p.mu.Unlock()

	logging.Warn("costing sheet unavailable, using fallback defaults",
		zap.String("path", p.path))
}

// Watch reloads the sheet whenever the file changes, until ctx is done.
// A failed reload keeps the previous good sheet.
func (p *Provider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.TypeInternal, "create sheet watcher", err)
	}

	if err := watcher.Add(p.path); err != nil {
		watcher.Close()
		return errors.SourceUnavailable("watch costing sheet", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := p.Reload(); err != nil {
					logging.Error("costing sheet reload failed, keeping previous sheet",
						zap.String("path", p.path),
						zap.Error(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Error("sheet watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
