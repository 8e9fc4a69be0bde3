// Package filesystem watches a directory of contract files and indexes
// them through the ingest service as they are created or modified.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
	"github.com/custodia-labs/taxclause/internal/logger"
)

// ChangeType classifies a filesystem change.
type ChangeType int

// Change types reported by the watcher.
const (
	ChangeCreated ChangeType = iota
	ChangeUpdated
	ChangeDeleted
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is a relevant filesystem event.
type Change struct {
	Type ChangeType
	Path string
}

// Result reports the outcome of handling one change.
// ContractID is empty for deletions and failed ingests.
type Result struct {
	Change     Change
	ContractID string
	Err        error
}

// Watcher indexes contract files in a single directory as they change.
// Deleting a file does not remove its contract: the store keeps the last
// indexed text.
type Watcher struct {
	dir    string
	ingest driving.IngestService

	mu       sync.RWMutex
	onResult func(Result)
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, ingest driving.IngestService) *Watcher {
	return &Watcher{dir: dir, ingest: ingest}
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// OnResult registers a callback invoked after each handled change.
func (w *Watcher) OnResult(fn func(Result)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResult = fn
}

// Run indexes every supported file already in the directory, then
// watches it until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Section("Initial scan of " + w.dir)
	ids, err := w.ingest.IngestDir(ctx, w.dir)
	if err != nil {
		logger.Warn("initial scan of %s skipped files: %v", w.dir, err)
	}
	logger.Info("watching %s (%d contracts indexed)", w.dir, len(ids))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if change := w.handleFsEvent(event); change != nil {
				w.apply(ctx, *change)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// apply ingests created and updated files; deletions are only reported.
func (w *Watcher) apply(ctx context.Context, change Change) {
	res := Result{Change: change}

	if change.Type != ChangeDeleted {
		res.ContractID, res.Err = w.ingest.IngestFile(ctx, change.Path, "")
		if res.Err != nil {
			logger.Warn("indexing %s: %v", change.Path, res.Err)
		} else {
			logger.Debug("indexed %s as %q (%s)", change.Path, res.ContractID, change.Type)
		}
	} else {
		logger.Debug("%s deleted; contract kept", change.Path)
	}

	w.mu.RLock()
	fn := w.onResult
	w.mu.RUnlock()
	if fn != nil {
		fn(res)
	}
}

// handleFsEvent converts an fsnotify event into a Change, or nil when the
// event is irrelevant: chmod-only events, directories, hidden files and
// files the ingest service cannot read.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	if isHidden(event.Name) || !w.ingest.Supports(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{Type: ChangeDeleted, Path: event.Name}

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		changeType := ChangeUpdated
		if event.Has(fsnotify.Create) {
			changeType = ChangeCreated
		}
		return &Change{Type: changeType, Path: event.Name}
	}

	return nil
}

// isHidden reports whether the base name starts with a dot.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
