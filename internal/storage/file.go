package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ChangeFunc receives the keys whose values changed because another process
// rewrote the storage file.
type ChangeFunc func(keys []string)

// File keeps entries in a single JSON document on disk. Every write rewrites
// the file atomically, so a reopened File sees exactly what was last set.
// Writes by other processes sharing the file are picked up by a watcher.
type File struct {
	path     string
	log      zerolog.Logger
	mu       sync.RWMutex
	entries  map[string]string
	lastSum  [sha256.Size]byte
	watcher  *fsnotify.Watcher
	onChange ChangeFunc
	done     chan struct{}
}

// OpenFile loads (or creates) the storage file at path.
func OpenFile(path string, log zerolog.Logger) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	f := &File{
		path:    path,
		log:     log.With().Str("component", "file_storage").Logger(),
		entries: make(map[string]string),
		done:    make(chan struct{}),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read storage file: %w", err)
	default:
		if err := f.decode(data); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Watch starts reloading the file when another process changes it and
// reports the changed keys to fn. Close stops the watcher.
func (f *File) Watch(fn ChangeFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// The directory is watched because atomic renames replace the file's inode.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch storage dir: %w", err)
	}

	f.mu.Lock()
	f.watcher = watcher
	f.onChange = fn
	f.mu.Unlock()

	go f.watchLoop(watcher)
	return nil
}

func (f *File) watchLoop(watcher *fsnotify.Watcher) {
	target := filepath.Clean(f.path)
	for {
		select {
		case <-f.done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			f.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.log.Warn().Err(err).Msg("Watcher error")
		}
	}
}

// reload re-reads the file and reports keys that differ from memory.
func (f *File) reload() {
	data, err := os.ReadFile(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		f.log.Warn().Err(err).Msg("Reload failed")
		return
	}

	f.mu.Lock()
	if sha256.Sum256(data) == f.lastSum {
		f.mu.Unlock()
		return
	}
	previous := f.entries
	f.entries = make(map[string]string)
	if len(data) > 0 {
		if err := f.decodeLocked(data); err != nil {
			f.entries = previous
			f.mu.Unlock()
			f.log.Warn().Err(err).Msg("Ignoring unreadable storage file")
			return
		}
	}
	changed := diffKeys(previous, f.entries)
	fn := f.onChange
	f.mu.Unlock()

	if len(changed) > 0 && fn != nil {
		f.log.Debug().Strs("keys", changed).Msg("Storage file changed externally")
		fn(changed)
	}
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.entries[key]
	f.entries[key] = value
	if err := f.persistLocked(); err != nil {
		if had {
			f.entries[key] = prev
		} else {
			delete(f.entries, key)
		}
		return err
	}
	return nil
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := make(map[string]string)
	for _, k := range keys {
		if v, ok := f.entries[k]; ok {
			removed[k] = v
			delete(f.entries, k)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := f.persistLocked(); err != nil {
		for k, v := range removed {
			f.entries[k] = v
		}
		return err
	}
	return nil
}

// Close stops watching. Entries already written stay on disk.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.done:
		return nil
	default:
		close(f.done)
	}
	if f.watcher != nil {
		return f.watcher.Close()
	}
	return nil
}

func (f *File) decode(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decodeLocked(data)
}

func (f *File) decodeLocked(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &f.entries); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if f.entries == nil {
		f.entries = make(map[string]string)
	}
	f.lastSum = sha256.Sum256(data)
	return nil
}

// persistLocked writes entries to a temp file and renames it into place.
func (f *File) persistLocked() error {
	data, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	// Record the checksum before the rename so our own event is ignored.
	f.lastSum = sha256.Sum256(data)
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}

func diffKeys(a, b map[string]string) []string {
	var changed []string
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			changed = append(changed, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}
