package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/ziyyanmart/localstore/internal/apperr"
	"github.com/ziyyanmart/localstore/internal/logger"
	"github.com/ziyyanmart/localstore/internal/paths"
)

const defaultWatchDebounce = 200 * time.Millisecond

// JSONRepository stores each slot as a pretty-printed JSON file in the
// application-data directory and watches that directory for external edits.
//
// There is no lock around slot files: concurrent saves are last-writer-wins and a
// load racing a save observes either the old or the new file, never a torn one,
// because saves replace the file by rename.
type JSONRepository struct {
	resolver *paths.Resolver
	debounce time.Duration
	logger   *logrus.Entry

	// last bytes this process wrote per slot, so the watcher can ignore its own saves
	writtenMu sync.Mutex
	written   map[Slot][]byte
}

// Option customizes a JSONRepository.
type Option func(*JSONRepository)

// WithWatchDebounce sets how long the watcher waits for a burst of events to settle.
func WithWatchDebounce(d time.Duration) Option {
	return func(r *JSONRepository) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// NewJSONRepository creates a repository rooted at the resolver's directory.
// It returns the repository interface to avoid leaking implementation details.
func NewJSONRepository(resolver *paths.Resolver, opts ...Option) (Repository, error) {
	if resolver == nil {
		return nil, errors.New("path resolver is required")
	}

	r := &JSONRepository{
		resolver: resolver,
		debounce: defaultWatchDebounce,
		logger:   logger.WithComponent("json-repo"),
		written:  map[Slot][]byte{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dir returns the application-data directory.
func (r *JSONRepository) Dir() (string, error) {
	return r.resolver.Dir()
}

// Path returns the absolute file path of a slot.
func (r *JSONRepository) Path(slot Slot) (string, error) {
	if !slot.Valid() {
		return "", apperr.PathResolution("resolve slot", fmt.Errorf("unknown slot %q", slot))
	}
	return r.resolver.Resolve(slot.FileName())
}

// Load reads the whole slot file and parses it. A missing file is Absent, not an error.
func (r *JSONRepository) Load(ctx context.Context, slot Slot) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	path, err := r.Path(slot)
	if err != nil {
		return Document{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debugf("%s is absent (%s)", slot, path)
			return Absent(), nil
		}
		return Document{}, apperr.IO("read file", path, err)
	}

	if !utf8.Valid(data) {
		return Document{}, apperr.Errorf(apperr.KindParse, "parse", path, "file is not valid UTF-8")
	}

	var value json.RawMessage
	if err := json.Unmarshal(data, &value); err != nil {
		return Document{}, apperr.Parse(path, err)
	}

	r.logger.Debugf("loaded %s (%d bytes)", slot, len(data))
	return Present(value), nil
}

// Save creates the application-data directory if needed, then replaces the slot
// file with the pretty-printed value.
func (r *JSONRepository) Save(ctx context.Context, slot Slot, value json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := r.resolver.Dir()
	if err != nil {
		return err
	}
	if err := paths.EnsureDir(dir); err != nil {
		return err
	}

	path, err := r.Path(slot)
	if err != nil {
		return err
	}

	payload, err := prettyJSON(value)
	if err != nil {
		return apperr.Serialization(err)
	}

	if err := writeFileAtomic(dir, path, payload); err != nil {
		return err
	}

	r.writtenMu.Lock()
	r.written[slot] = payload
	r.writtenMu.Unlock()

	r.logger.Debugf("saved %s (%d bytes)", slot, len(payload))
	return nil
}

// prettyJSON re-indents value with two spaces, keeping key order and literal text,
// so the same input always produces the same bytes.
func prettyJSON(value json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return nil, errors.New("value is empty")
	}
	if !utf8.Valid(trimmed) {
		return nil, errors.New("value is not valid UTF-8")
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes payload to a temp file in dir and renames it over path.
func writeFileAtomic(dir, path string, payload []byte) error {
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return apperr.IO("create temp file", dir, err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return apperr.IO("write temp file", tmpFile.Name(), err)
	}

	if err := tmpFile.Sync(); err != nil {
		return apperr.IO("sync temp file", tmpFile.Name(), err)
	}

	if err := tmpFile.Close(); err != nil {
		return apperr.IO("close temp file", tmpFile.Name(), err)
	}

	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return apperr.IO("replace file", path, err)
	}

	return nil
}

// StartWatcher reports external changes to the slot files through onChange.
// It watches the directory (not the files) so atomic replace sequences are still
// observed, filters events by slot file name and debounces them per slot. Changes
// whose content equals what this process last wrote are not reported. The caller
// owns ctx: cancel it to stop the goroutine and close the watcher.
func (r *JSONRepository) StartWatcher(ctx context.Context, onChange func(Slot)) error {
	if onChange == nil {
		return errors.New("onChange callback is required")
	}

	dir, err := r.resolver.Dir()
	if err != nil {
		return err
	}
	// the directory must exist before it can be watched
	if err := paths.EnsureDir(dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	callback := r.MakeWatcherCallback(onChange)

	go func() {
		defer watcher.Close()

		timers := map[Slot]*time.Timer{}
		defer func() {
			for _, t := range timers {
				t.Stop()
			}
		}()

		schedule := func(slot Slot) {
			if t, ok := timers[slot]; ok {
				t.Stop()
			}
			timers[slot] = time.AfterFunc(r.debounce, func() { callback(slot) })
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				slot, known := slotForFile(filepath.Base(event.Name))
				if !known {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule(slot)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warnf("watcher error: %v", err)
			}
		}
	}()

	r.logger.Infof("watching %s for external edits", dir)
	return nil
}

// MakeWatcherCallback returns the debounced handler for one slot: it compares the
// file on disk with the last bytes written by this process and calls onChange only
// for external edits (including removal).
func (r *JSONRepository) MakeWatcherCallback(onChange func(Slot)) func(Slot) {
	return func(slot Slot) {
		path, err := r.Path(slot)
		if err != nil {
			r.logger.Errorf("watch: %v", err)
			return
		}

		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warnf("watch: read %s: %v", path, err)
			return
		}
		removed := err != nil

		r.writtenMu.Lock()
		last, wroteBefore := r.written[slot]
		r.writtenMu.Unlock()

		if !removed && wroteBefore && bytes.Equal(data, last) {
			r.logger.Tracef("watch: %s matches last save, ignoring", slot)
			return
		}

		r.logger.Infof("%s changed on disk outside the application", slot)
		onChange(slot)
	}
}
