package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bassista/go_persist/internal/logger"
	"github.com/goccy/go-json"
)

// Metadata records when the file was last written.
type Metadata struct {
	LastUpdate int64 `json:"lastUpdate"` // Unix timestamp in milliseconds
}

// fileDocument is the on-disk layout of a FileArea.
type fileDocument struct {
	Metadata Metadata          `json:"metadata"`
	Items    map[string]string `json:"items"`
}

// FileArea persists all items of an area in a single JSON file.
// Every SetItem rewrites the file atomically before it returns.
type FileArea struct {
	path  string
	dir   string
	base  string
	quota int64
	clock func() time.Time

	mu         sync.Mutex
	items      map[string]string
	used       int64
	lastUpdate int64
}

// OpenFileArea loads the area stored at path. A missing file yields an empty
// area; the file is created by the first write. A quota of 0 disables the limit.
func OpenFileArea(path string, quota int64) (*FileArea, error) {
	if path == "" {
		return nil, errors.New("data file path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	a := &FileArea{
		path:  path,
		dir:   dir,
		base:  filepath.Base(path),
		quota: quota,
		clock: time.Now,
		items: map[string]string{},
	}

	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	if doc != nil {
		for k, v := range doc.Items {
			a.items[k] = v
			a.used += itemSize(k, v)
		}
		a.lastUpdate = doc.Metadata.LastUpdate
	}
	logger.WithComponent("file-area").Debugf("opened %s with %d items", path, len(a.items))
	return a, nil
}

// load reads the data file. It returns a nil document when the file does not exist.
func (a *FileArea) load() (*fileDocument, error) {
	payload, err := os.ReadFile(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}
	return &doc, nil
}

func (a *FileArea) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := checkContext(ctx); err != nil {
		return "", false, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	value, ok := a.items[key]
	return value, ok, nil
}

// SetItem stores value and rewrites the data file. The in-memory view of the
// area only changes once the file has been replaced.
func (a *FileArea) SetItem(ctx context.Context, key, value string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	used := a.used + itemSize(key, value)
	if old, ok := a.items[key]; ok {
		used -= itemSize(key, old)
	}
	if a.quota > 0 && used > a.quota {
		logger.WithComponent("file-area").Warnf("rejecting write of %q: %d bytes over quota %d", key, used, a.quota)
		return ErrQuotaExceeded
	}

	next := maps.Clone(a.items)
	next[key] = value
	doc := fileDocument{
		Metadata: Metadata{LastUpdate: a.clock().UnixMilli()},
		Items:    next,
	}
	if err := a.save(&doc); err != nil {
		return err
	}

	a.items = next
	a.used = used
	a.lastUpdate = doc.Metadata.LastUpdate
	return nil
}

// LastUpdate returns the timestamp of the last successful write, in milliseconds.
func (a *FileArea) LastUpdate() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastUpdate
}

// Path returns the data file location.
func (a *FileArea) Path() string {
	return a.path
}

// save writes the document to a temp file in the same directory and renames it
// over the data file (caller must hold the lock).
func (a *FileArea) save(doc *fileDocument) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	tmpFile, err := os.CreateTemp(a.dir, a.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), a.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
