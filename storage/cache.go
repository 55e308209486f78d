package storage

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// PageStore persists raw response bodies under a key derived from the request
// URL. Entries are write-once: the first successful PutIfAbsent for a key wins
// and later writes for the same key are no-ops.
type PageStore interface {
	Get(key string) ([]byte, bool, error)
	PutIfAbsent(key string, body []byte) error
	Clear() error
}

// CacheKey returns the hex MD5 digest of the exact URL string, query included.
func CacheKey(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// DiskStore keeps one file per key inside dir.
type DiskStore struct {
	dir string
}

// NewDiskStore returns a DiskStore rooted at dir. The directory is created on
// first write, not here.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Dir returns the backing directory.
func (d *DiskStore) Dir() string {
	return d.dir
}

func (d *DiskStore) path(key string) string {
	return filepath.Join(d.dir, key+".html")
}

// Get returns the stored body for key. A missing entry is reported with
// ok=false and a nil error.
func (d *DiskStore) Get(key string) ([]byte, bool, error) {
	body, err := os.ReadFile(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: read %s: %w", key, err)
	}
	return body, true, nil
}

// PutIfAbsent writes body under key unless an entry already exists. The body
// goes to a temp file first and is then hard-linked into place, so readers
// never observe a partial entry.
func (d *DiskStore) PutIfAbsent(key string, body []byte) error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("cache: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("cache: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cache: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close %s: %w", key, err)
	}

	if err := os.Link(tmpName, d.path(key)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("cache: commit %s: %w", key, err)
	}
	return nil
}

// RemoveStale deletes temp files left behind by writes that never committed,
// e.g. when the process exited while an abandoned fetch was still writing. It
// returns the number of files removed.
func (d *DiskStore) RemoveStale() (int, error) {
	matches, err := filepath.Glob(filepath.Join(d.dir, "*.tmp"))
	if err != nil {
		return 0, fmt.Errorf("cache: list temp files: %w", err)
	}
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("cache: remove %s: %w", m, err)
		}
		removed++
	}
	return removed, nil
}

// Clear removes every cached entry together with the directory.
func (d *DiskStore) Clear() error {
	if err := os.RemoveAll(d.dir); err != nil {
		return fmt.Errorf("cache: clear %s: %w", d.dir, err)
	}
	return nil
}

// MemoryStore is an in-process PageStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, true, nil
}

func (m *MemoryStore) PutIfAbsent(key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; exists {
		return nil
	}
	stored := make([]byte, len(body))
	copy(stored, body)
	m.entries[key] = stored
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
