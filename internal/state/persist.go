package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/tidwall/pretty"
)

// GlobalKey is the persistence key of the global configuration.
const GlobalKey = "_global"

// Persister stores opaque per-widget blobs.
type Persister interface {
	PersistState(ctx context.Context, widgetID string, blob []byte) error
	LoadState(ctx context.Context, widgetID string) ([]byte, bool, error)
}

var validID = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps one pretty-printed JSON file per widget under Dir.
type FileStore struct {
	Dir string

	mu sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (fs *FileStore) path(widgetID string) (string, error) {
	if !validID.MatchString(widgetID) {
		return "", fmt.Errorf("invalid widget id %q", widgetID)
	}
	return filepath.Join(fs.Dir, widgetID+".json"), nil
}

// PersistState writes via a temp file and rename so a crash never leaves a torn file.
func (fs *FileStore) PersistState(ctx context.Context, widgetID string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := fs.path(widgetID)
	if err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	tmp, err := os.CreateTemp(fs.Dir, widgetID+".*.tmp")
	if err != nil {
		return fmt.Errorf("persist %s: %w", widgetID, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(pretty.Pretty(blob)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("persist %s: %w", widgetID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist %s: %w", widgetID, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("persist %s: %w", widgetID, err)
	}
	return nil
}

func (fs *FileStore) LoadState(ctx context.Context, widgetID string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	p, err := fs.path(widgetID)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", widgetID, err)
	}
	return pretty.Ugly(b), true, nil
}

// MemoryStore keeps blobs in memory. Used by the simulator and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	puts  map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: map[string][]byte{}, puts: map[string]int{}}
}

func (m *MemoryStore) PersistState(_ context.Context, widgetID string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[widgetID] = append([]byte(nil), blob...)
	m.puts[widgetID]++
	return nil
}

func (m *MemoryStore) LoadState(_ context.Context, widgetID string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[widgetID]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

// Writes reports how many times widgetID was persisted.
func (m *MemoryStore) Writes(widgetID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts[widgetID]
}

var (
	_ Persister = (*FileStore)(nil)
	_ Persister = (*MemoryStore)(nil)
)
