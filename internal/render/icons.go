package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ErrIconNotFound = errors.New("icon not found")

// DirIcons loads PNG icons from a directory tree and caches them.
type DirIcons struct {
	Root string
	// Fallback is consulted when the file does not exist.
	Fallback IconSource

	mu    sync.RWMutex
	cache map[string]image.Image
}

func NewDirIcons(root string, fallback IconSource) *DirIcons {
	return &DirIcons{Root: root, Fallback: fallback, cache: map[string]image.Image{}}
}

func (d *DirIcons) Icon(id string) (image.Image, error) {
	if id == "" {
		return nil, ErrIconNotFound
	}
	clean := filepath.Clean(filepath.FromSlash(id))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("icon %q: invalid path", id)
	}

	d.mu.RLock()
	img, ok := d.cache[clean]
	d.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := d.load(clean)
	if errors.Is(err, os.ErrNotExist) || (err == nil && img == nil) {
		if d.Fallback != nil {
			return d.Fallback.Icon(id)
		}
		return nil, fmt.Errorf("icon %q: %w", id, ErrIconNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("icon %q: %w", id, err)
	}

	d.mu.Lock()
	if d.cache == nil {
		d.cache = map[string]image.Image{}
	}
	d.cache[clean] = img
	d.mu.Unlock()
	return img, nil
}

func (d *DirIcons) load(rel string) (image.Image, error) {
	if d.Root == "" {
		return nil, os.ErrNotExist
	}
	f, err := os.Open(filepath.Join(d.Root, rel))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// MapIcons serves icons from memory.
type MapIcons map[string]image.Image

func (m MapIcons) Icon(id string) (image.Image, error) {
	if img, ok := m[id]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("icon %q: %w", id, ErrIconNotFound)
}
