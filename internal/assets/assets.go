// Package assets loads game files from the data directory and decodes the
// scene images.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"

	"github.com/Faultbox/searth/internal/engine/texture"
)

// ErrNotFound is returned when a file is missing from the data directory.
var ErrNotFound = errors.New("asset not found")

// Manager reads files below a data directory and caches their bytes.
type Manager struct {
	dir   string
	cache *Cache
}

// NewManager creates a manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:   dir,
		cache: NewCache(),
	}
}

// Dir returns the data directory.
func (m *Manager) Dir() string { return m.dir }

// Path resolves a data-relative path. Absolute paths are kept.
func (m *Manager) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.dir, rel)
}

// Load returns the contents of a data file.
func (m *Manager) Load(rel string) ([]byte, error) {
	if rel == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNotFound)
	}
	if data, ok := m.cache.Get(rel); ok {
		return data, nil
	}

	data, err := os.ReadFile(m.Path(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	m.cache.Set(rel, data)
	return data, nil
}

// Image decodes a TGA, PNG or BMP data file into a fresh top-down image.
func (m *Manager) Image(rel string) (*image.NRGBA, error) {
	data, err := m.Load(rel)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(rel), ".tga") {
		img, err := texture.DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", rel, err)
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", rel, err)
	}
	return texture.ToNRGBA(img), nil
}

// Close drops the cache.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear empties the cache and resets its statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// stats returns the hit and miss counts.
func (c *Cache) stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
