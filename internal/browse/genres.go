package browse

import (
	"sync"

	"github.com/movierecs/movierecs/internal/metadata"
)

// GenreCatalog holds the genre taxonomy shared by every session. It is
// written only by the genre load and emptied when the provider changes.
type GenreCatalog struct {
	mu     sync.RWMutex
	genres []metadata.Genre
	loaded bool
}

// NewGenreCatalog returns an empty catalog.
func NewGenreCatalog() *GenreCatalog {
	return &GenreCatalog{genres: []metadata.Genre{}}
}

// Set replaces the catalog contents.
func (c *GenreCatalog) Set(genres []metadata.Genre) {
	out := make([]metadata.Genre, len(genres))
	copy(out, genres)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.genres = out
	c.loaded = true
}

// Reset empties the catalog and marks it unloaded.
func (c *GenreCatalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genres = []metadata.Genre{}
	c.loaded = false
}

// All returns a copy of the catalog in remote order.
func (c *GenreCatalog) All() []metadata.Genre {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]metadata.Genre, len(c.genres))
	copy(out, c.genres)
	return out
}

// Loaded reports whether a genre load has succeeded.
func (c *GenreCatalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Name returns the display name of a genre id.
func (c *GenreCatalog) Name(id int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, g := range c.genres {
		if g.ID == id {
			return g.Name, true
		}
	}
	return "", false
}
