package geocode

import "rentmap/internal/models"

// Cache memoizes location-string → coordinate lookups for the lifetime of
// one map view. Entries are never evicted; the whole cache is dropped with
// its owner. It is constructed explicitly and owned by a single resolver, so
// it carries no locking.
type Cache struct {
	entries map[string]models.Coordinate
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]models.Coordinate)}
}

// Get returns the cached coordinate for key, if any.
func (c *Cache) Get(key string) (models.Coordinate, bool) {
	coord, ok := c.entries[key]
	return coord, ok
}

// Put stores the coordinate for key, overwriting any previous entry.
func (c *Cache) Put(key string, coord models.Coordinate) {
	c.entries[key] = coord
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}
