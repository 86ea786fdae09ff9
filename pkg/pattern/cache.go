package pattern

import (
	"regexp"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// regexpCacheSize caps the process-wide regexp cache. Base paths can change
// at runtime, so the set of sources is open ended; the least recently used
// source is evicted first.
const regexpCacheSize = 512

var regexpCache, _ = lru.New[string, *regexp.Regexp](regexpCacheSize)

// compileRegexp compiles src once per cache lifetime of the source.
func compileRegexp(src string) (*regexp.Regexp, error) {
	if re, ok := regexpCache.Get(src); ok {
		return re, nil
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}
	if prev, ok, _ := regexpCache.PeekOrAdd(src, re); ok {
		return prev, nil
	}
	return re, nil
}

type cacheKey struct {
	path              string
	re                *regexp.Regexp
	caseSensitive     bool
	ignoreForFallback bool
	basePath          string
}

type cacheEntry struct {
	key      cacheKey
	compiled Compiled
}

// Cache keeps the compiled form of each named route of a router. An entry
// is recompiled only when the route's pattern fields or the base path
// change; the And predicate is taken from the current RouteInfo on every
// lookup.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the compiled form of the route called name.
func (c *Cache) Get(name string, info RouteInfo, basePath string) (Compiled, error) {
	key := cacheKey{
		path:              info.Path,
		re:                info.Regexp,
		caseSensitive:     info.CaseSensitive,
		ignoreForFallback: info.IgnoreForFallback,
		basePath:          basePath,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[name]; ok && e.key == key {
		compiled := e.compiled
		compiled.And = info.And
		return compiled, nil
	}

	compiled, err := Compile(info, basePath)
	if err != nil {
		return Compiled{}, err
	}
	c.entries[name] = cacheEntry{key: key, compiled: compiled}
	return compiled, nil
}

// Delete forgets the entry for name.
func (c *Cache) Delete(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}

// Prune drops entries whose name is not in keep.
func (c *Cache) Prune(keep map[string]RouteInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name := range c.entries {
		if _, ok := keep[name]; !ok {
			delete(c.entries, name)
		}
	}
}

// Len returns the number of cached routes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
