package valueset

import (
	"container/list"
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/spaolacci/murmur3"

	"github.com/climatevision/explorer/internal/cells"
	"github.com/climatevision/explorer/internal/lens"
	"github.com/climatevision/explorer/internal/run"
)

const defaultCacheEntries = 64

// Metrics holds cache statistics.
type Metrics struct {
	Hits      atomic.Int64
	Misses    atomic.Int64
	Evictions atomic.Int64
}

// Cache memoizes Create. Entries are keyed by a hash of everything the
// result depends on: the lens content and the fingerprint of every run.
// The least recently used entry is evicted once the cache is full.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List
	entries    map[cacheKey]*list.Element
	metrics    Metrics
}

type cacheKey [2]uint64

type cacheEntry struct {
	key cacheKey
	set ValueSet
}

// NewCache creates a cache holding up to maxEntries value sets.
// A non-positive maxEntries selects the default.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	return &Cache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[cacheKey]*list.Element),
	}
}

// Create returns the cached value set for l and runs, resolving it on a miss.
func (c *Cache) Create(l lens.Lens, runs run.Collection) ValueSet {
	key := keyOf(l, runs)

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		c.mu.Unlock()
		c.metrics.Hits.Add(1)
		return el.Value.(*cacheEntry).set
	}
	c.mu.Unlock()
	c.metrics.Misses.Add(1)

	vs := Create(l, runs)

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return vs
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, set: vs})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.metrics.Evictions.Add(1)
	}
	return vs
}

// Len returns the number of cached value sets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Metrics returns hit, miss and eviction counts.
func (c *Cache) Metrics() (hits, misses, evictions int64) {
	return c.metrics.Hits.Load(), c.metrics.Misses.Load(), c.metrics.Evictions.Load()
}

// HitRate returns the hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	hits := c.metrics.Hits.Load()
	total := hits + c.metrics.Misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func keyOf(l lens.Lens, runs run.Collection) cacheKey {
	h := murmur3.New128()
	var buf [8]byte
	writeInt := func(n int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		h.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(len(s))
		h.Write([]byte(s))
	}

	writeInt(int(l.Kind()))
	if l.IsClassic() {
		for _, p := range l.Paths() {
			writeString(string(p.Key()))
		}
	} else {
		g := l.Grid()
		writeInt(g.Rows())
		writeInt(g.Cols())
		g.Each(func(_ cells.Position, c lens.CellContent) {
			id, p, ok := c.Address()
			if !ok {
				writeInt(0)
				return
			}
			writeInt(int(id))
			writeString(string(p.Key()))
		})
	}

	for _, id := range runs.IDs() {
		r, _ := runs.Get(id)
		f := run.FingerprintOf(r)
		writeInt(int(id))
		h.Write(f[:])
	}

	h1, h2 := h.Sum128()
	return cacheKey{h1, h2}
}
