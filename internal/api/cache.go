package api

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agrodata-labs/sicorboard/internal/engine"
)

// snapshotCache memoizes computed snapshots keyed by (dataset instance id,
// canonical filter key). Safe because snapshots are deterministic for
// identical inputs; a dataset reload changes the id, so stale entries can
// never be served and simply age out of the bounded LRU.
type snapshotCache struct {
	entries *lru.Cache[string, *engine.Snapshot]
}

func newSnapshotCache(size int) (*snapshotCache, error) {
	entries, err := lru.New[string, *engine.Snapshot](size)
	if err != nil {
		return nil, err
	}
	return &snapshotCache{entries: entries}, nil
}

// snapshot returns the memoized snapshot for the filter state, computing and
// storing it on a miss.
func (c *snapshotCache) snapshot(eng *engine.Engine, f engine.FilterState) *engine.Snapshot {
	key := eng.Dataset().ID + "|" + f.Key()
	if s, ok := c.entries.Get(key); ok {
		return s
	}
	s := eng.Snapshot(f)
	c.entries.Add(key, s)
	return s
}

func (c *snapshotCache) purge() {
	c.entries.Purge()
}
