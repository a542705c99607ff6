package schedule

import (
	"fmt"
	"sync"
	"time"

	"schedhub/pkg/models"
)

// mergedCache memoizes merged day schedules. Keys carry the snapshot
// generation, so entries computed against an older replacement snapshot
// simply stop being addressed once a fresh one is published; nothing is
// ever evicted. Cardinality stays small (entities x days x generations
// actually queried), duplicate computation under a racing miss is
// harmless because the merge is pure.
type mergedCache struct {
	mu      sync.RWMutex
	entries map[string][]models.ResolvedLesson
}

func newMergedCache() *mergedCache {
	return &mergedCache{entries: map[string][]models.ResolvedLesson{}}
}

func mergedKey(date time.Time, kind models.EntityKind, entity, generation string) string {
	return fmt.Sprintf("%s:%s:%s:%s", date.Format("2006-01-02"), kind, entity, generation)
}

func (c *mergedCache) get(key string) ([]models.ResolvedLesson, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mergedCache) put(key string, v []models.ResolvedLesson) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}
