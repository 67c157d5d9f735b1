package services

import (
	"context"
	"log"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// GallerySync patches the cached gallery list in place after store
// mutations. The cache is never invalidated wholesale: a hot key stays hot
// across writes, and a miss simply leaves the next read to repopulate.
type GallerySync struct {
	cache   GalleryCache
	metrics *Metrics
}

// NewGallerySync creates a sync layer over the given cache.
func NewGallerySync(cache GalleryCache, metrics *Metrics) *GallerySync {
	return &GallerySync{cache: cache, metrics: metrics}
}

// OnInsert prepends the new creature to the cached list. Newest-first order
// makes prepend the correct position.
func (s *GallerySync) OnInsert(ctx context.Context, creature *models.Creature) {
	cached, ok := s.cache.Get(ctx)
	if !ok {
		return
	}

	patched := make([]models.Creature, 0, len(cached)+1)
	patched = append(patched, *creature)
	patched = append(patched, cached...)
	s.write(ctx, patched, "insert")
}

// OnUpdate replaces the creature's cached element, preserving order. The
// cached slice is shared with concurrent readers, so the replacement happens
// on a copy. A creature absent from the cached list is left for the next
// repopulating read.
func (s *GallerySync) OnUpdate(ctx context.Context, creature *models.Creature) {
	cached, ok := s.cache.Get(ctx)
	if !ok {
		return
	}

	patched := append([]models.Creature(nil), cached...)
	replaced := false
	for i := range patched {
		if patched[i].ID == creature.ID {
			patched[i] = *creature
			replaced = true
			break
		}
	}
	if !replaced {
		return
	}
	s.write(ctx, patched, "update")
}

// OnDelete removes the creature's cached element, keeping the remaining
// order intact.
func (s *GallerySync) OnDelete(ctx context.Context, id int64) {
	cached, ok := s.cache.Get(ctx)
	if !ok {
		return
	}

	patched := make([]models.Creature, 0, len(cached))
	found := false
	for _, c := range cached {
		if c.ID == id {
			found = true
			continue
		}
		patched = append(patched, c)
	}
	if !found {
		return
	}
	s.write(ctx, patched, "delete")
}

// write stores the patched list. A failed write is logged and dropped: the
// store already holds the truth and the TTL bounds the staleness window.
func (s *GallerySync) write(ctx context.Context, creatures []models.Creature, op string) {
	if err := s.cache.Set(ctx, creatures); err != nil {
		log.Printf("⚠️  [CACHE] Failed to patch gallery cache (%s): %v", op, err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordCachePatch(op)
	}
}
