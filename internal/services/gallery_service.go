package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/database"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// GalleryService serves the gallery read path and the like/delete mutations,
// keeping the cached list in step with the store through GallerySync.
type GalleryService struct {
	store     database.CreatureStore
	cache     GalleryCache
	cacheSync *GallerySync
	events    *GalleryEventBus
	metrics   *Metrics
}

// NewGalleryService wires the gallery collaborators.
func NewGalleryService(
	store database.CreatureStore,
	cache GalleryCache,
	cacheSync *GallerySync,
	events *GalleryEventBus,
	metrics *Metrics,
) *GalleryService {
	return &GalleryService{
		store:     store,
		cache:     cache,
		cacheSync: cacheSync,
		events:    events,
		metrics:   metrics,
	}
}

// GetGallery returns the newest-first creature list through the read-through
// cache: on miss, one store scan populates the key for the TTL window.
func (s *GalleryService) GetGallery(ctx context.Context) ([]models.Creature, error) {
	hit := true
	creatures, err := s.cache.GetOrSet(ctx, func(ctx context.Context) ([]models.Creature, error) {
		hit = false
		listed, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list creatures: %w", err)
		}
		// Store order is unspecified; the cached materialization is
		// newest-first by contract.
		sort.Slice(listed, func(i, j int) bool { return listed[i].ID > listed[j].ID })
		return listed, nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		if hit {
			s.metrics.RecordGalleryRead("hit")
		} else {
			s.metrics.RecordGalleryRead("miss")
		}
	}
	if creatures == nil {
		creatures = []models.Creature{}
	}
	return creatures, nil
}

// Like increments the like counter. Returns database.ErrNotFound for an
// unknown id.
func (s *GalleryService) Like(ctx context.Context, id int64) (*models.Creature, error) {
	updated, err := s.store.Like(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSync.OnUpdate(ctx, updated)
	if s.events != nil {
		s.events.Publish(models.GalleryEvent{Type: models.EventCreatureLiked, ID: id, Creature: updated})
	}
	return updated, nil
}

// Delete removes a creature. Returns database.ErrNotFound for an unknown id.
func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}

	s.cacheSync.OnDelete(ctx, id)
	if s.events != nil {
		s.events.Publish(models.GalleryEvent{Type: models.EventCreatureDeleted, ID: id})
	}
	return nil
}
