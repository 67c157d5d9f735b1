package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// galleryCacheKey is the single key holding the materialized gallery list.
const galleryCacheKey = "gallery:all"

// GalleryCache is the gallery list cache. One key, full list, TTL bound.
// Implementations are Redis (shared) and in-process memory (fallback).
type GalleryCache interface {
	// Get returns the cached list; ok is false on miss or decode failure.
	Get(ctx context.Context) (creatures []models.Creature, ok bool)
	// Set overwrites the cached list, restarting the TTL.
	Set(ctx context.Context, creatures []models.Creature) error
	// GetOrSet returns the cached list, computing and caching it on miss.
	GetOrSet(ctx context.Context, compute func(ctx context.Context) ([]models.Creature, error)) ([]models.Creature, error)
	// Mode reports "redis" or "memory" for health reporting.
	Mode() string
	Close() error
}

// NewGalleryCache returns a Redis-backed cache when redisURL is set and
// reachable, degrading to the in-process cache otherwise. The service never
// fails to start over an unavailable Redis.
func NewGalleryCache(redisURL string, ttl time.Duration) GalleryCache {
	if redisURL == "" {
		log.Println("ℹ️  [CACHE] REDIS_URL not set, using in-process gallery cache")
		return newMemoryGalleryCache(ttl)
	}

	cache, err := newRedisGalleryCache(redisURL, ttl)
	if err != nil {
		log.Printf("⚠️  [CACHE] Redis unavailable (%v), using in-process gallery cache", err)
		return newMemoryGalleryCache(ttl)
	}
	log.Println("✅ [CACHE] Redis gallery cache connected")
	return cache
}

// redisGalleryCache stores the gallery list as a JSON blob under a single
// key so patches and reads stay one round trip each.
type redisGalleryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisGalleryCache(redisURL string, ttl time.Duration) (*redisGalleryCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 2

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &redisGalleryCache{client: client, ttl: ttl}, nil
}

func (c *redisGalleryCache) Get(ctx context.Context) ([]models.Creature, bool) {
	data, err := c.client.Get(ctx, galleryCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️  [CACHE] Redis read failed: %v", err)
		}
		return nil, false
	}

	var creatures []models.Creature
	if err := json.Unmarshal(data, &creatures); err != nil {
		// Undecodable entries count as misses; the next read repopulates.
		log.Printf("⚠️  [CACHE] Discarding undecodable gallery entry: %v", err)
		return nil, false
	}
	return creatures, true
}

func (c *redisGalleryCache) Set(ctx context.Context, creatures []models.Creature) error {
	data, err := json.Marshal(creatures)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, galleryCacheKey, data, c.ttl).Err()
}

func (c *redisGalleryCache) GetOrSet(ctx context.Context, compute func(ctx context.Context) ([]models.Creature, error)) ([]models.Creature, error) {
	if creatures, ok := c.Get(ctx); ok {
		return creatures, nil
	}

	creatures, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, creatures); err != nil {
		// Serve the computed list anyway; only the cache write was lost.
		log.Printf("⚠️  [CACHE] Failed to populate gallery cache: %v", err)
	}
	return creatures, nil
}

func (c *redisGalleryCache) Mode() string { return "redis" }

func (c *redisGalleryCache) Close() error { return c.client.Close() }

// memoryGalleryCache is the single-process fallback. The mutex serializes
// GetOrSet so concurrent misses do not all hit the store.
type memoryGalleryCache struct {
	cache *gocache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

func newMemoryGalleryCache(ttl time.Duration) *memoryGalleryCache {
	return &memoryGalleryCache{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *memoryGalleryCache) Get(_ context.Context) ([]models.Creature, bool) {
	value, found := c.cache.Get(galleryCacheKey)
	if !found {
		return nil, false
	}
	creatures, ok := value.([]models.Creature)
	return creatures, ok
}

func (c *memoryGalleryCache) Set(_ context.Context, creatures []models.Creature) error {
	c.cache.Set(galleryCacheKey, creatures, c.ttl)
	return nil
}

func (c *memoryGalleryCache) GetOrSet(ctx context.Context, compute func(ctx context.Context) ([]models.Creature, error)) ([]models.Creature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if creatures, ok := c.Get(ctx); ok {
		return creatures, nil
	}

	creatures, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	_ = c.Set(ctx, creatures)
	return creatures, nil
}

func (c *memoryGalleryCache) Mode() string { return "memory" }

func (c *memoryGalleryCache) Close() error { return nil }
