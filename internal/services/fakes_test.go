package services

import (
	"context"
	"errors"
	"sort"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/database"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/gemini"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// fakeStore is an in-memory CreatureStore for service tests.
type fakeStore struct {
	creatures map[int64]*models.Creature
	nextID    int64
	listCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{creatures: make(map[int64]*models.Creature)}
}

func (s *fakeStore) Insert(_ context.Context, c *models.Creature) (*models.Creature, error) {
	s.nextID++
	saved := *c
	saved.ID = s.nextID
	saved.Likes = 0
	saved.ActionImages = map[string]string{}
	s.creatures[saved.ID] = &saved
	copied := saved
	return &copied, nil
}

func (s *fakeStore) List(_ context.Context) ([]models.Creature, error) {
	s.listCalls++
	out := make([]models.Creature, 0, len(s.creatures))
	for _, c := range s.creatures {
		out = append(out, *c)
	}
	// Ascending id, so callers must sort for newest-first.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*models.Creature, error) {
	c, ok := s.creatures[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *fakeStore) Like(_ context.Context, id int64) (*models.Creature, error) {
	c, ok := s.creatures[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	c.Likes++
	copied := *c
	return &copied, nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := s.creatures[id]; !ok {
		return false, nil
	}
	delete(s.creatures, id)
	return true, nil
}

func (s *fakeStore) SetActionImage(_ context.Context, id int64, powerName, url string) (*models.Creature, error) {
	c, ok := s.creatures[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if c.ActionImages == nil {
		c.ActionImages = map[string]string{}
	}
	c.ActionImages[powerName] = url
	copied := *c
	return &copied, nil
}

func (s *fakeStore) Ping(_ context.Context) error { return nil }

func (s *fakeStore) Close(_ context.Context) error { return nil }

// fakeGenerator implements gemini.Client with overridable funcs and call
// counters.
type fakeGenerator struct {
	imageFunc  func(ctx context.Context, doodleB64, apiKey string) (string, error)
	metaFunc   func(ctx context.Context, prompt, refImageB64, apiKey string) (*gemini.Meta, error)
	actionFunc func(ctx context.Context, ref gemini.ActionReference, power models.Power, apiKey string) (string, error)

	imageCalls  int
	metaCalls   int
	actionCalls int
}

func (g *fakeGenerator) ImageFromDoodle(ctx context.Context, doodleB64, apiKey string) (string, error) {
	g.imageCalls++
	if g.imageFunc != nil {
		return g.imageFunc(ctx, doodleB64, apiKey)
	}
	return PlaceholderImageB64, nil
}

func (g *fakeGenerator) CreatureMeta(ctx context.Context, prompt, refImageB64, apiKey string) (*gemini.Meta, error) {
	g.metaCalls++
	if g.metaFunc != nil {
		return g.metaFunc(ctx, prompt, refImageB64, apiKey)
	}
	return nil, errors.New("meta not stubbed")
}

func (g *fakeGenerator) ActionImage(ctx context.Context, ref gemini.ActionReference, power models.Power, apiKey string) (string, error) {
	g.actionCalls++
	if g.actionFunc != nil {
		return g.actionFunc(ctx, ref, power, apiKey)
	}
	return PlaceholderImageB64, nil
}
