package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/gemini"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/imagestore"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// validDoodle is a decodable base64 payload comfortably above the minimum.
var validDoodle = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xAB}, 120))

func newGenerationFixture(t *testing.T, gen *fakeGenerator) (*GenerationService, *fakeStore, GalleryCache) {
	t.Helper()
	store := newFakeStore()
	images, err := imagestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("imagestore: %v", err)
	}
	cache := newMemoryGalleryCache(time.Minute)
	sync := NewGallerySync(cache, nil)
	simulator := NewSimulator(rand.NewSource(1), nil)
	svc := NewGenerationService(gen, store, images, sync, simulator, nil, nil)
	return svc, store, cache
}

func TestGenerateRealPath(t *testing.T) {
	gen := &fakeGenerator{
		metaFunc: func(context.Context, string, string, string) (*gemini.Meta, error) {
			return &gemini.Meta{
				Name: "Blazemander",
				Type: gemini.TypeField{Tags: []string{"Fire", "Flying", "Dragon"}},
				Powers: []models.Power{
					{Name: "Flame Burst", Description: "The creature breathes a burst of fire."},
					{Name: "Sky Dive", Description: "Dives from great heights."},
				},
				Characteristics: "Bold and fiery.",
			}, nil
		},
	}
	svc, _, _ := newGenerationFixture(t, gen)

	creature, err := svc.Generate(context.Background(), validDoodle, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if creature.ID == 0 {
		t.Error("creature was not persisted")
	}
	if creature.Name != "Blazemander" {
		t.Errorf("got name %q", creature.Name)
	}
	if creature.Type != "Fire/Flying" {
		t.Errorf("got type %q, want first two tags joined", creature.Type)
	}
	if !strings.HasPrefix(creature.ImageURL, imagestore.URLPrefix) {
		t.Errorf("image url %q not under %s", creature.ImageURL, imagestore.URLPrefix)
	}
	for _, p := range creature.Powers {
		if !strings.Contains(p.Description, "Blazemander") {
			t.Errorf("power %q description %q does not mention the creature", p.Name, p.Description)
		}
	}
	if strings.Contains(creature.Powers[0].Description, "the creature") {
		t.Errorf("generic referent survived: %q", creature.Powers[0].Description)
	}
}

func TestGenerateFallsBackToSimulator(t *testing.T) {
	gen := &fakeGenerator{
		imageFunc: func(context.Context, string, string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	svc, _, _ := newGenerationFixture(t, gen)

	creature, err := svc.Generate(context.Background(), validDoodle, "")
	if err != nil {
		t.Fatalf("generator failure must not surface: %v", err)
	}

	if creature.ID == 0 {
		t.Error("simulated creature was not persisted")
	}
	if creature.Name == "" || !strings.Contains(creature.Type, "/") {
		t.Errorf("simulated creature incomplete: name=%q type=%q", creature.Name, creature.Type)
	}
	if !strings.HasPrefix(creature.ImageURL, imagestore.URLPrefix) {
		t.Errorf("simulated creature has no placeholder image: %q", creature.ImageURL)
	}
	for _, p := range creature.Powers {
		if !strings.Contains(strings.ToLower(p.Description), strings.ToLower(creature.Name)) {
			t.Errorf("power %q description %q does not mention %q", p.Name, p.Description, creature.Name)
		}
	}
}

func TestGenerateMetaFailureAlsoFallsBack(t *testing.T) {
	gen := &fakeGenerator{
		metaFunc: func(context.Context, string, string, string) (*gemini.Meta, error) {
			return nil, errors.New("model returned garbage")
		},
	}
	svc, _, _ := newGenerationFixture(t, gen)

	creature, err := svc.Generate(context.Background(), validDoodle, "")
	if err != nil {
		t.Fatalf("meta failure must not surface: %v", err)
	}
	if creature.ID == 0 {
		t.Error("creature was not persisted")
	}
}

func TestGenerateRejectsShortDoodle(t *testing.T) {
	gen := &fakeGenerator{}
	svc, store, _ := newGenerationFixture(t, gen)

	_, err := svc.Generate(context.Background(), "dGlueQ==", "")

	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("got %v, want *models.ValidationError", err)
	}
	if gen.imageCalls != 0 || gen.metaCalls != 0 {
		t.Error("rejected input must not reach the generator")
	}
	if len(store.creatures) != 0 {
		t.Error("rejected input must not be persisted")
	}
}

func TestGenerateRejectsInvalidBase64(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _, _ := newGenerationFixture(t, gen)

	_, err := svc.Generate(context.Background(), strings.Repeat("!", 200), "")

	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("got %v, want *models.ValidationError", err)
	}
	if gen.imageCalls != 0 {
		t.Error("rejected input must not reach the generator")
	}
}

func TestGeneratePatchesWarmCache(t *testing.T) {
	gen := &fakeGenerator{
		metaFunc: func(context.Context, string, string, string) (*gemini.Meta, error) {
			return &gemini.Meta{Name: "Cachey"}, nil
		},
	}
	svc, _, cache := newGenerationFixture(t, gen)
	if err := cache.Set(context.Background(), []models.Creature{}); err != nil {
		t.Fatalf("warming cache: %v", err)
	}

	creature, err := svc.Generate(context.Background(), validDoodle, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	cached, ok := cache.Get(context.Background())
	if !ok {
		t.Fatal("generate must not evict the cached gallery")
	}
	if len(cached) != 1 || cached[0].ID != creature.ID {
		t.Errorf("cached gallery not patched: %+v", cached)
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{nil, "Normal"},
		{[]string{""}, "Normal"},
		{[]string{"Fire"}, "Fire"},
		{[]string{"Fire", "Flying"}, "Fire/Flying"},
		{[]string{"Fire", "Flying", "Dragon"}, "Fire/Flying"},
		{[]string{" ", "Water"}, "Water"},
	}
	for _, tt := range tests {
		if got := normalizeType(tt.tags); got != tt.want {
			t.Errorf("normalizeType(%v) = %q, want %q", tt.tags, got, tt.want)
		}
	}
}

func TestNormalizePowersChecksNameBeforeReplacement(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		// Name already present: generic referents replaced, no prefix.
		{"Sparko shocks the creature's foes.", "Sparko shocks Sparko's foes."},
		// Name absent entirely: prefix with lowered first letter.
		{"Dives from great heights.", "Sparko dives from great heights."},
		// Name only appears via referent replacement: the prefix is still
		// added, because presence is judged on the raw description.
		{"The creature zaps.", "Sparko sparko zaps."},
	}
	for _, tt := range tests {
		got := normalizePowers("Sparko", []models.Power{{Name: "Zap", Description: tt.desc}})
		if got[0].Description != tt.want {
			t.Errorf("normalizePowers(%q) = %q, want %q", tt.desc, got[0].Description, tt.want)
		}
	}
}

func TestNormalizePowersIdempotent(t *testing.T) {
	powers := []models.Power{{Name: "Zap", Description: "Sparko zaps the foe."}}

	once := normalizePowers("Sparko", powers)
	twice := normalizePowers("Sparko", once)

	if once[0].Description != twice[0].Description {
		t.Errorf("normalization not idempotent: %q vs %q", once[0].Description, twice[0].Description)
	}
	if strings.Count(twice[0].Description, "Sparko") != 1 {
		t.Errorf("name mentioned more than once: %q", twice[0].Description)
	}
}
