package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/database"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/gemini"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/imagestore"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// ActionImageService lazily renders per-power action images and memoizes
// them durably on the entity's action_images map. Unlike the generation
// pipeline there is no simulator here: a placeholder has no meaning for a
// specific power, so generator failures propagate to the caller.
type ActionImageService struct {
	generator gemini.Client
	store     database.CreatureStore
	images    *imagestore.Store
	cacheSync *GallerySync
	events    *GalleryEventBus
	metrics   *Metrics
}

// NewActionImageService wires the action image collaborators.
func NewActionImageService(
	generator gemini.Client,
	store database.CreatureStore,
	images *imagestore.Store,
	cacheSync *GallerySync,
	events *GalleryEventBus,
	metrics *Metrics,
) *ActionImageService {
	return &ActionImageService{
		generator: generator,
		store:     store,
		images:    images,
		cacheSync: cacheSync,
		events:    events,
		metrics:   metrics,
	}
}

// GetOrCreate returns the memoized action image for (id, powerName), or
// generates, persists and memoizes a new one. force bypasses the memo and
// overwrites it with the fresh result; sibling keys are never touched.
func (s *ActionImageService) GetOrCreate(ctx context.Context, id int64, powerName, powerDescription, apiKey string, force bool) (*models.ActionImageResult, error) {
	if powerName == "" {
		return nil, models.NewValidationError("power name is required")
	}

	creature, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if url, ok := creature.ActionImages[powerName]; ok && !force {
		if s.metrics != nil {
			s.metrics.RecordActionImage("memo")
		}
		return &models.ActionImageResult{ImageURL: url, Cached: true}, nil
	}

	ref := gemini.ActionReference{
		Name:            creature.Name,
		Type:            creature.Type,
		Characteristics: creature.Characteristics,
	}
	// Ground the render on the creature's primary image when it resolves;
	// a missing file just means an ungrounded render.
	if data, readErr := s.images.Read(creature.ImageURL); readErr == nil {
		ref.ImageB64 = base64.StdEncoding.EncodeToString(data)
	} else {
		log.Printf("⚠️  [ACTION-IMAGE] No reference image for creature #%d: %v", id, readErr)
	}

	imgB64, err := s.generator.ActionImage(ctx, ref, models.Power{Name: powerName, Description: powerDescription}, apiKey)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Save(imgB64, "action")
	if err != nil {
		return nil, fmt.Errorf("failed to store action image: %w", err)
	}

	updated, err := s.store.SetActionImage(ctx, id, powerName, url)
	if err != nil {
		return nil, err
	}

	s.cacheSync.OnUpdate(ctx, updated)
	if s.events != nil {
		s.events.Publish(models.GalleryEvent{Type: models.EventActionImage, ID: id, Creature: updated})
	}
	if s.metrics != nil {
		s.metrics.RecordActionImage("generated")
	}

	log.Printf("🎬 [ACTION-IMAGE] Generated %q for creature #%d", powerName, id)
	return &models.ActionImageResult{ImageURL: url, Cached: false}, nil
}
