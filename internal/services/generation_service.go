package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/database"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/gemini"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/imagestore"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/logging"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// minDoodleLength is the minimum accepted base64 payload size. Anything
// shorter is rejected before any external call.
const minDoodleLength = 100

const metaPrompt = "Identify and design a canonical battle-creature matching the " +
	"reference image. Respond with JSON only, shaped as " +
	`{"name": string, "type": string or [string, string], ` +
	`"powers": [{"name": string, "description": string}], "characteristics": string}. ` +
	"Mention the creature's name in every power description."

const (
	fallbackName            = "Sketchy"
	fallbackType            = "Normal"
	fallbackCharacteristics = "Cheerful and imaginative."
)

// defaultPowers substitutes for missing or malformed model power output.
var defaultPowers = []models.Power{
	{Name: "Ink Splash", Description: "Splashes ink playfully."},
	{Name: "Doodle Dash", Description: "Dashes leaving doodle lines."},
}

// genericReferent matches the placeholder subjects models tend to emit
// instead of the creature's name.
var genericReferent = regexp.MustCompile(`(?i)\b(the user|the creature|the character)\b`)

// GenerationService is the creation pipeline: two-stage Gemini generation
// with a silent simulator fallback, persistence, and incremental cache sync.
// Past input validation it never returns a generation failure to the caller.
type GenerationService struct {
	generator gemini.Client
	store     database.CreatureStore
	images    *imagestore.Store
	cacheSync *GallerySync
	simulator *Simulator
	events    *GalleryEventBus
	metrics   *Metrics
}

// NewGenerationService wires the pipeline collaborators.
func NewGenerationService(
	generator gemini.Client,
	store database.CreatureStore,
	images *imagestore.Store,
	cacheSync *GallerySync,
	simulator *Simulator,
	events *GalleryEventBus,
	metrics *Metrics,
) *GenerationService {
	return &GenerationService{
		generator: generator,
		store:     store,
		images:    images,
		cacheSync: cacheSync,
		simulator: simulator,
		events:    events,
		metrics:   metrics,
	}
}

// Generate turns a doodle into a persisted creature. Returns a
// *models.ValidationError for bad input; generator failures degrade to the
// simulator and are never surfaced.
func (s *GenerationService) Generate(ctx context.Context, doodleB64, apiKey string) (*models.Creature, error) {
	start := time.Now()

	if err := validateDoodle(doodleB64); err != nil {
		if s.metrics != nil {
			s.metrics.RecordGeneration("rejected")
		}
		return nil, err
	}

	outcome := "real"
	creature, err := s.generateReal(ctx, doodleB64, apiKey)
	if err != nil {
		log.Printf("⚠️  [GENERATE] Falling back to simulated generation: %v", err)
		outcome = "simulated"
		creature = s.simulator.Creature(doodleB64)
		url, saveErr := s.images.Save(PlaceholderImageB64, "placeholder")
		if saveErr != nil {
			return nil, fmt.Errorf("failed to store placeholder image: %w", saveErr)
		}
		creature.ImageURL = url
	}

	// Construction-time invariant: every power description mentions the
	// creature's name, on the simulated path as much as the real one.
	creature.Powers = normalizePowers(creature.Name, creature.Powers)

	saved, err := s.store.Insert(ctx, creature)
	if err != nil {
		return nil, fmt.Errorf("failed to persist creature: %w", err)
	}

	s.cacheSync.OnInsert(ctx, saved)
	if s.events != nil {
		s.events.Publish(models.GalleryEvent{Type: models.EventCreatureAdded, ID: saved.ID, Creature: saved})
	}
	if s.metrics != nil {
		s.metrics.RecordGeneration(outcome)
		s.metrics.RecordGenerationDuration(time.Since(start).Seconds())
	}

	logging.WithGeneration(uuid.NewString(), outcome == "simulated").Info("creature generated",
		"id", saved.ID,
		"name", saved.Name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return saved, nil
}

// generateReal runs the two-stage call: image first, then metadata grounded
// on that image. Any stage failure aborts the whole real path.
func (s *GenerationService) generateReal(ctx context.Context, doodleB64, apiKey string) (*models.Creature, error) {
	imgB64, err := s.generator.ImageFromDoodle(ctx, doodleB64, apiKey)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.images.Save(imgB64, "primary")
	if err != nil {
		return nil, err
	}

	meta, err := s.generator.CreatureMeta(ctx, metaPrompt, imgB64, apiKey)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(meta.Name)
	if name == "" {
		name = fallbackName
	}
	powers := meta.Powers
	if len(powers) == 0 {
		powers = append([]models.Power(nil), defaultPowers...)
	}
	characteristics := strings.TrimSpace(meta.Characteristics)
	if characteristics == "" {
		characteristics = fallbackCharacteristics
	}

	return &models.Creature{
		Name:            name,
		Type:            normalizeType(meta.Type.Tags),
		Powers:          powers,
		Characteristics: characteristics,
		ImageURL:        imageURL,
		DoodleSource:    truncateDoodleSource(doodleB64),
	}, nil
}

// validateDoodle rejects input that is not decodable base64 of a minimum
// size. No external calls happen before this check passes.
func validateDoodle(doodleB64 string) error {
	if len(doodleB64) < minDoodleLength {
		return models.NewValidationError("doodle data is too short")
	}
	if _, err := base64.StdEncoding.DecodeString(doodleB64); err != nil {
		return models.NewValidationError("doodle data is not valid base64")
	}
	return nil
}

// normalizeType joins the first two tags with "/", passes a single tag
// through verbatim, and defaults when the model gave nothing usable.
func normalizeType(tags []string) string {
	cleaned := make([]string, 0, 2)
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
		if len(cleaned) == 2 {
			break
		}
	}
	switch len(cleaned) {
	case 0:
		return fallbackType
	case 1:
		return cleaned[0]
	default:
		return cleaned[0] + "/" + cleaned[1]
	}
}

// normalizePowers guarantees every description mentions the name: generic
// referents are replaced with it, and when the raw description never named
// the creature the name is also prepended (lower-casing the description's
// first letter). The presence check runs before replacement, so a
// description that only reached the name through a generic referent still
// gets the prefix.
func normalizePowers(name string, powers []models.Power) []models.Power {
	nameWord := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)

	normalized := make([]models.Power, len(powers))
	for i, p := range powers {
		raw := strings.TrimSpace(p.Description)
		hadName := nameWord.MatchString(raw)
		desc := genericReferent.ReplaceAllString(raw, name)
		if !hadName {
			desc = strings.TrimSpace(name + " " + lowerFirst(strings.TrimSpace(desc)))
		}
		normalized[i] = models.Power{Name: p.Name, Description: desc}
	}
	return normalized
}

func lowerFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
