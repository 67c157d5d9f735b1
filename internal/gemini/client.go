// Package gemini wraps the Google generative AI SDK behind the three calls
// the creature pipeline needs. Every failure surfaces as *GenerationError so
// callers can decide between fallback (doodle generation) and propagation
// (action images) without inspecting SDK internals.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// Client is the generator consumed by the services layer.
type Client interface {
	// ImageFromDoodle renders a creature image from raw doodle base64 and
	// returns the produced image as base64 PNG data.
	ImageFromDoodle(ctx context.Context, doodleB64, apiKey string) (string, error)
	// CreatureMeta derives structured metadata from a prompt grounded on a
	// previously generated reference image. Fields may be partially absent
	// even on success; normalization is the pipeline's job.
	CreatureMeta(ctx context.Context, prompt, refImageB64, apiKey string) (*Meta, error)
	// ActionImage renders a power-specific action scene for an existing
	// creature and returns it as base64 PNG data.
	ActionImage(ctx context.Context, ref ActionReference, power models.Power, apiKey string) (string, error)
}

// Meta is the raw metadata answer from the model, before normalization.
type Meta struct {
	Name            string        `json:"name"`
	Type            TypeField     `json:"type"`
	Powers          []models.Power `json:"powers"`
	Characteristics string        `json:"characteristics"`
}

// TypeField tolerates the model answering with either a single tag string
// or an array of tags.
type TypeField struct {
	Tags []string
}

// UnmarshalJSON accepts "Fire", ["Fire","Flying"] or null.
func (t *TypeField) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			t.Tags = []string{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		t.Tags = many
		return nil
	}
	// Unusable shape; leave empty and let normalization apply the default.
	t.Tags = nil
	return nil
}

// ActionReference carries the grounding context for an action image.
type ActionReference struct {
	ImageB64        string
	Name            string
	Type            string
	Characteristics string
}

// GenerationError wraps any generator failure (timeout, quota, invalid key,
// malformed response) with the pipeline stage that raised it.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(stage string, err error) *GenerationError {
	return &GenerationError{Stage: stage, Err: err}
}
