package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/database"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/gemini"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// GenerationAPI is the slice of the generation service the handlers need.
type GenerationAPI interface {
	Generate(ctx context.Context, doodleB64, apiKey string) (*models.Creature, error)
}

// GalleryAPI is the slice of the gallery service the handlers need.
type GalleryAPI interface {
	GetGallery(ctx context.Context) ([]models.Creature, error)
	Like(ctx context.Context, id int64) (*models.Creature, error)
	Delete(ctx context.Context, id int64) error
}

// ActionImageAPI is the slice of the action image service the handlers need.
type ActionImageAPI interface {
	GetOrCreate(ctx context.Context, id int64, powerName, powerDescription, apiKey string, force bool) (*models.ActionImageResult, error)
}

// CreatureHandler exposes the creature endpoints
type CreatureHandler struct {
	generation   GenerationAPI
	gallery      GalleryAPI
	actionImages ActionImageAPI
}

// NewCreatureHandler creates a new creature handler
func NewCreatureHandler(generation GenerationAPI, gallery GalleryAPI, actionImages ActionImageAPI) *CreatureHandler {
	return &CreatureHandler{
		generation:   generation,
		gallery:      gallery,
		actionImages: actionImages,
	}
}

// Generate handles POST /api/generate
func (h *CreatureHandler) Generate(c *fiber.Ctx) error {
	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	creature, err := h.generation.Generate(c.Context(), req.DoodleData, req.GeminiAPIKey)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(creature)
}

// Gallery handles GET /api/gallery
func (h *CreatureHandler) Gallery(c *fiber.Ctx) error {
	creatures, err := h.gallery.GetGallery(c.Context())
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(creatures)
}

// Like handles PATCH /api/pokaimon/:id/like
func (h *CreatureHandler) Like(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid creature ID",
		})
	}

	creature, err := h.gallery.Like(c.Context(), int64(id))
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(creature)
}

// Delete handles DELETE /api/pokaimon/:id/delete
func (h *CreatureHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid creature ID",
		})
	}

	if err := h.gallery.Delete(c.Context(), int64(id)); err != nil {
		return mapError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Deleted successfully",
	})
}

// ActionImage handles POST /api/pokaimon/:id/action-image
func (h *CreatureHandler) ActionImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid creature ID",
		})
	}

	var req models.ActionImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.actionImages.GetOrCreate(
		c.Context(), int64(id), req.Power.Name, req.Power.Description, req.GeminiAPIKey, req.Force)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(fiber.Map{
		"image_url": result.ImageURL,
		"cached":    result.Cached,
	})
}

// mapError translates service errors to HTTP responses. Unknown errors are
// logged and returned as opaque 500s.
func mapError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Reason,
		})
	}

	if errors.Is(err, database.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Creature not found",
		})
	}

	var genErr *gemini.GenerationError
	if errors.As(err, &genErr) {
		log.Printf("❌ [API] Generation failed at %s: %v", genErr.Stage, genErr.Err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Image generation failed. Please try again.",
		})
	}

	log.Printf("❌ [API] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
