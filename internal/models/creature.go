package models

import "time"

// Power is a single named ability of a creature. Its description always
// mentions the creature's name; the generation pipeline enforces that at
// construction time, the store does not.
type Power struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Creature is one persisted generation result.
type Creature struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Type            string            `json:"type"` // one or two category tags joined by "/"
	Powers          []Power           `json:"powers"`
	Characteristics string            `json:"characteristics"`
	ImageURL        string            `json:"image_url"`
	DoodleSource    string            `json:"doodle_source"` // truncated provenance snippet, display only
	Likes           int               `json:"likes"`
	ActionImages    map[string]string `json:"action_images"` // power name -> image URL, grows lazily
	CreatedAt       time.Time         `json:"created_at"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	DoodleData   string `json:"doodle_data"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
}

// ActionImageRequest is the body of POST /api/pokaimon/:id/action-image.
// Power may be sent as a bare name or as a {name, description} object.
type ActionImageRequest struct {
	Power        PowerRef `json:"power"`
	Force        bool     `json:"force,omitempty"`
	GeminiAPIKey string   `json:"gemini_api_key,omitempty"`
}

// ActionImageResult reports the action image URL and whether it was served
// from the entity's durable memo rather than generated on this call.
type ActionImageResult struct {
	ImageURL string `json:"image_url"`
	Cached   bool   `json:"cached"`
}

// Gallery event types broadcast over /ws/gallery.
const (
	EventCreatureAdded   = "creature_added"
	EventCreatureLiked   = "creature_liked"
	EventCreatureDeleted = "creature_deleted"
	EventActionImage     = "action_image_ready"
)

// GalleryEvent is pushed to websocket subscribers after each mutation.
type GalleryEvent struct {
	Type     string    `json:"type"`
	ID       int64     `json:"id"`
	Creature *Creature `json:"creature,omitempty"`
}
