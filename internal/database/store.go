package database

import (
	"context"
	"errors"
	"strings"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// ErrNotFound is returned when an id does not exist in the store.
var ErrNotFound = errors.New("creature not found")

// CreatureStore is the durable entity repository. The store is the source of
// truth for the gallery; the cache layer is only a derived materialization.
type CreatureStore interface {
	// Insert persists a new creature and returns it with id assigned,
	// likes zeroed and an empty action_images map.
	Insert(ctx context.Context, c *models.Creature) (*models.Creature, error)
	// List returns all creatures. Order is unspecified; callers that need
	// ordering must sort.
	List(ctx context.Context) ([]models.Creature, error)
	// GetByID returns the creature with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Creature, error)
	// Like increments the like counter and returns the updated creature,
	// or ErrNotFound.
	Like(ctx context.Context, id int64) (*models.Creature, error)
	// Delete removes a creature. Returns false when the id was absent.
	Delete(ctx context.Context, id int64) (bool, error)
	// SetActionImage upserts a single key in the creature's action_images
	// map without touching other keys, and returns the updated creature.
	SetActionImage(ctx context.Context, id int64, powerName, url string) (*models.Creature, error)
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying connection(s).
	Close(ctx context.Context) error
}

// Open selects a store implementation from the DSN scheme:
// mongodb:// or mongodb+srv:// for MongoDB, mysql:// for MySQL, anything
// else is treated as a SQLite file path.
func Open(dsn string) (CreatureStore, error) {
	if strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://") {
		return NewMongoStore(dsn)
	}
	return NewSQLStore(dsn)
}
