package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

const creatureColumns = "id, name, type, powers, characteristics, image_url, doodle_source, likes, action_images, created_at"

// Insert persists a new creature. Likes and action_images are reset by the
// store regardless of what the caller passed in.
func (s *SQLStore) Insert(ctx context.Context, c *models.Creature) (*models.Creature, error) {
	powers, err := json.Marshal(c.Powers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode powers: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO creatures (name, type, powers, characteristics, image_url, doodle_source, likes, action_images, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, '{}', ?)
	`, c.Name, c.Type, string(powers), c.Characteristics, c.ImageURL, c.DoodleSource, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert creature: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	saved := *c
	saved.ID = id
	saved.Likes = 0
	saved.ActionImages = map[string]string{}
	saved.CreatedAt = now
	return &saved, nil
}

// List returns every creature in the store.
func (s *SQLStore) List(ctx context.Context) ([]models.Creature, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+creatureColumns+" FROM creatures")
	if err != nil {
		return nil, fmt.Errorf("failed to list creatures: %w", err)
	}
	defer rows.Close()

	var creatures []models.Creature
	for rows.Next() {
		c, err := scanCreature(rows)
		if err != nil {
			return nil, err
		}
		creatures = append(creatures, *c)
	}
	return creatures, rows.Err()
}

// GetByID returns a single creature or ErrNotFound.
func (s *SQLStore) GetByID(ctx context.Context, id int64) (*models.Creature, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+creatureColumns+" FROM creatures WHERE id = ?", id)
	c, err := scanCreature(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// Like increments the like counter and returns the updated creature.
func (s *SQLStore) Like(ctx context.Context, id int64) (*models.Creature, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE creatures SET likes = likes + 1 WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to like creature %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes a creature, reporting whether the id existed.
func (s *SQLStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM creatures WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete creature %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetActionImage upserts one key of the action_images map inside a
// transaction so concurrent writers cannot clobber each other's keys.
func (s *SQLStore) SetActionImage(ctx context.Context, id int64, powerName, url string) (*models.Creature, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "SELECT action_images FROM creatures WHERE id = ?"
	if s.driver == "mysql" {
		query += " FOR UPDATE"
	}

	var raw string
	if err := tx.QueryRowContext(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read action_images for %d: %w", id, err)
	}

	images := map[string]string{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &images); err != nil {
			return nil, fmt.Errorf("corrupt action_images for %d: %w", id, err)
		}
	}
	images[powerName] = url

	encoded, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode action_images: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE creatures SET action_images = ? WHERE id = ?", string(encoded), id); err != nil {
		return nil, fmt.Errorf("failed to update action_images for %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit action_images for %d: %w", id, err)
	}

	return s.GetByID(ctx, id)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCreature(row scanner) (*models.Creature, error) {
	var (
		c            models.Creature
		powers       string
		actionImages string
		createdAt    int64
	)
	err := row.Scan(&c.ID, &c.Name, &c.Type, &powers, &c.Characteristics,
		&c.ImageURL, &c.DoodleSource, &c.Likes, &actionImages, &createdAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(powers), &c.Powers); err != nil {
		return nil, fmt.Errorf("corrupt powers for creature %d: %w", c.ID, err)
	}
	c.ActionImages = map[string]string{}
	if actionImages != "" {
		if err := json.Unmarshal([]byte(actionImages), &c.ActionImages); err != nil {
			return nil, fmt.Errorf("corrupt action_images for creature %d: %w", c.ID, err)
		}
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &c, nil
}
