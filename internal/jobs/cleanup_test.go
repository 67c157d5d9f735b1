package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/database"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/imagestore"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

type listOnlyStore struct {
	database.CreatureStore
	creatures []models.Creature
}

func (s *listOnlyStore) List(context.Context) ([]models.Creature, error) {
	return s.creatures, nil
}

func TestSweepRemovesOnlyOrphans(t *testing.T) {
	dir := t.TempDir()
	images, err := imagestore.New(dir)
	if err != nil {
		t.Fatalf("imagestore: %v", err)
	}

	for _, name := range []string{"primary_keep.png", "action_keep.png", "primary_orphan.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	store := &listOnlyStore{creatures: []models.Creature{{
		ID:           1,
		ImageURL:     "/images/primary_keep.png",
		ActionImages: map[string]string{"Thunder Jolt": "/images/action_keep.png"},
	}}}

	// Negative min age puts the cutoff in the future, so fresh files qualify.
	job := NewCleanupJob(store, images, -time.Hour)

	removed, err := job.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed %d files, want 1", removed)
	}

	if _, err := os.Stat(filepath.Join(dir, "primary_keep.png")); err != nil {
		t.Error("referenced primary image was removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "action_keep.png")); err != nil {
		t.Error("referenced action image was removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "primary_orphan.png")); !os.IsNotExist(err) {
		t.Error("orphan image survived the sweep")
	}
}

func TestSweepSparesRecentFiles(t *testing.T) {
	dir := t.TempDir()
	images, err := imagestore.New(dir)
	if err != nil {
		t.Fatalf("imagestore: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "primary_inflight.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	job := NewCleanupJob(&listOnlyStore{}, images, 24*time.Hour)

	removed, err := job.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed %d files, want 0", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "primary_inflight.png")); err != nil {
		t.Error("fresh unreferenced file was removed before min age")
	}
}
