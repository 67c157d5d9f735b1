package jobs

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/database"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/imagestore"
)

// CleanupJob removes image files no creature references anymore. Deletes
// leave files behind (the row goes, the file stays), so a periodic sweep
// reconciles the directory against the store.
type CleanupJob struct {
	store     database.CreatureStore
	images    *imagestore.Store
	minAge    time.Duration
	scheduler gocron.Scheduler
}

// NewCleanupJob creates the job; minAge protects files written by an
// in-flight generation that has not persisted its row yet.
func NewCleanupJob(store database.CreatureStore, images *imagestore.Store, minAge time.Duration) *CleanupJob {
	return &CleanupJob{store: store, images: images, minAge: minAge}
}

// Start schedules the sweep every 6 hours, with one run shortly after boot.
func (j *CleanupJob) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(6*time.Hour),
		gocron.NewTask(j.run),
		gocron.WithStartAt(gocron.WithStartDateTime(time.Now().Add(1*time.Minute))),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	j.scheduler = scheduler
	log.Println("🧹 [CLEANUP] Orphan image sweep scheduled (every 6h)")
	return nil
}

// Stop shuts the scheduler down.
func (j *CleanupJob) Stop() {
	if j.scheduler != nil {
		_ = j.scheduler.Shutdown()
	}
}

func (j *CleanupJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := j.Sweep(ctx)
	if err != nil {
		log.Printf("⚠️  [CLEANUP] Sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("🧹 [CLEANUP] Removed %d orphaned image(s)", removed)
	}
}

// Sweep deletes unreferenced image files older than minAge and returns how
// many were removed.
func (j *CleanupJob) Sweep(ctx context.Context) (int, error) {
	creatures, err := j.store.List(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{})
	for _, c := range creatures {
		referenced[filepath.Base(c.ImageURL)] = struct{}{}
		for _, url := range c.ActionImages {
			referenced[filepath.Base(url)] = struct{}{}
		}
	}

	entries, err := os.ReadDir(j.images.Dir())
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-j.minAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := j.images.Remove(imagestore.URLPrefix + entry.Name()); err != nil {
			log.Printf("⚠️  [CLEANUP] Failed to remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
