package services

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// GalleryEventBus fans gallery mutations out to websocket subscribers so
// open galleries update live without polling.
type GalleryEventBus struct {
	subscribers map[string]chan models.GalleryEvent
	mutex       sync.RWMutex
}

// NewGalleryEventBus creates an empty bus.
func NewGalleryEventBus() *GalleryEventBus {
	return &GalleryEventBus{
		subscribers: make(map[string]chan models.GalleryEvent),
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (b *GalleryEventBus) Subscribe() (string, <-chan models.GalleryEvent) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id := uuid.NewString()
	ch := make(chan models.GalleryEvent, 16)
	b.subscribers[id] = ch
	log.Printf("✅ Gallery subscriber added: %s (Total: %d)", id, len(b.subscribers))
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *GalleryEventBus) Unsubscribe(id string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if ch, exists := b.subscribers[id]; exists {
		close(ch)
		delete(b.subscribers, id)
		log.Printf("❌ Gallery subscriber removed: %s (Total: %d)", id, len(b.subscribers))
	}
}

// Publish delivers an event to every subscriber without blocking; a
// subscriber that cannot keep up drops events rather than stalling mutators.
func (b *GalleryEventBus) Publish(event models.GalleryEvent) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			log.Printf("⚠️  Gallery subscriber %s is slow, dropping %s event", id, event.Type)
		}
	}
}

// Count returns the number of active subscribers.
func (b *GalleryEventBus) Count() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.subscribers)
}
