package services

import (
	"math/rand"
	"sync"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/config"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// PlaceholderImageB64 is a 1x1 transparent PNG used as the image for
// simulated creatures.
const PlaceholderImageB64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

const simulatedCharacteristics = "Loves to draw; slightly grumpy."

// doodleSourceLimit caps the provenance snippet kept on the entity.
const doodleSourceLimit = 60

// Simulator builds creature skeletons from fixed vocabularies when real
// generation fails. It performs no external calls: picking is a pure
// function of the injected random source, so seeded tests are
// deterministic. Image and store side effects belong to the pipeline.
type Simulator struct {
	rng   *rand.Rand
	pools *config.Pools
	mu    sync.Mutex
}

// NewSimulator creates a simulator over the given random source. A nil
// pools falls back to the compiled-in defaults.
func NewSimulator(src rand.Source, pools *config.Pools) *Simulator {
	if pools == nil {
		pools = config.DefaultPools()
	}
	return &Simulator{rng: rand.New(src), pools: pools}
}

// SetPools swaps the vocabularies; used by the pools file hot-reload.
func (s *Simulator) SetPools(pools *config.Pools) {
	if pools == nil {
		return
	}
	s.mu.Lock()
	s.pools = pools
	s.mu.Unlock()
}

// Names returns the current name pool, for tests asserting membership.
func (s *Simulator) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pools.Names
}

// Creature synthesizes an entity skeleton: name, type, powers and
// characteristics are drawn from the pools; the image URL is left empty for
// the pipeline to fill with a placeholder.
func (s *Simulator) Creature(doodleSource string) *models.Creature {
	s.mu.Lock()
	defer s.mu.Unlock()

	powerSet := s.pools.PowerSets[s.rng.Intn(len(s.pools.PowerSets))]
	powers := make([]models.Power, len(powerSet))
	copy(powers, powerSet)

	return &models.Creature{
		Name: s.pick(s.pools.Names) + s.pick(s.pools.Suffixes),
		Type: s.pick(s.pools.PrimaryTypes) + "/" + s.pick(s.pools.SecondaryTypes),

		Powers:          powers,
		Characteristics: simulatedCharacteristics,
		DoodleSource:    truncateDoodleSource(doodleSource),
	}
}

func (s *Simulator) pick(pool []string) string {
	return pool[s.rng.Intn(len(pool))]
}

// truncateDoodleSource keeps a short display-only provenance snippet.
func truncateDoodleSource(doodle string) string {
	if len(doodle) > doodleSourceLimit {
		doodle = doodle[:doodleSourceLimit]
	}
	return doodle + "..."
}
