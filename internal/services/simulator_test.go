package services

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/config"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

func TestSimulatorDeterministic(t *testing.T) {
	a := NewSimulator(rand.NewSource(7), nil)
	b := NewSimulator(rand.NewSource(7), nil)

	for i := 0; i < 10; i++ {
		ca := a.Creature("doodle-data")
		cb := b.Creature("doodle-data")
		if ca.Name != cb.Name || ca.Type != cb.Type {
			t.Fatalf("iteration %d: %q/%q vs %q/%q", i, ca.Name, ca.Type, cb.Name, cb.Type)
		}
	}
}

func TestSimulatorDrawsFromPools(t *testing.T) {
	sim := NewSimulator(rand.NewSource(3), nil)
	pools := config.DefaultPools()

	creature := sim.Creature("doodle-data")

	var nameOK bool
	for _, name := range pools.Names {
		if strings.HasPrefix(creature.Name, name) {
			nameOK = true
			break
		}
	}
	if !nameOK {
		t.Errorf("name %q has no pool prefix", creature.Name)
	}

	parts := strings.SplitN(creature.Type, "/", 2)
	if len(parts) != 2 {
		t.Fatalf("type %q is not primary/secondary", creature.Type)
	}
	if !contains(pools.PrimaryTypes, parts[0]) || !contains(pools.SecondaryTypes, parts[1]) {
		t.Errorf("type %q not drawn from pools", creature.Type)
	}

	if len(creature.Powers) == 0 {
		t.Error("simulated creature has no powers")
	}
	if creature.ImageURL != "" {
		t.Errorf("simulator must not assign an image url, got %q", creature.ImageURL)
	}
}

func TestSimulatorTruncatesDoodleSource(t *testing.T) {
	sim := NewSimulator(rand.NewSource(1), nil)
	long := strings.Repeat("x", 500)

	creature := sim.Creature(long)

	if len(creature.DoodleSource) != doodleSourceLimit+len("...") {
		t.Errorf("doodle source length %d", len(creature.DoodleSource))
	}
	if !strings.HasSuffix(creature.DoodleSource, "...") {
		t.Errorf("doodle source %q missing ellipsis", creature.DoodleSource)
	}
}

func TestSimulatorHotReload(t *testing.T) {
	sim := NewSimulator(rand.NewSource(1), nil)
	custom := &config.Pools{
		PrimaryTypes:   []string{"Lava"},
		SecondaryTypes: []string{"Cloud"},
		Names:          []string{"Molt"},
		Suffixes:       []string{"-Test"},
		PowerSets:      [][]models.Power{{{Name: "Melt", Description: "Melts things."}}},
	}

	sim.SetPools(custom)
	creature := sim.Creature("doodle-data")

	if creature.Name != "Molt-Test" {
		t.Errorf("got name %q, want Molt-Test", creature.Name)
	}
	if creature.Type != "Lava/Cloud" {
		t.Errorf("got type %q, want Lava/Cloud", creature.Type)
	}
}

func TestSimulatorPowersAreCopies(t *testing.T) {
	sim := NewSimulator(rand.NewSource(1), nil)

	a := sim.Creature("doodle-data")
	a.Powers[0].Description = "mutated"
	b := sim.Creature("doodle-data")

	for _, p := range b.Powers {
		if p.Description == "mutated" {
			t.Fatal("power sets are shared between creatures")
		}
	}
}

func contains(pool []string, s string) bool {
	for _, v := range pool {
		if v == s {
			return true
		}
	}
	return false
}
