package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// Pools are the fixed vocabularies the simulator draws from when real
// generation is unavailable. The compiled-in defaults can be overridden by a
// YAML file (SIMULATOR_POOLS_FILE), which main hot-reloads on change.
type Pools struct {
	PrimaryTypes   []string         `yaml:"primary_types"`
	SecondaryTypes []string         `yaml:"secondary_types"`
	Names          []string         `yaml:"names"`
	Suffixes       []string         `yaml:"suffixes"`
	PowerSets      [][]models.Power `yaml:"power_sets"`
}

// DefaultPools returns the built-in simulator vocabularies.
func DefaultPools() *Pools {
	return &Pools{
		PrimaryTypes:   []string{"Fire", "Water", "Grass", "Electric", "Ghost", "Psychic", "Rock"},
		SecondaryTypes: []string{"Fairy", "Steel", "Ice", "Dragon", "Ground", "Flying", "Dark"},
		Names:          []string{"Pika", "Squir", "Bulba", "Charm", "Eevee", "Mew", "Abra", "Draco"},
		Suffixes:       []string{"-Doodle", "-Sketch", "-Ink", "-Scribble"},
		PowerSets: [][]models.Power{
			{
				{Name: "Hydro Pump", Description: "Blasts foes with high-pressure water."},
				{Name: "Ink Spray", Description: "Squirts ink to obscure vision."},
			},
			{
				{Name: "Flame Burst", Description: "Explodes embers on contact."},
				{Name: "Char Mark", Description: "Leaves a scorching trail."},
			},
			{
				{Name: "Leaf Blade", Description: "Cuts with razor-sharp leaves."},
				{Name: "Vine Swipe", Description: "Whips foes with vines."},
			},
			{
				{Name: "Thunder Jolt", Description: "Quick electric shock."},
				{Name: "Spark Trail", Description: "Leaves crackling sparks behind."},
			},
			{
				{Name: "Shadow Sneak", Description: "Strikes from the shadows."},
				{Name: "Spook Flick", Description: "Startles enemies briefly."},
			},
		},
	}
}

// LoadPools reads a pools YAML file and validates that every vocabulary is
// non-empty, so the simulator can never be left with nothing to pick from.
func LoadPools(filePath string) (*Pools, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pools file: %w", err)
	}

	var pools Pools
	if err := yaml.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("failed to parse pools YAML: %w", err)
	}

	if len(pools.PrimaryTypes) == 0 || len(pools.SecondaryTypes) == 0 ||
		len(pools.Names) == 0 || len(pools.Suffixes) == 0 || len(pools.PowerSets) == 0 {
		return nil, fmt.Errorf("pools file %s is missing one or more vocabularies", filePath)
	}
	for i, set := range pools.PowerSets {
		if len(set) == 0 {
			return nil, fmt.Errorf("pools file %s: power set %d is empty", filePath, i)
		}
	}
	return &pools, nil
}
