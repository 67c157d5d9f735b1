package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPoolsComplete(t *testing.T) {
	pools := DefaultPools()

	if len(pools.PrimaryTypes) == 0 || len(pools.SecondaryTypes) == 0 ||
		len(pools.Names) == 0 || len(pools.Suffixes) == 0 || len(pools.PowerSets) == 0 {
		t.Fatal("default pools have an empty vocabulary")
	}
	for i, set := range pools.PowerSets {
		if len(set) == 0 {
			t.Errorf("default power set %d is empty", i)
		}
	}
}

func TestLoadPools(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.yaml")
	yaml := `
primary_types: [Lava]
secondary_types: [Cloud]
names: [Molt]
suffixes: ["-Test"]
power_sets:
  - - name: Melt
      description: Melts things.
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing pools file: %v", err)
	}

	pools, err := LoadPools(path)
	if err != nil {
		t.Fatalf("LoadPools: %v", err)
	}
	if pools.PrimaryTypes[0] != "Lava" || pools.Names[0] != "Molt" {
		t.Errorf("got %+v", pools)
	}
	if pools.PowerSets[0][0].Name != "Melt" {
		t.Errorf("power sets did not decode: %+v", pools.PowerSets)
	}
}

func TestLoadPoolsRejectsMissingVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.yaml")
	yaml := `
primary_types: [Lava]
secondary_types: [Cloud]
names: []
suffixes: ["-Test"]
power_sets:
  - - name: Melt
      description: Melts things.
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing pools file: %v", err)
	}

	if _, err := LoadPools(path); err == nil {
		t.Fatal("expected error for empty names vocabulary")
	}
}

func TestLoadPoolsMissingFile(t *testing.T) {
	if _, err := LoadPools(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
