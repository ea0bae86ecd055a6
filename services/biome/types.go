// Package biome defines the macro biome and sub-zone vocabulary plus the
// immutable parameter tables (noise profiles, height parameters, surface
// materials) shared by the partitioner and the height synthesizer.
package biome

import (
	"fmt"
	"sort"
)

// Type is a top-level terrain classification, assigned per tessellation cell.
type Type int

const (
	Plains Type = iota
	Forest
	Desert
	Mountains
	Tundra
	Islands
	Crystal
)

func (t Type) String() string {
	switch t {
	case Plains:
		return "plains"
	case Forest:
		return "forest"
	case Desert:
		return "desert"
	case Mountains:
		return "mountains"
	case Tundra:
		return "tundra"
	case Islands:
		return "islands"
	case Crystal:
		return "crystal"
	default:
		return "unknown"
	}
}

// ParseType resolves a biome name as produced by String.
func ParseType(name string) (Type, error) {
	for _, t := range All() {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("biome: unknown biome type %q", name)
}

// Common biomes are always candidates during cell assignment. Rare biomes
// enter the candidate set through independent low-probability draws.
var (
	Common = []Type{Plains, Forest, Desert, Mountains, Tundra, Islands}
	Rare   = []Type{Crystal}
)

// All returns every biome type, common before rare.
func All() []Type {
	all := make([]Type, 0, len(Common)+len(Rare))
	all = append(all, Common...)
	all = append(all, Rare...)
	return all
}

// SubZone is a secondary classification within one macro biome.
type SubZone int

const (
	PlainsFlat SubZone = iota
	PlainsRolling
	ForestSparse
	ForestDense
	ForestGrove
	DesertFlats
	DesertDunes
	DesertRocky
	MountainFoothills
	MountainSlopes
	MountainPeaks
	TundraSteppe
	TundraFrozen
	IslandShallows
	IslandAtolls
	CrystalFields
	CrystalSpires
)

func (z SubZone) String() string {
	names := map[SubZone]string{
		PlainsFlat:        "plains_flat",
		PlainsRolling:     "plains_rolling",
		ForestSparse:      "forest_sparse",
		ForestDense:       "forest_dense",
		ForestGrove:       "forest_grove",
		DesertFlats:       "desert_flats",
		DesertDunes:       "desert_dunes",
		DesertRocky:       "desert_rocky",
		MountainFoothills: "mountain_foothills",
		MountainSlopes:    "mountain_slopes",
		MountainPeaks:     "mountain_peaks",
		TundraSteppe:      "tundra_steppe",
		TundraFrozen:      "tundra_frozen",
		IslandShallows:    "island_shallows",
		IslandAtolls:      "island_atolls",
		CrystalFields:     "crystal_fields",
		CrystalSpires:     "crystal_spires",
	}
	if n, ok := names[z]; ok {
		return n
	}
	return "unknown"
}

// subZoneTable orders each biome's zones by ascending threshold band.
var subZoneTable = map[Type][]SubZone{
	Plains:    {PlainsFlat, PlainsRolling},
	Forest:    {ForestSparse, ForestDense, ForestGrove},
	Desert:    {DesertFlats, DesertDunes, DesertRocky},
	Mountains: {MountainFoothills, MountainSlopes, MountainPeaks},
	Tundra:    {TundraSteppe, TundraFrozen},
	Islands:   {IslandShallows, IslandAtolls},
	Crystal:   {CrystalFields, CrystalSpires},
}

// SubZonesOf returns the ordered sub-zones of a macro biome.
func SubZonesOf(t Type) []SubZone {
	return subZoneTable[t]
}

// Material identifies one voxel material in a column stack.
type Material uint8

const (
	MaterialAir Material = iota
	MaterialWater
	MaterialStone
	MaterialDirt
	MaterialGrass
	MaterialSand
	MaterialSandstone
	MaterialGravel
	MaterialSnow
	MaterialIce
	MaterialCrystal
)

func (m Material) String() string {
	names := [...]string{"air", "water", "stone", "dirt", "grass", "sand", "sandstone", "gravel", "snow", "ice", "crystal"}
	if int(m) < len(names) {
		return names[m]
	}
	return "unknown"
}

// BlendWeightSet is a sparse biome→weight mapping. Weights sum to 1.0 within
// tolerance after Normalize.
type BlendWeightSet map[Type]float64

// Normalize rescales the weights in place so they sum to 1. Summation runs
// in sorted key order so repeated calls produce bit-identical results.
func (w BlendWeightSet) Normalize() {
	total := 0.0
	for _, t := range w.Types() {
		total += w[t]
	}
	if total <= 0 {
		return
	}
	for k, v := range w {
		w[k] = v / total
	}
}

// Types returns the biomes of the set in ascending order, for stable
// iteration wherever float summation order matters.
func (w BlendWeightSet) Types() []Type {
	types := make([]Type, 0, len(w))
	for t := range w {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Dominant returns the biome with the largest weight.
func (w BlendWeightSet) Dominant() (Type, float64) {
	best := Type(-1)
	bestW := -1.0
	for _, t := range w.Types() {
		if w[t] > bestW {
			best = t
			bestW = w[t]
		}
	}
	return best, bestW
}
