package credits

import (
	"regexp"
	"strings"
)

// Species is the closed set of tree species with known carbon
// absorption multipliers. Anything not in the set resolves to
// SpeciesUnknown, which carries the neutral multiplier.
type Species int

const (
	SpeciesUnknown Species = iota
	SpeciesOak
	SpeciesPine
	SpeciesEucalyptus
	SpeciesMangrove
	SpeciesBamboo
	SpeciesTeak
	SpeciesNeem
	SpeciesFruitTree
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseSpecies normalizes a caller-supplied species name (lowercase,
// whitespace runs collapsed to single underscores) and resolves it
// against the fixed species set.
func ParseSpecies(name string) Species {
	key := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")

	switch key {
	case "oak":
		return SpeciesOak
	case "pine":
		return SpeciesPine
	case "eucalyptus":
		return SpeciesEucalyptus
	case "mangrove":
		return SpeciesMangrove
	case "bamboo":
		return SpeciesBamboo
	case "teak":
		return SpeciesTeak
	case "neem":
		return SpeciesNeem
	case "fruit_tree":
		return SpeciesFruitTree
	default:
		return SpeciesUnknown
	}
}

// Multiplier returns the carbon-absorption multiplier for the species.
func (s Species) Multiplier() float64 {
	switch s {
	case SpeciesOak:
		return 1.3
	case SpeciesPine:
		return 1.25
	case SpeciesEucalyptus:
		return 1.4
	case SpeciesMangrove:
		return 1.5
	case SpeciesBamboo:
		return 1.35
	case SpeciesTeak:
		return 1.2
	case SpeciesNeem:
		return 1.15
	case SpeciesFruitTree:
		return 1.1
	default:
		return 1.0
	}
}

// String returns the canonical lookup key for the species.
func (s Species) String() string {
	switch s {
	case SpeciesOak:
		return "oak"
	case SpeciesPine:
		return "pine"
	case SpeciesEucalyptus:
		return "eucalyptus"
	case SpeciesMangrove:
		return "mangrove"
	case SpeciesBamboo:
		return "bamboo"
	case SpeciesTeak:
		return "teak"
	case SpeciesNeem:
		return "neem"
	case SpeciesFruitTree:
		return "fruit_tree"
	default:
		return "default"
	}
}
