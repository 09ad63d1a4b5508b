package credits

import "math"

// Factors carries the optional adjustment signals a submission can
// attach. Nil pointer fields mean "no adjustment", never zero.
type Factors struct {
	// VegetationDensity is a 0-1 density estimate for the measured crown.
	VegetationDensity *float64
	// PreviousArea is the area from the same subject's prior submission,
	// used for the growth/shrinkage adjustment.
	PreviousArea *float64
	// TreeSpecies is a case-insensitive species name; unknown names fall
	// back to the neutral multiplier.
	TreeSpecies string
	// LocationMultiplier is a trusted regional weight applied as-is.
	LocationMultiplier *float64
}

// Compute converts a measured vegetation area (square meters) into an
// integer eco-credit award. Pure and deterministic: the multipliers
// apply in a fixed order (quality, density, growth, species, location)
// so repeated runs with the same inputs always produce the same award.
// The result is floored and never drops below 1.
func Compute(area float64, gsd *float64, factors *Factors) int {
	total := baseCredits(area)

	if gsd != nil {
		total *= qualityMultiplier(*gsd)
	}

	if factors != nil {
		if factors.VegetationDensity != nil {
			total *= 1 + *factors.VegetationDensity*0.5
		}

		if factors.PreviousArea != nil && *factors.PreviousArea > 0 {
			total *= growthMultiplier(area, *factors.PreviousArea)
		}

		if factors.TreeSpecies != "" {
			total *= ParseSpecies(factors.TreeSpecies).Multiplier()
		}

		if factors.LocationMultiplier != nil {
			total *= *factors.LocationMultiplier
		}
	}

	award := int(math.Floor(total))
	if award < 1 {
		return 1
	}
	return award
}

// baseCredits is the tiered area schedule. Per-square-meter rates drop
// as the area grows so oversized submissions stop scaling linearly;
// past 1000 m² the schedule goes logarithmic. Each tier's constant term
// equals the previous tier's value at the breakpoint, so the schedule
// is continuous and monotonically non-decreasing.
func baseCredits(area float64) float64 {
	switch {
	case area <= 10:
		return area * 10
	case area <= 50:
		return 100 + (area-10)*8
	case area <= 100:
		return 420 + (area-50)*6
	case area <= 500:
		return 720 + (area-100)*4
	case area <= 1000:
		return 2320 + (area-500)*2
	default:
		return 3320 + math.Log10(area-999)*500
	}
}

// qualityMultiplier rewards higher-resolution captures. Lower GSD means
// more meters of ground per pixel resolved, so the measurement is more
// trustworthy; anything coarser than 5 m/px is penalized.
func qualityMultiplier(gsd float64) float64 {
	switch {
	case gsd <= 0.5:
		return 1.5
	case gsd <= 1.0:
		return 1.3
	case gsd <= 2.0:
		return 1.15
	case gsd <= 5.0:
		return 1.0
	default:
		return 0.8
	}
}

// growthMultiplier compares against the subject's previous measurement.
// Growth earns up to a 30% bonus, saturating at 100% growth. Shrinking
// by more than 20% takes a flat 30% penalty; smaller dips are neutral.
func growthMultiplier(area, previousArea float64) float64 {
	growthRate := (area - previousArea) / previousArea

	if growthRate > 0 {
		return 1 + math.Min(growthRate, 1.0)*0.3
	}
	if growthRate < -0.2 {
		return 0.7
	}
	return 1.0
}
