package pipeline

import (
	"unicode/utf8"

	"mizan/internal"
)

const (
	minEnergyKcal         = 10
	maxEnergyKcal         = 900
	minSecondaryNutrients = 2
	minNameLength         = 5
)

// Rejection reasons reported in run stats.
const (
	RejectEnergyOutOfRange = "energy_out_of_range"
	RejectSparseNutrients  = "sparse_nutrients"
	RejectShortName        = "short_name"
)

var secondaryNutrients = []string{
	internal.NutrientProtein,
	internal.NutrientSugar,
	internal.NutrientSodium,
	internal.NutrientTotalFat,
	internal.NutrientCarbohydrates,
}

type Verdict struct {
	Complete bool
	Reason   string
}

// Validate decides whether p carries enough plausible data to be listed.
func Validate(p internal.Product) Verdict {
	energy := p.Nutrients.Get(internal.NutrientEnergyKcal)
	if energy < minEnergyKcal || energy > maxEnergyKcal {
		return Verdict{Reason: RejectEnergyOutOfRange}
	}

	nonZero := 0
	for _, key := range secondaryNutrients {
		if p.Nutrients.Get(key) > 0 {
			nonZero++
		}
	}
	if nonZero < minSecondaryNutrients {
		return Verdict{Reason: RejectSparseNutrients}
	}

	if utf8.RuneCountInString(p.Name) < minNameLength {
		return Verdict{Reason: RejectShortName}
	}
	return Verdict{Complete: true}
}

func IsComplete(p internal.Product) bool {
	return Validate(p).Complete
}
