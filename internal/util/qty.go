package util

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultPackageSizeG is assumed when a quantity cannot be read.
const DefaultPackageSizeG = 100.0

var quantityPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(g|gm|gram|ml|l|kg)`)

// ParsePackageSize reads a free-text quantity ("200 g", "1.5 kg", "500ml") and
// returns the package size in grams. Litres count as kilograms.
func ParsePackageSize(quantity string) float64 {
	line := strings.ToLower(strings.ReplaceAll(quantity, "\u00A0", " "))
	if strings.TrimSpace(line) == "" {
		return DefaultPackageSizeG
	}

	m := quantityPattern.FindStringSubmatch(line)
	if m == nil {
		return DefaultPackageSizeG
	}
	value, err := strconv.ParseFloat(normalizeNumericToken(m[1]), 64)
	if err != nil {
		return DefaultPackageSizeG
	}

	switch m[2] {
	case "kg", "l":
		return value * 1000
	default:
		return value
	}
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}
