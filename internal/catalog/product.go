package catalog

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"mizan/internal"
	"mizan/internal/config"
	"mizan/internal/util"
)

const (
	sourceName     = "Open Food Facts"
	productURLBase = "https://world.openfoodfacts.org/product/"
	unknownBrand   = "Unknown"
	maxIngredients = 15
	kjPerKcal      = 4.184
)

// Flag thresholds, per 100 g.
const (
	highSodiumMg      = 500
	highSugarG        = 15
	highSaturatedFatG = 5
)

// IsUsable reports whether an OFF product carries a name and at least one of
// energy, protein, sugar, sodium or fat.
func IsUsable(raw map[string]any) bool {
	if toString(raw["product_name"]) == "" {
		return false
	}
	n := toMap(raw["nutriments"])
	for _, key := range []string{"energy-kcal_100g", "energy_100g", "proteins_100g", "sugars_100g", "sodium_100g", "fat_100g"} {
		if _, ok := toNonZeroFloat(n[key]); ok {
			return true
		}
	}
	return false
}

// ToProduct converts one OFF search result into a raw catalog record. The
// record's slug is claimed from slugs so that a harvest never repeats one.
func ToProduct(raw map[string]any, kw *config.Keywords, slugs *util.SlugSet) (internal.Product, error) {
	name := norm.NFC.String(strings.TrimSpace(toString(raw["product_name"])))
	if name == "" {
		return internal.Product{}, errors.New("empty product_name")
	}

	brand := unknownBrand
	if brands := toString(raw["brands"]); brands != "" {
		brand = norm.NFC.String(strings.TrimSpace(strings.Split(brands, ",")[0]))
	}
	if rest, ok := util.HasPrefixFold(name, brand); ok {
		name = strings.Trim(rest, " -")
	}
	fullName := strings.TrimSpace(brand + " " + name)

	base := util.Slugify(fullName)
	if base == "" {
		base = "product"
	}
	slug := slugs.Claim(base)

	nutrients := extractNutrients(toMap(raw["nutriments"]))
	categorySlug := kw.CategoryFor(toString(raw["categories"]), toString(raw["product_name"]))

	code := toString(raw["code"])
	id := code
	if id == "" {
		id = slug
	}

	p := internal.Product{
		Name:         fullName,
		Brand:        brand,
		Category:     cases.Title(language.Und).String(strings.ReplaceAll(categorySlug, "-", " ")),
		CategorySlug: categorySlug,
		Nutrients:    nutrients,
		Slug:         slug,
	}
	fields := map[string]any{
		"id":             id,
		"package_size_g": util.ParsePackageSize(toString(raw["quantity"])),
		"ingredients":    splitIngredients(toString(raw["ingredients_text"])),
		"flags":          flagsFor(nutrients),
		"image_url":      toString(raw["image_url"]),
		"source":         sourceName,
		"source_url":     productURLBase + code,
	}
	for k, v := range fields {
		if err := p.SetField(k, v); err != nil {
			return internal.Product{}, err
		}
	}
	return p, nil
}

func extractNutrients(n map[string]any) internal.Nutrients {
	energy, ok := nutrientValue(n, "energy-kcal")
	if !ok {
		kj, _ := nutrientValue(n, "energy")
		energy = kj / kjPerKcal
	}
	sodium, _ := nutrientValue(n, "sodium")
	if sodium < 10 {
		sodium *= 1000
	}

	get := func(key string) float64 {
		v, _ := nutrientValue(n, key)
		return round1(v)
	}
	return internal.Nutrients{
		internal.NutrientEnergyKcal:    round1(energy),
		internal.NutrientProtein:       get("proteins"),
		internal.NutrientCarbohydrates: get("carbohydrates"),
		internal.NutrientSugar:         get("sugars"),
		internal.NutrientTotalFat:      get("fat"),
		internal.NutrientSaturatedFat:  get("saturated-fat"),
		internal.NutrientFiber:         get("fiber"),
		internal.NutrientSodium:        round1(sodium),
	}
}

// nutrientValue prefers the per-100g entry and falls back to the bare key.
// Zero, empty and unparsable values count as missing.
func nutrientValue(n map[string]any, key string) (float64, bool) {
	v, ok := n[key+"_100g"]
	if !ok {
		v = n[key]
	}
	return toNonZeroFloat(v)
}

func flagsFor(n internal.Nutrients) []string {
	flags := []string{}
	if n.Get(internal.NutrientSodium) > highSodiumMg {
		flags = append(flags, "High Sodium")
	}
	if n.Get(internal.NutrientSugar) > highSugarG {
		flags = append(flags, "High Sugar")
	}
	if n.Get(internal.NutrientSaturatedFat) > highSaturatedFatG {
		flags = append(flags, "High Saturated Fat")
	}
	return flags
}

// splitIngredients drops allergen markup and keeps the first entries of the
// comma-separated list.
func splitIngredients(text string) []string {
	out := []string{}
	if strings.TrimSpace(text) == "" {
		return out
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
		text = doc.Text()
	}
	for i, part := range strings.Split(text, ",") {
		if i == maxIngredients {
			break
		}
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func toString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func toMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func toNonZeroFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
