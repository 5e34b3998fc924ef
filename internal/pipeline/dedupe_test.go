package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mizan/internal"
	"mizan/internal/util"
)

func withCompleteness(name string, count int, tag string) internal.Product {
	keys := []string{
		internal.NutrientEnergyKcal,
		internal.NutrientProtein,
		internal.NutrientSugar,
		internal.NutrientSodium,
		internal.NutrientTotalFat,
	}
	n := internal.Nutrients{}
	for _, key := range keys[:count] {
		n[key] = 1
	}
	return internal.Product{Name: name, Brand: tag, Nutrients: n}
}

func TestDedupeMoreCompleteWinsInEitherOrder(t *testing.T) {
	sparse := withCompleteness("Maggi Masala Noodles 70g", 2, "sparse")
	rich := withCompleteness("Maggi Masala Noodles 140 G Pack", 4, "rich")

	for _, order := range [][]internal.Product{{sparse, rich}, {rich, sparse}} {
		out := Dedupe(order)
		require.Len(t, out, 1)
		assert.Equal(t, "rich", out[0].Brand)
	}
}

func TestDedupeTieKeepsFirst(t *testing.T) {
	first := withCompleteness("Good Day Cashew", 3, "first")
	second := withCompleteness("good day cashew!", 3, "second")

	out := Dedupe([]internal.Product{first, second})
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Brand)
}

func TestDeduplicatorReplacesInPlace(t *testing.T) {
	d := NewDeduplicator()
	assert.Equal(t, DedupeKept, d.Add(withCompleteness("Amul Butter", 2, "a")))
	assert.Equal(t, DedupeKept, d.Add(withCompleteness("Tang Orange", 2, "b")))
	assert.Equal(t, DedupeReplaced, d.Add(withCompleteness("Amul Butter 500g", 5, "c")))
	assert.Equal(t, DedupeDiscarded, d.Add(withCompleteness("Amul Butter", 5, "d")))

	out := d.Products()
	require.Len(t, out, 2)
	assert.Equal(t, "c", out[0].Brand)
	assert.Equal(t, "b", out[1].Brand)
}

func TestAssignSlugsSuffixesInOrder(t *testing.T) {
	products := []internal.Product{
		{Name: "Parle G"},
		{Name: "Parle-G"},
		{Name: "parle   g"},
		{Name: "!!!"},
	}

	out := AssignSlugs(products, util.NewSlugSet())
	slugs := make([]string, len(out))
	for i, p := range out {
		slugs[i] = p.Slug
	}
	assert.Equal(t, []string{"parle-g", "parle-g-1", "parle-g-2", "product"}, slugs)
	assert.Empty(t, products[0].Slug)
}
