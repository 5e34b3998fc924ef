package internal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mizan/internal/errs"
)

func TestProductUnmarshalCoercesNutrients(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{
		"name": "Amul Butter",
		"brand": "Amul",
		"category_slug": "dairy",
		"nutrients": {"energy_kcal": 722, "protein_g": "0.5", "sugar_g": null, "sodium_mg": ""},
		"flags": ["High Saturated Fat"],
		"slug": "stale-slug"
	}`), &p)
	require.NoError(t, err)

	assert.Equal(t, "Amul Butter", p.Name)
	assert.Equal(t, "Amul", p.Brand)
	assert.Equal(t, "dairy", p.CategorySlug)
	assert.Equal(t, 722.0, p.Nutrients.Get(NutrientEnergyKcal))
	assert.Equal(t, 0.5, p.Nutrients.Get(NutrientProtein))
	assert.Equal(t, 0.0, p.Nutrients.Get(NutrientSugar))
	assert.Equal(t, 2, p.Nutrients.Completeness())
	assert.JSONEq(t, `["High Saturated Fat"]`, string(p.Fields["flags"]))
	assert.Empty(t, p.Slug)
	assert.NotContains(t, p.Fields, "slug")
}

func TestProductUnmarshalMalformed(t *testing.T) {
	cases := map[string]string{
		"not an object":       `["Amul"]`,
		"missing name":        `{"brand": "Amul"}`,
		"null name":           `{"name": null}`,
		"numeric name":        `{"name": 42}`,
		"numeric brand":       `{"name": "Amul Butter", "brand": 7}`,
		"nutrients array":     `{"name": "Amul Butter", "nutrients": [1, 2]}`,
		"nutrient text":       `{"name": "Amul Butter", "nutrients": {"energy_kcal": "lots"}}`,
		"nutrient bool":       `{"name": "Amul Butter", "nutrients": {"energy_kcal": true}}`,
		"nutrient object":     `{"name": "Amul Butter", "nutrients": {"energy_kcal": {"value": 1}}}`,
		"nutrient not finite": `{"name": "Amul Butter", "nutrients": {"energy_kcal": "NaN"}}`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			var p Product
			err := json.Unmarshal([]byte(input), &p)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrMalformedRecord)
		})
	}
}

func TestProductMarshalKeepsPassThroughFields(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "8901058000290",
		"name": "maggi noodles 70g",
		"brand": "Maggi",
		"nutrients": {"energy_kcal": 390},
		"image_url": "https://example.test/maggi.jpg"
	}`), &p))

	p.Name = "Maggi Noodles"
	p.Slug = "maggi-noodles"
	blob, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "8901058000290",
		"name": "Maggi Noodles",
		"brand": "Maggi",
		"nutrients": {"energy_kcal": 390},
		"image_url": "https://example.test/maggi.jpg",
		"slug": "maggi-noodles"
	}`, string(blob))
}

func TestParseRawCollection(t *testing.T) {
	raw, err := ParseRawCollection([]byte(`{
		"source": "Open Food Facts",
		"fetched_at": "2026-01-02 03:04:05",
		"count": 99,
		"products": [{"name": "a"}, {"name": "b"}]
	}`))
	require.NoError(t, err)

	assert.Len(t, raw.Products, 2)
	assert.Contains(t, raw.Meta, "source")
	assert.Contains(t, raw.Meta, "fetched_at")
	assert.NotContains(t, raw.Meta, "count")
	assert.NotContains(t, raw.Meta, "products")
}

func TestParseRawCollectionWithoutProducts(t *testing.T) {
	raw, err := ParseRawCollection([]byte(`{"source": "x"}`))
	require.NoError(t, err)
	assert.Empty(t, raw.Products)

	raw, err = ParseRawCollection([]byte(`{"products": null}`))
	require.NoError(t, err)
	assert.Empty(t, raw.Products)
}

func TestParseRawCollectionInvalid(t *testing.T) {
	for _, input := range []string{`not json`, `null`, `[1, 2]`, `{"products": {"name": "a"}}`} {
		_, err := ParseRawCollection([]byte(input))
		assert.ErrorIs(t, err, errs.ErrInvalidDocument, input)
	}
}

func TestCollectionMarshalSetsCount(t *testing.T) {
	c := Collection{Products: []Product{{Name: "Tang Orange", Slug: "tang-orange"}}}
	require.NoError(t, c.SetMeta("source", "Open Food Facts"))

	blob, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"source": "Open Food Facts",
		"count": 1,
		"products": [{"name": "Tang Orange", "slug": "tang-orange"}]
	}`, string(blob))

	blob, err = json.Marshal(Collection{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 0, "products": []}`, string(blob))
}
