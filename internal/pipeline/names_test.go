package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mizan/internal"
)

func TestCleanName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		brand string
		want  string
	}{
		{name: "doubled brand and size", input: "Britannia Britannia Good Day Biscuits 100g", brand: "Britannia", want: "Britannia Good Day Biscuits"},
		{name: "brand with separator", input: "amul - amul butter", brand: "Amul", want: "Amul Butter"},
		{name: "brand not at start", input: "Good Day by Britannia", brand: "Britannia", want: "Good Day By Britannia"},
		{name: "brand glued to word", input: "Parle Parleg Gold", brand: "Parle", want: "Parle Parleg Gold"},
		{name: "product code", input: "Maggi Masala 8901058851427 Noodles", brand: "Maggi", want: "Maggi Masala Noodles"},
		{name: "short digit runs kept", input: "Maggi 2-Minute Noodles", brand: "Maggi", want: "Maggi 2-minute Noodles"},
		{name: "size with count", input: "Lay's Classic Salted 52 g (2)", brand: "", want: "Lay's Classic Salted"},
		{name: "gm unit", input: "Haldiram Aloo Bhujia 200gm", brand: "Haldiram", want: "Haldiram Aloo Bhujia"},
		{name: "litre", input: "Real Mixed Fruit Juice 1L", brand: "Real", want: "Real Mixed Fruit Juice"},
		{name: "connectors lowered", input: "the taste of india AND more", brand: "", want: "the Taste of India and More"},
		{name: "unit letter starting a word", input: "Lays 3 Layers", brand: "", want: "Laysayers"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CleanName(internal.Product{Name: tc.input, Brand: tc.brand})
			assert.Equal(t, tc.want, got.Name)
		})
	}
}

func TestCleanNameTouchesOnlyName(t *testing.T) {
	in := internal.Product{
		Name:         "amul butter 100g",
		Brand:        "Amul",
		CategorySlug: "dairy",
		Nutrients:    internal.Nutrients{internal.NutrientEnergyKcal: 722},
	}
	out := CleanName(in)

	assert.Equal(t, "Amul Butter", out.Name)
	assert.Equal(t, "amul butter 100g", in.Name)
	assert.Equal(t, in.Brand, out.Brand)
	assert.Equal(t, in.CategorySlug, out.CategorySlug)
	assert.Equal(t, in.Nutrients, out.Nutrients)
}
