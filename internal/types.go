package internal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"mizan/internal/errs"
)

// Nutrient keys carried by every harvested product.
const (
	NutrientEnergyKcal    = "energy_kcal"
	NutrientProtein       = "protein_g"
	NutrientCarbohydrates = "carbohydrates_g"
	NutrientSugar         = "sugar_g"
	NutrientTotalFat      = "total_fat_g"
	NutrientSaturatedFat  = "saturated_fat_g"
	NutrientFiber         = "fiber_g"
	NutrientSodium        = "sodium_mg"
)

// Nutrients maps a nutrient key to its per-100g value. A missing key reads as 0,
// which is indistinguishable from a measured zero.
type Nutrients map[string]float64

func (n Nutrients) Get(key string) float64 {
	return n[key]
}

// Completeness counts strictly positive values.
func (n Nutrients) Completeness() int {
	count := 0
	for _, v := range n {
		if v > 0 {
			count++
		}
	}
	return count
}

// Product is one catalog record. Name, Brand, Category, CategorySlug, Nutrients
// and Slug are the fields the cleaner reads or writes; everything else rides in
// Fields and is written back unchanged.
type Product struct {
	Name         string
	Brand        string
	Category     string
	CategorySlug string
	Nutrients    Nutrients
	Slug         string
	Fields       map[string]json.RawMessage
}

// SetField stores a pass-through value.
func (p *Product) SetField(key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %s: %w", key, err)
	}
	if p.Fields == nil {
		p.Fields = map[string]json.RawMessage{}
	}
	p.Fields[key] = blob
	return nil
}

func (p Product) hasField(key string) bool {
	_, ok := p.Fields[key]
	return ok
}

func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Fields)+6)
	for k, v := range p.Fields {
		out[k] = v
	}
	out["name"] = p.Name
	if p.Brand != "" || p.hasField("brand") {
		out["brand"] = p.Brand
	}
	if p.Category != "" || p.hasField("category") {
		out["category"] = p.Category
	}
	if p.CategorySlug != "" || p.hasField("category_slug") {
		out["category_slug"] = p.CategorySlug
	}
	if p.Nutrients != nil || p.hasField("nutrients") {
		nutrients := p.Nutrients
		if nutrients == nil {
			nutrients = Nutrients{}
		}
		out["nutrients"] = nutrients
	}
	if p.Slug != "" {
		out["slug"] = p.Slug
	}
	return marshalUnescaped(out)
}

// Collection is the wrapper document the cleaner reads and writes: an ordered
// product list, its count, and any other top-level metadata.
type Collection struct {
	Meta     map[string]json.RawMessage
	Products []Product
}

// SetMeta stores a top-level metadata value.
func (c *Collection) SetMeta(key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode meta %s: %w", key, err)
	}
	if c.Meta == nil {
		c.Meta = map[string]json.RawMessage{}
	}
	c.Meta[key] = blob
	return nil
}

func (c Collection) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Meta)+2)
	for k, v := range c.Meta {
		out[k] = v
	}
	products := c.Products
	if products == nil {
		products = []Product{}
	}
	out["products"] = products
	out["count"] = len(products)
	return marshalUnescaped(out)
}

// RawCollection is an input document before its products are decoded. Products
// stay raw so that one malformed record does not fail the whole document.
type RawCollection struct {
	Meta     map[string]json.RawMessage
	Products []json.RawMessage
}

// ParseRawCollection splits a wrapper document into metadata and raw products.
// The input count is dropped; it is recomputed on output.
func ParseRawCollection(data []byte) (RawCollection, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return RawCollection{}, fmt.Errorf("%w: %v", errs.ErrInvalidDocument, err)
	}
	if top == nil {
		return RawCollection{}, fmt.Errorf("%w: document is not an object", errs.ErrInvalidDocument)
	}

	raw := RawCollection{Meta: map[string]json.RawMessage{}}
	for k, v := range top {
		if k == "products" || k == "count" {
			continue
		}
		raw.Meta[k] = v
	}

	products, ok := top["products"]
	if !ok || bytes.Equal(bytes.TrimSpace(products), []byte("null")) {
		return raw, nil
	}
	if err := json.Unmarshal(products, &raw.Products); err != nil {
		return RawCollection{}, fmt.Errorf("%w: products is not an array", errs.ErrInvalidDocument)
	}
	return raw, nil
}

// marshalUnescaped is json.Marshal without HTML escaping, so names like
// "Hide & Seek" stay readable in written files.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
