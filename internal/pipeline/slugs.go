package pipeline

import (
	"mizan/internal"
	"mizan/internal/util"
)

// fallbackSlug is used for names that contain nothing slug-safe.
const fallbackSlug = "product"

// AssignSlugs gives every product a slug from its name, unique within slugs.
// Order matters: the first product with a given base gets the bare base.
func AssignSlugs(products []internal.Product, slugs *util.SlugSet) []internal.Product {
	out := make([]internal.Product, len(products))
	for i, p := range products {
		base := util.Slugify(p.Name)
		if base == "" {
			base = fallbackSlug
		}
		p.Slug = slugs.Claim(base)
		out[i] = p
	}
	return out
}
