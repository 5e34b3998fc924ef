package util

import "strconv"

// SlugSet hands out unique slugs. A base already taken gets the first free
// numeric suffix: base, base-1, base-2, ... The zero value is not usable; call
// NewSlugSet.
type SlugSet struct {
	used map[string]struct{}
}

func NewSlugSet() *SlugSet {
	return &SlugSet{used: map[string]struct{}{}}
}

// Claim reserves and returns the first free slug for base.
func (s *SlugSet) Claim(base string) string {
	slug := base
	for counter := 1; ; counter++ {
		if _, taken := s.used[slug]; !taken {
			break
		}
		slug = base + "-" + strconv.Itoa(counter)
	}
	s.used[slug] = struct{}{}
	return slug
}
