package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywords []byte

// DefaultCategory is used when no category keyword matches.
const DefaultCategory = "namkeen"

// CategoryKeyword maps a lowercase keyword to a category slug. Order matters:
// the first keyword found wins.
type CategoryKeyword struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// Keywords drives the catalog harvester: which brands to search for and how
// to bucket results into categories.
type Keywords struct {
	Brands     []string          `yaml:"brands"`
	Categories []CategoryKeyword `yaml:"categories"`
}

// LoadKeywords reads a keyword file, or the embedded defaults when path is empty.
func LoadKeywords(path string) (*Keywords, error) {
	data := defaultKeywords
	if strings.TrimSpace(path) != "" {
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = blob
	}
	return ParseKeywords(data)
}

func ParseKeywords(data []byte) (*Keywords, error) {
	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}

	seen := map[string]struct{}{}
	brands := make([]string, 0, len(kw.Brands))
	for _, b := range kw.Brands {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(b)]; ok {
			continue
		}
		seen[strings.ToLower(b)] = struct{}{}
		brands = append(brands, b)
	}
	kw.Brands = brands

	for i, c := range kw.Categories {
		if strings.TrimSpace(c.Keyword) == "" || strings.TrimSpace(c.Category) == "" {
			return nil, fmt.Errorf("parse keywords: category entry %d needs keyword and category", i)
		}
		kw.Categories[i].Keyword = strings.ToLower(strings.TrimSpace(c.Keyword))
	}
	return &kw, nil
}

// CategoryFor returns the slug of the first keyword contained in any of texts.
func (k *Keywords) CategoryFor(texts ...string) string {
	lowered := make([]string, len(texts))
	for i, t := range texts {
		lowered[i] = strings.ToLower(t)
	}
	for _, c := range k.Categories {
		for _, t := range lowered {
			if strings.Contains(t, c.Keyword) {
				return c.Category
			}
		}
	}
	return DefaultCategory
}
