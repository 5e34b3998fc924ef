package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"mizan/internal"
	"mizan/internal/util"
)

var (
	reProductCode    = regexp.MustCompile(`\s*\d{10,}`)
	reSizeAnnotation = regexp.MustCompile(`(?i)\s*\d+\s*(?:gm|g|ml|kg|l)\s*(?:\(\d+\))?`)
)

// CleanName returns p with a display name fit for the catalog: one brand
// prefix, no product codes or pack sizes, title-cased words.
func CleanName(p internal.Product) internal.Product {
	name := p.Name
	if rest, ok := util.HasPrefixFold(name, p.Brand); ok {
		rest = strings.Trim(rest, " -")
		for {
			next, ok := util.HasPrefixFold(rest, p.Brand)
			if !ok || !startsWithSeparator(next) {
				break
			}
			rest = strings.Trim(next, " -")
		}
		name = strings.TrimSpace(p.Brand + " " + rest)
	}

	name = reProductCode.ReplaceAllString(name, "")
	name = reSizeAnnotation.ReplaceAllString(name, "")
	name = util.CollapseSpaces(name)

	p.Name = util.TitleWords(name)
	return p
}

func startsWithSeparator(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r == '-' || unicode.IsSpace(r)
}
