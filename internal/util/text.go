package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reKeySize    = regexp.MustCompile(`(?i)\s*\d+\s*(?:g|gm|ml|l|kg|pack|pcs?|x\s*\d+).*$`)
	reKeyStrip   = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	reSlugStrip  = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	reSlugJoin   = regexp.MustCompile(`[\s_-]+`)
	reSpaces     = regexp.MustCompile(`\s+`)
	lowerConnect = map[string]struct{}{"and": {}, "or": {}, "the": {}, "of": {}, "in": {}}
)

// NormalizeKey reduces a product name to the key used for duplicate grouping.
// Pack-size suffixes are cut so "Noodles 70g" and "Noodles 140 G Pack" collide.
func NormalizeKey(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = reKeySize.ReplaceAllString(s, "")
	s = reKeyStrip.ReplaceAllString(s, "")
	return reSpaces.ReplaceAllString(s, " ")
}

// Slugify turns text into a URL-safe identifier. Slugify(Slugify(s)) == Slugify(s).
func Slugify(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = reSlugStrip.ReplaceAllString(s, "")
	s = reSlugJoin.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func CollapseSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// TitleWords capitalizes each whitespace-separated word. Connector words are
// always lowercased, including the first word.
func TitleWords(input string) string {
	words := strings.Fields(input)
	for i, w := range words {
		lower := strings.ToLower(w)
		if _, ok := lowerConnect[lower]; ok {
			words[i] = lower
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError && size <= 1 {
		return strings.ToLower(word)
	}
	return string(unicode.ToTitle(first)) + strings.ToLower(word[size:])
}

// HasPrefixFold reports whether s starts with prefix, ignoring case, and returns
// the remainder of s after the matched prefix.
func HasPrefixFold(s, prefix string) (string, bool) {
	if prefix == "" {
		return s, false
	}
	n := utf8.RuneCountInString(prefix)
	end, count := len(s), 0
	for pos := range s {
		if count == n {
			end = pos
			break
		}
		count++
	}
	if count < n || !strings.EqualFold(s[:end], prefix) {
		return s, false
	}
	return s[end:], true
}
