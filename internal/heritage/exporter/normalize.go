// Package exporter mirrors the heritage catalogue into a local sink.
package exporter

import (
	"regexp"
	"sort"
	"strings"
)

// Inventory and accession numbers leak into keyword lists from some
// institutions and are unique per item.
var denyKeywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(inv|acc|obj)-?\d+$`),
	regexp.MustCompile(`^\d+$`),
}

// normalizeKeywords lower-kebab-cases keywords, drops identifiers and
// duplicates, and returns them sorted.
func normalizeKeywords(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		key := normalizeKeyword(kw)
		if key == "" || !shouldIncludeKeyword(key) {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// normalizeKeyword converts a keyword to lower-kebab-case.
func normalizeKeyword(kw string) string {
	kw = strings.ToLower(strings.TrimSpace(kw))

	kw = strings.ReplaceAll(kw, "_", "-")
	kw = strings.Join(strings.Fields(kw), "-")

	for strings.Contains(kw, "--") {
		kw = strings.ReplaceAll(kw, "--", "-")
	}

	return strings.Trim(kw, "-")
}

func shouldIncludeKeyword(key string) bool {
	for _, pattern := range denyKeywordPatterns {
		if pattern.MatchString(key) {
			return false
		}
	}
	return true
}
