package normalize

import "strings"

// variants maps provider ids to their normalizer. All variants are
// stateless values, safe to share across goroutines.
var variants = map[string]Normalizer{
	"bse":    BSENormalizer{},
	"sura":   SURANormalizer{},
	"mapfre": MapfreNormalizer{},
}

// ForProvider returns the normalizer for the given provider id. Lookup
// never fails: an unknown, empty or malformed id resolves to the default
// variant.
func ForProvider(providerID string) Normalizer {
	id := strings.ToLower(strings.TrimSpace(providerID))
	if n, ok := variants[id]; ok {
		return n
	}
	return DefaultNormalizer{}
}

// Providers lists the ids with a dedicated variant, sorted.
func Providers() []string {
	return []string{"bse", "mapfre", "sura"}
}
