package memory

import "strings"

// Namespace derives the memory partition key from an objective. Vector
// index namespaces only accept ASCII, so non-ASCII runes are stripped
// and the remainder trimmed. Objectives that sanitize to nothing fall
// back to the supplied default.
func Namespace(objective, fallback string) string {
	var b strings.Builder
	for _, r := range objective {
		if r <= 0x7F {
			b.WriteRune(r)
		}
	}

	ns := strings.TrimSpace(b.String())
	if ns == "" {
		return fallback
	}
	return ns
}
