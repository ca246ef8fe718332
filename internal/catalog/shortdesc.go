package catalog

import "strings"

const (
	shortDescriptionWords = 10
	ellipsis              = "..."
)

// ShortDescription derives a card summary from its description: the first
// ten whitespace-separated words joined by single spaces, plus "...".
func ShortDescription(description string) string {
	words := strings.Fields(description)
	if len(words) > shortDescriptionWords {
		words = words[:shortDescriptionWords]
	}
	return strings.Join(words, " ") + ellipsis
}
