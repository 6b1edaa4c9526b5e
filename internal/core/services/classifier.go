package services

import (
	"strings"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// interrogatives are question openers that mark a query as
// natural-language when followed by a space or "'s ".
var interrogatives = []string{
	"what", "who", "when", "where", "which", "why",
	"how", "can", "does", "is", "are",
}

// conversationalPhrases mark a query as natural-language wherever they
// appear in the text.
var conversationalPhrases = []string{
	"tell me", "show me", "find", "search for", "looking for",
}

// classifyQuery decides whether a query reads as a natural-language
// question (suited to semantic search) or a keyword phrase (suited to
// lexical matching). All checks are case-insensitive. The heuristic is
// deliberately approximate; a misclassified query still gets correct
// results via the lexical fallback.
func classifyQuery(query string) domain.QueryKind {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.QueryKeyword
	}

	if strings.HasSuffix(q, "?") {
		return domain.QueryNaturalLanguage
	}

	for _, word := range interrogatives {
		if strings.HasPrefix(q, word+" ") || strings.HasPrefix(q, word+"'s ") {
			return domain.QueryNaturalLanguage
		}
	}

	for _, phrase := range conversationalPhrases {
		if strings.Contains(q, phrase) {
			return domain.QueryNaturalLanguage
		}
	}

	return domain.QueryKeyword
}
