package coach

import (
	"regexp"
	"strings"

	"github.com/heartmarshall/luminary-backend/internal/domain"
)

// Extractor proposes memory candidates from a completed assistant reply.
type Extractor interface {
	Extract(text string) []domain.MemoryCandidate
}

// PhraseExtractor matches preference statements such as "prefers X" up to
// the next sentence boundary. Each pattern contributes at most one candidate.
type PhraseExtractor struct {
	patterns []*regexp.Regexp
}

// NewPhraseExtractor creates the default preference extractor.
func NewPhraseExtractor() *PhraseExtractor {
	return &PhraseExtractor{patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)prefers?\s+(.+?)(?:\.|,|;|$)`),
		regexp.MustCompile(`(?i)likes?\s+(.+?)(?:\.|,|;|$)`),
		regexp.MustCompile(`(?i)enjoys?\s+(.+?)(?:\.|,|;|$)`),
		regexp.MustCompile(`(?i)doesn'?t\s+like\s+(.+?)(?:\.|,|;|$)`),
	}}
}

// Extract returns the first match of every pattern, keyed by the lower-cased
// trigger word.
func (e *PhraseExtractor) Extract(text string) []domain.MemoryCandidate {
	var out []domain.MemoryCandidate
	for _, re := range e.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			continue
		}
		out = append(out, domain.MemoryCandidate{
			Category: domain.MemoryCategoryPreference,
			Key:      strings.ToLower(strings.Fields(m[0])[0]),
			Value:    value,
		})
	}
	return out
}
