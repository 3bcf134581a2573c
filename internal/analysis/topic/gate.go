package topic

import "strings"

// domainKeywords is the allow-list of terms that mark an utterance as
// language-learning related. Matching is substring based, so false
// negatives are expected; the gate is advisory, not safety-critical.
var domainKeywords = []string{
	"grammar", "vocabulary", "pronunciation", "english", "learn", "practice",
	"speak", "write", "read", "listen", "conversation", "word", "sentence",
	"tense", "verb", "noun", "adjective", "adverb", "preposition", "article",
	"meaning", "definition", "example", "correct", "mistake", "error",
	"improve", "better", "help", "teach", "explain", "understand",
}

// domainPhrases catch common learner questions that carry none of the
// keywords above.
var domainPhrases = []string{
	"how do you say",
	"what does",
	"is this correct",
}

// Gate classifies whether an utterance belongs to the tutoring domain.
type Gate struct {
	keywords []string
	phrases  []string
}

// NewGate returns a gate with the default keyword and phrase sets.
func NewGate() *Gate {
	return &Gate{keywords: domainKeywords, phrases: domainPhrases}
}

// Classify reports whether the utterance is in-domain. The check is
// case-insensitive and deterministic; an empty utterance never matches.
func (g *Gate) Classify(utterance string) bool {
	normalized := strings.ToLower(strings.TrimSpace(utterance))
	if normalized == "" {
		return false
	}

	for _, keyword := range g.keywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}

	for _, phrase := range g.phrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}

	return false
}
