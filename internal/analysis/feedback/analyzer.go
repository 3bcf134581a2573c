// Package feedback derives tutoring annotations from an utterance using
// fixed pattern triggers. It stands in for a real NLU service and doubles
// as the fallback when no language model is configured.
package feedback

import (
	"strings"

	"github.com/linguavista/backend/internal/model/learning"
)

// Result is one annotated tutor reply: the response text plus whatever
// corrections, vocabulary suggestions and pronunciation feedback the
// analysis produced. Slices stay nil when nothing triggered.
type Result struct {
	Content       string                          `json:"content"`
	Corrections   []learning.GrammarCorrection    `json:"corrections,omitempty"`
	Vocabulary    []learning.VocabularyItem       `json:"vocabulary,omitempty"`
	Pronunciation *learning.PronunciationFeedback `json:"pronunciation,omitempty"`
}

// Analyze scans the utterance for the known trigger patterns and composes
// a templated reply. spoken selects the extra pronunciation check applied
// to voice turns.
func Analyze(utterance string, spoken bool) Result {
	result := Result{}
	lower := strings.ToLower(utterance)

	if strings.Contains(utterance, "I are") {
		result.Corrections = append(result.Corrections, learning.GrammarCorrection{
			Original:    "I are",
			Corrected:   "I am",
			Explanation: `Use "am" with the pronoun "I"`,
			Rule:        "Subject-verb agreement",
		})
	}

	if strings.Contains(lower, "good") {
		result.Vocabulary = append(result.Vocabulary, learning.VocabularyItem{
			Word:       "excellent",
			Definition: "extremely good; outstanding",
			Example:    "Your pronunciation is excellent!",
			Difficulty: learning.DifficultyIntermediate,
		})
	}

	if spoken && strings.Contains(lower, "pronounce") {
		result.Pronunciation = &learning.PronunciationFeedback{
			Word:     "pronunciation",
			Accuracy: 0.82,
			Suggestions: []string{
				"Stress the third syllable: pro-nun-ci-A-tion.",
				"Keep the first vowel short, as in 'nun', not 'noun'.",
			},
			Phonetic: "/prəˌnʌn.siˈeɪ.ʃən/",
		}
	}

	result.Content = composeReply(lower)
	return result
}

// composeReply templates the response text, acknowledging grammar questions
// specifically and encouraging everything else.
func composeReply(lowerUtterance string) string {
	middle := "Keep practicing - you're doing well!"
	if strings.Contains(lowerUtterance, "grammar") {
		middle = "Grammar is fundamental to clear communication."
	}
	return "Great question! Let me help you with that. " + middle + " Would you like to practice more examples?"
}
