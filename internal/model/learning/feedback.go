package learning

// Difficulty grades learning material and vocabulary suggestions.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// GrammarCorrection points out a faulty span and its fix.
type GrammarCorrection struct {
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
	Rule        string `json:"rule"`
}

// VocabularyItem suggests a stronger word for something the learner said.
type VocabularyItem struct {
	Word       string     `json:"word"`
	Definition string     `json:"definition"`
	Example    string     `json:"example"`
	Difficulty Difficulty `json:"difficulty"`
}

// PronunciationFeedback scores a spoken word. Accuracy is normalised to
// the 0..1 range.
type PronunciationFeedback struct {
	Word        string   `json:"word"`
	Accuracy    float64  `json:"accuracy"`
	Suggestions []string `json:"suggestions"`
	Phonetic    string   `json:"phonetic"`
}
