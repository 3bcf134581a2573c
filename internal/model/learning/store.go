package learning

// Store exposes learning-center content for HTTP handlers.
type Store interface {
	Recommendations() []Recommendation
	Resources() []Resource
	Progress() []Progress
}

// MemoryStore implements Store with in-memory slices, suitable for MVP.
type MemoryStore struct {
	recommendations []Recommendation
	resources       []Resource
	progress        []Progress
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied content.
func NewMemoryStore(recs []Recommendation, res []Resource, prog []Progress) *MemoryStore {
	return &MemoryStore{
		recommendations: append([]Recommendation(nil), recs...),
		resources:       append([]Resource(nil), res...),
		progress:        append([]Progress(nil), prog...),
	}
}

// Recommendations returns the predefined recommendation list.
func (s *MemoryStore) Recommendations() []Recommendation {
	return append([]Recommendation(nil), s.recommendations...)
}

// Resources returns the predefined resource list.
func (s *MemoryStore) Resources() []Resource {
	return append([]Resource(nil), s.resources...)
}

// Progress returns the predefined per-skill progress figures.
func (s *MemoryStore) Progress() []Progress {
	return append([]Progress(nil), s.progress...)
}

// SeedRecommendations provides the MVP default practice suggestions.
func SeedRecommendations() []Recommendation {
	return []Recommendation{
		{
			Title:         "Practice Past Tense Verbs",
			Description:   "Based on your recent conversation, let's work on irregular past tense forms.",
			Type:          TypeGrammar,
			Difficulty:    DifficultyIntermediate,
			EstimatedTime: "15 min",
		},
		{
			Title:         "Business Vocabulary",
			Description:   "Expand your professional vocabulary with common business terms.",
			Type:          TypeVocabulary,
			Difficulty:    DifficultyAdvanced,
			EstimatedTime: "20 min",
		},
		{
			Title:         "Pronunciation: TH Sounds",
			Description:   "Master the challenging 'th' sound with guided practice.",
			Type:          TypePronunciation,
			Difficulty:    DifficultyBeginner,
			EstimatedTime: "10 min",
		},
	}
}

// SeedResources provides the MVP default study materials.
func SeedResources() []Resource {
	return []Resource{
		{
			Title:       "English Grammar Fundamentals",
			Type:        ResourcePaper,
			Description: "Comprehensive guide to English grammar rules and exceptions.",
		},
		{
			Title:       "Advanced Conversation Patterns",
			Type:        ResourceExercise,
			Description: "Interactive exercises for natural conversation flow.",
		},
		{
			Title:       "Pronunciation Training Audio",
			Type:        ResourcePractice,
			Description: "Audio exercises for accent reduction and clarity.",
		},
	}
}

// SeedProgress provides the MVP default mastery figures.
func SeedProgress() []Progress {
	return []Progress{
		{Skill: "grammar", Score: 0.78},
		{Skill: "vocabulary", Score: 0.65},
		{Skill: "pronunciation", Score: 0.82},
	}
}
