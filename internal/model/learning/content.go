package learning

// RecommendationType distinguishes the learning-center card kinds.
type RecommendationType string

const (
	TypeGrammar       RecommendationType = "grammar"
	TypeVocabulary    RecommendationType = "vocabulary"
	TypePronunciation RecommendationType = "pronunciation"
)

// Recommendation is a personalised practice suggestion shown in the
// learning center.
type Recommendation struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Type          RecommendationType `json:"type"`
	Difficulty    Difficulty         `json:"difficulty"`
	EstimatedTime string             `json:"estimatedTime"`
}

// ResourceType distinguishes static learning resources.
type ResourceType string

const (
	ResourcePaper    ResourceType = "paper"
	ResourceExercise ResourceType = "exercise"
	ResourcePractice ResourceType = "practice"
)

// Resource is a static study material entry.
type Resource struct {
	Title       string       `json:"title"`
	Type        ResourceType `json:"type"`
	Description string       `json:"description"`
	URL         string       `json:"url,omitempty"`
}

// Progress reports mastery of a single skill, normalised to 0..1.
type Progress struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}
