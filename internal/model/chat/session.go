package chat

import "time"

// LearningFocus selects which skill the tutor emphasises for a session.
type LearningFocus string

const (
	FocusGrammar       LearningFocus = "grammar"
	FocusVocabulary    LearningFocus = "vocabulary"
	FocusPronunciation LearningFocus = "pronunciation"
	FocusConversation  LearningFocus = "conversation"
)

// Valid reports whether the focus is one of the four known values.
func (f LearningFocus) Valid() bool {
	switch f {
	case FocusGrammar, FocusVocabulary, FocusPronunciation, FocusConversation:
		return true
	}
	return false
}

// ConversationState holds the UI-affecting flags owned by a session.
type ConversationState struct {
	IsListening   bool          `json:"isListening"`
	IsFullscreen  bool          `json:"isFullscreen"`
	IsMuted       bool          `json:"isMuted"`
	CurrentTopic  string        `json:"currentTopic"`
	LearningFocus LearningFocus `json:"learningFocus"`
}

// DefaultState returns the state a fresh or reset session starts with.
func DefaultState() ConversationState {
	return ConversationState{
		CurrentTopic:  "general",
		LearningFocus: FocusConversation,
	}
}

// StateUpdate is a partial ConversationState. Nil fields are left
// untouched; set fields win over the current value.
type StateUpdate struct {
	IsListening   *bool          `json:"isListening,omitempty"`
	IsFullscreen  *bool          `json:"isFullscreen,omitempty"`
	IsMuted       *bool          `json:"isMuted,omitempty"`
	CurrentTopic  *string        `json:"currentTopic,omitempty"`
	LearningFocus *LearningFocus `json:"learningFocus,omitempty"`
}

// Apply merges the update into state, field by field.
func (u StateUpdate) Apply(state ConversationState) ConversationState {
	if u.IsListening != nil {
		state.IsListening = *u.IsListening
	}
	if u.IsFullscreen != nil {
		state.IsFullscreen = *u.IsFullscreen
	}
	if u.IsMuted != nil {
		state.IsMuted = *u.IsMuted
	}
	if u.CurrentTopic != nil {
		state.CurrentTopic = *u.CurrentTopic
	}
	if u.LearningFocus != nil {
		state.LearningFocus = *u.LearningFocus
	}
	return state
}

// Session captures one transient tutoring conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
