package chat

import (
	"time"

	"github.com/linguavista/backend/internal/model/learning"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Valid reports whether the sender is one of the two known values.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// Modality records how the utterance entered the system.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityVoice Modality = "voice"
)

// Valid reports whether the modality is one of the two known values.
func (m Modality) Valid() bool {
	return m == ModalityText || m == ModalityVoice
}

// Message is one immutable transcript entry. The store assigns ID and
// CreatedAt on append; sender and modality never change afterwards.
// Annotation fields are empty unless the tutor attached feedback.
type Message struct {
	ID            string                          `json:"id"`
	SessionID     string                          `json:"sessionId"`
	Sender        Sender                          `json:"sender"`
	Content       string                          `json:"content"`
	Modality      Modality                        `json:"modality"`
	Corrections   []learning.GrammarCorrection    `json:"corrections,omitempty"`
	Vocabulary    []learning.VocabularyItem       `json:"vocabulary,omitempty"`
	Pronunciation *learning.PronunciationFeedback `json:"pronunciation,omitempty"`
	CreatedAt     time.Time                       `json:"createdAt"`
}
