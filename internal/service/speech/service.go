// Package speech holds the audio collaborators of the tutoring pipeline.
// Real recognition and synthesis live behind external services; this
// package defines the call boundaries and ships mock implementations that
// mirror the stubbed capture path of the MVP frontend.
package speech

import (
	"context"
	"errors"
	"io"
	"log"
	"time"
)

// ErrUnintelligible reports that the audio carried no recognisable speech.
var ErrUnintelligible = errors.New("audio unintelligible or silent")

// TranscribeRequest carries one captured audio buffer.
type TranscribeRequest struct {
	SessionID string    `json:"sessionId"`
	AudioData io.Reader `json:"-"`
	Format    string    `json:"format"`
	Language  string    `json:"language"`
}

// TranscribeResult is the recognised utterance text.
type TranscribeResult struct {
	SessionID  string    `json:"sessionId"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Transcriber converts captured audio into utterance text.
type Transcriber interface {
	Transcribe(ctx context.Context, req *TranscribeRequest) (*TranscribeResult, error)
}

// Speaker voices assistant replies. Implementations are best-effort and
// must never block the pipeline.
type Speaker interface {
	Speak(ctx context.Context, sessionID, text string)
}

// MockTranscriber returns a fixed phrase for any non-empty buffer, the way
// the MVP frontend stubbed speech-to-text. Empty input fails with
// ErrUnintelligible.
type MockTranscriber struct {
	Phrase string
}

// DefaultMockPhrase is the canned recognition result used when no phrase
// is configured.
const DefaultMockPhrase = "Hello, I would like to practice my English pronunciation today."

// NewMockTranscriber returns a MockTranscriber producing the given phrase,
// or DefaultMockPhrase when empty.
func NewMockTranscriber(phrase string) *MockTranscriber {
	if phrase == "" {
		phrase = DefaultMockPhrase
	}
	return &MockTranscriber{Phrase: phrase}
}

// Transcribe implements Transcriber.
func (m *MockTranscriber) Transcribe(ctx context.Context, req *TranscribeRequest) (*TranscribeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req == nil || req.AudioData == nil {
		return nil, ErrUnintelligible
	}

	buf := make([]byte, 1)
	if _, err := req.AudioData.Read(buf); err != nil {
		return nil, ErrUnintelligible
	}
	// Drain the rest; a real client streams the whole capture.
	_, _ = io.Copy(io.Discard, req.AudioData)

	return &TranscribeResult{
		SessionID:  req.SessionID,
		Text:       m.Phrase,
		Confidence: 0.94,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// LogSpeaker is the fallback Speaker: it only logs what would be voiced.
type LogSpeaker struct{}

// Speak implements Speaker.
func (LogSpeaker) Speak(_ context.Context, sessionID, text string) {
	log.Printf("[speech] speak session=%s chars=%d", sessionID, len(text))
}
