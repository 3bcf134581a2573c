package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linguavista/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSender   = errors.New("invalid message sender")
	ErrInvalidModality = errors.New("invalid message modality")
)

type sessionRecord struct {
	session  chat.Session
	state    chat.ConversationState
	messages []chat.Message
	lastAt   time.Time
}

// Service owns all conversation state: an append-only message log and the
// UI flags for each active session. Message growth is unbounded for the
// lifetime of a session; callers are expected to reset when a session ends.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
}

// NewService bootstraps the in-memory conversation store.
func NewService() *Service {
	return &Service{sessions: make(map[string]*sessionRecord)}
}

// CreateSession provisions an anonymous tutoring session with default state.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionRecord{
		session:  session,
		state:    chat.DefaultState(),
		messages: make([]chat.Message, 0, 16),
	}
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return rec.session, nil
}

// AppendMessage assigns an identifier and timestamp to the candidate and
// stores it at the end of the session transcript. Timestamps never move
// backwards within a session, even if the wall clock does.
func (s *Service) AppendMessage(_ context.Context, message chat.Message) (chat.Message, error) {
	if !message.Sender.Valid() {
		return chat.Message{}, ErrInvalidSender
	}
	if !message.Modality.Valid() {
		return chat.Message{}, ErrInvalidModality
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[message.SessionID]
	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	message.ID = uuid.NewString()
	now := time.Now().UTC()
	if now.Before(rec.lastAt) {
		now = rec.lastAt
	}
	message.CreatedAt = now
	rec.lastAt = now

	rec.messages = append(rec.messages, message)
	return message, nil
}

// Transcript returns a copy of the stored messages for the session, in
// append order.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(rec.messages))
	copy(copied, rec.messages)
	return copied, nil
}

// State returns the current conversation flags for the session.
func (s *Service) State(_ context.Context, sessionID string) (chat.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return chat.ConversationState{}, ErrSessionNotFound
	}
	return rec.state, nil
}

// UpdateState merges the partial update into the session state and returns
// the result. Each set field wins over the current value.
func (s *Service) UpdateState(_ context.Context, sessionID string, update chat.StateUpdate) (chat.ConversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return chat.ConversationState{}, ErrSessionNotFound
	}

	rec.state = update.Apply(rec.state)
	return rec.state, nil
}

// Reset empties the transcript and restores default state. Calling it on
// an already-reset session leaves it unchanged.
func (s *Service) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	rec.messages = make([]chat.Message, 0, 16)
	rec.state = chat.DefaultState()
	return nil
}
