// Package tutor orchestrates one conversation turn: gate the utterance,
// obtain an annotated reply, and append both sides to the transcript.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/linguavista/backend/internal/analysis/feedback"
	"github.com/linguavista/backend/internal/analysis/topic"
	"github.com/linguavista/backend/internal/model/chat"
	chatservice "github.com/linguavista/backend/internal/service/chat"
	"github.com/linguavista/backend/internal/service/speech"
)

var (
	ErrEmptyUtterance = errors.New("utterance is empty")
	ErrGeneration     = errors.New("assistant reply generation failed")
	ErrTurnDiscarded  = errors.New("turn discarded by session reset")
)

// RedirectReply is returned verbatim for out-of-domain utterances.
const RedirectReply = "I'm here to help you learn English! Let's focus on improving your grammar, vocabulary, pronunciation, or conversation skills. What would you like to practice today?"

// TurnContext is the session context handed to the reply generator.
type TurnContext struct {
	SessionID string
	Focus     chat.LearningFocus
	Topic     string
	History   []chat.Message
	Spoken    bool
}

// Generator produces an annotated reply for an in-domain utterance. The
// call must respect ctx; the service bounds it with a timeout.
type Generator interface {
	Generate(ctx context.Context, utterance string, turn TurnContext) (*feedback.Result, error)
}

// heuristicGenerator answers from the fixed pattern triggers. It is the
// default when no language model is configured and never fails.
type heuristicGenerator struct{}

// NewHeuristicGenerator returns the pattern-trigger generator.
func NewHeuristicGenerator() Generator {
	return heuristicGenerator{}
}

func (heuristicGenerator) Generate(ctx context.Context, utterance string, turn TurnContext) (*feedback.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := feedback.Analyze(utterance, turn.Spoken)
	return &result, nil
}

// Turn is the transcript delta of one SubmitUtterance call. Assistant is
// nil when generation failed and only the user message was appended.
type Turn struct {
	User      *chat.Message `json:"user"`
	Assistant *chat.Message `json:"assistant,omitempty"`
}

type sessionRuntime struct {
	// turnMu serialises turns per session: a second SubmitUtterance waits
	// until the prior pipeline call has settled.
	turnMu sync.Mutex
	// epoch and cancel are guarded by Service.mu.
	epoch  uint64
	cancel context.CancelFunc
}

// Service runs the annotation pipeline over the conversation store.
type Service struct {
	chatSvc *chatservice.Service
	gate    *topic.Gate
	gen     Generator
	speaker speech.Speaker
	timeout time.Duration

	mu       sync.Mutex
	runtimes map[string]*sessionRuntime
}

// NewService wires the pipeline. speaker may be nil; timeout bounds every
// generator call.
func NewService(chatSvc *chatservice.Service, gate *topic.Gate, gen Generator, speaker speech.Speaker, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		chatSvc:  chatSvc,
		gate:     gate,
		gen:      gen,
		speaker:  speaker,
		timeout:  timeout,
		runtimes: make(map[string]*sessionRuntime),
	}
}

func (s *Service) runtime(sessionID string) *sessionRuntime {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.runtimes[sessionID]
	if !ok {
		rt = &sessionRuntime{}
		s.runtimes[sessionID] = rt
	}
	return rt
}

// SubmitUtterance appends the user message, runs the pipeline and appends
// the assistant reply. On generation failure or timeout the user message
// stays appended, no assistant message is written and the error is
// returned alongside the partial Turn.
func (s *Service) SubmitUtterance(ctx context.Context, sessionID, text string, modality chat.Modality) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyUtterance
	}
	if !modality.Valid() {
		return Turn{}, chatservice.ErrInvalidModality
	}
	if _, err := s.chatSvc.GetSession(ctx, sessionID); err != nil {
		return Turn{}, err
	}

	rt := s.runtime(sessionID)
	rt.turnMu.Lock()
	defer rt.turnMu.Unlock()

	s.mu.Lock()
	epoch := rt.epoch
	s.mu.Unlock()

	state, err := s.chatSvc.State(ctx, sessionID)
	if err != nil {
		return Turn{}, err
	}
	history, err := s.chatSvc.Transcript(ctx, sessionID)
	if err != nil {
		return Turn{}, err
	}

	userMsg, err := s.chatSvc.AppendMessage(ctx, chat.Message{
		SessionID: sessionID,
		Sender:    chat.SenderUser,
		Content:   text,
		Modality:  modality,
	})
	if err != nil {
		return Turn{}, err
	}

	var result *feedback.Result
	if !s.gate.Classify(text) {
		result = &feedback.Result{Content: RedirectReply}
	} else {
		result, err = s.generate(ctx, rt, text, TurnContext{
			SessionID: sessionID,
			Focus:     state.LearningFocus,
			Topic:     state.CurrentTopic,
			History:   history,
			Spoken:    modality == chat.ModalityVoice,
		})
		if err != nil {
			log.Printf("[tutor] generation failed session=%s: %v", sessionID, err)
			return Turn{User: &userMsg}, fmt.Errorf("%w: %v", ErrGeneration, err)
		}
	}

	// The epoch check and the append happen under one lock so a reset can
	// never interleave between them.
	s.mu.Lock()
	if rt.epoch != epoch {
		s.mu.Unlock()
		return Turn{User: &userMsg}, ErrTurnDiscarded
	}
	assistantMsg, err := s.chatSvc.AppendMessage(ctx, chat.Message{
		SessionID:     sessionID,
		Sender:        chat.SenderAssistant,
		Content:       result.Content,
		Modality:      chat.ModalityText,
		Corrections:   result.Corrections,
		Vocabulary:    result.Vocabulary,
		Pronunciation: result.Pronunciation,
	})
	s.mu.Unlock()
	if err != nil {
		return Turn{User: &userMsg}, err
	}

	if s.speaker != nil && !state.IsMuted {
		go s.speaker.Speak(context.WithoutCancel(ctx), sessionID, assistantMsg.Content)
	}

	return Turn{User: &userMsg, Assistant: &assistantMsg}, nil
}

func (s *Service) generate(ctx context.Context, rt *sessionRuntime, text string, turn TurnContext) (*feedback.Result, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.mu.Lock()
	rt.cancel = cancel
	s.mu.Unlock()

	result, err := s.gen.Generate(genCtx, text, turn)

	s.mu.Lock()
	rt.cancel = nil
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if result == nil || strings.TrimSpace(result.Content) == "" {
		return nil, errors.New("generator returned empty reply")
	}
	return result, nil
}

// Reset cancels any outstanding generator call for the session, discards
// its result and clears transcript and state. It never waits for the
// in-flight turn.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	if rt, ok := s.runtimes[sessionID]; ok {
		rt.epoch++
		if rt.cancel != nil {
			rt.cancel()
			rt.cancel = nil
		}
	}
	err := s.chatSvc.Reset(ctx, sessionID)
	s.mu.Unlock()
	return err
}
