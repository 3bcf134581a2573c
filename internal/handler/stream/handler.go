package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	chatmodel "github.com/linguavista/backend/internal/model/chat"
	"github.com/linguavista/backend/internal/service/tutor"
	"github.com/linguavista/backend/pkg/utils"
)

// Handler pushes tutor turns over Server-Sent Events so the chat surface
// stays responsive while the generator call is pending.
type Handler struct {
	tutorSvc *tutor.Service
}

// New creates a new stream handler.
func New(tutorSvc *tutor.Service) *Handler {
	return &Handler{tutorSvc: tutorSvc}
}

// StreamEvent is one SSE frame of a tutor turn.
type StreamEvent struct {
	Event     string             `json:"event"`
	SessionID string             `json:"sessionId,omitempty"`
	Message   *chatmodel.Message `json:"message,omitempty"`
	Error     string             `json:"error,omitempty"`
	Finished  bool               `json:"finished,omitempty"`
}

// HandleStreamRequest runs one turn and emits start / user / message /
// end events; a generation failure becomes an error event after the user
// frame, matching the partial-turn contract.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string, modality chatmodel.Modality) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	h.sendEvent(w, flusher, StreamEvent{
		Event:     "start",
		SessionID: sessionID,
	})

	turn, err := h.tutorSvc.SubmitUtterance(ctx, sessionID, userMessage, modality)
	if turn.User != nil {
		h.sendEvent(w, flusher, StreamEvent{
			Event:     "user",
			SessionID: sessionID,
			Message:   turn.User,
		})
	}

	if err != nil {
		h.sendEvent(w, flusher, StreamEvent{
			Event:     "error",
			SessionID: sessionID,
			Error:     err.Error(),
		})
		return err
	}

	h.sendEvent(w, flusher, StreamEvent{
		Event:     "message",
		SessionID: sessionID,
		Message:   turn.Assistant,
	})

	h.sendEvent(w, flusher, StreamEvent{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed turn for session=%s", sessionID)
	return nil
}

func (h *Handler) sendEvent(w http.ResponseWriter, flusher http.Flusher, event StreamEvent) {
	utils.SendSSEChunk(w, flusher, event)
}

// IsClientError reports whether the turn failure was caused by the
// request rather than the pipeline.
func IsClientError(err error) bool {
	return errors.Is(err, tutor.ErrEmptyUtterance)
}
