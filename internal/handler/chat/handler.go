package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linguavista/backend/internal/model/chat"
	chatservice "github.com/linguavista/backend/internal/service/chat"
	"github.com/linguavista/backend/internal/service/tutor"
	"github.com/linguavista/backend/pkg/utils"
)

// Handler is the HTTP surface of the conversation session.
type Handler struct {
	chatSvc  *chatservice.Service
	tutorSvc *tutor.Service
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service, tutorSvc *tutor.Service) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		tutorSvc: tutorSvc,
	}
}

// RegisterRoutes wires the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
	r.Get("/session/{sessionID}/state", h.handleGetState)
	r.Patch("/session/{sessionID}/state", h.handleUpdateState)
	r.Post("/session/{sessionID}/turn", h.handleTurn)
	r.Post("/session/{sessionID}/reset", h.handleReset)
}

// handleCreateSession provisions a fresh tutoring session.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleTranscript returns the ordered message log.
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"messages":  messages,
	})
}

// handleGetState returns the current conversation flags.
func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := h.chatSvc.State(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, state)
}

// handleUpdateState merges a partial state update, last write wins per
// field.
func (h *Handler) handleUpdateState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var update chat.StateUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if update.LearningFocus != nil && !update.LearningFocus.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "invalid learning focus")
		return
	}

	state, err := h.chatSvc.UpdateState(r.Context(), sessionID, update)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, state)
}

// handleTurn runs one full conversation turn through the tutor pipeline.
func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text     string        `json:"text"`
		Modality chat.Modality `json:"modality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Modality == "" {
		payload.Modality = chat.ModalityText
	}

	turn, err := h.tutorSvc.SubmitUtterance(r.Context(), sessionID, payload.Text, payload.Modality)
	switch {
	case err == nil:
		utils.RespondJSON(w, http.StatusOK, turn)
	case errors.Is(err, tutor.ErrEmptyUtterance), errors.Is(err, chatservice.ErrInvalidModality):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chatservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tutor.ErrGeneration), errors.Is(err, tutor.ErrTurnDiscarded):
		// The user message survives; the assistant turn is missing and the
		// client may retry or surface a neutral notice.
		utils.RespondJSON(w, http.StatusBadGateway, map[string]any{
			"error": err.Error(),
			"user":  turn.User,
		})
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleReset clears the transcript and restores default state.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.tutorSvc.Reset(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
