package speech

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/linguavista/backend/internal/model/chat"
	"github.com/linguavista/backend/internal/service/speech"
	"github.com/linguavista/backend/internal/service/tutor"
	"github.com/linguavista/backend/pkg/utils"
)

// Handler is the HTTP surface of the voice path: captured audio goes in,
// an annotated conversation turn comes out.
type Handler struct {
	transcriber speech.Transcriber
	tutorSvc    *tutor.Service
}

// New creates the speech handler.
func New(transcriber speech.Transcriber, tutorSvc *tutor.Service) *Handler {
	return &Handler{
		transcriber: transcriber,
		tutorSvc:    tutorSvc,
	}
}

// RegisterRoutes wires the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/speech", func(sr chi.Router) {
		sr.Post("/turn/{sessionID}", h.handleVoiceTurn)
		sr.Get("/health", h.handleHealth)

		wsHandler := NewWebSocketHandler(h.transcriber, h.tutorSvc)
		wsHandler.RegisterWebSocketRoutes(sr)
	})
}

// handleVoiceTurn transcribes the uploaded audio and runs a full tutor
// turn with voice modality.
func (h *Handler) handleVoiceTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	language := r.FormValue("language")
	if language == "" {
		language = "en-US"
	}

	result, err := h.transcriber.Transcribe(r.Context(), &speech.TranscribeRequest{
		SessionID: sessionID,
		AudioData: file,
		Format:    inferAudioFormat(header.Filename),
		Language:  language,
	})
	if err != nil {
		if errors.Is(err, speech.ErrUnintelligible) {
			utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("[speech] transcription error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "speech recognition failed")
		return
	}

	turn, err := h.tutorSvc.SubmitUtterance(r.Context(), sessionID, result.Text, chat.ModalityVoice)
	switch {
	case err == nil:
		utils.RespondJSON(w, http.StatusOK, turn)
	case errors.Is(err, tutor.ErrGeneration):
		utils.RespondJSON(w, http.StatusBadGateway, map[string]any{
			"error": err.Error(),
			"user":  turn.User,
		})
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleHealth is the speech subsystem health probe.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "speech",
	})
}

// inferAudioFormat derives the audio format from the uploaded filename.
func inferAudioFormat(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp3":
		return "mp3"
	case ".wav":
		return "wav"
	case ".webm":
		return "webm"
	case ".m4a":
		return "m4a"
	default:
		return "wav"
	}
}
