package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/linguavista/backend/internal/handler/chat"
	learninghandler "github.com/linguavista/backend/internal/handler/learning"
	speechhandler "github.com/linguavista/backend/internal/handler/speech"
	"github.com/linguavista/backend/internal/handler/stream"
	middlewarePkg "github.com/linguavista/backend/internal/middleware"
	chatmodel "github.com/linguavista/backend/internal/model/chat"
	"github.com/linguavista/backend/internal/model/learning"
	chatservice "github.com/linguavista/backend/internal/service/chat"
	"github.com/linguavista/backend/internal/service/speech"
	"github.com/linguavista/backend/internal/service/tutor"
	"github.com/linguavista/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatservice.Service, tutorSvc *tutor.Service, learningStore learning.Store, transcriber speech.Transcriber) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chathandler.New(chatSvc, tutorSvc)
	learningHandler := learninghandler.New(learningStore)
	speechHandler := speechhandler.New(transcriber, tutorSvc)
	streamHandler := stream.New(tutorSvc)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		learningHandler.RegisterRoutes(api)
		speechHandler.RegisterRoutes(api)

		// SSE surface for the chat frontend: one turn per request.
		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			modality := chatmodel.ModalityText
			if r.URL.Query().Get("modality") == string(chatmodel.ModalityVoice) {
				modality = chatmodel.ModalityVoice
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage, modality); err != nil && !stream.IsClientError(err) {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
