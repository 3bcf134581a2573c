package learning

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linguavista/backend/internal/model/learning"
	"github.com/linguavista/backend/pkg/utils"
)

// Handler serves the learning-center content.
type Handler struct {
	store learning.Store
}

// New creates the learning handler.
func New(store learning.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes wires the learning-center routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/learning", func(lr chi.Router) {
		lr.Get("/recommendations", h.handleRecommendations)
		lr.Get("/resources", h.handleResources)
		lr.Get("/progress", h.handleProgress)
	})
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Recommendations())
}

func (h *Handler) handleResources(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Resources())
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Progress())
}
