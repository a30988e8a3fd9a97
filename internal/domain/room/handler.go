package room

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stayhub/stayhub-api/internal/pkg/errorhandler"
	"github.com/stayhub/stayhub-api/internal/pkg/response"
)

// Handler handles room HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates room handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetByID handles GET /rooms/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	room, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.Error(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	response.OK(w, room)
}

// Routes returns room router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.GetByID)
	return r
}
