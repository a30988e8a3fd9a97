package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stayhub/stayhub-api/internal/middleware"
	"github.com/stayhub/stayhub-api/internal/pkg/errorhandler"
	"github.com/stayhub/stayhub-api/internal/pkg/response"
	"github.com/stayhub/stayhub-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == 0 {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	b, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Created(w, NewBookingResponse(b, h.service.Policy().Location))
}

// Quote handles POST /bookings/quote
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == 0 {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	candidate, err := h.service.Quote(r.Context(), userID, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.OK(w, NewQuoteResponse(candidate, req.CheckInDate.DaysUntil(req.CheckOutDate)))
}

// ListMine handles GET /bookings
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == 0 {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	bookings, total, err := h.service.ListMine(r.Context(), userID, page, limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	loc := h.service.Policy().Location
	items := make([]BookingResponse, len(bookings))
	for i := range bookings {
		items[i] = NewBookingResponse(&bookings[i], loc)
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Cancel handles DELETE /bookings/{id}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == 0 {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.Cancel(r.Context(), userID, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.OK(w, NewBookingResponse(b, h.service.Policy().Location))
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (BookingRequest, bool) {
	var body CreateBookingRequest
	if err := response.DecodeJSON(r.Body, &body); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return BookingRequest{}, false
	}

	if errs := validator.Validate(&body); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return BookingRequest{}, false
	}

	req, err := body.ToBookingRequest()
	if err != nil {
		response.BadRequest(w, err.Error())
		return BookingRequest{}, false
	}
	return req, true
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var booked *RoomAlreadyBookedError
	switch {
	case errors.As(err, &booked):
		response.ErrorWithExtras(w, http.StatusConflict, "ROOM_ALREADY_BOOKED", "Room is already booked for these dates",
			booked.Details(), map[string]interface{}{"conflicts": booked.Conflicts})
	case errors.Is(err, ErrRentalPeriod):
		errorhandler.HandleErrorWithDetails(ctx, w, http.StatusBadRequest, "RENTAL_PERIOD_INVALID", err.Error(), detailsOf(err), nil)
	case errors.Is(err, ErrRoomCapacity):
		errorhandler.HandleErrorWithDetails(ctx, w, http.StatusBadRequest, "ROOM_CAPACITY_EXCEEDED", err.Error(), detailsOf(err), nil)
	case errors.Is(err, ErrRoomNotFound):
		response.Error(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
	case errors.Is(err, ErrItemNotExists):
		response.Error(w, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrItemNotBelongUser):
		// The owner id is not disclosed.
		response.Error(w, http.StatusForbidden, "BOOKING_NOT_OWNED", "Booking belongs to another user")
	case errors.Is(err, ErrDeletionTimeEnded):
		response.ErrorWithDetails(w, http.StatusConflict, "CANCELLATION_WINDOW_CLOSED", "Booking can no longer be cancelled", detailsOf(err))
	default:
		errorhandler.HandleError(ctx, w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
}

func detailsOf(err error) map[string]string {
	if de, ok := AsDomainError(err); ok {
		return de.Details()
	}
	return nil
}
