package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"toolshare-booking-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, service.ErrUnauthorized)
		return
	}

	bookings, err := h.bookings.ListMyBookings(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, service.ErrUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["bookingId"])
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid booking id"})
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), userID, int32(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
