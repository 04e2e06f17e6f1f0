package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"toolshare-booking-backend/internal/service"
)

// ToolHandler serves the read side of the booking surface: tool details,
// raw bookings, the resolved availability calendar, and pricing quotes.
type ToolHandler struct {
	bookings service.BookingService
	pricing  service.PricingService
	validate *validator.Validate
}

func NewToolHandler(bookings service.BookingService, pricing service.PricingService, validate *validator.Validate) *ToolHandler {
	return &ToolHandler{bookings: bookings, pricing: pricing, validate: validate}
}

func toolIDFrom(r *http.Request) (int32, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["toolId"])
	if err != nil || id < 1 {
		return 0, false
	}
	return int32(id), true
}

func (h *ToolHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	toolID, ok := toolIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid tool id"})
		return
	}

	tool, err := h.bookings.GetTool(r.Context(), toolID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) ListToolBookings(w http.ResponseWriter, r *http.Request) {
	toolID, ok := toolIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid tool id"})
		return
	}

	bookings, err := h.bookings.ListToolBookings(r.Context(), toolID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

type availabilityResponse struct {
	Unavailable []string `json:"unavailable_dates"`
	Confirmed   []string `json:"confirmed_dates"`
	Pending     []string `json:"pending_dates"`
	InProgress  []string `json:"in_progress_dates"`
}

func (h *ToolHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	toolID, ok := toolIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid tool id"})
		return
	}

	cal, err := h.bookings.GetToolAvailability(r.Context(), toolID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, availabilityResponse{
		Unavailable: cal.UnavailableDates(),
		Confirmed:   cal.ConfirmedDates(),
		Pending:     cal.PendingDates(),
		InProgress:  cal.InProgressDates(),
	})
}

type quoteRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (h *ToolHandler) Quote(w http.ResponseWriter, r *http.Request) {
	toolID, ok := toolIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid tool id"})
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "validation", Message: err.Error()})
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if end.Before(start) {
		writeError(w, service.ErrStartAfterEnd)
		return
	}

	tool, err := h.bookings.GetTool(r.Context(), toolID)
	if err != nil {
		writeError(w, err)
		return
	}

	quote, err := h.pricing.Quote(r.Context(), tool, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
