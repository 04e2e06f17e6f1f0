package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/service"
)

type DraftHandler struct {
	drafts   service.DraftService
	validate *validator.Validate
}

func NewDraftHandler(drafts service.DraftService, validate *validator.Validate) *DraftHandler {
	return &DraftHandler{drafts: drafts, validate: validate}
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	toolID, ok := toolIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid tool id"})
		return
	}
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, service.ErrUnauthorized)
		return
	}

	draft, err := h.drafts.Load(r.Context(), toolID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// updateDraftRequest applies partial edits. Dates use calendar-day
// precision; a field left nil is not touched.
type updateDraftRequest struct {
	StartDate     *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	PickupHour    *int32  `json:"pickup_hour" validate:"omitempty,min=0,max=23"`
	Message       *string `json:"message" validate:"omitempty,max=500"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=card google_pay apple_pay"`
}

func (h *DraftHandler) Update(w http.ResponseWriter, r *http.Request) {
	toolID, ok := toolIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid tool id"})
		return
	}
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, service.ErrUnauthorized)
		return
	}

	var req updateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "validation", Message: err.Error()})
		return
	}

	// Start date is applied before end date so a range submitted in one
	// request is validated against the new start.
	draft, err := h.drafts.Load(r.Context(), toolID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.StartDate != nil {
		date, _ := time.Parse("2006-01-02", *req.StartDate)
		if draft, err = h.drafts.SetStartDate(r.Context(), toolID, userID, date); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.EndDate != nil {
		date, _ := time.Parse("2006-01-02", *req.EndDate)
		if draft, err = h.drafts.SetEndDate(r.Context(), toolID, userID, date); err != nil {
			writeError(w, err)
			return
		}
	}

	if req.PickupHour != nil || req.Message != nil || req.PaymentMethod != nil {
		pickupHour := draft.PickupHour
		if req.PickupHour != nil {
			pickupHour = *req.PickupHour
		}
		message := draft.Message
		if req.Message != nil {
			message = *req.Message
		}
		method := draft.PaymentMethod
		if req.PaymentMethod != nil {
			method = domain.PaymentMethod(*req.PaymentMethod)
		}
		if draft, err = h.drafts.UpdateDetails(r.Context(), toolID, userID, pickupHour, message, method); err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, draft)
}

func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	toolID, ok := toolIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid tool id"})
		return
	}
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, service.ErrUnauthorized)
		return
	}

	if err := h.drafts.Clear(r.Context(), toolID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
