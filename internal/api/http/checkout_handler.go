package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"toolshare-booking-backend/internal/payment"
	"toolshare-booking-backend/internal/service"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	validate *validator.Validate
}

func NewCheckoutHandler(checkout service.CheckoutService, validate *validator.Validate) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, validate: validate}
}

type submitRequest struct {
	CardholderName  string `json:"cardholder_name" validate:"omitempty,max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	DisplayCurrency string `json:"display_currency" validate:"omitempty,len=3"`
	DisplayAmount   string `json:"display_amount" validate:"omitempty,max=32"`
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
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

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "validation", Message: err.Error()})
		return
	}

	result, err := h.checkout.Submit(r.Context(), toolID, userID, service.CheckoutRequest{
		Billing: payment.BillingDetails{
			Name:  req.CardholderName,
			Email: req.Email,
		},
		DisplayCurrency: req.DisplayCurrency,
		DisplayAmount:   req.DisplayAmount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state": h.checkout.State(toolID, userID),
	})
}

func (h *CheckoutHandler) CancelChallenge(w http.ResponseWriter, r *http.Request) {
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

	if !h.checkout.CancelChallenge(toolID, userID) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: "no challenge in progress"})
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
