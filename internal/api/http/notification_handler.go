package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"toolshare-booking-backend/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, service.ErrUnauthorized)
		return
	}

	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}

	notes, total, err := h.notifications.List(r.Context(), userID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notes,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, service.ErrUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["notificationId"])
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid notification id"})
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), userID, int32(id)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
