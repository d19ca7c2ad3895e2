package http

import (
	"net/http"
	"strconv"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/notification"
	"github.com/aventuratime/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type NotificationHandler interface {
	ListUnread(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	ListProcessingErrors(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifications notification.NotificationRepository
}

func NewNotificationHandler(notifications notification.NotificationRepository) NotificationHandler {
	return &notificationHandlerImpl{notifications: notifications}
}

// ListUnread implements NotificationHandler.
func (h *notificationHandlerImpl) ListUnread(w http.ResponseWriter, r *http.Request) {
	items, err := h.notifications.ListUnread(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

// ListByEmployee implements NotificationHandler.
func (h *notificationHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	attendanceID := chi.URLParam(r, "attendanceID")

	items, err := h.notifications.ListByAttendanceID(r.Context(), attendanceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

// MarkRead implements NotificationHandler.
func (h *notificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid notification id", nil)
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification marked as read", nil)
}

// ListProcessingErrors implements NotificationHandler.
func (h *notificationHandlerImpl) ListProcessingErrors(w http.ResponseWriter, r *http.Request) {
	items, err := h.notifications.ListProcessingErrors(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}
