package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/rfq-service/internal/middleware"
	"github.com/senyabanana/rfq-service/internal/services"
	"github.com/senyabanana/rfq-service/internal/utils"
)

// NotificationHandler - структура для обработки HTTP-запросов.
type NotificationHandler struct {
	Service *services.NotificationService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewNotificationHandler создает новый экземпляр NotificationHandler.
func NewNotificationHandler(service *services.NotificationService, logger *log.Logger, timeout time.Duration) *NotificationHandler {
	return &NotificationHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

type markedResponse struct {
	Marked int `json:"marked"`
}

// GetNotifications обрабатывает запросы для получения уведомлений пользователя.
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	list, err := h.Service.List(ctx, middleware.ActorFromContext(r.Context()), r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to retrieve notifications")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, list)
}

// MarkRead обрабатывает запросы для отметки одного уведомления.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.MarkRead(ctx, middleware.ActorFromContext(r.Context()), r.PathValue("notificationId")); err != nil {
		sendServiceError(w, h.Logger, err, "failed to mark notification")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, markedResponse{Marked: 1})
}

// MarkAllRead обрабатывает запросы для отметки всех уведомлений пользователя.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	count, err := h.Service.MarkAllRead(ctx, middleware.ActorFromContext(r.Context()))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to mark notifications")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, markedResponse{Marked: count})
}

// MarkRelatedRead обрабатывает запросы для отметки уведомлений по открытому RFQ.
func (h *NotificationHandler) MarkRelatedRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	count, err := h.Service.MarkRelatedRead(ctx, middleware.ActorFromContext(r.Context()), r.PathValue("relatedId"))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to mark notifications")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, markedResponse{Marked: count})
}
