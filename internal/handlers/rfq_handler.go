package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/rfq-service/internal/middleware"
	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/services"
	"github.com/senyabanana/rfq-service/internal/utils"
)

// RFQHandler - структура для обработки HTTP-запросов.
type RFQHandler struct {
	Service *services.RFQService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewRFQHandler создает новый экземпляр RFQHandler.
func NewRFQHandler(service *services.RFQService, logger *log.Logger, timeout time.Duration) *RFQHandler {
	return &RFQHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetRFQs обрабатывает запросы для получения ленты RFQ.
func (h *RFQHandler) GetRFQs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	rfqs, err := h.Service.ListRFQs(ctx, middleware.ActorFromContext(r.Context()), services.RFQListQuery{
		Search:   query.Get("search"),
		Material: query.Get("material"),
		Status:   query.Get("status"),
		Limit:    query.Get("limit"),
		Offset:   query.Get("offset"),
	})
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to retrieve rfqs")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, rfqs)
}

// CreateRFQ обрабатывает запросы для создания RFQ.
func (h *RFQHandler) CreateRFQ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var rfqReq models.RFQRequest
	if err := json.NewDecoder(r.Body).Decode(&rfqReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newRFQ, err := h.Service.CreateRFQ(ctx, middleware.ActorFromContext(r.Context()), rfqReq)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to create rfq")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, newRFQ)
}

// GetRFQ обрабатывает запросы для получения одного RFQ.
func (h *RFQHandler) GetRFQ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rfq, err := h.Service.GetRFQ(ctx, middleware.ActorFromContext(r.Context()), r.PathValue("rfqId"))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to retrieve rfq")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, rfq)
}

// CloseRFQ обрабатывает запросы для закрытия RFQ без победителя.
func (h *RFQHandler) CloseRFQ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	result, err := h.Service.CloseRFQ(ctx, middleware.ActorFromContext(r.Context()), r.PathValue("rfqId"))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to close rfq")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, result)
}
