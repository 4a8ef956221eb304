package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/senyabanana/rfq-service/internal/middleware"
	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/services"
	"github.com/senyabanana/rfq-service/internal/utils"
)

// BidHandler - структура для обработки HTTP-запросов.
type BidHandler struct {
	Service *services.BidService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewBidHandler создает новый экземпляр BidHandler.
func NewBidHandler(service *services.BidService, logger *log.Logger, timeout time.Duration) *BidHandler {
	return &BidHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateBid обрабатывает запросы для подачи или обновления предложения.
func (h *BidHandler) CreateBid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var bidReq models.BidRequest
	if err := json.NewDecoder(r.Body).Decode(&bidReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newBid, err := h.Service.SubmitBid(ctx, middleware.ActorFromContext(r.Context()), bidReq)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to submit bid")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, newBid)
}

// GetUserBid обрабатывает запросы для получения списка предложений пользователя.
func (h *BidHandler) GetUserBid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}
	h.listBids(w, r, "")
}

// GetRFQBid обрабатывает запросы для получения списка предложений по RFQ.
func (h *BidHandler) GetRFQBid(w http.ResponseWriter, r *http.Request) {
	h.listBids(w, r, r.PathValue("rfqId"))
}

func (h *BidHandler) listBids(w http.ResponseWriter, r *http.Request, rfqId string) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	bids, err := h.Service.ListBids(ctx, middleware.ActorFromContext(r.Context()), rfqId, limitStr, offsetStr)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to retrieve bids")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, bids)
}

// CompareBids обрабатывает запросы для сравнения выбранных предложений.
// ID передаются повторяющимся параметром bidId или через запятую.
func (h *BidHandler) CompareBids(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var bidIds []string
	for _, value := range r.URL.Query()["bidId"] {
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				bidIds = append(bidIds, id)
			}
		}
	}

	comparison, err := h.Service.CompareBids(ctx, middleware.ActorFromContext(r.Context()), r.PathValue("rfqId"), bidIds)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to compare bids")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, comparison)
}

// AcceptBid обрабатывает запросы для принятия предложения.
func (h *BidHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	result, err := h.Service.AcceptBid(ctx, middleware.ActorFromContext(r.Context()), r.PathValue("bidId"))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to accept bid")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, result)
}

// RejectBid обрабатывает запросы для отклонения предложения.
func (h *BidHandler) RejectBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	bid, err := h.Service.RejectBid(ctx, middleware.ActorFromContext(r.Context()), r.PathValue("bidId"))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to reject bid")
		return
	}

	utils.SendJSON(w, h.Logger, http.StatusOK, bid)
}
