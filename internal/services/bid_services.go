package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/senyabanana/rfq-service/internal/metrics"
	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/repository"
	"github.com/senyabanana/rfq-service/internal/utils"
)

type BidService struct {
	Repo     repository.BidRepository
	RFQs     repository.RFQRepository
	Notifier *Notifier
	Logger   *log.Logger
	Now      func() time.Time
}

// NewBidService создает новый экземпляр BidService.
func NewBidService(repo repository.BidRepository, rfqs repository.RFQRepository, notifier *Notifier, logger *log.Logger) *BidService {
	return &BidService{Repo: repo, RFQs: rfqs, Notifier: notifier, Logger: logger, Now: defaultClock}
}

func validateBidRequest(req models.BidRequest) error {
	if req.RFQID == "" {
		return models.NewValidationError("rfqId is required")
	}
	if req.Price <= 0 {
		return models.NewValidationError("price must be a positive number")
	}
	if req.QuantityOffered != nil && *req.QuantityOffered <= 0 {
		return models.NewValidationError("quantity offered must be a positive number")
	}
	if req.DeliveryDate.IsZero() {
		return models.NewValidationError("delivery date is required")
	}
	for _, doc := range req.Documents {
		if strings.TrimSpace(doc.Name) == "" || doc.Size < 0 {
			return models.NewValidationError("invalid document descriptor")
		}
	}
	return nil
}

// SubmitBid подаёт предложение поставщика. Повторная подача обновляет существующее предложение.
func (s *BidService) SubmitBid(ctx context.Context, actor models.Actor, req models.BidRequest) (bid *models.Bid, err error) {
	defer func() { metrics.ObserveTransition("submit_bid", outcomeOf(err)) }()

	if actor.Role != models.SupplierRole || actor.ID == "" {
		return nil, models.NewPermissionError()
	}
	if err = validateBidRequest(req); err != nil {
		return nil, err
	}

	rfq, err := s.RFQs.GetRFQById(ctx, req.RFQID)
	if err != nil {
		return nil, mapStoreError(s.Logger, "get rfq", err)
	}
	if rfq.IsTerminal() {
		return nil, models.NewInvalidStateError()
	}
	if rfq.Expired(s.Now()) {
		return nil, models.NewDeadlinePassedError()
	}

	bid, created, err := s.Repo.UpsertBid(ctx, models.Bid{
		RFQID:           rfq.ID,
		SupplierID:      actor.ID,
		Price:           req.Price,
		QuantityOffered: req.QuantityOffered,
		DeliveryDate:    req.DeliveryDate.UTC(),
		Terms:           req.Terms,
		Documents:       req.Documents,
	})
	if err != nil {
		return nil, mapStoreError(s.Logger, "upsert bid", err)
	}

	verb := "New bid"
	if !created {
		verb = "Updated bid"
	}
	s.Notifier.Notify(ctx, []string{rfq.CreatedBy}, models.NewBidNotification,
		fmt.Sprintf("%s of %.2f on your RFQ for %s", verb, bid.Price, rfq.Material), rfq.ID)
	s.Notifier.Notify(ctx, s.Notifier.Suppliers(ctx, actor.ID), models.CompetitiveBidNotification,
		fmt.Sprintf("Another supplier bid on the RFQ for %s", rfq.Material), rfq.ID)
	return bid, nil
}

// loadForDecision получает предложение и его RFQ и проверяет, что решение принимает автор RFQ.
func (s *BidService) loadForDecision(ctx context.Context, actor models.Actor, bidId string) (*models.Bid, *models.RFQ, error) {
	bid, err := s.Repo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, nil, mapStoreError(s.Logger, "get bid", err)
	}
	rfq, err := s.RFQs.GetRFQById(ctx, bid.RFQID)
	if err != nil {
		return nil, nil, mapStoreError(s.Logger, "get rfq", err)
	}
	if actor.Role != models.CompanyRole || actor.ID == "" || rfq.CreatedBy != actor.ID {
		return nil, nil, models.NewPermissionError()
	}
	return bid, rfq, nil
}

// AcceptBid принимает предложение: остальные поданные предложения отклоняются, RFQ присуждается.
func (s *BidService) AcceptBid(ctx context.Context, actor models.Actor, bidId string) (result *models.AwardResult, err error) {
	defer func() { metrics.ObserveTransition("accept_bid", outcomeOf(err)) }()

	bid, rfq, err := s.loadForDecision(ctx, actor, bidId)
	if err != nil {
		return nil, err
	}
	if !utils.Contains(models.AllowedBidTransitions[bid.Status], models.AcceptedBid) ||
		!utils.Contains(models.AllowedRFQTransitions[rfq.Status], models.AwardedRFQ) {
		return nil, models.NewInvalidStateError()
	}

	// Проигравший в гонке за присуждение получает ErrConditionFailed.
	result, err = s.RFQs.AwardRFQ(ctx, rfq.ID, bid.ID)
	if err != nil {
		return nil, mapStoreError(s.Logger, "award rfq", err)
	}

	s.Notifier.Notify(ctx, []string{result.Accepted.SupplierID}, models.BidAcceptedNotification,
		fmt.Sprintf("Your bid on the RFQ for %s was accepted", rfq.Material), result.Accepted.ID)
	for _, rejected := range result.Rejected {
		s.Notifier.Notify(ctx, []string{rejected.SupplierID}, models.BidRejectedNotification,
			fmt.Sprintf("Your bid on the RFQ for %s was rejected", rfq.Material), rejected.ID)
	}
	return result, nil
}

// RejectBid отклоняет одно предложение. Статус RFQ не меняется.
func (s *BidService) RejectBid(ctx context.Context, actor models.Actor, bidId string) (rejected *models.Bid, err error) {
	defer func() { metrics.ObserveTransition("reject_bid", outcomeOf(err)) }()

	bid, rfq, err := s.loadForDecision(ctx, actor, bidId)
	if err != nil {
		return nil, err
	}
	if !utils.Contains(models.AllowedBidTransitions[bid.Status], models.RejectedBid) {
		return nil, models.NewInvalidStateError()
	}

	rejected, err = s.Repo.RejectBid(ctx, bid.ID)
	if err != nil {
		return nil, mapStoreError(s.Logger, "reject bid", err)
	}

	s.Notifier.Notify(ctx, []string{rejected.SupplierID}, models.BidRejectedNotification,
		fmt.Sprintf("Your bid on the RFQ for %s was rejected", rfq.Material), rejected.ID)
	return rejected, nil
}

// ListBids возвращает предложения, видимые пользователю, опционально по одному RFQ.
func (s *BidService) ListBids(ctx context.Context, actor models.Actor, rfqId, limitStr, offsetStr string) ([]models.Bid, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if actor.ID == "" || (actor.Role != models.CompanyRole && actor.Role != models.SupplierRole) {
		return nil, models.NewPermissionError()
	}

	var rfqs []models.RFQ
	filter := models.BidFilter{RFQID: rfqId}
	if actor.Role == models.CompanyRole {
		rfqs, err = s.RFQs.ListRFQs(ctx, models.RFQFilter{CreatedBy: actor.ID})
		if err != nil {
			return nil, mapStoreError(s.Logger, "list rfqs", err)
		}
		filter.RFQIDs = make([]string, 0, len(rfqs))
		for _, rfq := range rfqs {
			filter.RFQIDs = append(filter.RFQIDs, rfq.ID)
		}
	} else {
		filter.SupplierID = actor.ID
	}

	bids, err := s.Repo.ListBids(ctx, filter)
	if err != nil {
		return nil, mapStoreError(s.Logger, "list bids", err)
	}
	return utils.Paginate(VisibleBids(bids, rfqs, actor.Role, actor.ID, rfqId), limit, offset), nil
}

// CompareBids сравнивает выбранные предложения по RFQ компании: по возрастанию цены,
// с отметкой самой низкой цены и самой ранней поставки.
func (s *BidService) CompareBids(ctx context.Context, actor models.Actor, rfqId string, bidIds []string) (*models.BidComparison, error) {
	selected := make(map[string]bool, len(bidIds))
	for _, id := range bidIds {
		if id != "" {
			selected[id] = true
		}
	}
	if len(selected) < 2 {
		return nil, models.NewValidationError("please select at least 2 bids to compare")
	}

	rfq, err := s.RFQs.GetRFQById(ctx, rfqId)
	if err != nil {
		return nil, mapStoreError(s.Logger, "get rfq", err)
	}
	if actor.Role != models.CompanyRole || actor.ID == "" || rfq.CreatedBy != actor.ID {
		return nil, models.NewPermissionError()
	}

	bids, err := s.Repo.ListBids(ctx, models.BidFilter{RFQID: rfq.ID})
	if err != nil {
		return nil, mapStoreError(s.Logger, "list bids", err)
	}

	comparison := models.BidComparison{RFQID: rfq.ID, Bids: []models.Bid{}}
	for _, bid := range VisibleBids(bids, []models.RFQ{*rfq}, actor.Role, actor.ID, rfq.ID) {
		if selected[bid.ID] {
			comparison.Bids = append(comparison.Bids, bid)
		}
	}
	if len(comparison.Bids) != len(selected) {
		return nil, models.NewNotFoundError()
	}

	sort.SliceStable(comparison.Bids, func(i, j int) bool {
		return comparison.Bids[i].Price < comparison.Bids[j].Price
	})
	comparison.LowestPriceID = comparison.Bids[0].ID
	earliest := comparison.Bids[0]
	for _, bid := range comparison.Bids[1:] {
		if bid.DeliveryDate.Before(earliest.DeliveryDate) {
			earliest = bid
		}
	}
	comparison.EarliestDateID = earliest.ID
	return &comparison, nil
}
