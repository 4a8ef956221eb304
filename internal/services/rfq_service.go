package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/senyabanana/rfq-service/internal/metrics"
	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/repository"
	"github.com/senyabanana/rfq-service/internal/utils"
)

// RFQListQuery - параметры ленты RFQ.
type RFQListQuery struct {
	Search   string
	Material string
	Status   string
	Limit    string
	Offset   string
}

type RFQService struct {
	Repo     repository.RFQRepository
	Notifier *Notifier
	Logger   *log.Logger
	Now      func() time.Time
}

// NewRFQService создаёт новый экземпляр RFQService.
func NewRFQService(repo repository.RFQRepository, notifier *Notifier, logger *log.Logger) *RFQService {
	return &RFQService{Repo: repo, Notifier: notifier, Logger: logger, Now: defaultClock}
}

func validateRFQRequest(req models.RFQRequest) error {
	if strings.TrimSpace(req.Material) == "" {
		return models.NewValidationError("material name is required")
	}
	if req.Quantity <= 0 {
		return models.NewValidationError("valid quantity is required")
	}
	if strings.TrimSpace(req.DeliveryLocation) == "" {
		return models.NewValidationError("delivery location is required")
	}
	if req.Deadline.IsZero() {
		return models.NewValidationError("deadline is required")
	}
	if req.ExpectedPrice != nil && *req.ExpectedPrice < 0 {
		return models.NewValidationError("expected price must not be negative")
	}
	return nil
}

// CreateRFQ создает новый RFQ от имени компании и оповещает поставщиков.
func (s *RFQService) CreateRFQ(ctx context.Context, actor models.Actor, req models.RFQRequest) (rfq *models.RFQ, err error) {
	defer func() { metrics.ObserveTransition("create_rfq", outcomeOf(err)) }()

	if actor.Role != models.CompanyRole || actor.ID == "" {
		return nil, models.NewPermissionError()
	}
	if err = validateRFQRequest(req); err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = models.DefaultUnit
	}

	rfq, err = s.Repo.CreateRFQ(ctx, models.RFQ{
		CreatedBy:        actor.ID,
		Material:         strings.TrimSpace(req.Material),
		Quantity:         req.Quantity,
		Unit:             unit,
		DeliveryLocation: strings.TrimSpace(req.DeliveryLocation),
		Description:      req.Description,
		ExpectedPrice:    req.ExpectedPrice,
		DeliveryTimeline: req.DeliveryTimeline,
		Deadline:         req.Deadline.UTC(),
	})
	if err != nil {
		return nil, mapStoreError(s.Logger, "create rfq", err)
	}

	s.Notifier.Notify(ctx, s.Notifier.Suppliers(ctx), models.NewRFQNotification,
		fmt.Sprintf("New RFQ: %s", rfq.Material), rfq.ID)
	return rfq, nil
}

// GetRFQ получает RFQ, если он виден пользователю.
func (s *RFQService) GetRFQ(ctx context.Context, actor models.Actor, rfqId string) (*models.RFQView, error) {
	if rfqId == "" {
		return nil, models.NewValidationError("rfqId is required")
	}
	rfq, err := s.Repo.GetRFQById(ctx, rfqId)
	if err != nil {
		return nil, mapStoreError(s.Logger, "get rfq", err)
	}
	if len(VisibleRFQs([]models.RFQ{*rfq}, actor.Role, actor.ID)) == 0 {
		return nil, models.NewNotFoundError()
	}
	view := models.NewRFQView(*rfq, s.Now())
	return &view, nil
}

// ListRFQs возвращает ленту RFQ, видимых пользователю.
func (s *RFQService) ListRFQs(ctx context.Context, actor models.Actor, query RFQListQuery) ([]models.RFQView, error) {
	limit, offset, err := utils.ParseLimitOffset(query.Limit, query.Offset)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	displayStatus := models.RFQStatus(query.Status)
	allowedStatuses := []models.RFQStatus{models.PostedRFQ, models.BiddingRFQ, models.AwardedRFQ, models.ClosedRFQ}
	if displayStatus != "" && !utils.Contains(allowedStatuses, displayStatus) {
		return nil, models.NewValidationError(fmt.Sprintf("unsupported status: %s", query.Status))
	}

	filter := models.RFQFilter{Material: query.Material, Search: query.Search}
	if actor.Role == models.CompanyRole {
		if actor.ID == "" {
			return []models.RFQView{}, nil
		}
		filter.CreatedBy = actor.ID
	} else {
		filter.Statuses = models.OpenRFQStatuses
	}

	rfqs, err := s.Repo.ListRFQs(ctx, filter)
	if err != nil {
		return nil, mapStoreError(s.Logger, "list rfqs", err)
	}

	now := s.Now()
	views := []models.RFQView{}
	for _, rfq := range VisibleRFQs(rfqs, actor.Role, actor.ID) {
		if displayStatus != "" && rfq.DisplayStatus() != displayStatus {
			continue
		}
		views = append(views, models.NewRFQView(rfq, now))
	}
	return utils.Paginate(views, limit, offset), nil
}

// CloseRFQ закрывает RFQ без победителя и отклоняет все поданные предложения.
func (s *RFQService) CloseRFQ(ctx context.Context, actor models.Actor, rfqId string) (result *models.AwardResult, err error) {
	defer func() { metrics.ObserveTransition("close_rfq", outcomeOf(err)) }()

	rfq, err := s.Repo.GetRFQById(ctx, rfqId)
	if err != nil {
		return nil, mapStoreError(s.Logger, "get rfq", err)
	}
	if actor.Role != models.CompanyRole || actor.ID == "" || rfq.CreatedBy != actor.ID {
		return nil, models.NewPermissionError()
	}
	if !utils.Contains(models.AllowedRFQTransitions[rfq.Status], models.ClosedRFQ) {
		return nil, models.NewInvalidStateError()
	}

	result, err = s.Repo.CloseRFQ(ctx, rfqId)
	if err != nil {
		return nil, mapStoreError(s.Logger, "close rfq", err)
	}

	suppliers := make([]string, 0, len(result.Rejected))
	for _, bid := range result.Rejected {
		suppliers = append(suppliers, bid.SupplierID)
	}
	s.Notifier.Notify(ctx, suppliers, models.RFQClosedNotification,
		fmt.Sprintf("RFQ for %s was closed without an award", rfq.Material), rfq.ID)
	return result, nil
}
