package services

import (
	"context"
	"log"

	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/repository"
	"github.com/senyabanana/rfq-service/internal/utils"
)

type NotificationService struct {
	Repo   repository.NotificationRepository
	Logger *log.Logger
}

// NewNotificationService создает новый экземпляр NotificationService.
func NewNotificationService(repo repository.NotificationRepository, logger *log.Logger) *NotificationService {
	return &NotificationService{Repo: repo, Logger: logger}
}

// List возвращает страницу уведомлений пользователя и количество непрочитанных.
func (s *NotificationService) List(ctx context.Context, actor models.Actor, limitStr, offsetStr string) (*models.NotificationList, error) {
	if actor.ID == "" {
		return nil, models.NewPermissionError()
	}
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	notifications, err := s.Repo.ListNotifications(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, mapStoreError(s.Logger, "list notifications", err)
	}
	unread, err := s.Repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, mapStoreError(s.Logger, "count unread notifications", err)
	}
	return &models.NotificationList{Notifications: notifications, Unread: unread}, nil
}

// MarkRead отмечает одно уведомление пользователя прочитанным.
func (s *NotificationService) MarkRead(ctx context.Context, actor models.Actor, notificationId string) error {
	if actor.ID == "" {
		return models.NewPermissionError()
	}
	if err := s.Repo.MarkRead(ctx, notificationId, actor.ID); err != nil {
		return mapStoreError(s.Logger, "mark notification read", err)
	}
	return nil
}

// MarkAllRead отмечает прочитанными все уведомления пользователя.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.Actor) (int, error) {
	if actor.ID == "" {
		return 0, models.NewPermissionError()
	}
	count, err := s.Repo.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, mapStoreError(s.Logger, "mark all notifications read", err)
	}
	return count, nil
}

// MarkRelatedRead отмечает прочитанными уведомления по RFQ, который пользователь открыл.
func (s *NotificationService) MarkRelatedRead(ctx context.Context, actor models.Actor, relatedId string) (int, error) {
	if actor.ID == "" {
		return 0, models.NewPermissionError()
	}
	if relatedId == "" {
		return 0, models.NewValidationError("relatedId is required")
	}
	count, err := s.Repo.MarkRelatedRead(ctx, actor.ID, relatedId)
	if err != nil {
		return 0, mapStoreError(s.Logger, "mark related notifications read", err)
	}
	return count, nil
}
