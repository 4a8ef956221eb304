package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/rfq-service/internal/metrics"
	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/repository"
)

// Notifier создает уведомления как побочный эффект переходов.
// Ошибки записи логируются и не влияют на результат перехода.
type Notifier struct {
	Repo   repository.NotificationRepository
	Users  repository.UserRepository
	Logger *log.Logger
}

// NewNotifier создает новый экземпляр Notifier.
func NewNotifier(repo repository.NotificationRepository, users repository.UserRepository, logger *log.Logger) *Notifier {
	return &Notifier{Repo: repo, Users: users, Logger: logger}
}

// Notify создает по одному уведомлению для каждого получателя.
func (n *Notifier) Notify(ctx context.Context, recipients []string, notificationType models.NotificationType, message, relatedId string) {
	// Транзакция уже зафиксирована, отмена запроса не должна терять уведомления.
	ctx = context.WithoutCancel(ctx)

	seen := make(map[string]bool, len(recipients))
	for _, recipient := range recipients {
		if recipient == "" || seen[recipient] {
			continue
		}
		seen[recipient] = true

		_, err := n.Repo.CreateNotification(ctx, models.Notification{
			UserID:    recipient,
			Type:      notificationType,
			Message:   message,
			RelatedID: relatedId,
		})
		if err != nil {
			n.Logger.Printf("failed to create %s notification for %s: %v", notificationType, recipient, err)
			metrics.NotificationsFailed.WithLabelValues(string(notificationType)).Inc()
		}
	}
}

// Suppliers возвращает ID всех поставщиков, кроме исключённых.
func (n *Notifier) Suppliers(ctx context.Context, except ...string) []string {
	ids, err := n.Users.ListUserIdsByRole(context.WithoutCancel(ctx), models.SupplierRole)
	if err != nil {
		n.Logger.Printf("failed to list suppliers for notification fan-out: %v", err)
		metrics.NotificationsFailed.WithLabelValues("supplier_lookup").Inc()
		return nil
	}

	var out []string
	for _, id := range ids {
		excluded := false
		for _, e := range except {
			if id == e {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, id)
		}
	}
	return out
}

// mapStoreError переводит ошибки хранилища в ошибки сервиса.
func mapStoreError(logger *log.Logger, operation string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return models.NewNotFoundError()
	case errors.Is(err, repository.ErrConditionFailed):
		return models.NewInvalidStateError()
	default:
		logger.Printf("%s: %v", operation, err)
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
}

// outcomeOf возвращает метку результата операции для метрик.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrValidation):
		return "validation"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrDeadlinePassed):
		return "deadline_passed"
	case errors.Is(err, models.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, models.ErrPermission):
		return "permission"
	default:
		return "error"
	}
}

func defaultClock() time.Time {
	return time.Now().UTC()
}
