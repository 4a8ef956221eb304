package repository

import (
	"context"
	"fmt"

	"github.com/senyabanana/rfq-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository - интерфейс для работы с уведомлениями.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification models.Notification) (*models.Notification, error)
	ListNotifications(ctx context.Context, userId string, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userId string) (int, error)
	MarkRead(ctx context.Context, notificationId, userId string) error
	MarkAllRead(ctx context.Context, userId string) (int, error)
	MarkRelatedRead(ctx context.Context, userId, relatedId string) (int, error)
}

// PostgresNotificationRepository - реализация NotificationRepository для базы данных.
type PostgresNotificationRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresNotificationRepository создает новый экземпляр PostgresNotificationRepository.
func NewPostgresNotificationRepository(db *pgxpool.Pool) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{DB: db}
}

// CreateNotification сохраняет новое непрочитанное уведомление.
func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, notification models.Notification) (*models.Notification, error) {
	notification.ID = uuid.New().String()
	notification.Seen = false
	notification.CreatedAt = nowUTC()

	insertQuery := `INSERT INTO notification (id, user_id, type, message, related_id, seen, created_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		notification.ID,
		notification.UserID,
		notification.Type,
		notification.Message,
		notification.RelatedID,
		notification.Seen,
		notification.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return &notification, nil
}

// ListNotifications возвращает уведомления пользователя, новые первыми.
func (r *PostgresNotificationRepository) ListNotifications(ctx context.Context, userId string, limit, offset int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, type, message, related_id, seen, created_at
		FROM notification
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, userId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.RelatedID, &n.Seen, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userId string) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM notification WHERE user_id = $1 AND NOT seen`, userId).Scan(&count)
	return count, err
}

// MarkRead отмечает уведомление прочитанным. Чужое уведомление считается отсутствующим.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, notificationId, userId string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE notification SET seen = TRUE WHERE id = $1 AND user_id = $2`, notificationId, userId)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead отмечает прочитанными все уведомления пользователя.
func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userId string) (int, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE notification SET seen = TRUE WHERE user_id = $1 AND NOT seen`, userId)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// MarkRelatedRead отмечает прочитанными уведомления, связанные с RFQ или предложением.
func (r *PostgresNotificationRepository) MarkRelatedRead(ctx context.Context, userId, relatedId string) (int, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE notification SET seen = TRUE WHERE user_id = $1 AND related_id = $2 AND NOT seen`, userId, relatedId)
	if err != nil {
		return 0, fmt.Errorf("mark related notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
