package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/senyabanana/rfq-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RFQRepository - интерфейс для работы с запросами котировок.
type RFQRepository interface {
	CreateRFQ(ctx context.Context, rfq models.RFQ) (*models.RFQ, error)
	GetRFQById(ctx context.Context, rfqId string) (*models.RFQ, error)
	ListRFQs(ctx context.Context, filter models.RFQFilter) ([]models.RFQ, error)
	AwardRFQ(ctx context.Context, rfqId, bidId string) (*models.AwardResult, error)
	CloseRFQ(ctx context.Context, rfqId string) (*models.AwardResult, error)
}

const rfqColumns = `r.id, r.created_by, r.material, r.quantity, r.unit, r.delivery_location, r.description,
	r.expected_price, r.delivery_timeline, r.deadline, r.status, r.version, r.created_at, r.updated_at`

const rfqBidCount = `(SELECT COUNT(*) FROM bid b WHERE b.rfq_id = r.id)`

// PostgresRFQRepository - реализация RFQRepository для базы данных.
type PostgresRFQRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresRFQRepository создаёт новый экземпляр PostgresRFQRepository.
func NewPostgresRFQRepository(db *pgxpool.Pool) *PostgresRFQRepository {
	return &PostgresRFQRepository{DB: db}
}

func scanRFQ(row scanner, rfq *models.RFQ, extra ...any) error {
	dest := []any{
		&rfq.ID,
		&rfq.CreatedBy,
		&rfq.Material,
		&rfq.Quantity,
		&rfq.Unit,
		&rfq.DeliveryLocation,
		&rfq.Description,
		&rfq.ExpectedPrice,
		&rfq.DeliveryTimeline,
		&rfq.Deadline,
		&rfq.Status,
		&rfq.Version,
		&rfq.CreatedAt,
		&rfq.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// CreateRFQ создает новый RFQ в статусе Posted.
func (r *PostgresRFQRepository) CreateRFQ(ctx context.Context, rfq models.RFQ) (*models.RFQ, error) {
	if rfq.ID == "" {
		rfq.ID = uuid.New().String()
	}
	rfq.Status = models.PostedRFQ
	rfq.Version = 1
	rfq.CreatedAt = nowUTC()
	rfq.UpdatedAt = rfq.CreatedAt

	insertQuery := `INSERT INTO rfq (id, created_by, material, quantity, unit, delivery_location, description,
	                expected_price, delivery_timeline, deadline, status, version, created_at, updated_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		rfq.ID,
		rfq.CreatedBy,
		rfq.Material,
		rfq.Quantity,
		rfq.Unit,
		rfq.DeliveryLocation,
		rfq.Description,
		rfq.ExpectedPrice,
		rfq.DeliveryTimeline,
		rfq.Deadline,
		rfq.Status,
		rfq.Version,
		rfq.CreatedAt,
		rfq.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert rfq: %w", err)
	}
	return &rfq, nil
}

// GetRFQById получает RFQ по ID вместе с количеством предложений.
func (r *PostgresRFQRepository) GetRFQById(ctx context.Context, rfqId string) (*models.RFQ, error) {
	var rfq models.RFQ
	query := `SELECT ` + rfqColumns + `, ` + rfqBidCount + ` FROM rfq r WHERE r.id = $1`
	err := scanRFQ(r.DB.QueryRow(ctx, query, rfqId), &rfq, &rfq.BidCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select rfq: %w", err)
	}
	return &rfq, nil
}

// ListRFQs возвращает список RFQ по фильтру, новые первыми.
func (r *PostgresRFQRepository) ListRFQs(ctx context.Context, filter models.RFQFilter) ([]models.RFQ, error) {
	query := `SELECT ` + rfqColumns + `, ` + rfqBidCount + ` FROM rfq r`
	var filters []string
	var args []interface{}
	argIndex := 1

	if filter.CreatedBy != "" {
		filters = append(filters, fmt.Sprintf("r.created_by = $%d", argIndex))
		args = append(args, filter.CreatedBy)
		argIndex++
	}

	if len(filter.Statuses) > 0 {
		filters = append(filters, fmt.Sprintf("r.status = ANY($%d)", argIndex))
		args = append(args, rfqStatusStrings(filter.Statuses))
		argIndex++
	}

	if filter.Material != "" {
		filters = append(filters, fmt.Sprintf("r.material ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Material+"%")
		argIndex++
	}

	if filter.Search != "" {
		filters = append(filters, fmt.Sprintf("(r.material ILIKE $%d OR r.description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}
	query += " ORDER BY r.created_at DESC, r.id"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select rfqs: %w", err)
	}
	defer rows.Close()

	var rfqs []models.RFQ
	for rows.Next() {
		var rfq models.RFQ
		if err := scanRFQ(rows, &rfq, &rfq.BidCount); err != nil {
			return nil, err
		}
		rfqs = append(rfqs, rfq)
	}
	return rfqs, rows.Err()
}

// AwardRFQ атомарно присуждает RFQ: RFQ -> Awarded, предложение -> Accepted,
// остальные поданные предложения -> Rejected.
func (r *PostgresRFQRepository) AwardRFQ(ctx context.Context, rfqId, bidId string) (*models.AwardResult, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := nowUTC()
	result := models.AwardResult{}

	updateRFQQuery := `UPDATE rfq r SET status = $1, version = r.version + 1, updated_at = $2
	                   WHERE r.id = $3 AND r.status = ANY($4) RETURNING ` + rfqColumns + `, ` + rfqBidCount
	err = scanRFQ(tx.QueryRow(ctx, updateRFQQuery, models.AwardedRFQ, now, rfqId, rfqStatusStrings(models.OpenRFQStatuses)), &result.RFQ, &result.RFQ.BidCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConditionFailed
	}
	if err != nil {
		return nil, fmt.Errorf("award rfq: %w", err)
	}

	var accepted models.Bid
	acceptQuery := `UPDATE bid SET status = $1, version = version + 1, updated_at = $2
	                WHERE id = $3 AND rfq_id = $4 AND status = $5 RETURNING ` + bidColumns
	err = scanBid(tx.QueryRow(ctx, acceptQuery, models.AcceptedBid, now, bidId, rfqId, models.SubmittedBid), &accepted)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConditionFailed
	}
	if err != nil {
		return nil, fmt.Errorf("accept bid: %w", err)
	}
	result.Accepted = &accepted

	result.Rejected, err = rejectSubmittedBids(ctx, tx, rfqId, now)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &result, nil
}

// CloseRFQ атомарно закрывает RFQ и отклоняет все поданные предложения.
// Принятые предложения не затрагиваются.
func (r *PostgresRFQRepository) CloseRFQ(ctx context.Context, rfqId string) (*models.AwardResult, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := nowUTC()
	result := models.AwardResult{}

	closeQuery := `UPDATE rfq r SET status = $1, version = r.version + 1, updated_at = $2
	               WHERE r.id = $3 AND r.status = ANY($4) RETURNING ` + rfqColumns + `, ` + rfqBidCount
	err = scanRFQ(tx.QueryRow(ctx, closeQuery, models.ClosedRFQ, now, rfqId, rfqStatusStrings(models.OpenRFQStatuses)), &result.RFQ, &result.RFQ.BidCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConditionFailed
	}
	if err != nil {
		return nil, fmt.Errorf("close rfq: %w", err)
	}

	result.Rejected, err = rejectSubmittedBids(ctx, tx, rfqId, now)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &result, nil
}
