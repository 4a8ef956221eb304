package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/rfq-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository - интерфейс для работы с предложениями.
type BidRepository interface {
	UpsertBid(ctx context.Context, bid models.Bid) (*models.Bid, bool, error)
	GetBidById(ctx context.Context, bidId string) (*models.Bid, error)
	ListBids(ctx context.Context, filter models.BidFilter) ([]models.Bid, error)
	RejectBid(ctx context.Context, bidId string) (*models.Bid, error)
}

const bidColumns = `id, rfq_id, supplier_id, price, quantity_offered, delivery_date, terms, documents, status, version, created_at, updated_at`

// PostgresBidRepository - реализация BidRepository для базы данных.
type PostgresBidRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresBidRepository создает новый экземпляр PostgresBidRepository.
func NewPostgresBidRepository(db *pgxpool.Pool) *PostgresBidRepository {
	return &PostgresBidRepository{DB: db}
}

func scanBid(row scanner, bid *models.Bid, extra ...any) error {
	var documents []byte
	dest := []any{
		&bid.ID,
		&bid.RFQID,
		&bid.SupplierID,
		&bid.Price,
		&bid.QuantityOffered,
		&bid.DeliveryDate,
		&bid.Terms,
		&documents,
		&bid.Status,
		&bid.Version,
		&bid.CreatedAt,
		&bid.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	bid.Documents = []models.Document{}
	if len(documents) == 0 {
		return nil
	}
	return json.Unmarshal(documents, &bid.Documents)
}

func collectBids(rows pgx.Rows) ([]models.Bid, error) {
	defer rows.Close()

	bids := []models.Bid{}
	for rows.Next() {
		var bid models.Bid
		if err := scanBid(rows, &bid); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

func marshalDocuments(documents []models.Document) ([]byte, error) {
	if documents == nil {
		documents = []models.Document{}
	}
	return json.Marshal(documents)
}

// rejectSubmittedBids отклоняет все поданные предложения по RFQ внутри транзакции.
func rejectSubmittedBids(ctx context.Context, tx pgx.Tx, rfqId string, now time.Time) ([]models.Bid, error) {
	rejectQuery := `UPDATE bid SET status = $1, version = version + 1, updated_at = $2
	                WHERE rfq_id = $3 AND status = $4 RETURNING ` + bidColumns
	rows, err := tx.Query(ctx, rejectQuery, models.RejectedBid, now, rfqId, models.SubmittedBid)
	if err != nil {
		return nil, fmt.Errorf("reject sibling bids: %w", err)
	}
	return collectBids(rows)
}

// UpsertBid подаёт предложение или обновляет уже поданное предложение того же поставщика.
// Возвращает true, если создана новая запись.
func (r *PostgresBidRepository) UpsertBid(ctx context.Context, bid models.Bid) (*models.Bid, bool, error) {
	documents, err := marshalDocuments(bid.Documents)
	if err != nil {
		return nil, false, err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Блокировка строки RFQ не даёт закрыть или присудить его одновременно с подачей.
	var rfqStatus models.RFQStatus
	err = tx.QueryRow(ctx, `SELECT status FROM rfq WHERE id = $1 FOR SHARE`, bid.RFQID).Scan(&rfqStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("lock rfq: %w", err)
	}
	if rfqStatus != models.PostedRFQ {
		return nil, false, ErrConditionFailed
	}

	now := nowUTC()
	upsertQuery := `
		INSERT INTO bid (id, rfq_id, supplier_id, price, quantity_offered, delivery_date, terms, documents, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10)
		ON CONFLICT (rfq_id, supplier_id) DO UPDATE SET
			price = EXCLUDED.price,
			quantity_offered = EXCLUDED.quantity_offered,
			delivery_date = EXCLUDED.delivery_date,
			terms = EXCLUDED.terms,
			documents = EXCLUDED.documents,
			version = bid.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE bid.status = $9
		RETURNING ` + bidColumns + `, (xmax = 0) AS inserted`

	var saved models.Bid
	var inserted bool
	err = scanBid(tx.QueryRow(
		ctx,
		upsertQuery,
		uuid.New().String(),
		bid.RFQID,
		bid.SupplierID,
		bid.Price,
		bid.QuantityOffered,
		bid.DeliveryDate,
		bid.Terms,
		documents,
		models.SubmittedBid,
		now), &saved, &inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, ErrConditionFailed
	}
	if err != nil {
		return nil, false, fmt.Errorf("upsert bid: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return &saved, inserted, nil
}

// GetBidById получает предложение по ID.
func (r *PostgresBidRepository) GetBidById(ctx context.Context, bidId string) (*models.Bid, error) {
	var bid models.Bid
	err := scanBid(r.DB.QueryRow(ctx, `SELECT `+bidColumns+` FROM bid WHERE id = $1`, bidId), &bid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select bid: %w", err)
	}
	return &bid, nil
}

// ListBids возвращает список предложений по фильтру в порядке подачи.
func (r *PostgresBidRepository) ListBids(ctx context.Context, filter models.BidFilter) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid`
	var filters []string
	var args []interface{}
	argIndex := 1

	if filter.RFQID != "" {
		filters = append(filters, fmt.Sprintf("rfq_id = $%d", argIndex))
		args = append(args, filter.RFQID)
		argIndex++
	}

	if filter.RFQIDs != nil {
		filters = append(filters, fmt.Sprintf("rfq_id = ANY($%d)", argIndex))
		args = append(args, filter.RFQIDs)
		argIndex++
	}

	if filter.SupplierID != "" {
		filters = append(filters, fmt.Sprintf("supplier_id = $%d", argIndex))
		args = append(args, filter.SupplierID)
		argIndex++
	}

	if len(filter.Statuses) > 0 {
		filters = append(filters, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, bidStatusStrings(filter.Statuses))
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select bids: %w", err)
	}
	return collectBids(rows)
}

// RejectBid отклоняет поданное предложение. Статус RFQ не меняется.
func (r *PostgresBidRepository) RejectBid(ctx context.Context, bidId string) (*models.Bid, error) {
	var bid models.Bid
	updateQuery := `UPDATE bid SET status = $1, version = version + 1, updated_at = $2
	                WHERE id = $3 AND status = $4 RETURNING ` + bidColumns
	err := scanBid(r.DB.QueryRow(ctx, updateQuery, models.RejectedBid, nowUTC(), bidId, models.SubmittedBid), &bid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConditionFailed
	}
	if err != nil {
		return nil, fmt.Errorf("reject bid: %w", err)
	}
	return &bid, nil
}
