package repository

import (
	"errors"
	"time"

	"github.com/senyabanana/rfq-service/internal/models"
)

var (
	// ErrNotFound - запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrConditionFailed - условное обновление не прошло: запись уже в другом статусе.
	ErrConditionFailed = errors.New("condition failed")
)

// scanner - общий интерфейс pgx.Row и pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func rfqStatusStrings(statuses []models.RFQStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func bidStatusStrings(statuses []models.BidStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
