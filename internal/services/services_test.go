package services

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

var (
	company   = models.Actor{ID: "c1", Role: models.CompanyRole}
	rival     = models.Actor{ID: "c2", Role: models.CompanyRole}
	supplier1 = models.Actor{ID: "s1", Role: models.SupplierRole}
	supplier2 = models.Actor{ID: "s2", Role: models.SupplierRole}
	supplier3 = models.Actor{ID: "s3", Role: models.SupplierRole}
	consumer  = models.Actor{ID: "u1", Role: models.ConsumerRole}
)

type testEnv struct {
	store         *repository.MemoryStore
	rfqs          *RFQService
	bids          *BidService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	for _, actor := range []models.Actor{company, rival, supplier1, supplier2, supplier3, consumer} {
		_, err := store.CreateUser(context.Background(), models.User{ID: actor.ID, Role: actor.Role})
		require.NoError(t, err)
	}
	return newTestEnvWithNotifications(store, store)
}

func newTestEnvWithNotifications(store *repository.MemoryStore, notifications repository.NotificationRepository) *testEnv {
	logger := log.New(io.Discard, "", 0)
	notifier := NewNotifier(notifications, store, logger)
	clock := func() time.Time { return fixedNow }

	rfqs := NewRFQService(store, notifier, logger)
	rfqs.Now = clock
	bids := NewBidService(store, store, notifier, logger)
	bids.Now = clock

	return &testEnv{
		store:         store,
		rfqs:          rfqs,
		bids:          bids,
		notifications: NewNotificationService(notifications, logger),
	}
}

func (e *testEnv) createRFQ(t *testing.T, actor models.Actor, deadline time.Time) *models.RFQ {
	t.Helper()
	rfq, err := e.rfqs.CreateRFQ(context.Background(), actor, models.RFQRequest{
		Material:         "Steel",
		Quantity:         100,
		Unit:             "kg",
		DeliveryLocation: "Pune",
		Deadline:         deadline,
	})
	require.NoError(t, err)
	return rfq
}

func (e *testEnv) submitBid(t *testing.T, actor models.Actor, rfqId string, price float64, delivery time.Time) *models.Bid {
	t.Helper()
	bid, err := e.bids.SubmitBid(context.Background(), actor, models.BidRequest{
		RFQID:        rfqId,
		Price:        price,
		DeliveryDate: delivery,
	})
	require.NoError(t, err)
	return bid
}

func (e *testEnv) notificationsOf(t *testing.T, userId string) []models.Notification {
	t.Helper()
	list, err := e.store.ListNotifications(context.Background(), userId, 50, 0)
	require.NoError(t, err)
	return list
}

func countType(list []models.Notification, notificationType models.NotificationType) int {
	count := 0
	for _, n := range list {
		if n.Type == notificationType {
			count++
		}
	}
	return count
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
}

// mockNotificationRepository - хранилище уведомлений, которое можно заставить падать.
type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) CreateNotification(ctx context.Context, notification models.Notification) (*models.Notification, error) {
	args := m.Called(ctx, notification)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}

func (m *mockNotificationRepository) ListNotifications(ctx context.Context, userId string, limit, offset int) ([]models.Notification, error) {
	args := m.Called(ctx, userId, limit, offset)
	list, _ := args.Get(0).([]models.Notification)
	return list, args.Error(1)
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userId string) (int, error) {
	args := m.Called(ctx, userId)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, notificationId, userId string) error {
	args := m.Called(ctx, notificationId, userId)
	return args.Error(0)
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userId string) (int, error) {
	args := m.Called(ctx, userId)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationRepository) MarkRelatedRead(ctx context.Context, userId, relatedId string) (int, error) {
	args := m.Called(ctx, userId, relatedId)
	return args.Int(0), args.Error(1)
}
