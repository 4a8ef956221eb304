package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/senyabanana/rfq-service/internal/models"

	"github.com/stretchr/testify/require"
)

func seedRFQ(t *testing.T, store *MemoryStore, creator string) *models.RFQ {
	t.Helper()
	rfq, err := store.CreateRFQ(context.Background(), models.RFQ{
		CreatedBy:        creator,
		Material:         "Steel",
		Quantity:         100,
		Unit:             "kg",
		DeliveryLocation: "Pune",
		Deadline:         time.Now().Add(7 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return rfq
}

func seedBid(t *testing.T, store *MemoryStore, rfqId, supplier string, price float64) *models.Bid {
	t.Helper()
	bid, created, err := store.UpsertBid(context.Background(), models.Bid{
		RFQID:        rfqId,
		SupplierID:   supplier,
		Price:        price,
		DeliveryDate: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	require.True(t, created)
	return bid
}

func TestMemoryStore_UpsertBidUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rfq := seedRFQ(t, store, "c1")
	first := seedBid(t, store, rfq.ID, "s1", 500)

	second, created, err := store.UpsertBid(ctx, models.Bid{
		RFQID:        rfq.ID,
		SupplierID:   "s1",
		Price:        480,
		Terms:        "net 30",
		Documents:    []models.Document{{Name: "quote.pdf", Size: 1024}},
		DeliveryDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 480.0, second.Price)
	require.Equal(t, 2, second.Version)
	require.Len(t, second.Documents, 1)

	bids, err := store.ListBids(ctx, models.BidFilter{RFQID: rfq.ID})
	require.NoError(t, err)
	require.Len(t, bids, 1)

	got, err := store.GetRFQById(ctx, rfq.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.BidCount)
}

func TestMemoryStore_UpsertBidRefusedAfterDecision(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rfq := seedRFQ(t, store, "c1")
	bid := seedBid(t, store, rfq.ID, "s1", 500)

	_, err := store.RejectBid(ctx, bid.ID)
	require.NoError(t, err)

	_, _, err = store.UpsertBid(ctx, models.Bid{RFQID: rfq.ID, SupplierID: "s1", Price: 400})
	require.ErrorIs(t, err, ErrConditionFailed)

	_, _, err = store.UpsertBid(ctx, models.Bid{RFQID: "missing", SupplierID: "s1", Price: 400})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_AwardRFQCascades(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rfq := seedRFQ(t, store, "c1")
	b1 := seedBid(t, store, rfq.ID, "s1", 500)
	b2 := seedBid(t, store, rfq.ID, "s2", 450)

	result, err := store.AwardRFQ(ctx, rfq.ID, b2.ID)
	require.NoError(t, err)
	require.Equal(t, models.AwardedRFQ, result.RFQ.Status)
	require.Equal(t, models.AcceptedBid, result.Accepted.Status)
	require.Len(t, result.Rejected, 1)
	require.Equal(t, b1.ID, result.Rejected[0].ID)

	got, err := store.GetBidById(ctx, b1.ID)
	require.NoError(t, err)
	require.Equal(t, models.RejectedBid, got.Status)

	_, err = store.AwardRFQ(ctx, rfq.ID, b1.ID)
	require.ErrorIs(t, err, ErrConditionFailed)
	_, err = store.CloseRFQ(ctx, rfq.ID)
	require.ErrorIs(t, err, ErrConditionFailed)
}

func TestMemoryStore_AwardRFQConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rfq := seedRFQ(t, store, "c1")
	var bidIds []string
	for _, supplier := range []string{"s1", "s2", "s3", "s4", "s5"} {
		bidIds = append(bidIds, seedBid(t, store, rfq.ID, supplier, 100).ID)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for _, id := range bidIds {
		wg.Add(1)
		go func(bidId string) {
			defer wg.Done()
			if _, err := store.AwardRFQ(ctx, rfq.ID, bidId); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()
	require.Equal(t, 1, successes)

	accepted, err := store.ListBids(ctx, models.BidFilter{RFQID: rfq.ID, Statuses: []models.BidStatus{models.AcceptedBid}})
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	submitted, err := store.ListBids(ctx, models.BidFilter{RFQID: rfq.ID, Statuses: []models.BidStatus{models.SubmittedBid}})
	require.NoError(t, err)
	require.Empty(t, submitted)
}

func TestMemoryStore_CloseRFQRejectsPending(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rfq := seedRFQ(t, store, "c1")
	for _, supplier := range []string{"s1", "s2", "s3"} {
		seedBid(t, store, rfq.ID, supplier, 100)
	}

	result, err := store.CloseRFQ(ctx, rfq.ID)
	require.NoError(t, err)
	require.Equal(t, models.ClosedRFQ, result.RFQ.Status)
	require.Len(t, result.Rejected, 3)
	require.Nil(t, result.Accepted)
}

func TestMemoryStore_ListRFQsFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedRFQ(t, store, "c1")
	other, err := store.CreateRFQ(ctx, models.RFQ{
		CreatedBy:   "c2",
		Material:    "Copper wire",
		Description: "insulated",
		Quantity:    10,
		Deadline:    time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	all, err := store.ListRFQs(ctx, models.RFQFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, other.ID, all[0].ID)

	own, err := store.ListRFQs(ctx, models.RFQFilter{CreatedBy: "c1"})
	require.NoError(t, err)
	require.Len(t, own, 1)

	found, err := store.ListRFQs(ctx, models.RFQFilter{Search: "INSULATED"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, other.ID, found[0].ID)

	byMaterial, err := store.ListRFQs(ctx, models.RFQFilter{Material: "steel"})
	require.NoError(t, err)
	require.Len(t, byMaterial, 1)
}

func TestMemoryStore_Notifications(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := 0; i < 3; i++ {
		_, err := store.CreateNotification(ctx, models.Notification{UserID: "u1", Type: models.NewRFQNotification, RelatedID: "r1"})
		require.NoError(t, err)
	}
	n, err := store.CreateNotification(ctx, models.Notification{UserID: "u1", Type: models.NewBidNotification, RelatedID: "r2"})
	require.NoError(t, err)
	_, err = store.CreateNotification(ctx, models.Notification{UserID: "u2", Type: models.NewRFQNotification, RelatedID: "r1"})
	require.NoError(t, err)

	page, err := store.ListNotifications(ctx, "u1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, n.ID, page[0].ID)

	require.ErrorIs(t, store.MarkRead(ctx, n.ID, "u2"), ErrNotFound)
	require.NoError(t, store.MarkRead(ctx, n.ID, "u1"))

	marked, err := store.MarkRelatedRead(ctx, "u1", "r1")
	require.NoError(t, err)
	require.Equal(t, 3, marked)

	unread, err := store.CountUnread(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, unread)

	marked, err = store.MarkAllRead(ctx, "u2")
	require.NoError(t, err)
	require.Equal(t, 1, marked)
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.CreateUser(ctx, models.User{ID: "s2", Role: models.SupplierRole})
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, models.User{ID: "s1", Role: models.SupplierRole})
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, models.User{ID: "c1", Role: models.CompanyRole})
	require.NoError(t, err)

	ids, err := store.ListUserIdsByRole(ctx, models.SupplierRole)
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, ids)

	_, err = store.GetUserById(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}
