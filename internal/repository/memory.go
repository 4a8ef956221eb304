package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/senyabanana/rfq-service/internal/models"

	"github.com/google/uuid"
)

// MemoryStore - хранилище в памяти, реализующее все репозитории сервиса.
// Один мьютекс на всё хранилище: условные переходы RFQ и предложений выполняются атомарно.
type MemoryStore struct {
	mu sync.RWMutex

	rfqs          map[string]*models.RFQ
	rfqOrder      []string
	bids          map[string]*models.Bid
	bidOrder      []string
	bidBySupplier map[string]string // rfqId + "/" + supplierId -> bidId
	notifications map[string]*models.Notification
	notifOrder    []string
	users         map[string]*models.User
}

// NewMemoryStore создает пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rfqs:          make(map[string]*models.RFQ),
		bids:          make(map[string]*models.Bid),
		bidBySupplier: make(map[string]string),
		notifications: make(map[string]*models.Notification),
		users:         make(map[string]*models.User),
	}
}

var (
	_ RFQRepository          = (*MemoryStore)(nil)
	_ BidRepository          = (*MemoryStore)(nil)
	_ NotificationRepository = (*MemoryStore)(nil)
	_ UserRepository         = (*MemoryStore)(nil)
)

func copyRFQ(rfq *models.RFQ) models.RFQ {
	out := *rfq
	if rfq.ExpectedPrice != nil {
		v := *rfq.ExpectedPrice
		out.ExpectedPrice = &v
	}
	if rfq.DeliveryTimeline != nil {
		v := *rfq.DeliveryTimeline
		out.DeliveryTimeline = &v
	}
	return out
}

func copyBid(bid *models.Bid) models.Bid {
	out := *bid
	if bid.QuantityOffered != nil {
		v := *bid.QuantityOffered
		out.QuantityOffered = &v
	}
	out.Documents = append([]models.Document{}, bid.Documents...)
	return out
}

func supplierKey(rfqId, supplierId string) string {
	return rfqId + "/" + supplierId
}

// bidCountLocked считает предложения по RFQ. Вызывается под мьютексом.
func (m *MemoryStore) bidCountLocked(rfqId string) int {
	count := 0
	for _, bid := range m.bids {
		if bid.RFQID == rfqId {
			count++
		}
	}
	return count
}

func (m *MemoryStore) rfqViewLocked(rfq *models.RFQ) models.RFQ {
	out := copyRFQ(rfq)
	out.BidCount = m.bidCountLocked(rfq.ID)
	return out
}

func isOpenRFQ(status models.RFQStatus) bool {
	for _, s := range models.OpenRFQStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CreateRFQ создает новый RFQ в статусе Posted.
func (m *MemoryStore) CreateRFQ(_ context.Context, rfq models.RFQ) (*models.RFQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rfq.ID == "" {
		rfq.ID = uuid.New().String()
	}
	rfq.Status = models.PostedRFQ
	rfq.Version = 1
	rfq.CreatedAt = nowUTC()
	rfq.UpdatedAt = rfq.CreatedAt
	rfq.BidCount = 0

	stored := copyRFQ(&rfq)
	m.rfqs[rfq.ID] = &stored
	m.rfqOrder = append(m.rfqOrder, rfq.ID)
	return &rfq, nil
}

// GetRFQById получает RFQ по ID.
func (m *MemoryStore) GetRFQById(_ context.Context, rfqId string) (*models.RFQ, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rfq, ok := m.rfqs[rfqId]
	if !ok {
		return nil, ErrNotFound
	}
	out := m.rfqViewLocked(rfq)
	return &out, nil
}

// ListRFQs возвращает список RFQ по фильтру, новые первыми.
func (m *MemoryStore) ListRFQs(_ context.Context, filter models.RFQFilter) ([]models.RFQ, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	material := strings.ToLower(filter.Material)
	search := strings.ToLower(filter.Search)
	var out []models.RFQ
	for i := len(m.rfqOrder) - 1; i >= 0; i-- {
		rfq := m.rfqs[m.rfqOrder[i]]
		if filter.CreatedBy != "" && rfq.CreatedBy != filter.CreatedBy {
			continue
		}
		if len(filter.Statuses) > 0 && !containsRFQStatus(filter.Statuses, rfq.Status) {
			continue
		}
		if material != "" && !strings.Contains(strings.ToLower(rfq.Material), material) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(rfq.Material), search) &&
			!strings.Contains(strings.ToLower(rfq.Description), search) {
			continue
		}
		out = append(out, m.rfqViewLocked(rfq))
	}
	return out, nil
}

func containsRFQStatus(statuses []models.RFQStatus, status models.RFQStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// AwardRFQ атомарно присуждает RFQ выбранному предложению.
func (m *MemoryStore) AwardRFQ(_ context.Context, rfqId, bidId string) (*models.AwardResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rfq, ok := m.rfqs[rfqId]
	if !ok || !isOpenRFQ(rfq.Status) {
		return nil, ErrConditionFailed
	}
	bid, ok := m.bids[bidId]
	if !ok || bid.RFQID != rfqId || bid.Status != models.SubmittedBid {
		return nil, ErrConditionFailed
	}

	now := nowUTC()
	rfq.Status = models.AwardedRFQ
	rfq.Version++
	rfq.UpdatedAt = now

	bid.Status = models.AcceptedBid
	bid.Version++
	bid.UpdatedAt = now
	accepted := copyBid(bid)

	return &models.AwardResult{
		RFQ:      m.rfqViewLocked(rfq),
		Accepted: &accepted,
		Rejected: m.rejectSubmittedLocked(rfqId),
	}, nil
}

// CloseRFQ атомарно закрывает RFQ и отклоняет все поданные предложения.
func (m *MemoryStore) CloseRFQ(_ context.Context, rfqId string) (*models.AwardResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rfq, ok := m.rfqs[rfqId]
	if !ok || !isOpenRFQ(rfq.Status) {
		return nil, ErrConditionFailed
	}
	rfq.Status = models.ClosedRFQ
	rfq.Version++
	rfq.UpdatedAt = nowUTC()

	return &models.AwardResult{
		RFQ:      m.rfqViewLocked(rfq),
		Rejected: m.rejectSubmittedLocked(rfqId),
	}, nil
}

func (m *MemoryStore) rejectSubmittedLocked(rfqId string) []models.Bid {
	now := nowUTC()
	rejected := []models.Bid{}
	for _, id := range m.bidOrder {
		bid := m.bids[id]
		if bid.RFQID != rfqId || bid.Status != models.SubmittedBid {
			continue
		}
		bid.Status = models.RejectedBid
		bid.Version++
		bid.UpdatedAt = now
		rejected = append(rejected, copyBid(bid))
	}
	return rejected
}

// UpsertBid подаёт предложение или обновляет уже поданное предложение того же поставщика.
func (m *MemoryStore) UpsertBid(_ context.Context, bid models.Bid) (*models.Bid, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rfq, ok := m.rfqs[bid.RFQID]
	if !ok {
		return nil, false, ErrNotFound
	}
	if !isOpenRFQ(rfq.Status) {
		return nil, false, ErrConditionFailed
	}

	now := nowUTC()
	key := supplierKey(bid.RFQID, bid.SupplierID)
	if existingId, ok := m.bidBySupplier[key]; ok {
		existing := m.bids[existingId]
		if existing.Status != models.SubmittedBid {
			return nil, false, ErrConditionFailed
		}
		updated := copyBid(&bid)
		existing.Price = updated.Price
		existing.QuantityOffered = updated.QuantityOffered
		existing.DeliveryDate = updated.DeliveryDate
		existing.Terms = updated.Terms
		existing.Documents = updated.Documents
		existing.Version++
		existing.UpdatedAt = now
		out := copyBid(existing)
		return &out, false, nil
	}

	bid.ID = uuid.New().String()
	bid.Status = models.SubmittedBid
	bid.Version = 1
	bid.CreatedAt = now
	bid.UpdatedAt = now
	stored := copyBid(&bid)
	m.bids[bid.ID] = &stored
	m.bidOrder = append(m.bidOrder, bid.ID)
	m.bidBySupplier[key] = bid.ID
	out := copyBid(&stored)
	return &out, true, nil
}

// GetBidById получает предложение по ID.
func (m *MemoryStore) GetBidById(_ context.Context, bidId string) (*models.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bid, ok := m.bids[bidId]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyBid(bid)
	return &out, nil
}

// ListBids возвращает список предложений по фильтру в порядке подачи.
func (m *MemoryStore) ListBids(_ context.Context, filter models.BidFilter) ([]models.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rfqIds map[string]bool
	if filter.RFQIDs != nil {
		rfqIds = make(map[string]bool, len(filter.RFQIDs))
		for _, id := range filter.RFQIDs {
			rfqIds[id] = true
		}
	}

	out := []models.Bid{}
	for _, id := range m.bidOrder {
		bid := m.bids[id]
		if filter.RFQID != "" && bid.RFQID != filter.RFQID {
			continue
		}
		if rfqIds != nil && !rfqIds[bid.RFQID] {
			continue
		}
		if filter.SupplierID != "" && bid.SupplierID != filter.SupplierID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsBidStatus(filter.Statuses, bid.Status) {
			continue
		}
		out = append(out, copyBid(bid))
	}
	return out, nil
}

func containsBidStatus(statuses []models.BidStatus, status models.BidStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// RejectBid отклоняет поданное предложение.
func (m *MemoryStore) RejectBid(_ context.Context, bidId string) (*models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bid, ok := m.bids[bidId]
	if !ok || bid.Status != models.SubmittedBid {
		return nil, ErrConditionFailed
	}
	bid.Status = models.RejectedBid
	bid.Version++
	bid.UpdatedAt = nowUTC()
	out := copyBid(bid)
	return &out, nil
}

// CreateNotification сохраняет новое непрочитанное уведомление.
func (m *MemoryStore) CreateNotification(_ context.Context, notification models.Notification) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification.ID = uuid.New().String()
	notification.Seen = false
	notification.CreatedAt = nowUTC()
	stored := notification
	m.notifications[notification.ID] = &stored
	m.notifOrder = append(m.notifOrder, notification.ID)
	return &notification, nil
}

// ListNotifications возвращает уведомления пользователя, новые первыми.
func (m *MemoryStore) ListNotifications(_ context.Context, userId string, limit, offset int) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Notification{}
	skipped := 0
	for i := len(m.notifOrder) - 1; i >= 0 && len(out) < limit; i-- {
		n := m.notifications[m.notifOrder[i]]
		if n.UserID != userId {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (m *MemoryStore) CountUnread(_ context.Context, userId string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userId && !n.Seen {
			count++
		}
	}
	return count, nil
}

// MarkRead отмечает уведомление прочитанным.
func (m *MemoryStore) MarkRead(_ context.Context, notificationId, userId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[notificationId]
	if !ok || n.UserID != userId {
		return ErrNotFound
	}
	n.Seen = true
	return nil
}

// MarkAllRead отмечает прочитанными все уведомления пользователя.
func (m *MemoryStore) MarkAllRead(_ context.Context, userId string) (int, error) {
	return m.markSeen(func(n *models.Notification) bool { return n.UserID == userId }), nil
}

// MarkRelatedRead отмечает прочитанными уведомления, связанные с указанной записью.
func (m *MemoryStore) MarkRelatedRead(_ context.Context, userId, relatedId string) (int, error) {
	return m.markSeen(func(n *models.Notification) bool {
		return n.UserID == userId && n.RelatedID == relatedId
	}), nil
}

func (m *MemoryStore) markSeen(match func(n *models.Notification) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.notifications {
		if !n.Seen && match(n) {
			n.Seen = true
			count++
		}
	}
	return count
}

// CreateUser добавляет пользователя в справочник. Повторная регистрация ничего не меняет.
func (m *MemoryStore) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if existing, ok := m.users[user.ID]; ok {
		out := *existing
		return &out, nil
	}
	user.CreatedAt = nowUTC()
	stored := user
	m.users[user.ID] = &stored
	return &user, nil
}

// GetUserById получает пользователя по ID.
func (m *MemoryStore) GetUserById(_ context.Context, userId string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[userId]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

// ListUserIdsByRole возвращает ID всех пользователей с указанной ролью.
func (m *MemoryStore) ListUserIdsByRole(_ context.Context, role models.Role) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, user := range m.users {
		if user.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
