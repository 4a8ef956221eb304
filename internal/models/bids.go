package models

import "time"

type BidStatus string // Статус предложения

const (
	SubmittedBid BidStatus = "Submitted" // Предложение подано
	AcceptedBid  BidStatus = "Accepted"  // Предложение принято
	RejectedBid  BidStatus = "Rejected"  // Предложение отклонено
)

// AllowedBidTransitions - допустимые переходы статуса предложения.
var AllowedBidTransitions = map[BidStatus][]BidStatus{
	SubmittedBid: {AcceptedBid, RejectedBid},
	AcceptedBid:  {},
	RejectedBid:  {},
}

// Document - описание приложенного документа. Сам файл не загружается.
type Document struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Bid представляет модель предложения.
type Bid struct {
	ID              string     `json:"id"`
	RFQID           string     `json:"rfqId"`
	SupplierID      string     `json:"supplierId"`
	Price           float64    `json:"price"`
	QuantityOffered *float64   `json:"quantityOffered,omitempty"`
	DeliveryDate    time.Time  `json:"deliveryDate"`
	Terms           string     `json:"terms"`
	Documents       []Document `json:"documents"`
	Status          BidStatus  `json:"status"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsTerminal сообщает, что предложение больше не меняет статус.
func (b *Bid) IsTerminal() bool {
	return len(AllowedBidTransitions[b.Status]) == 0
}

// EffectiveQuantity возвращает предложенное количество, а если оно не указано - количество из RFQ.
// Хранимое значение не меняется.
func (b *Bid) EffectiveQuantity(rfq *RFQ) float64 {
	if b.QuantityOffered != nil {
		return *b.QuantityOffered
	}
	if rfq == nil {
		return 0
	}
	return rfq.Quantity
}

// BidRequest представляет структуру запроса для подачи или обновления предложения.
type BidRequest struct {
	RFQID           string     `json:"rfqId"`
	Price           float64    `json:"price"`
	QuantityOffered *float64   `json:"quantityOffered"`
	DeliveryDate    time.Time  `json:"deliveryDate"`
	Terms           string     `json:"terms"`
	Documents       []Document `json:"documents"`
}

// BidFilter - параметры выборки предложений.
type BidFilter struct {
	RFQID      string
	RFQIDs     []string
	SupplierID string
	Statuses   []BidStatus
}

// AwardResult - итог перехода RFQ в конечный статус.
type AwardResult struct {
	RFQ      RFQ   `json:"rfq"`
	Accepted *Bid  `json:"accepted,omitempty"`
	Rejected []Bid `json:"rejected"`
}

// BidComparison - сравнение нескольких предложений по одному RFQ.
type BidComparison struct {
	RFQID          string `json:"rfqId"`
	Bids           []Bid  `json:"bids"`
	LowestPriceID  string `json:"lowestPriceId"`
	EarliestDateID string `json:"earliestDeliveryId"`
}
