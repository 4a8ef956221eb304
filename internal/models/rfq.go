package models

import "time"

type RFQStatus string // Статус запроса котировок

const (
	PostedRFQ  RFQStatus = "Posted"  // RFQ опубликован
	BiddingRFQ RFQStatus = "Bidding" // Производный статус: опубликован и есть хотя бы одно предложение
	AwardedRFQ RFQStatus = "Awarded" // Выбран победитель
	ClosedRFQ  RFQStatus = "Closed"  // Закрыт без победителя

	DefaultUnit = "units"
)

// AllowedRFQTransitions - допустимые переходы хранимого статуса RFQ.
var AllowedRFQTransitions = map[RFQStatus][]RFQStatus{
	PostedRFQ:  {AwardedRFQ, ClosedRFQ},
	AwardedRFQ: {},
	ClosedRFQ:  {},
}

// OpenRFQStatuses - хранимые статусы, в которых RFQ принимает предложения.
var OpenRFQStatuses = []RFQStatus{PostedRFQ}

// RFQ представляет модель запроса котировок.
type RFQ struct {
	ID               string     `json:"id"`
	CreatedBy        string     `json:"createdBy"`
	Material         string     `json:"material"`
	Quantity         float64    `json:"quantity"`
	Unit             string     `json:"unit"`
	DeliveryLocation string     `json:"deliveryLocation"`
	Description      string     `json:"description"`
	ExpectedPrice    *float64   `json:"expectedPrice,omitempty"`
	DeliveryTimeline *time.Time `json:"deliveryTimeline,omitempty"`
	Deadline         time.Time  `json:"deadline"`
	Status           RFQStatus  `json:"status"`
	Version          int        `json:"version"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	BidCount         int        `json:"bidCount"`
}

// IsTerminal сообщает, что RFQ больше не меняет статус.
func (r *RFQ) IsTerminal() bool {
	return len(AllowedRFQTransitions[r.Status]) == 0
}

// DisplayStatus возвращает статус для отображения.
// Bidding в базе не хранится.
func (r *RFQ) DisplayStatus() RFQStatus {
	if r.Status == PostedRFQ && r.BidCount > 0 {
		return BiddingRFQ
	}
	return r.Status
}

// Expired сообщает, что срок приёма предложений истёк.
func (r *RFQ) Expired(now time.Time) bool {
	return !now.Before(r.Deadline)
}

// RFQView - RFQ с производными полями для ответа клиенту.
type RFQView struct {
	RFQ
	DisplayStatus RFQStatus `json:"displayStatus"`
	Expired       bool      `json:"expired"`
}

// NewRFQView собирает представление RFQ на момент now.
func NewRFQView(rfq RFQ, now time.Time) RFQView {
	return RFQView{RFQ: rfq, DisplayStatus: rfq.DisplayStatus(), Expired: rfq.Expired(now)}
}

// RFQRequest представляет структуру запроса для создания RFQ.
type RFQRequest struct {
	Material         string     `json:"material"`
	Quantity         float64    `json:"quantity"`
	Unit             string     `json:"unit"`
	DeliveryLocation string     `json:"deliveryLocation"`
	Description      string     `json:"description"`
	ExpectedPrice    *float64   `json:"expectedPrice"`
	DeliveryTimeline *time.Time `json:"deliveryTimeline"`
	Deadline         time.Time  `json:"deadline"`
}

// RFQFilter - параметры выборки RFQ.
type RFQFilter struct {
	CreatedBy string
	Statuses  []RFQStatus
	Material  string
	Search    string
}
