package models

import "time"

type NotificationType string // Тип уведомления

const (
	NewRFQNotification         NotificationType = "new_rfq"
	NewBidNotification         NotificationType = "new_bid"
	CompetitiveBidNotification NotificationType = "competitive_bid"
	BidAcceptedNotification    NotificationType = "bid_accepted"
	BidRejectedNotification    NotificationType = "bid_rejected"
	RFQClosedNotification      NotificationType = "rfq_closed"
)

// Notification представляет модель уведомления пользователя.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	RelatedID string           `json:"relatedId"`
	Seen      bool             `json:"seen"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NotificationList - страница уведомлений и количество непрочитанных.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	Unread        int            `json:"unread"`
}
