package router

import (
	"net/http"

	"github.com/senyabanana/rfq-service/internal/handlers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers - обработчики, из которых собираются маршруты.
type Handlers struct {
	Ping          http.HandlerFunc
	RFQs          *handlers.RFQHandler
	Bids          *handlers.BidHandler
	Notifications *handlers.NotificationHandler
}

// InitRoutes собирает маршруты API. middlewares применяются к /api/ в указанном порядке,
// первый оборачивает остальные.
func InitRoutes(h Handlers, gatherer prometheus.Gatherer, middlewares ...func(http.Handler) http.Handler) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("/api/ping", h.Ping)

	api.HandleFunc("/api/rfqs", h.RFQs.GetRFQs)
	api.HandleFunc("POST /api/rfqs/new", h.RFQs.CreateRFQ)
	api.HandleFunc("GET /api/rfqs/{rfqId}", h.RFQs.GetRFQ)
	api.HandleFunc("PUT /api/rfqs/{rfqId}/close", h.RFQs.CloseRFQ)

	api.HandleFunc("/api/bids/new", h.Bids.CreateBid)
	api.HandleFunc("/api/bids/my", h.Bids.GetUserBid)
	api.HandleFunc("GET /api/bids/{rfqId}/list", h.Bids.GetRFQBid)
	api.HandleFunc("GET /api/bids/{rfqId}/compare", h.Bids.CompareBids)
	api.HandleFunc("PUT /api/bids/{bidId}/accept", h.Bids.AcceptBid)
	api.HandleFunc("PUT /api/bids/{bidId}/reject", h.Bids.RejectBid)

	api.HandleFunc("GET /api/notifications", h.Notifications.GetNotifications)
	api.HandleFunc("PUT /api/notifications/read_all", h.Notifications.MarkAllRead)
	api.HandleFunc("PUT /api/notifications/related/{relatedId}/read", h.Notifications.MarkRelatedRead)
	api.HandleFunc("PUT /api/notifications/{notificationId}/read", h.Notifications.MarkRead)

	var apiHandler http.Handler = api
	for i := len(middlewares) - 1; i >= 0; i-- {
		apiHandler = middlewares[i](apiHandler)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
