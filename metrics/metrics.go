package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderland_notifications_created_total",
		Help: "Notifications synthesized by the realtime aggregator, by type.",
	}, []string{"type"})

	OrderEventsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderland_order_events_discarded_total",
		Help: "Order change events dropped because the table number was not numeric.",
	})

	StreamReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderland_stream_reconnects_total",
		Help: "Reconnection attempts made by the order change-stream listener.",
	})

	SessionsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderland_sessions_revoked_total",
		Help: "Sessions forcibly invalidated by the account validity gate.",
	})

	ProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderland_proxy_requests_total",
		Help: "Requests forwarded to the CMS, by endpoint and method.",
	}, []string{"endpoint", "method"})
)

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
