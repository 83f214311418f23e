package routes

import (
	"net/http"

	controller "github.com/AlwaysKim-03/Orderland_Ordering_Backend/controllers"
	"github.com/gorilla/mux"
)

// NotificationPublicRoutes exposes the customer "call staff" button.
func NotificationPublicRoutes(router *mux.Router, nc *controller.NotificationController) {
	router.HandleFunc("/calls/{table_number}", nc.CreateStaffCall).Methods(http.MethodPost)
}

// NotificationProtectedRoutes is the admin dashboard surface over the
// realtime aggregator.
func NotificationProtectedRoutes(router *mux.Router, nc *controller.NotificationController) {
	router.HandleFunc("/notifications", nc.GetNotifications).Methods(http.MethodGet)
	router.HandleFunc("/notifications/unread-count", nc.GetUnreadCount).Methods(http.MethodGet)
	router.HandleFunc("/notifications/{notification_id}/read", nc.MarkNotificationRead).Methods(http.MethodPatch)
	router.HandleFunc("/notifications/{notification_id}", nc.RemoveNotification).Methods(http.MethodDelete)

	router.HandleFunc("/pending-orders", nc.GetPendingOrders).Methods(http.MethodGet)
	router.HandleFunc("/pending-orders/{table_number}", nc.AddPendingOrder).Methods(http.MethodPost)
	router.HandleFunc("/pending-orders/{table_number}", nc.RemovePendingOrder).Methods(http.MethodDelete)

	router.HandleFunc("/staff-calls", nc.GetStaffCalls).Methods(http.MethodGet)
	router.HandleFunc("/staff-calls/{table_number}", nc.RemoveStaffCall).Methods(http.MethodDelete)
}
