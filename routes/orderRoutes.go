package routes

import (
	"net/http"

	controller "github.com/AlwaysKim-03/Orderland_Ordering_Backend/controllers"
	"github.com/gorilla/mux"
)

// OrderPublicRoutes carries the customer ordering flow: placing an order and
// following it from the table page needs no account.
func OrderPublicRoutes(router *mux.Router) {
	router.HandleFunc("/orders", controller.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/table/{table_number}", controller.GetOrdersByTableNumber).Methods(http.MethodGet)
}

func OrderProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/orders", controller.GetOrders).Methods(http.MethodGet)

	router.HandleFunc("/orders/{order_id}", controller.GetOrderById).Methods(http.MethodGet)
	router.HandleFunc("/orders/{order_id}", controller.DeleteOrder).Methods(http.MethodDelete)
	router.HandleFunc("/orders/{order_id}/status", controller.UpdateOrderStatus).Methods(http.MethodPatch)
	router.HandleFunc("/orders/{order_id}/items/{item_index}/status", controller.UpdateOrderItemStatus).Methods(http.MethodPatch)
}
