package routes

import (
	controller "github.com/AlwaysKim-03/Orderland_Ordering_Backend/controllers"
	"github.com/gorilla/mux"
)

// ProxyRoutes wires the CMS pass-through endpoints. Method dispatch happens
// inside the handler so OPTIONS and unsupported methods get the documented
// responses instead of the router's defaults.
func ProxyRoutes(router *mux.Router, pc *controller.ProxyController, cc *controller.CatalogController) {
	router.HandleFunc("/api/custom/v1/call", pc.HandleCall)
	router.HandleFunc("/api/custom/v1/call/{id}", pc.HandleCall)

	router.HandleFunc("/catalog/products", cc.GetProducts).Methods("GET")
}
