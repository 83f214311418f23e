package routes

import (
	"net/http"

	controllers "github.com/AlwaysKim-03/Orderland_Ordering_Backend/controllers"

	"github.com/gorilla/mux"
)

// MenuPublicRoutes serves the customer-facing menu browsing flow.
func MenuPublicRoutes(router *mux.Router) {
	router.HandleFunc("/menus", controllers.GetMenus).Methods(http.MethodGet)
	router.HandleFunc("/menus/{menu_id}", controllers.GetMenu).Methods(http.MethodGet)
	router.HandleFunc("/menu-items", controllers.GetMenuItems).Methods(http.MethodGet)
	router.HandleFunc("/menu-items/{menu_item_id}", controllers.GetMenuItem).Methods(http.MethodGet)
}

func MenuProtectedRoutes(router *mux.Router) {

	router.HandleFunc("/menus", controllers.CreateMenu).Methods(http.MethodPost)
	router.HandleFunc("/menus/{menu_id}", controllers.UpdateMenu).Methods(http.MethodPatch)
	router.HandleFunc("/menus/{menu_id}", controllers.DeleteMenu).Methods(http.MethodDelete)

	router.HandleFunc("/menu-items", controllers.CreateMenuItem).Methods(http.MethodPost)
	router.HandleFunc("/menu-items/{menu_item_id}", controllers.UpdateMenuItem).Methods(http.MethodPatch)
	router.HandleFunc("/menu-items/{menu_item_id}", controllers.DeleteMenuItem).Methods(http.MethodDelete)
}
