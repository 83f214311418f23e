package routes

import (
	"net/http"

	controller "github.com/AlwaysKim-03/Orderland_Ordering_Backend/controllers"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
	"github.com/gorilla/mux"
)

func TableProtectedRoutes(router *mux.Router) {

	router.HandleFunc("/tables", controller.GetTables).Methods(http.MethodGet)
	router.HandleFunc("/tables", controller.CreateTable).Methods(http.MethodPost)

	router.HandleFunc("/tables/{table_id}", controller.GetTable).Methods(http.MethodGet)
	router.HandleFunc("/tables/{table_id}", controller.UpdateTable).Methods(http.MethodPatch)
	router.HandleFunc("/tables/{table_id}", controller.DeleteTable).Methods(http.MethodDelete)

	router.HandleFunc("/tables/occupy/{table_id}", controller.SetTableStatus(models.TableStatusOccupied)).Methods(http.MethodPut)
	router.HandleFunc("/tables/serve/{table_id}", controller.SetTableStatus(models.TableStatusServed)).Methods(http.MethodPut)
	router.HandleFunc("/tables/clear/{table_id}", controller.SetTableStatus(models.TableStatusEmpty)).Methods(http.MethodPut)
}
