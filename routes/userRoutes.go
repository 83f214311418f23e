package routes

import (
	controller "github.com/AlwaysKim-03/Orderland_Ordering_Backend/controllers"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"

	"github.com/gorilla/mux"
)

func PublicRoutes(router *mux.Router) {
	router.HandleFunc("/users/signup", controller.SignUp).Methods("POST")
	router.HandleFunc("/users/login", controller.Login).Methods("POST")

	// Read-once explanation after a forced sign-out; must stay reachable
	// without a valid session.
	router.HandleFunc("/users/{user_id}/deactivation-notice", controller.GetDeactivationNotice).Methods("GET")
}

func ProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/users", controller.GetUsers).Methods("GET")
	router.HandleFunc("/users/{user_id}", controller.GetUser).Methods("GET")
	router.HandleFunc("/users/{user_id}/logout", controller.Logout).Methods("POST")

	// Operator-only account gating. The account change stream propagates
	// these updates into live session invalidation.
	router.HandleFunc("/users/{user_id}/approve", controller.SetApprovalStatus(models.ApprovalApproved)).Methods("PUT")
	router.HandleFunc("/users/{user_id}/reject", controller.SetApprovalStatus(models.ApprovalRejected)).Methods("PUT")
	router.HandleFunc("/users/{user_id}/activate", controller.SetActiveFlag(true)).Methods("PUT")
	router.HandleFunc("/users/{user_id}/deactivate", controller.SetActiveFlag(false)).Methods("PUT")
}
