package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	database "github.com/AlwaysKim-03/Orderland_Ordering_Backend/config"
	controller "github.com/AlwaysKim-03/Orderland_Ordering_Backend/controllers"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/helper"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/metrics"
	middleware "github.com/AlwaysKim-03/Orderland_Ordering_Backend/middlewares"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/realtime"
	routes "github.com/AlwaysKim-03/Orderland_Ordering_Backend/routes"
)

// LoadEnv loads environment variables from the .env file
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
}

func main() {
	// Load environment variables
	LoadEnv()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	cfg := database.LoadAppConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Session state lives in Redis; records carry their own expiry checked
	// on every protected request.
	redisClient := database.RedisInstance()
	sessionStore := helper.NewSessionStore(redisClient, 24*time.Hour)
	controller.InitSessionStore(sessionStore)

	userCollection := database.OpenCollection(database.Client, "user")
	orderCollection := database.OpenCollection(database.Client, "order")

	// Session validity gate: re-checks is_active/approval_status on every
	// protected request and on every account document update.
	gate := realtime.NewSessionGate(
		realtime.NewMongoAccounts(userCollection),
		sessionStore,
		realtime.AccountUpdateOpener(userCollection),
		logger,
	)

	// Realtime aggregator feeding the admin dashboard from new-order events.
	aggregator := realtime.NewAggregator(realtime.OrderInsertOpener(orderCollection), logger)
	defer aggregator.Close()

	if cfg.AMQPUrl != "" {
		publisher, err := realtime.NewAMQPPublisher(cfg.AMQPUrl, cfg.AMQPExchange)
		if err != nil {
			log.Printf("notification fan-out disabled: %v", err)
		} else {
			defer publisher.Close()
			aggregator.SetPublisher(publisher)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go aggregator.Run(ctx)
	go gate.Watch(ctx)

	notificationController := controller.NewNotificationController(aggregator)
	proxyController := controller.NewProxyController(
		cfg.CMSBaseURL, cfg.CMSUser, cfg.CMSPassword,
		database.NewCircuitBreaker("CMS"),
	)
	catalogController := controller.NewCatalogController(
		cfg.CatalogSiteURL, cfg.CatalogConsumerKey, cfg.CatalogConsumerSecret,
		database.NewCircuitBreaker("Catalog"),
	)

	router := mux.NewRouter()

	router.Handle("/metrics", metrics.Handler())

	// CMS pass-through endpoints manage their own CORS and method dispatch
	routes.ProxyRoutes(router, proxyController, catalogController)

	// Public Routes (No Authentication)
	routes.PublicRoutes(router)
	routes.OrderPublicRoutes(router)
	routes.MenuPublicRoutes(router)
	routes.NotificationPublicRoutes(router, notificationController)

	// Apply Authentication Middleware to Protected Routes
	securedRoutes := router.PathPrefix("/").Subrouter()
	securedRoutes.Use(middleware.CORS)
	securedRoutes.Use(middleware.Authentication)
	securedRoutes.Use(middleware.AccountGate(gate))
	routes.ProtectedRoutes(securedRoutes)
	routes.OrderProtectedRoutes(securedRoutes)
	routes.TableProtectedRoutes(securedRoutes)
	routes.MenuProtectedRoutes(securedRoutes)
	routes.NotificationProtectedRoutes(securedRoutes, notificationController)

	log.Printf("Server running on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
