package router

import (
	"log"
	"net/http"
	"time"

	"github.com/comanda-app/api/internal/billing"
	"github.com/comanda-app/api/internal/config"
	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/handler"
	mw "github.com/comanda-app/api/internal/middleware"
	"github.com/comanda-app/api/internal/service"
	"github.com/comanda-app/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a Chi router with all application routes wired up.
// events receives kitchen feed events after each committed mutation; it is the
// hub itself on a single instance, or the Redis relay when one is configured.
func New(cfg *config.Config, queries *database.Queries, pool service.TxBeginner, hub *ws.Hub, events service.Publisher, reconciler *billing.Reconciler) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Kitchen feed (long-lived; authenticates via the token query param)
	r.Get("/ws/kitchen", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, queries, w, r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout(cfg)))

		authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
		authHandler.RegisterRoutes(r)

		// Signed by the provider; no bearer token.
		webhookHandler := handler.NewWebhookHandler(reconciler)
		webhookHandler.RegisterRoutes(r)

		// Protected routes (require authentication and a restaurant)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			r.Use(mw.RequireRestaurant(queries))

			restaurantHandler := handler.NewRestaurantHandler(queries)
			r.Route("/restaurant", restaurantHandler.RegisterRoutes)

			// Catalog
			menuHandler := handler.NewMenuHandler(queries)
			menuHandler.RegisterRoutes(r)

			// Tables
			newTableStore := func(db database.DBTX) service.TableStore {
				return database.New(db)
			}
			tableService := service.NewTableService(pool, newTableStore, events)
			tableHandler := handler.NewTableHandler(queries, tableService)
			r.Route("/tables", tableHandler.RegisterRoutes)

			// Orders
			newOrderStore := func(db database.DBTX) service.OrderStore {
				return database.New(db)
			}
			orderService := service.NewOrderService(pool, newOrderStore, events)
			orderHandler := handler.NewOrderHandler(orderService, queries)
			orderHandler.RegisterRoutes(r)

			kitchenHandler := handler.NewKitchenHandler(queries)
			r.Route("/kitchen", kitchenHandler.RegisterRoutes)

			subscriptionHandler := handler.NewSubscriptionHandler(reconciler)
			r.Route("/subscription", subscriptionHandler.RegisterRoutes)

			reportsHandler := handler.NewReportsHandler(queries)
			r.Route("/reports", reportsHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}

func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return cfg.RequestTimeout
}
