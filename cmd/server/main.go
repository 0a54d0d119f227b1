package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/comanda-app/api/internal/billing"
	"github.com/comanda-app/api/internal/config"
	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/pubsub"
	"github.com/comanda-app/api/internal/router"
	"github.com/comanda-app/api/internal/service"
	"github.com/comanda-app/api/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	queries := database.New(pool)

	hub := ws.NewHub()
	go hub.Run(ctx)

	// Kitchen events go through Redis when configured so every instance sees them.
	var events service.Publisher = hub
	if cfg.RedisURL != "" {
		client, err := pubsub.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Unable to connect to redis: %v", err)
		}
		defer client.Close()

		relay := pubsub.NewRedisRelay(client, pubsub.DefaultChannel, hub)
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("ERROR: redis relay stopped: %v", err)
			}
		}()
		events = relay
		log.Println("Kitchen events relayed through redis")
	}

	var provider billing.Provider
	if cfg.StripeSecretKey != "" {
		provider = billing.NewStripeProvider(cfg.StripeSecretKey)
	} else {
		log.Println("WARNING: STRIPE_SECRET_KEY not set; subscription calls will fail")
	}
	reconciler := billing.NewReconciler(pool, func(db database.DBTX) billing.Store {
		return database.New(db)
	}, provider, billing.Config{
		WebhookSecret: cfg.StripeWebhookSecret,
		ProductID:     cfg.StripeProductID,
		TrialDays:     cfg.StripeTrialDays,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.New(cfg, queries, pool, hub, events, reconciler),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: graceful shutdown: %v", err)
	}
}
