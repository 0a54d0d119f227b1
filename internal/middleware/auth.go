package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/comanda-app/api/internal/auth"
	"github.com/comanda-app/api/internal/database"
	"github.com/google/uuid"
)

type contextKey string

const (
	claimsKey     contextKey = "claims"
	restaurantKey contextKey = "restaurant"
)

// RestaurantResolver loads (creating on first access) the restaurant owned by a user.
// Satisfied by *database.Queries.
type RestaurantResolver interface {
	UpsertRestaurantForUser(ctx context.Context, userID uuid.UUID) (database.Restaurant, error)
}

func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRestaurant resolves the caller's restaurant and stores it in the request context.
// Must run after Authenticate.
func RequireRestaurant(store RestaurantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			restaurant, err := store.UpsertRestaurantForUser(r.Context(), claims.UserID)
			if err != nil {
				log.Printf("ERROR: resolve restaurant for user %s: %v", claims.UserID, err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithRestaurant(r.Context(), restaurant)))
		})
	}
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func WithRestaurant(ctx context.Context, restaurant database.Restaurant) context.Context {
	return context.WithValue(ctx, restaurantKey, restaurant)
}

// RestaurantFromContext returns the restaurant placed by RequireRestaurant.
func RestaurantFromContext(ctx context.Context) (database.Restaurant, bool) {
	restaurant, ok := ctx.Value(restaurantKey).(database.Restaurant)
	return restaurant, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
