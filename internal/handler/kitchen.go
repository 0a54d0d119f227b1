package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// KitchenStore defines the database methods needed by the kitchen feed.
// Satisfied by *database.Queries; narrow interface for testability.
type KitchenStore interface {
	ListKitchenItems(ctx context.Context, restaurantID uuid.UUID) ([]database.ListKitchenItemsRow, error)
}

// KitchenHandler serves the kitchen's pending work queue.
type KitchenHandler struct {
	store KitchenStore
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(store KitchenStore) *KitchenHandler {
	return &KitchenHandler{store: store}
}

// RegisterRoutes registers kitchen endpoints. Mounted at /kitchen.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/items", h.ListItems)
}

type kitchenItemResponse struct {
	ID           uuid.UUID  `json:"id"`
	OrderID      uuid.UUID  `json:"order_id"`
	TableID      uuid.UUID  `json:"table_id"`
	TableLabel   string     `json:"table_label"`
	MenuItemID   *uuid.UUID `json:"menu_item_id"`
	ItemName     string     `json:"item_name"`
	Quantity     int32      `json:"quantity"`
	Observations *string    `json:"observations"`
	ItemStatus   string     `json:"item_status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ListItems returns undelivered items of active orders, oldest first.
func (h *KitchenHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	rows, err := h.store.ListKitchenItems(r.Context(), restaurant.ID)
	if err != nil {
		writeStoreError(w, "list kitchen items", err)
		return
	}

	resp := make([]kitchenItemResponse, len(rows))
	for i, row := range rows {
		resp[i] = kitchenItemResponse{
			ID:           row.ID,
			OrderID:      row.OrderID,
			TableID:      row.TableID,
			TableLabel:   row.TableLabel,
			ItemName:     row.ItemName,
			Quantity:     row.Quantity,
			Observations: textOrNil(row.Observations),
			ItemStatus:   string(row.ItemStatus),
			CreatedAt:    row.CreatedAt,
		}
		if row.MenuItemID.Valid {
			id := uuid.UUID(row.MenuItemID.Bytes)
			resp[i].MenuItemID = &id
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
