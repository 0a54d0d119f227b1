package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TableStore defines the database methods needed by table handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type TableStore interface {
	ListTables(ctx context.Context, restaurantID uuid.UUID) ([]database.Table, error)
	GetTable(ctx context.Context, arg database.GetTableParams) (database.Table, error)
	CreateTable(ctx context.Context, arg database.CreateTableParams) (database.Table, error)
	RenameTable(ctx context.Context, arg database.RenameTableParams) (database.Table, error)
}

// TableServicer defines the service methods needed by table handlers.
// Satisfied by *service.TableService.
type TableServicer interface {
	DeleteTable(ctx context.Context, restaurantID, tableID uuid.UUID, confirm bool) error
}

// TableHandler handles table endpoints.
type TableHandler struct {
	store TableStore
	svc   TableServicer
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(store TableStore, svc TableServicer) *TableHandler {
	return &TableHandler{store: store, svc: svc}
}

// RegisterRoutes registers table endpoints. Mounted at /tables.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Rename)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type tableRequest struct {
	Label string `json:"label"`
}

type tableResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTableResponse(t database.Table) tableResponse {
	return tableResponse{
		ID:        t.ID,
		Label:     t.Label,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func decodeLabel(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", false
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "label is required"})
		return "", false
	}
	return label, true
}

// --- Handlers ---

// List returns every table with its current status.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	tables, err := h.store.ListTables(r.Context(), restaurant.ID)
	if err != nil {
		writeStoreError(w, "list tables", err)
		return
	}

	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = toTableResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single table.
func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	tableID, ok := parseID(w, r, "table")
	if !ok {
		return
	}

	table, err := h.store.GetTable(r.Context(), database.GetTableParams{ID: tableID, RestaurantID: restaurant.ID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "table not found"})
			return
		}
		writeStoreError(w, "get table", err)
		return
	}

	writeJSON(w, http.StatusOK, toTableResponse(table))
}

// Create adds an available table.
func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	label, ok := decodeLabel(w, r)
	if !ok {
		return
	}

	table, err := h.store.CreateTable(r.Context(), database.CreateTableParams{RestaurantID: restaurant.ID, Label: label})
	if err != nil {
		writeStoreError(w, "create table", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTableResponse(table))
}

// Rename changes a table's label. Status is owned by the order lifecycle.
func (h *TableHandler) Rename(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	tableID, ok := parseID(w, r, "table")
	if !ok {
		return
	}
	label, ok := decodeLabel(w, r)
	if !ok {
		return
	}

	table, err := h.store.RenameTable(r.Context(), database.RenameTableParams{
		Label:        label,
		ID:           tableID,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "table not found"})
			return
		}
		writeStoreError(w, "rename table", err)
		return
	}

	writeJSON(w, http.StatusOK, toTableResponse(table))
}

// Delete removes a table. A table with active orders needs ?confirm=true,
// otherwise the response carries the number of orders that would be closed.
func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	tableID, ok := parseID(w, r, "table")
	if !ok {
		return
	}

	confirm := false
	if v := r.URL.Query().Get("confirm"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid confirm value"})
			return
		}
		confirm = parsed
	}

	if err := h.svc.DeleteTable(r.Context(), restaurant.ID, tableID, confirm); err != nil {
		writeServiceError(w, "delete table", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
