package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, restaurantID, tableID uuid.UUID) (database.Order, error)
	AddItem(ctx context.Context, req service.AddItemRequest) (*service.ItemResult, error)
	UpdateItemQuantity(ctx context.Context, restaurantID, itemID uuid.UUID, quantity int32) (*service.ItemResult, error)
	UpdateItemStatus(ctx context.Context, restaurantID, itemID uuid.UUID, status string) (database.OrderItem, error)
	DeleteItem(ctx context.Context, restaurantID, itemID uuid.UUID) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status string) (database.Order, error)
	DeleteOrder(ctx context.Context, restaurantID, orderID uuid.UUID) error
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, arg database.ListOrderItemsByOrderParams) ([]database.OrderItem, error)
}

// OrderHandler handles order and order item endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore) *OrderHandler {
	return &OrderHandler{svc: svc, store: store}
}

// RegisterRoutes registers order endpoints. Expected to be mounted inside
// the restaurant-scoped group, so every path is absolute.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders", h.List)
	r.Get("/orders/{id}", h.Get)
	r.Delete("/orders/{id}", h.Delete)
	r.Patch("/orders/{id}/status", h.UpdateStatus)
	r.Post("/orders/{id}/items", h.AddItem)

	r.Patch("/order-items/{id}/status", h.UpdateItemStatus)
	r.Patch("/order-items/{id}/quantity", h.UpdateItemQuantity)
	r.Delete("/order-items/{id}", h.DeleteItem)
}

// --- Request / Response types ---

type createOrderRequest struct {
	TableID string `json:"table_id"`
}

type addItemRequest struct {
	MenuItemID   string `json:"menu_item_id"`
	Quantity     int32  `json:"quantity"`
	Observations string `json:"observations"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type quantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type orderResponse struct {
	ID          uuid.UUID  `json:"id"`
	TableID     uuid.UUID  `json:"table_id"`
	Status      string     `json:"status"`
	TotalAmount string     `json:"total_amount"`
	ClosedAt    *time.Time `json:"closed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// orderDetailResponse always carries items, as an empty list when there are none.
type orderDetailResponse struct {
	orderResponse
	Items []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	ID           uuid.UUID  `json:"id"`
	OrderID      uuid.UUID  `json:"order_id"`
	MenuItemID   *uuid.UUID `json:"menu_item_id"`
	ItemName     string     `json:"item_name"`
	Quantity     int32      `json:"quantity"`
	UnitPrice    string     `json:"unit_price"`
	TotalPrice   string     `json:"total_price"`
	Observations *string    `json:"observations"`
	ItemStatus   string     `json:"item_status"`
	CreatedAt    time.Time  `json:"created_at"`
}

type itemMutationResponse struct {
	Item  orderItemResponse `json:"item"`
	Order orderResponse     `json:"order"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		TableID:     o.TableID,
		Status:      string(o.Status),
		TotalAmount: numericToString(o.TotalAmount),
		ClosedAt:    timeOrNil(o.ClosedAt),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toOrderDetailResponse(o database.Order, items []database.OrderItem) orderDetailResponse {
	resp := orderDetailResponse{
		orderResponse: toOrderResponse(o),
		Items:         make([]orderItemResponse, len(items)),
	}
	for i, item := range items {
		resp.Items[i] = toOrderItemResponse(item)
	}
	return resp
}

func toOrderItemResponse(item database.OrderItem) orderItemResponse {
	resp := orderItemResponse{
		ID:           item.ID,
		OrderID:      item.OrderID,
		ItemName:     item.ItemName,
		Quantity:     item.Quantity,
		UnitPrice:    numericToString(item.UnitPrice),
		TotalPrice:   numericToString(item.TotalPrice),
		Observations: textOrNil(item.Observations),
		ItemStatus:   string(item.ItemStatus),
		CreatedAt:    item.CreatedAt,
	}
	if item.MenuItemID.Valid {
		id := uuid.UUID(item.MenuItemID.Bytes)
		resp.MenuItemID = &id
	}
	return resp
}

func toItemMutationResponse(res *service.ItemResult) itemMutationResponse {
	return itemMutationResponse{
		Item:  toOrderItemResponse(res.Item),
		Order: toOrderResponse(res.Order),
	}
}

// --- Order handlers ---

// Create opens an order on an available table and marks the table occupied.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TableID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "table_id is required"})
		return
	}
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table_id"})
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), restaurant.ID, tableID)
	if err != nil {
		writeServiceError(w, "create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderDetailResponse(order, nil))
}

// List returns orders newest first, optionally filtered by status and table.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := database.ListOrdersParams{
		RestaurantID: restaurant.ID,
		RowLimit:     int32(limit),
		RowOffset:    int32(offset),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := database.OrderStatus(s)
		if status != database.OrderStatusActive && status != database.OrderStatusClosed {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
			return
		}
		params.Status = database.NullOrderStatus{OrderStatus: status, Valid: true}
	}
	if s := r.URL.Query().Get("table_id"); s != "" {
		tableID, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table_id"})
			return
		}
		params.TableID = pgtype.UUID{Bytes: tableID, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		writeStoreError(w, "list orders", err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: resp,
		Limit:  limit,
		Offset: offset,
	})
}

// Get returns an order with its items.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	orderID, ok := parseID(w, r, "order")
	if !ok {
		return
	}

	order, err := h.store.GetOrder(r.Context(), database.GetOrderParams{ID: orderID, RestaurantID: restaurant.ID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		writeStoreError(w, "get order", err)
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), database.ListOrderItemsByOrderParams{
		OrderID:      orderID,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		writeStoreError(w, "list order items", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderDetailResponse(order, items))
}

// UpdateStatus closes an order. Closing the last active order on a table frees it.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	orderID, ok := parseID(w, r, "order")
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	order, err := h.svc.UpdateOrderStatus(r.Context(), restaurant.ID, orderID, req.Status)
	if err != nil {
		writeServiceError(w, "update order status", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// Delete removes an order and its items, releasing the table if it was the last active order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	orderID, ok := parseID(w, r, "order")
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), restaurant.ID, orderID); err != nil {
		writeServiceError(w, "delete order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Order item handlers ---

// AddItem adds a menu item to an active order at the current catalog price.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	orderID, ok := parseID(w, r, "order")
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.MenuItemID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "menu_item_id is required"})
		return
	}
	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu_item_id"})
		return
	}

	res, err := h.svc.AddItem(r.Context(), service.AddItemRequest{
		RestaurantID: restaurant.ID,
		OrderID:      orderID,
		MenuItemID:   menuItemID,
		Quantity:     req.Quantity,
		Observations: req.Observations,
	})
	if err != nil {
		writeServiceError(w, "add order item", err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemMutationResponse(res))
}

// UpdateItemQuantity changes an item's quantity and returns the new order total.
func (h *OrderHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	itemID, ok := parseID(w, r, "order item")
	if !ok {
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.svc.UpdateItemQuantity(r.Context(), restaurant.ID, itemID, req.Quantity)
	if err != nil {
		writeServiceError(w, "update order item quantity", err)
		return
	}

	writeJSON(w, http.StatusOK, toItemMutationResponse(res))
}

// UpdateItemStatus moves an item through the kitchen workflow.
func (h *OrderHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	itemID, ok := parseID(w, r, "order item")
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	item, err := h.svc.UpdateItemStatus(r.Context(), restaurant.ID, itemID, req.Status)
	if err != nil {
		writeServiceError(w, "update order item status", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderItemResponse(item))
}

// DeleteItem removes an item and returns the recomputed order.
func (h *OrderHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	itemID, ok := parseID(w, r, "order item")
	if !ok {
		return
	}

	order, err := h.svc.DeleteItem(r.Context(), restaurant.ID, itemID)
	if err != nil {
		writeServiceError(w, "delete order item", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
