package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Errors returned by the order and table services.
var (
	ErrTableNotFound        = errors.New("table not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderItemNotFound    = errors.New("order item not found")
	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrInvalidQuantity      = errors.New("quantity must be between 1 and 1000")
	ErrAmountTooLarge       = errors.New("order amount is too large")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidItemStatus    = errors.New("invalid item status")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrTableUnavailable     = errors.New("table is not available")
	ErrOrderClosed          = errors.New("order is closed")
	ErrTableHasActiveOrders = errors.New("table has active orders")
	ErrStatusConflict       = errors.New("status changed, please retry")
)

// MaxItemQuantity caps the quantity of a single order line.
const MaxItemQuantity = 1000

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order lifecycle.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetTable(ctx context.Context, arg database.GetTableParams) (database.Table, error)
	GetTableForUpdate(ctx context.Context, arg database.GetTableForUpdateParams) (database.Table, error)
	ClaimTable(ctx context.Context, arg database.ClaimTableParams) (database.Table, error)
	ReleaseTable(ctx context.Context, arg database.ReleaseTableParams) (database.Table, error)

	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	CloseOrder(ctx context.Context, arg database.CloseOrderParams) (database.Order, error)
	DeleteOrder(ctx context.Context, arg database.DeleteOrderParams) (uuid.UUID, error)
	CountActiveOrdersForTable(ctx context.Context, arg database.CountActiveOrdersForTableParams) (int64, error)
	RecomputeOrderTotal(ctx context.Context, arg database.RecomputeOrderTotalParams) (database.Order, error)

	GetMenuItem(ctx context.Context, arg database.GetMenuItemParams) (database.MenuItem, error)

	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	GetOrderItem(ctx context.Context, arg database.GetOrderItemParams) (database.OrderItem, error)
	UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error)
	UpdateOrderItemQuantity(ctx context.Context, arg database.UpdateOrderItemQuantityParams) (database.OrderItem, error)
	DeleteOrderItem(ctx context.Context, arg database.DeleteOrderItemParams) (uuid.UUID, error)
	DeleteOrderItemsByOrder(ctx context.Context, arg database.DeleteOrderItemsByOrderParams) error
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// AddItemRequest is the validated input for adding an item to an order.
type AddItemRequest struct {
	RestaurantID uuid.UUID
	OrderID      uuid.UUID
	MenuItemID   uuid.UUID
	Quantity     int32
	Observations string
}

// ItemResult is a mutated order item together with its order's recomputed state.
type ItemResult struct {
	Item  database.OrderItem
	Order database.Order
}

// OrderService runs the order lifecycle: table claims, item mutations,
// derived totals and table release. Every operation is one transaction.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	events   Publisher
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, events Publisher) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, events: events}
}

// CreateOrder claims an available table and opens an active order against it.
func (s *OrderService) CreateOrder(ctx context.Context, restaurantID, tableID uuid.UUID) (database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	batch := &eventBatch{restaurantID: restaurantID}

	// Conditional claim: only one concurrent caller can flip available -> occupied.
	table, err := store.ClaimTable(ctx, database.ClaimTableParams{ID: tableID, RestaurantID: restaurantID})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, fmt.Errorf("claim table: %w", err)
		}
		if _, err := store.GetTable(ctx, database.GetTableParams{ID: tableID, RestaurantID: restaurantID}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return database.Order{}, ErrTableNotFound
			}
			return database.Order{}, fmt.Errorf("get table: %w", err)
		}
		return database.Order{}, ErrTableUnavailable
	}
	batch.table(table)

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{RestaurantID: restaurantID, TableID: tableID})
	if err != nil {
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}
	batch.order(enum.EventOrderCreated, order)

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	batch.flush(ctx, s.events)
	return order, nil
}

// AddItem snapshots the catalog item's name and price into a new pending
// order item and recomputes the order total.
func (s *OrderService) AddItem(ctx context.Context, req AddItemRequest) (*ItemResult, error) {
	if req.Quantity < 1 || req.Quantity > MaxItemQuantity {
		return nil, ErrInvalidQuantity
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	batch := &eventBatch{restaurantID: req.RestaurantID}

	if _, err := lockActiveOrder(ctx, store, req.RestaurantID, req.OrderID); err != nil {
		return nil, err
	}

	menuItem, err := store.GetMenuItem(ctx, database.GetMenuItemParams{ID: req.MenuItemID, RestaurantID: req.RestaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}

	observations := pgtype.Text{}
	if req.Observations != "" {
		observations = pgtype.Text{String: req.Observations, Valid: true}
	}

	item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
		RestaurantID: req.RestaurantID,
		OrderID:      req.OrderID,
		MenuItemID:   pgtype.UUID{Bytes: menuItem.ID, Valid: true},
		ItemName:     menuItem.Name,
		Quantity:     req.Quantity,
		UnitPrice:    menuItem.Price,
		Observations: observations,
	})
	if err != nil {
		return nil, amountError("create order item", err)
	}

	order, err := store.RecomputeOrderTotal(ctx, database.RecomputeOrderTotalParams{ID: req.OrderID, RestaurantID: req.RestaurantID})
	if err != nil {
		return nil, amountError("recompute order total", err)
	}
	batch.item(enum.EventOrderItemCreated, item, order)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	batch.flush(ctx, s.events)
	return &ItemResult{Item: item, Order: order}, nil
}

// UpdateItemQuantity changes an item's quantity on an active order and recomputes the total.
func (s *OrderService) UpdateItemQuantity(ctx context.Context, restaurantID, itemID uuid.UUID, quantity int32) (*ItemResult, error) {
	if quantity < 1 || quantity > MaxItemQuantity {
		return nil, ErrInvalidQuantity
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	batch := &eventBatch{restaurantID: restaurantID}

	current, err := getOrderItem(ctx, store, restaurantID, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := lockActiveOrder(ctx, store, restaurantID, current.OrderID); err != nil {
		return nil, err
	}

	item, err := store.UpdateOrderItemQuantity(ctx, database.UpdateOrderItemQuantityParams{
		Quantity:     quantity,
		ID:           itemID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderItemNotFound
		}
		return nil, amountError("update order item quantity", err)
	}

	order, err := store.RecomputeOrderTotal(ctx, database.RecomputeOrderTotalParams{ID: item.OrderID, RestaurantID: restaurantID})
	if err != nil {
		return nil, amountError("recompute order total", err)
	}
	batch.item(enum.EventOrderItemUpdated, item, order)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	batch.flush(ctx, s.events)
	return &ItemResult{Item: item, Order: order}, nil
}

// UpdateItemStatus advances an item along pending -> preparing -> ready -> delivered.
// Setting the current status again is a no-op.
func (s *OrderService) UpdateItemStatus(ctx context.Context, restaurantID, itemID uuid.UUID, status string) (database.OrderItem, error) {
	next := database.OrderItemStatus(status)
	if !isValidItemStatus(next) {
		return database.OrderItem{}, ErrInvalidItemStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.OrderItem{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	batch := &eventBatch{restaurantID: restaurantID}

	current, err := getOrderItem(ctx, store, restaurantID, itemID)
	if err != nil {
		return database.OrderItem{}, err
	}
	if current.ItemStatus == next {
		return current, nil
	}
	if err := validateItemTransition(current.ItemStatus, next); err != nil {
		return database.OrderItem{}, err
	}

	updated, err := store.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
		ItemStatus:   next,
		ID:           itemID,
		RestaurantID: restaurantID,
		ItemStatus_2: current.ItemStatus,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.OrderItem{}, ErrStatusConflict
		}
		return database.OrderItem{}, fmt.Errorf("update order item status: %w", err)
	}

	order, err := store.GetOrder(ctx, database.GetOrderParams{ID: updated.OrderID, RestaurantID: restaurantID})
	if err != nil {
		return database.OrderItem{}, fmt.Errorf("get order: %w", err)
	}
	batch.item(enum.EventOrderItemUpdated, updated, order)

	if err := tx.Commit(ctx); err != nil {
		return database.OrderItem{}, fmt.Errorf("commit tx: %w", err)
	}
	batch.flush(ctx, s.events)
	return updated, nil
}

// DeleteItem removes an item from an active order and recomputes the total.
func (s *OrderService) DeleteItem(ctx context.Context, restaurantID, itemID uuid.UUID) (database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	batch := &eventBatch{restaurantID: restaurantID}

	item, err := getOrderItem(ctx, store, restaurantID, itemID)
	if err != nil {
		return database.Order{}, err
	}
	if _, err := lockActiveOrder(ctx, store, restaurantID, item.OrderID); err != nil {
		return database.Order{}, err
	}

	if _, err := store.DeleteOrderItem(ctx, database.DeleteOrderItemParams{ID: itemID, RestaurantID: restaurantID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderItemNotFound
		}
		return database.Order{}, fmt.Errorf("delete order item: %w", err)
	}

	order, err := store.RecomputeOrderTotal(ctx, database.RecomputeOrderTotalParams{ID: item.OrderID, RestaurantID: restaurantID})
	if err != nil {
		return database.Order{}, fmt.Errorf("recompute order total: %w", err)
	}
	batch.item(enum.EventOrderItemDeleted, item, order)

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	batch.flush(ctx, s.events)
	return order, nil
}

// UpdateOrderStatus closes an order and releases its table when no other
// active order remains on it. active -> active is a no-op; closed orders
// cannot be reopened.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status string) (database.Order, error) {
	next := database.OrderStatus(status)
	if next != database.OrderStatusActive && next != database.OrderStatusClosed {
		return database.Order{}, ErrInvalidOrderStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	batch := &eventBatch{restaurantID: restaurantID}

	current, err := getOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return database.Order{}, err
	}
	if current.Status == next {
		return current, nil
	}
	if current.Status == database.OrderStatusClosed {
		return database.Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, next)
	}

	// Lock order is always table, then order, then items.
	if _, err := lockTable(ctx, store, restaurantID, current.TableID); err != nil {
		return database.Order{}, err
	}
	locked, err := lockOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return database.Order{}, err
	}
	if locked.Status == database.OrderStatusClosed {
		// Closed concurrently; the target state already holds.
		return locked, nil
	}

	closed, err := store.CloseOrder(ctx, database.CloseOrderParams{ID: orderID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrStatusConflict
		}
		return database.Order{}, fmt.Errorf("close order: %w", err)
	}
	batch.order(enum.EventOrderClosed, closed)

	if err := releaseTableIfIdle(ctx, store, batch, restaurantID, closed.TableID); err != nil {
		return database.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	batch.flush(ctx, s.events)
	return closed, nil
}

// DeleteOrder removes an order with its items and releases the table when
// no other active order remains on it.
func (s *OrderService) DeleteOrder(ctx context.Context, restaurantID, orderID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	batch := &eventBatch{restaurantID: restaurantID}

	current, err := getOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return err
	}
	// Closed is terminal and never holds a table, which may already be deleted.
	holdsTable := current.Status != database.OrderStatusClosed
	if holdsTable {
		if _, err := lockTable(ctx, store, restaurantID, current.TableID); err != nil {
			return err
		}
	}
	order, err := lockOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return err
	}

	if err := store.DeleteOrderItemsByOrder(ctx, database.DeleteOrderItemsByOrderParams{OrderID: orderID, RestaurantID: restaurantID}); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if _, err := store.DeleteOrder(ctx, database.DeleteOrderParams{ID: orderID, RestaurantID: restaurantID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	batch.order(enum.EventOrderDeleted, order)

	if holdsTable {
		if err := releaseTableIfIdle(ctx, store, batch, restaurantID, order.TableID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	batch.flush(ctx, s.events)
	return nil
}

// --- Helpers ---

// releaseTableIfIdle flips an occupied table back to available when no active
// order references it. The caller must already hold the table row lock.
func releaseTableIfIdle(ctx context.Context, store OrderStore, batch *eventBatch, restaurantID, tableID uuid.UUID) error {
	active, err := store.CountActiveOrdersForTable(ctx, database.CountActiveOrdersForTableParams{
		TableID:      tableID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return fmt.Errorf("count active orders: %w", err)
	}
	if active > 0 {
		return nil
	}

	table, err := store.ReleaseTable(ctx, database.ReleaseTableParams{ID: tableID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("release table: %w", err)
	}
	batch.table(table)
	return nil
}

// amountError maps a NUMERIC overflow on line or order totals to ErrAmountTooLarge.
func amountError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22003" {
		return ErrAmountTooLarge
	}
	return fmt.Errorf("%s: %w", op, err)
}

func lockTable(ctx context.Context, store OrderStore, restaurantID, tableID uuid.UUID) (database.Table, error) {
	table, err := store.GetTableForUpdate(ctx, database.GetTableForUpdateParams{ID: tableID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Table{}, ErrTableNotFound
		}
		return database.Table{}, fmt.Errorf("lock table: %w", err)
	}
	return table, nil
}

func lockOrder(ctx context.Context, store OrderStore, restaurantID, orderID uuid.UUID) (database.Order, error) {
	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{ID: orderID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("lock order: %w", err)
	}
	return order, nil
}

func lockActiveOrder(ctx context.Context, store OrderStore, restaurantID, orderID uuid.UUID) (database.Order, error) {
	order, err := lockOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return database.Order{}, err
	}
	if order.Status != database.OrderStatusActive {
		return database.Order{}, ErrOrderClosed
	}
	return order, nil
}

func getOrder(ctx context.Context, store OrderStore, restaurantID, orderID uuid.UUID) (database.Order, error) {
	order, err := store.GetOrder(ctx, database.GetOrderParams{ID: orderID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func getOrderItem(ctx context.Context, store OrderStore, restaurantID, itemID uuid.UUID) (database.OrderItem, error) {
	item, err := store.GetOrderItem(ctx, database.GetOrderItemParams{ID: itemID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.OrderItem{}, ErrOrderItemNotFound
		}
		return database.OrderItem{}, fmt.Errorf("get order item: %w", err)
	}
	return item, nil
}

func isValidItemStatus(s database.OrderItemStatus) bool {
	switch s {
	case database.OrderItemStatusPending,
		database.OrderItemStatusPreparing,
		database.OrderItemStatusReady,
		database.OrderItemStatusDelivered:
		return true
	}
	return false
}

// itemTransitions is the forward-only allow-list for order item statuses.
var itemTransitions = map[database.OrderItemStatus]database.OrderItemStatus{
	database.OrderItemStatusPending:   database.OrderItemStatusPreparing,
	database.OrderItemStatusPreparing: database.OrderItemStatusReady,
	database.OrderItemStatusReady:     database.OrderItemStatusDelivered,
}

func validateItemTransition(current, next database.OrderItemStatus) error {
	if allowed, ok := itemTransitions[current]; ok && allowed == next {
		return nil
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, next)
}
