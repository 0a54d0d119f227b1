package service

import (
	"context"
	"log"

	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Publisher fans kitchen events out to connected clients.
// Satisfied by *ws.Hub and *pubsub.RedisRelay.
type Publisher interface {
	Publish(ctx context.Context, restaurantID uuid.UUID, eventType string, payload any) error
}

// OrderEvent is the payload of order.* events.
type OrderEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	TableID     uuid.UUID `json:"table_id"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
}

// OrderItemEvent is the payload of order_item.* events.
type OrderItemEvent struct {
	ItemID       uuid.UUID `json:"item_id"`
	OrderID      uuid.UUID `json:"order_id"`
	ItemName     string    `json:"item_name,omitempty"`
	Quantity     int32     `json:"quantity,omitempty"`
	ItemStatus   string    `json:"item_status,omitempty"`
	Observations *string   `json:"observations,omitempty"`
	OrderTotal   string    `json:"order_total"`
}

// TableEvent is the payload of table.* events.
type TableEvent struct {
	TableID uuid.UUID `json:"table_id"`
	Label   string    `json:"label"`
	Status  string    `json:"status"`
}

type pendingEvent struct {
	eventType string
	payload   any
}

// eventBatch collects events inside a transaction so they can be published after commit.
type eventBatch struct {
	restaurantID uuid.UUID
	events       []pendingEvent
}

func (b *eventBatch) add(eventType string, payload any) {
	b.events = append(b.events, pendingEvent{eventType: eventType, payload: payload})
}

func (b *eventBatch) order(eventType string, o database.Order) {
	b.add(eventType, OrderEvent{
		OrderID:     o.ID,
		TableID:     o.TableID,
		Status:      string(o.Status),
		TotalAmount: numericToDecimal(o.TotalAmount).StringFixed(2),
	})
}

func (b *eventBatch) item(eventType string, item database.OrderItem, order database.Order) {
	ev := OrderItemEvent{
		ItemID:     item.ID,
		OrderID:    item.OrderID,
		ItemName:   item.ItemName,
		Quantity:   item.Quantity,
		ItemStatus: string(item.ItemStatus),
		OrderTotal: numericToDecimal(order.TotalAmount).StringFixed(2),
	}
	if item.Observations.Valid {
		ev.Observations = &item.Observations.String
	}
	b.add(eventType, ev)
}

func (b *eventBatch) table(t database.Table) {
	b.add(enum.EventTableUpdated, TableEvent{TableID: t.ID, Label: t.Label, Status: string(t.Status)})
}

// flush publishes collected events. Publish failures are logged, never returned:
// the transaction they describe has already committed.
func (b *eventBatch) flush(ctx context.Context, p Publisher) {
	if p == nil {
		return
	}
	for _, ev := range b.events {
		if err := p.Publish(ctx, b.restaurantID, ev.eventType, ev.payload); err != nil {
			log.Printf("ERROR: publish %s for restaurant %s: %v", ev.eventType, b.restaurantID, err)
		}
	}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}
