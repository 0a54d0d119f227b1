package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ActiveOrdersError is returned when a table with active orders is deleted
// without confirmation. It matches ErrTableHasActiveOrders.
type ActiveOrdersError struct {
	Count int64
}

func (e *ActiveOrdersError) Error() string {
	return fmt.Sprintf("table has %d active order(s); confirm to close them and delete the table", e.Count)
}

func (e *ActiveOrdersError) Is(target error) bool {
	return target == ErrTableHasActiveOrders
}

// TableStore defines the DB methods needed to delete tables.
// Satisfied by *database.Queries (and its WithTx variant).
type TableStore interface {
	GetTableForUpdate(ctx context.Context, arg database.GetTableForUpdateParams) (database.Table, error)
	CountActiveOrdersForTable(ctx context.Context, arg database.CountActiveOrdersForTableParams) (int64, error)
	CloseActiveOrdersForTable(ctx context.Context, arg database.CloseActiveOrdersForTableParams) (int64, error)
	DeleteTable(ctx context.Context, arg database.DeleteTableParams) (int64, error)
}

// NewTableStore creates a TableStore from a DBTX (pool or tx).
type NewTableStore func(db database.DBTX) TableStore

// TableService handles table operations that touch orders.
type TableService struct {
	pool     TxBeginner
	newStore NewTableStore
	events   Publisher
}

// NewTableService creates a new TableService. events may be nil.
func NewTableService(pool TxBeginner, newStore NewTableStore, events Publisher) *TableService {
	return &TableService{pool: pool, newStore: newStore, events: events}
}

// DeleteTable retires a table. When active orders reference it the call fails
// with *ActiveOrdersError unless confirm is set, in which case those orders are
// closed first. The row is soft-deleted: it disappears from every table query
// while closed orders keep pointing at it.
func (s *TableService) DeleteTable(ctx context.Context, restaurantID, tableID uuid.UUID, confirm bool) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	batch := &eventBatch{restaurantID: restaurantID}

	table, err := store.GetTableForUpdate(ctx, database.GetTableForUpdateParams{ID: tableID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTableNotFound
		}
		return fmt.Errorf("lock table: %w", err)
	}

	active, err := store.CountActiveOrdersForTable(ctx, database.CountActiveOrdersForTableParams{
		TableID:      tableID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return fmt.Errorf("count active orders: %w", err)
	}
	if active > 0 {
		if !confirm {
			return &ActiveOrdersError{Count: active}
		}
		if _, err := store.CloseActiveOrdersForTable(ctx, database.CloseActiveOrdersForTableParams{
			TableID:      tableID,
			RestaurantID: restaurantID,
		}); err != nil {
			return fmt.Errorf("close active orders: %w", err)
		}
	}

	n, err := store.DeleteTable(ctx, database.DeleteTableParams{ID: tableID, RestaurantID: restaurantID})
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if n == 0 {
		return ErrTableNotFound
	}
	batch.add(enum.EventTableDeleted, TableEvent{TableID: table.ID, Label: table.Label, Status: string(table.Status)})

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	batch.flush(ctx, s.events)
	return nil
}
