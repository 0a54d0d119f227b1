package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// --- Transactional in-memory database ---

// fakeState is one consistent snapshot of the rows the services touch.
type fakeState struct {
	tables    map[uuid.UUID]database.Table
	retired   map[uuid.UUID]database.Table // soft-deleted tables
	orders    map[uuid.UUID]database.Order
	items     map[uuid.UUID]database.OrderItem
	menuItems map[uuid.UUID]database.MenuItem
	clock     time.Time
}

func newFakeState() *fakeState {
	return &fakeState{
		tables:    map[uuid.UUID]database.Table{},
		retired:   map[uuid.UUID]database.Table{},
		orders:    map[uuid.UUID]database.Order{},
		items:     map[uuid.UUID]database.OrderItem{},
		menuItems: map[uuid.UUID]database.MenuItem{},
		clock:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		tables:    make(map[uuid.UUID]database.Table, len(s.tables)),
		retired:   make(map[uuid.UUID]database.Table, len(s.retired)),
		orders:    make(map[uuid.UUID]database.Order, len(s.orders)),
		items:     make(map[uuid.UUID]database.OrderItem, len(s.items)),
		menuItems: make(map[uuid.UUID]database.MenuItem, len(s.menuItems)),
		clock:     s.clock,
	}
	for k, v := range s.tables {
		c.tables[k] = v
	}
	for k, v := range s.retired {
		c.retired[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.menuItems {
		c.menuItems[k] = v
	}
	return c
}

func (s *fakeState) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// fakeDB serializes transactions: Begin holds the lock until Commit or
// Rollback, so concurrent callers observe each other's committed work only.
type fakeDB struct {
	mu      sync.Mutex
	state   *fakeState
	failOn  map[string]error
	before  map[string]func(s *fakeState)
	commits int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		state:  newFakeState(),
		failOn: map[string]error{},
		before: map[string]func(s *fakeState){},
	}
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := db.failOn["Begin"]; err != nil {
		return nil, err
	}
	db.mu.Lock()
	return &fakeTx{db: db, state: db.state.clone()}, nil
}

func (db *fakeDB) snapshot() *fakeState {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.clone()
}

func (db *fakeDB) seedTable(restaurantID uuid.UUID, label string, status database.TableStatus) database.Table {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := db.state.tick()
	t := database.Table{ID: uuid.New(), RestaurantID: restaurantID, Label: label, Status: status, CreatedAt: now, UpdatedAt: now}
	db.state.tables[t.ID] = t
	return t
}

func (db *fakeDB) seedOrder(restaurantID, tableID uuid.UUID, status database.OrderStatus) database.Order {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := db.state.tick()
	o := database.Order{ID: uuid.New(), RestaurantID: restaurantID, TableID: tableID, Status: status, TotalAmount: makeNumeric("0"), CreatedAt: now, UpdatedAt: now}
	if status == database.OrderStatusClosed {
		o.ClosedAt = pgtype.Timestamptz{Time: now, Valid: true}
	}
	db.state.orders[o.ID] = o
	return o
}

func (db *fakeDB) seedMenuItem(restaurantID uuid.UUID, name, price string) database.MenuItem {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := db.state.tick()
	mi := database.MenuItem{ID: uuid.New(), RestaurantID: restaurantID, GroupID: uuid.New(), Name: name, Price: makeNumeric(price), CreatedAt: now, UpdatedAt: now}
	db.state.menuItems[mi.ID] = mi
	return mi
}

func (db *fakeDB) setMenuPrice(id uuid.UUID, price string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	mi := db.state.menuItems[id]
	mi.Price = makeNumeric(price)
	db.state.menuItems[id] = mi
}

func (s *fakeState) itemsFor(orderID uuid.UUID) []database.OrderItem {
	var out []database.OrderItem
	for _, it := range s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// fakeTx implements pgx.Tx over a private copy of the state.
// The unused methods panic so we catch accidental calls.
type fakeTx struct {
	db    *fakeDB
	state *fakeState
	done  bool
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true
	defer tx.db.mu.Unlock()
	if err := tx.db.failOn["Commit"]; err != nil {
		return err
	}
	tx.db.state = tx.state
	tx.db.commits++
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true
	tx.db.mu.Unlock()
	return nil
}

func (tx *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (tx *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (tx *fakeTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (tx *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (tx *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (tx *fakeTx) Conn() *pgx.Conn { panic("not implemented") }

// --- Store over a fake transaction ---

// fakeStore implements OrderStore and TableStore with the same row semantics
// as the SQL queries, including cascades and the generated total_price column.
type fakeStore struct {
	tx *fakeTx
}

func newFakeStore(db database.DBTX) *fakeStore {
	return &fakeStore{tx: db.(*fakeTx)}
}

func (f *fakeStore) hook(name string) error {
	if fn := f.tx.db.before[name]; fn != nil {
		fn(f.tx.state)
	}
	return f.tx.db.failOn[name]
}

func (f *fakeStore) st() *fakeState { return f.tx.state }

func (f *fakeStore) table(id, restaurantID uuid.UUID) (database.Table, bool) {
	t, ok := f.st().tables[id]
	return t, ok && t.RestaurantID == restaurantID
}

func (f *fakeStore) order(id, restaurantID uuid.UUID) (database.Order, bool) {
	o, ok := f.st().orders[id]
	return o, ok && o.RestaurantID == restaurantID
}

func (f *fakeStore) GetTable(ctx context.Context, arg database.GetTableParams) (database.Table, error) {
	if err := f.hook("GetTable"); err != nil {
		return database.Table{}, err
	}
	if t, ok := f.table(arg.ID, arg.RestaurantID); ok {
		return t, nil
	}
	return database.Table{}, pgx.ErrNoRows
}

func (f *fakeStore) GetTableForUpdate(ctx context.Context, arg database.GetTableForUpdateParams) (database.Table, error) {
	if err := f.hook("GetTableForUpdate"); err != nil {
		return database.Table{}, err
	}
	if t, ok := f.table(arg.ID, arg.RestaurantID); ok {
		return t, nil
	}
	return database.Table{}, pgx.ErrNoRows
}

func (f *fakeStore) ClaimTable(ctx context.Context, arg database.ClaimTableParams) (database.Table, error) {
	if err := f.hook("ClaimTable"); err != nil {
		return database.Table{}, err
	}
	t, ok := f.table(arg.ID, arg.RestaurantID)
	if !ok || t.Status != database.TableStatusAvailable {
		return database.Table{}, pgx.ErrNoRows
	}
	t.Status = database.TableStatusOccupied
	t.UpdatedAt = f.st().tick()
	f.st().tables[t.ID] = t
	return t, nil
}

func (f *fakeStore) ReleaseTable(ctx context.Context, arg database.ReleaseTableParams) (database.Table, error) {
	if err := f.hook("ReleaseTable"); err != nil {
		return database.Table{}, err
	}
	t, ok := f.table(arg.ID, arg.RestaurantID)
	if !ok || t.Status != database.TableStatusOccupied {
		return database.Table{}, pgx.ErrNoRows
	}
	t.Status = database.TableStatusAvailable
	t.UpdatedAt = f.st().tick()
	f.st().tables[t.ID] = t
	return t, nil
}

func (f *fakeStore) DeleteTable(ctx context.Context, arg database.DeleteTableParams) (int64, error) {
	if err := f.hook("DeleteTable"); err != nil {
		return 0, err
	}
	t, ok := f.table(arg.ID, arg.RestaurantID)
	if !ok {
		return 0, nil
	}
	t.Status = database.TableStatusClosed
	t.UpdatedAt = f.st().tick()
	delete(f.st().tables, arg.ID)
	f.st().retired[arg.ID] = t
	return 1, nil
}

func (f *fakeStore) deleteOrderCascade(orderID uuid.UUID) {
	delete(f.st().orders, orderID)
	for id, it := range f.st().items {
		if it.OrderID == orderID {
			delete(f.st().items, id)
		}
	}
}

func (f *fakeStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	if err := f.hook("CreateOrder"); err != nil {
		return database.Order{}, err
	}
	if _, ok := f.table(arg.TableID, arg.RestaurantID); !ok {
		return database.Order{}, &pgconn.PgError{Code: "23503", ConstraintName: "orders_table_id_restaurant_id_fkey"}
	}
	now := f.st().tick()
	o := database.Order{
		ID:           uuid.New(),
		RestaurantID: arg.RestaurantID,
		TableID:      arg.TableID,
		Status:       database.OrderStatusActive,
		TotalAmount:  makeNumeric("0.00"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.st().orders[o.ID] = o
	return o, nil
}

func (f *fakeStore) GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
	if err := f.hook("GetOrder"); err != nil {
		return database.Order{}, err
	}
	if o, ok := f.order(arg.ID, arg.RestaurantID); ok {
		return o, nil
	}
	return database.Order{}, pgx.ErrNoRows
}

func (f *fakeStore) GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error) {
	if err := f.hook("GetOrderForUpdate"); err != nil {
		return database.Order{}, err
	}
	if o, ok := f.order(arg.ID, arg.RestaurantID); ok {
		return o, nil
	}
	return database.Order{}, pgx.ErrNoRows
}

func (f *fakeStore) CloseOrder(ctx context.Context, arg database.CloseOrderParams) (database.Order, error) {
	if err := f.hook("CloseOrder"); err != nil {
		return database.Order{}, err
	}
	o, ok := f.order(arg.ID, arg.RestaurantID)
	if !ok || o.Status != database.OrderStatusActive {
		return database.Order{}, pgx.ErrNoRows
	}
	now := f.st().tick()
	o.Status = database.OrderStatusClosed
	o.ClosedAt = pgtype.Timestamptz{Time: now, Valid: true}
	o.UpdatedAt = now
	f.st().orders[o.ID] = o
	return o, nil
}

func (f *fakeStore) DeleteOrder(ctx context.Context, arg database.DeleteOrderParams) (uuid.UUID, error) {
	if err := f.hook("DeleteOrder"); err != nil {
		return uuid.Nil, err
	}
	if _, ok := f.order(arg.ID, arg.RestaurantID); !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	f.deleteOrderCascade(arg.ID)
	return arg.ID, nil
}

func (f *fakeStore) CountActiveOrdersForTable(ctx context.Context, arg database.CountActiveOrdersForTableParams) (int64, error) {
	if err := f.hook("CountActiveOrdersForTable"); err != nil {
		return 0, err
	}
	var n int64
	for _, o := range f.st().orders {
		if o.TableID == arg.TableID && o.RestaurantID == arg.RestaurantID && o.Status == database.OrderStatusActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CloseActiveOrdersForTable(ctx context.Context, arg database.CloseActiveOrdersForTableParams) (int64, error) {
	if err := f.hook("CloseActiveOrdersForTable"); err != nil {
		return 0, err
	}
	var n int64
	for id, o := range f.st().orders {
		if o.TableID == arg.TableID && o.RestaurantID == arg.RestaurantID && o.Status == database.OrderStatusActive {
			now := f.st().tick()
			o.Status = database.OrderStatusClosed
			o.ClosedAt = pgtype.Timestamptz{Time: now, Valid: true}
			f.st().orders[id] = o
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) RecomputeOrderTotal(ctx context.Context, arg database.RecomputeOrderTotalParams) (database.Order, error) {
	if err := f.hook("RecomputeOrderTotal"); err != nil {
		return database.Order{}, err
	}
	o, ok := f.order(arg.ID, arg.RestaurantID)
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	sum := decimal.Zero
	for _, it := range f.st().itemsFor(o.ID) {
		sum = sum.Add(numericToDecimal(it.TotalPrice))
	}
	if sum.GreaterThan(maxOrderTotal) {
		return database.Order{}, &pgconn.PgError{Code: "22003", Message: "numeric field overflow"}
	}
	o.TotalAmount = makeNumeric(sum.StringFixed(2))
	o.UpdatedAt = f.st().tick()
	f.st().orders[o.ID] = o
	return o, nil
}

func (f *fakeStore) GetMenuItem(ctx context.Context, arg database.GetMenuItemParams) (database.MenuItem, error) {
	if err := f.hook("GetMenuItem"); err != nil {
		return database.MenuItem{}, err
	}
	mi, ok := f.st().menuItems[arg.ID]
	if !ok || mi.RestaurantID != arg.RestaurantID {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	return mi, nil
}

func (f *fakeStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	if err := f.hook("CreateOrderItem"); err != nil {
		return database.OrderItem{}, err
	}
	if _, ok := f.order(arg.OrderID, arg.RestaurantID); !ok {
		return database.OrderItem{}, &pgconn.PgError{Code: "23503", ConstraintName: "order_items_order_id_restaurant_id_fkey"}
	}
	now := f.st().tick()
	it := database.OrderItem{
		ID:           uuid.New(),
		RestaurantID: arg.RestaurantID,
		OrderID:      arg.OrderID,
		MenuItemID:   arg.MenuItemID,
		ItemName:     arg.ItemName,
		Quantity:     arg.Quantity,
		UnitPrice:    arg.UnitPrice,
		TotalPrice:   lineTotal(arg.UnitPrice, arg.Quantity),
		Observations: arg.Observations,
		ItemStatus:   database.OrderItemStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.st().items[it.ID] = it
	return it, nil
}

func (f *fakeStore) GetOrderItem(ctx context.Context, arg database.GetOrderItemParams) (database.OrderItem, error) {
	if err := f.hook("GetOrderItem"); err != nil {
		return database.OrderItem{}, err
	}
	it, ok := f.st().items[arg.ID]
	if !ok || it.RestaurantID != arg.RestaurantID {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	return it, nil
}

func (f *fakeStore) UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error) {
	if err := f.hook("UpdateOrderItemStatus"); err != nil {
		return database.OrderItem{}, err
	}
	it, ok := f.st().items[arg.ID]
	if !ok || it.RestaurantID != arg.RestaurantID || it.ItemStatus != arg.ItemStatus_2 {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	it.ItemStatus = arg.ItemStatus
	it.UpdatedAt = f.st().tick()
	f.st().items[it.ID] = it
	return it, nil
}

func (f *fakeStore) UpdateOrderItemQuantity(ctx context.Context, arg database.UpdateOrderItemQuantityParams) (database.OrderItem, error) {
	if err := f.hook("UpdateOrderItemQuantity"); err != nil {
		return database.OrderItem{}, err
	}
	it, ok := f.st().items[arg.ID]
	if !ok || it.RestaurantID != arg.RestaurantID {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	it.Quantity = arg.Quantity
	it.TotalPrice = lineTotal(it.UnitPrice, it.Quantity)
	it.UpdatedAt = f.st().tick()
	f.st().items[it.ID] = it
	return it, nil
}

func (f *fakeStore) DeleteOrderItem(ctx context.Context, arg database.DeleteOrderItemParams) (uuid.UUID, error) {
	if err := f.hook("DeleteOrderItem"); err != nil {
		return uuid.Nil, err
	}
	it, ok := f.st().items[arg.ID]
	if !ok || it.RestaurantID != arg.RestaurantID {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(f.st().items, arg.ID)
	return arg.ID, nil
}

func (f *fakeStore) DeleteOrderItemsByOrder(ctx context.Context, arg database.DeleteOrderItemsByOrderParams) error {
	if err := f.hook("DeleteOrderItemsByOrder"); err != nil {
		return err
	}
	for id, it := range f.st().items {
		if it.OrderID == arg.OrderID && it.RestaurantID == arg.RestaurantID {
			delete(f.st().items, id)
		}
	}
	return nil
}

// --- Publisher ---

type recordedEvent struct {
	restaurantID uuid.UUID
	eventType    string
	payload      any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, restaurantID uuid.UUID, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{restaurantID: restaurantID, eventType: eventType, payload: payload})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.eventType
	}
	return out
}

// --- Test helpers ---

// maxOrderTotal is the NUMERIC(12,2) ceiling of orders.total_amount.
var maxOrderTotal = decimal.RequireFromString("9999999999.99")

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	d := numericToDecimal(n)
	exp, _ := decimal.NewFromString(expected)
	return d.Equal(exp)
}

func lineTotal(unitPrice pgtype.Numeric, qty int32) pgtype.Numeric {
	return makeNumeric(numericToDecimal(unitPrice).Mul(decimal.NewFromInt32(qty)).StringFixed(2))
}

// newTestServices wires both services to one fake database.
func newTestServices(db *fakeDB, pub Publisher) (*OrderService, *TableService) {
	orders := NewOrderService(db, func(d database.DBTX) OrderStore { return newFakeStore(d) }, pub)
	tables := NewTableService(db, func(d database.DBTX) TableStore { return newFakeStore(d) }, pub)
	return orders, tables
}
