package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Mock store ---

// mockMenuStore keeps the catalog in insertion order and mimics the composite
// foreign keys and cascades of the real schema.
type mockMenuStore struct {
	menus  []database.Menu
	groups []database.MenuGroup
	items  []database.MenuItem
}

func (m *mockMenuStore) ListMenus(_ context.Context, restaurantID uuid.UUID) ([]database.Menu, error) {
	var out []database.Menu
	for _, menu := range m.menus {
		if menu.RestaurantID == restaurantID {
			out = append(out, menu)
		}
	}
	return out, nil
}

func (m *mockMenuStore) GetMenu(_ context.Context, arg database.GetMenuParams) (database.Menu, error) {
	for _, menu := range m.menus {
		if menu.ID == arg.ID && menu.RestaurantID == arg.RestaurantID {
			return menu, nil
		}
	}
	return database.Menu{}, pgx.ErrNoRows
}

func (m *mockMenuStore) CreateMenu(_ context.Context, arg database.CreateMenuParams) (database.Menu, error) {
	menu := database.Menu{ID: uuid.New(), RestaurantID: arg.RestaurantID, Name: arg.Name, CreatedAt: time.Now()}
	m.menus = append(m.menus, menu)
	return menu, nil
}

func (m *mockMenuStore) UpdateMenu(_ context.Context, arg database.UpdateMenuParams) (database.Menu, error) {
	for i, menu := range m.menus {
		if menu.ID == arg.ID && menu.RestaurantID == arg.RestaurantID {
			m.menus[i].Name = arg.Name
			return m.menus[i], nil
		}
	}
	return database.Menu{}, pgx.ErrNoRows
}

func (m *mockMenuStore) DeleteMenu(_ context.Context, arg database.DeleteMenuParams) (uuid.UUID, error) {
	for i, menu := range m.menus {
		if menu.ID == arg.ID && menu.RestaurantID == arg.RestaurantID {
			m.menus = append(m.menus[:i], m.menus[i+1:]...)
			var keep []database.MenuGroup
			for _, g := range m.groups {
				if g.MenuID == menu.ID {
					m.dropItemsOf(g.ID)
					continue
				}
				keep = append(keep, g)
			}
			m.groups = keep
			return menu.ID, nil
		}
	}
	return uuid.Nil, pgx.ErrNoRows
}

func (m *mockMenuStore) ListMenuGroups(_ context.Context, restaurantID uuid.UUID) ([]database.MenuGroup, error) {
	var out []database.MenuGroup
	for _, g := range m.groups {
		if g.RestaurantID == restaurantID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockMenuStore) ListMenuGroupsByMenu(_ context.Context, arg database.ListMenuGroupsByMenuParams) ([]database.MenuGroup, error) {
	var out []database.MenuGroup
	for _, g := range m.groups {
		if g.MenuID == arg.MenuID && g.RestaurantID == arg.RestaurantID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockMenuStore) CreateMenuGroup(ctx context.Context, arg database.CreateMenuGroupParams) (database.MenuGroup, error) {
	if _, err := m.GetMenu(ctx, database.GetMenuParams{ID: arg.MenuID, RestaurantID: arg.RestaurantID}); err != nil {
		return database.MenuGroup{}, &pgconn.PgError{Code: "23503"}
	}
	g := database.MenuGroup{ID: uuid.New(), RestaurantID: arg.RestaurantID, MenuID: arg.MenuID, Name: arg.Name, CreatedAt: time.Now()}
	m.groups = append(m.groups, g)
	return g, nil
}

func (m *mockMenuStore) UpdateMenuGroup(_ context.Context, arg database.UpdateMenuGroupParams) (database.MenuGroup, error) {
	for i, g := range m.groups {
		if g.ID == arg.ID && g.RestaurantID == arg.RestaurantID {
			m.groups[i].Name = arg.Name
			return m.groups[i], nil
		}
	}
	return database.MenuGroup{}, pgx.ErrNoRows
}

func (m *mockMenuStore) DeleteMenuGroup(_ context.Context, arg database.DeleteMenuGroupParams) (uuid.UUID, error) {
	for i, g := range m.groups {
		if g.ID == arg.ID && g.RestaurantID == arg.RestaurantID {
			m.groups = append(m.groups[:i], m.groups[i+1:]...)
			m.dropItemsOf(g.ID)
			return g.ID, nil
		}
	}
	return uuid.Nil, pgx.ErrNoRows
}

func (m *mockMenuStore) dropItemsOf(groupID uuid.UUID) {
	var keep []database.MenuItem
	for _, it := range m.items {
		if it.GroupID != groupID {
			keep = append(keep, it)
		}
	}
	m.items = keep
}

func (m *mockMenuStore) ListMenuItems(_ context.Context, restaurantID uuid.UUID) ([]database.MenuItem, error) {
	var out []database.MenuItem
	for _, it := range m.items {
		if it.RestaurantID == restaurantID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockMenuStore) CreateMenuItem(_ context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error) {
	found := false
	for _, g := range m.groups {
		if g.ID == arg.GroupID && g.RestaurantID == arg.RestaurantID {
			found = true
		}
	}
	if !found {
		return database.MenuItem{}, &pgconn.PgError{Code: "23503"}
	}
	it := database.MenuItem{
		ID:           uuid.New(),
		RestaurantID: arg.RestaurantID,
		GroupID:      arg.GroupID,
		Name:         arg.Name,
		Description:  arg.Description,
		Price:        arg.Price,
		CreatedAt:    time.Now(),
	}
	m.items = append(m.items, it)
	return it, nil
}

func (m *mockMenuStore) UpdateMenuItem(_ context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error) {
	for i, it := range m.items {
		if it.ID == arg.ID && it.RestaurantID == arg.RestaurantID {
			m.items[i].Name = arg.Name
			m.items[i].Description = arg.Description
			m.items[i].Price = arg.Price
			return m.items[i], nil
		}
	}
	return database.MenuItem{}, pgx.ErrNoRows
}

func (m *mockMenuStore) DeleteMenuItem(_ context.Context, arg database.DeleteMenuItemParams) (uuid.UUID, error) {
	for i, it := range m.items {
		if it.ID == arg.ID && it.RestaurantID == arg.RestaurantID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return it.ID, nil
		}
	}
	return uuid.Nil, pgx.ErrNoRows
}

// --- Helpers ---

func setupMenuRouter(store *mockMenuStore, restaurant database.Restaurant) *chi.Mux {
	h := handler.NewMenuHandler(store)
	r := chi.NewRouter()
	r.Use(withRestaurant(restaurant))
	h.RegisterRoutes(r)
	return r
}

func createMenuTree(t *testing.T, router http.Handler) (menuID, groupID, itemID string) {
	t.Helper()

	rr := doRequest(t, router, "POST", "/menus", map[string]string{"name": "Dinner"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create menu: got %d; body: %s", rr.Code, rr.Body.String())
	}
	menuID = decodeMap(t, rr)["id"].(string)

	rr = doRequest(t, router, "POST", "/menus/"+menuID+"/groups", map[string]string{"name": "Pasta"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create group: got %d; body: %s", rr.Code, rr.Body.String())
	}
	groupID = decodeMap(t, rr)["id"].(string)

	rr = doRequest(t, router, "POST", "/groups/"+groupID+"/items", map[string]string{
		"name":        "Carbonara",
		"description": "guanciale, pecorino",
		"price":       "12.5",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create item: got %d; body: %s", rr.Code, rr.Body.String())
	}
	itemID = decodeMap(t, rr)["id"].(string)
	return menuID, groupID, itemID
}

// --- Tests ---

func TestMenu_EmptyGroupListsNoItems(t *testing.T) {
	store := &mockMenuStore{}
	router := setupMenuRouter(store, makeRestaurant())

	rr := doRequest(t, router, "POST", "/menus", map[string]string{"name": "Drinks"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create menu: got %d; body: %s", rr.Code, rr.Body.String())
	}
	menuID := decodeMap(t, rr)["id"].(string)
	rr = doRequest(t, router, "POST", "/menus/"+menuID+"/groups", map[string]string{"name": "Wine"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create group: got %d; body: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, router, "GET", "/menus", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	group := decodeList(t, rr)[0]["groups"].([]interface{})[0].(map[string]interface{})
	if items, ok := group["items"].([]interface{}); !ok || len(items) != 0 {
		t.Errorf("items: got %v, want empty list", group["items"])
	}
}

func TestMenu_TreeRoundTrip(t *testing.T) {
	store := &mockMenuStore{}
	router := setupMenuRouter(store, makeRestaurant())
	menuID, groupID, itemID := createMenuTree(t, router)

	rr := doRequest(t, router, "GET", "/menus", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	menus := decodeList(t, rr)
	if len(menus) != 1 || menus[0]["id"] != menuID {
		t.Fatalf("menus: got %v", menus)
	}
	groups := menus[0]["groups"].([]interface{})
	if len(groups) != 1 {
		t.Fatalf("groups: got %d, want 1", len(groups))
	}
	group := groups[0].(map[string]interface{})
	if group["id"] != groupID {
		t.Errorf("group id: got %v, want %s", group["id"], groupID)
	}
	items := group["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
	item := items[0].(map[string]interface{})
	if item["id"] != itemID {
		t.Errorf("item id: got %v, want %s", item["id"], itemID)
	}
	if item["price"] != "12.50" {
		t.Errorf("price: got %v, want 12.50", item["price"])
	}
	if item["description"] != "guanciale, pecorino" {
		t.Errorf("description: got %v", item["description"])
	}

	rr = doRequest(t, router, "GET", "/menus/"+menuID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get menu: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if got := decodeMap(t, rr)["groups"].([]interface{}); len(got) != 1 {
		t.Errorf("get menu groups: got %d, want 1", len(got))
	}
}

func TestMenu_CreateValidation(t *testing.T) {
	store := &mockMenuStore{}
	router := setupMenuRouter(store, makeRestaurant())

	rr := doRequest(t, router, "POST", "/menus", map[string]string{"name": "  "})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty menu name: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	_, groupID, _ := createMenuTree(t, router)

	tests := []struct {
		name    string
		body    map[string]string
		wantErr string
	}{
		{"missing name", map[string]string{"price": "1"}, "name is required"},
		{"missing price", map[string]string{"name": "Tea"}, "price is required"},
		{"negative price", map[string]string{"name": "Tea", "price": "-1"}, "price must be >= 0"},
		{"malformed price", map[string]string{"name": "Tea", "price": "abc"}, "invalid price"},
		{"price above column range", map[string]string{"name": "Tea", "price": "99999999999"}, "price must be at most 9999999999.99"},
		{"price rounds above column range", map[string]string{"name": "Tea", "price": "9999999999.999"}, "price must be at most 9999999999.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, "POST", "/groups/"+groupID+"/items", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if got := decodeMap(t, rr)["error"]; got != tt.wantErr {
				t.Errorf("error: got %v, want %q", got, tt.wantErr)
			}
		})
	}

	rr = doRequest(t, router, "POST", "/groups/"+groupID+"/items", map[string]string{"name": "Water", "price": "0"})
	if rr.Code != http.StatusCreated {
		t.Errorf("zero price: got %d, want %d", rr.Code, http.StatusCreated)
	}
}

func TestMenu_OtherRestaurantIsNotFound(t *testing.T) {
	store := &mockMenuStore{}
	owner := setupMenuRouter(store, makeRestaurant())
	menuID, groupID, itemID := createMenuTree(t, owner)

	other := setupMenuRouter(store, makeRestaurant())

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/menus/" + menuID, nil},
		{"PUT", "/menus/" + menuID, map[string]string{"name": "Mine"}},
		{"DELETE", "/menus/" + menuID, nil},
		{"POST", "/menus/" + menuID + "/groups", map[string]string{"name": "Mine"}},
		{"PUT", "/groups/" + groupID, map[string]string{"name": "Mine"}},
		{"DELETE", "/groups/" + groupID, nil},
		{"POST", "/groups/" + groupID + "/items", map[string]string{"name": "Mine", "price": "1"}},
		{"PUT", "/items/" + itemID, map[string]string{"name": "Mine", "price": "1"}},
		{"DELETE", "/items/" + itemID, nil},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := doRequest(t, other, tt.method, tt.path, tt.body)
			if rr.Code != http.StatusNotFound {
				t.Errorf("status: got %d, want %d; body: %s", rr.Code, http.StatusNotFound, rr.Body.String())
			}
		})
	}

	rr := doRequest(t, other, "GET", "/menus", nil)
	if got := decodeList(t, rr); len(got) != 0 {
		t.Errorf("other restaurant menus: got %d, want 0", len(got))
	}
}

func TestMenu_UpdateItem(t *testing.T) {
	store := &mockMenuStore{}
	router := setupMenuRouter(store, makeRestaurant())
	_, _, itemID := createMenuTree(t, router)

	rr := doRequest(t, router, "PUT", "/items/"+itemID, map[string]string{"name": "Carbonara", "price": "14"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeMap(t, rr)
	if resp["price"] != "14.00" {
		t.Errorf("price: got %v, want 14.00", resp["price"])
	}
	if resp["description"] != nil {
		t.Errorf("description: got %v, want nil", resp["description"])
	}
}

func TestMenu_DeleteCascades(t *testing.T) {
	store := &mockMenuStore{}
	router := setupMenuRouter(store, makeRestaurant())
	menuID, groupID, _ := createMenuTree(t, router)

	rr := doRequest(t, router, "DELETE", "/groups/"+groupID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete group: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if len(store.items) != 0 {
		t.Errorf("items after group delete: got %d, want 0", len(store.items))
	}

	rr = doRequest(t, router, "DELETE", "/menus/"+menuID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete menu: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	rr = doRequest(t, router, "GET", "/menus/"+menuID, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get deleted menu: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestMenu_InvalidID(t *testing.T) {
	router := setupMenuRouter(&mockMenuStore{}, makeRestaurant())

	rr := doRequest(t, router, "GET", "/menus/not-a-uuid", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := decodeMap(t, rr)["error"]; got != "invalid menu ID" {
		t.Errorf("error: got %v, want invalid menu ID", got)
	}
}

func TestMenu_ListPickers(t *testing.T) {
	store := &mockMenuStore{}
	router := setupMenuRouter(store, makeRestaurant())
	createMenuTree(t, router)

	rr := doRequest(t, router, "GET", "/groups", nil)
	if got := decodeList(t, rr); len(got) != 1 {
		t.Errorf("groups: got %d, want 1", len(got))
	}
	rr = doRequest(t, router, "GET", "/items", nil)
	if got := decodeList(t, rr); len(got) != 1 {
		t.Errorf("items: got %d, want 1", len(got))
	}
}
