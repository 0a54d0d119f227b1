package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// MenuStore defines the database methods needed by catalog handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	ListMenus(ctx context.Context, restaurantID uuid.UUID) ([]database.Menu, error)
	GetMenu(ctx context.Context, arg database.GetMenuParams) (database.Menu, error)
	CreateMenu(ctx context.Context, arg database.CreateMenuParams) (database.Menu, error)
	UpdateMenu(ctx context.Context, arg database.UpdateMenuParams) (database.Menu, error)
	DeleteMenu(ctx context.Context, arg database.DeleteMenuParams) (uuid.UUID, error)

	ListMenuGroups(ctx context.Context, restaurantID uuid.UUID) ([]database.MenuGroup, error)
	ListMenuGroupsByMenu(ctx context.Context, arg database.ListMenuGroupsByMenuParams) ([]database.MenuGroup, error)
	CreateMenuGroup(ctx context.Context, arg database.CreateMenuGroupParams) (database.MenuGroup, error)
	UpdateMenuGroup(ctx context.Context, arg database.UpdateMenuGroupParams) (database.MenuGroup, error)
	DeleteMenuGroup(ctx context.Context, arg database.DeleteMenuGroupParams) (uuid.UUID, error)

	ListMenuItems(ctx context.Context, restaurantID uuid.UUID) ([]database.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	DeleteMenuItem(ctx context.Context, arg database.DeleteMenuItemParams) (uuid.UUID, error)
}

// MenuHandler handles the menu → group → item catalog.
type MenuHandler struct {
	store MenuStore
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers catalog endpoints. Expected to be mounted inside
// the restaurant-scoped group, so every path is absolute.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menus", h.ListMenus)
	r.Post("/menus", h.CreateMenu)
	r.Get("/menus/{id}", h.GetMenu)
	r.Put("/menus/{id}", h.UpdateMenu)
	r.Delete("/menus/{id}", h.DeleteMenu)
	r.Post("/menus/{id}/groups", h.CreateGroup)

	r.Get("/groups", h.ListGroups)
	r.Put("/groups/{id}", h.UpdateGroup)
	r.Delete("/groups/{id}", h.DeleteGroup)
	r.Post("/groups/{id}/items", h.CreateItem)

	r.Get("/items", h.ListItems)
	r.Put("/items/{id}", h.UpdateItem)
	r.Delete("/items/{id}", h.DeleteItem)
}

// --- Request / Response types ---

type nameRequest struct {
	Name string `json:"name"`
}

type menuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

type menuResponse struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"created_at"`
	Groups    []menuGroupResponse `json:"groups"`
}

type menuGroupResponse struct {
	ID        uuid.UUID          `json:"id"`
	MenuID    uuid.UUID          `json:"menu_id"`
	Name      string             `json:"name"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []menuItemResponse `json:"items"`
}

type menuItemResponse struct {
	ID          uuid.UUID `json:"id"`
	GroupID     uuid.UUID `json:"group_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func toMenuResponse(m database.Menu) menuResponse {
	return menuResponse{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt, Groups: []menuGroupResponse{}}
}

func toMenuGroupResponse(g database.MenuGroup) menuGroupResponse {
	return menuGroupResponse{ID: g.ID, MenuID: g.MenuID, Name: g.Name, CreatedAt: g.CreatedAt, Items: []menuItemResponse{}}
}

func toMenuItemResponse(i database.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:          i.ID,
		GroupID:     i.GroupID,
		Name:        i.Name,
		Description: textOrNil(i.Description),
		Price:       numericToString(i.Price),
		CreatedAt:   i.CreatedAt,
	}
}

// buildMenuTree nests groups under menus and items under groups, keeping store order.
func buildMenuTree(menus []database.Menu, groups []database.MenuGroup, items []database.MenuItem) []menuResponse {
	itemsByGroup := make(map[uuid.UUID][]menuItemResponse)
	for _, it := range items {
		itemsByGroup[it.GroupID] = append(itemsByGroup[it.GroupID], toMenuItemResponse(it))
	}

	groupsByMenu := make(map[uuid.UUID][]menuGroupResponse)
	for _, g := range groups {
		gr := toMenuGroupResponse(g)
		if its, ok := itemsByGroup[g.ID]; ok {
			gr.Items = its
		}
		groupsByMenu[g.MenuID] = append(groupsByMenu[g.MenuID], gr)
	}

	resp := make([]menuResponse, len(menus))
	for i, m := range menus {
		resp[i] = toMenuResponse(m)
		if gs, ok := groupsByMenu[m.ID]; ok {
			resp[i].Groups = gs
		}
	}
	return resp
}

func decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return "", false
	}
	return name, true
}

type menuItemFields struct {
	name        string
	description pgtype.Text
	price       pgtype.Numeric
}

func decodeMenuItem(w http.ResponseWriter, r *http.Request) (menuItemFields, bool) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return menuItemFields{}, false
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return menuItemFields{}, false
	}

	if req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price is required"})
		return menuItemFields{}, false
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		switch {
		case errors.Is(err, errNegativePrice):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be >= 0"})
		case errors.Is(err, errPriceTooLarge):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be at most " + maxPrice.StringFixed(2)})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		}
		return menuItemFields{}, false
	}

	return menuItemFields{name: name, description: optionalText(req.Description), price: price}, true
}

func parseID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// --- Menu handlers ---

// ListMenus returns every menu with its groups and items.
func (h *MenuHandler) ListMenus(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	menus, err := h.store.ListMenus(r.Context(), restaurant.ID)
	if err != nil {
		writeStoreError(w, "list menus", err)
		return
	}
	groups, err := h.store.ListMenuGroups(r.Context(), restaurant.ID)
	if err != nil {
		writeStoreError(w, "list menu groups", err)
		return
	}
	items, err := h.store.ListMenuItems(r.Context(), restaurant.ID)
	if err != nil {
		writeStoreError(w, "list menu items", err)
		return
	}

	writeJSON(w, http.StatusOK, buildMenuTree(menus, groups, items))
}

// GetMenu returns one menu with its groups and items.
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	menuID, ok := parseID(w, r, "menu")
	if !ok {
		return
	}

	menu, err := h.store.GetMenu(r.Context(), database.GetMenuParams{ID: menuID, RestaurantID: restaurant.ID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu not found"})
			return
		}
		writeStoreError(w, "get menu", err)
		return
	}

	groups, err := h.store.ListMenuGroupsByMenu(r.Context(), database.ListMenuGroupsByMenuParams{
		MenuID:       menuID,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		writeStoreError(w, "list menu groups", err)
		return
	}
	items, err := h.store.ListMenuItems(r.Context(), restaurant.ID)
	if err != nil {
		writeStoreError(w, "list menu items", err)
		return
	}

	writeJSON(w, http.StatusOK, buildMenuTree([]database.Menu{menu}, groups, items)[0])
}

// CreateMenu adds an empty menu.
func (h *MenuHandler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	menu, err := h.store.CreateMenu(r.Context(), database.CreateMenuParams{RestaurantID: restaurant.ID, Name: name})
	if err != nil {
		writeStoreError(w, "create menu", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMenuResponse(menu))
}

// UpdateMenu renames a menu.
func (h *MenuHandler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	menuID, ok := parseID(w, r, "menu")
	if !ok {
		return
	}
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	menu, err := h.store.UpdateMenu(r.Context(), database.UpdateMenuParams{
		Name:         name,
		ID:           menuID,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu not found"})
			return
		}
		writeStoreError(w, "update menu", err)
		return
	}

	writeJSON(w, http.StatusOK, toMenuResponse(menu))
}

// DeleteMenu removes a menu together with its groups and items.
func (h *MenuHandler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	menuID, ok := parseID(w, r, "menu")
	if !ok {
		return
	}

	if _, err := h.store.DeleteMenu(r.Context(), database.DeleteMenuParams{ID: menuID, RestaurantID: restaurant.ID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu not found"})
			return
		}
		writeStoreError(w, "delete menu", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Group handlers ---

// ListGroups returns every group of the restaurant.
func (h *MenuHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	groups, err := h.store.ListMenuGroups(r.Context(), restaurant.ID)
	if err != nil {
		writeStoreError(w, "list menu groups", err)
		return
	}

	resp := make([]menuGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toMenuGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateGroup adds a group to a menu.
func (h *MenuHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	menuID, ok := parseID(w, r, "menu")
	if !ok {
		return
	}
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	group, err := h.store.CreateMenuGroup(r.Context(), database.CreateMenuGroupParams{
		RestaurantID: restaurant.ID,
		MenuID:       menuID,
		Name:         name,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu not found"})
			return
		}
		writeStoreError(w, "create menu group", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMenuGroupResponse(group))
}

// UpdateGroup renames a group.
func (h *MenuHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	groupID, ok := parseID(w, r, "group")
	if !ok {
		return
	}
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	group, err := h.store.UpdateMenuGroup(r.Context(), database.UpdateMenuGroupParams{
		Name:         name,
		ID:           groupID,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
			return
		}
		writeStoreError(w, "update menu group", err)
		return
	}

	writeJSON(w, http.StatusOK, toMenuGroupResponse(group))
}

// DeleteGroup removes a group and its items.
func (h *MenuHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	groupID, ok := parseID(w, r, "group")
	if !ok {
		return
	}

	if _, err := h.store.DeleteMenuGroup(r.Context(), database.DeleteMenuGroupParams{ID: groupID, RestaurantID: restaurant.ID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
			return
		}
		writeStoreError(w, "delete menu group", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Item handlers ---

// ListItems returns every menu item of the restaurant.
func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	items, err := h.store.ListMenuItems(r.Context(), restaurant.ID)
	if err != nil {
		writeStoreError(w, "list menu items", err)
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, it := range items {
		resp[i] = toMenuItemResponse(it)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateItem adds an item to a group.
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	groupID, ok := parseID(w, r, "group")
	if !ok {
		return
	}
	fields, ok := decodeMenuItem(w, r)
	if !ok {
		return
	}

	item, err := h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
		RestaurantID: restaurant.ID,
		GroupID:      groupID,
		Name:         fields.name,
		Description:  fields.description,
		Price:        fields.price,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
			return
		}
		writeStoreError(w, "create menu item", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

// UpdateItem replaces an item's name, description and price. Existing order
// items keep the price they captured.
func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	itemID, ok := parseID(w, r, "item")
	if !ok {
		return
	}
	fields, ok := decodeMenuItem(w, r)
	if !ok {
		return
	}

	item, err := h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		Name:         fields.name,
		Description:  fields.description,
		Price:        fields.price,
		ID:           itemID,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		writeStoreError(w, "update menu item", err)
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// DeleteItem removes a menu item. Order items that referenced it keep their snapshot.
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	itemID, ok := parseID(w, r, "item")
	if !ok {
		return
	}

	if _, err := h.store.DeleteMenuItem(r.Context(), database.DeleteMenuItemParams{ID: itemID, RestaurantID: restaurant.ID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		writeStoreError(w, "delete menu item", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
