package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	GetMonthlySales(ctx context.Context, arg database.GetMonthlySalesParams) ([]database.GetMonthlySalesRow, error)
	GetMonthlyItemSales(ctx context.Context, arg database.GetMonthlyItemSalesParams) ([]database.GetMonthlyItemSalesRow, error)
}

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	store ReportsStore
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store}
}

// RegisterRoutes registers report endpoints. Mounted at /reports.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/monthly-sales", h.MonthlySales)
	r.Get("/monthly-items", h.MonthlyItems)
}

// --- Response types ---

type monthlySalesResponse struct {
	Month        string `json:"month"`
	OrderCount   int64  `json:"order_count"`
	TotalRevenue string `json:"total_revenue"`
}

type monthlyItemSalesResponse struct {
	Month        string `json:"month"`
	ItemName     string `json:"item_name"`
	QuantitySold int64  `json:"quantity_sold"`
	TotalRevenue string `json:"total_revenue"`
}

// --- Handlers ---

// MonthlySales returns closed order count and revenue per month.
func (h *ReportsHandler) MonthlySales(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	startDate, endDate, err := parseDateRange(r, time.Now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.GetMonthlySales(r.Context(), database.GetMonthlySalesParams{
		RestaurantID: restaurant.ID,
		StartDate:    startDate,
		EndDate:      endDate,
	})
	if err != nil {
		writeStoreError(w, "get monthly sales", err)
		return
	}

	resp := make([]monthlySalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = monthlySalesResponse{
			Month:        formatMonth(row.Month),
			OrderCount:   row.OrderCount,
			TotalRevenue: numericToString(row.TotalRevenue),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// MonthlyItems returns quantity and revenue per month and item name,
// highest revenue first within a month.
func (h *ReportsHandler) MonthlyItems(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	startDate, endDate, err := parseDateRange(r, time.Now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.GetMonthlyItemSales(r.Context(), database.GetMonthlyItemSalesParams{
		RestaurantID: restaurant.ID,
		StartDate:    startDate,
		EndDate:      endDate,
	})
	if err != nil {
		writeStoreError(w, "get monthly item sales", err)
		return
	}

	resp := make([]monthlyItemSalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = monthlyItemSalesResponse{
			Month:        formatMonth(row.Month),
			ItemName:     row.ItemName,
			QuantitySold: row.QuantitySold,
			TotalRevenue: numericToString(row.TotalRevenue),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func formatMonth(ts pgtype.Timestamptz) string {
	if !ts.Valid {
		return "N/A"
	}
	return ts.Time.UTC().Format("2006-01")
}

// parseDateRange parses start_date and end_date (YYYY-MM-DD, UTC).
// Defaults to the first day of the month twelve months back through today.
// The returned end is exclusive (midnight after end_date).
func parseDateRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	const layout = "2006-01-02"

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	endDate := today.AddDate(0, 0, 1)

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format, expected YYYY-MM-DD")
		}
		startDate = t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format, expected YYYY-MM-DD")
		}
		endDate = t.AddDate(0, 0, 1)
	}

	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must not be after end_date")
	}

	return startDate, endDate, nil
}
