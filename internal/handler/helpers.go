package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/middleware"
	"github.com/comanda-app/api/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ().-]{6,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// validationMessage turns the first failed rule into a client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "phone":
		return fe.Field() + " must be a valid phone number"
	}
	return fe.Field() + " is invalid"
}

// currentRestaurant reads the caller's restaurant, set by middleware.RequireRestaurant.
func currentRestaurant(w http.ResponseWriter, r *http.Request) (database.Restaurant, bool) {
	restaurant, ok := middleware.RestaurantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return database.Restaurant{}, false
	}
	return restaurant, true
}

// writeServiceError maps order/table service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var active *service.ActiveOrdersError
	switch {
	case errors.As(err, &active):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":         active.Error(),
			"active_orders": active.Count,
		})
	case isNotFoundError(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrStatusConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "request timed out, please retry"})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func isNotFoundError(err error) bool {
	return errors.Is(err, service.ErrTableNotFound) ||
		errors.Is(err, service.ErrOrderNotFound) ||
		errors.Is(err, service.ErrOrderItemNotFound) ||
		errors.Is(err, service.ErrMenuItemNotFound)
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrAmountTooLarge) ||
		errors.Is(err, service.ErrInvalidOrderStatus) ||
		errors.Is(err, service.ErrInvalidItemStatus) ||
		errors.Is(err, service.ErrInvalidTransition) ||
		errors.Is(err, service.ErrTableUnavailable) ||
		errors.Is(err, service.ErrOrderClosed) ||
		errors.Is(err, service.ErrTableHasActiveOrders)
}

// writeStoreError handles read errors from direct store calls.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "request timed out, please retry"})
		return
	}
	log.Printf("ERROR: %s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	errNegativePrice = errors.New("negative price")
	errPriceTooLarge = errors.New("price too large")
)

// maxPrice is the largest value a NUMERIC(12,2) price column holds.
var maxPrice = decimal.RequireFromString("9999999999.99")

func parsePrice(s string) (pgtype.Numeric, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return pgtype.Numeric{}, err
	}
	if d.IsNegative() {
		return pgtype.Numeric{}, errNegativePrice
	}
	d = d.Round(2)
	if d.GreaterThan(maxPrice) {
		return pgtype.Numeric{}, errPriceTooLarge
	}
	var n pgtype.Numeric
	if err := n.Scan(d.StringFixed(2)); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func textOrNil(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func optionalText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
