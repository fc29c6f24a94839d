package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-party-rentals.git/internal/cart"
	"github.com/ariefcatur/go-party-rentals.git/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

var unprocessable = []error{
	cart.ErrInvalidDateRange,
	cart.ErrIncompleteSelection,
	cart.ErrUnknownOption,
	cart.ErrInvalidQuantity,
	cart.ErrExceedsStock,
	cart.ErrOutOfStock,
	orders.ErrEmptyCart,
	orders.ErrMissingCustomerInfo,
	orders.ErrMissingAddress,
	orders.ErrInvalidPaymentMethod,
	orders.ErrInvalidDeliveryMethod,
}

// writeError maps domain errors to status codes. Anything unknown is a
// storage problem: the request can be retried, nothing was changed.
func writeError(w http.ResponseWriter, err error) {
	for _, target := range unprocessable {
		if errors.Is(err, target) {
			writeMsg(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	switch {
	case errors.Is(err, orders.ErrUnknownStatus):
		writeMsg(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orders.ErrOrderNotFound):
		writeMsg(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrIllegalTransition):
		writeMsg(w, http.StatusConflict, err.Error())
	default:
		writeMsg(w, http.StatusServiceUnavailable, "storage unavailable, try again")
	}
}
