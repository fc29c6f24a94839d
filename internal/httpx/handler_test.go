package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-party-rentals.git/internal/catalog"
	kafkax "github.com/ariefcatur/go-party-rentals.git/internal/kafka"
	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
	"github.com/ariefcatur/go-party-rentals.git/internal/orders"
)

type recorder struct {
	mu   sync.Mutex
	keys []string
	envs []orders.Envelope
	typ  []string
}

func (p *recorder) Publish(key, value []byte, headers ...kafkago.Header) bool {
	var env orders.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, string(key))
	p.envs = append(p.envs, env)
	p.typ = append(p.typ, kafkax.HeaderValue(kafkago.Message{Headers: headers}, kafkax.HeaderEventType))
	return true
}

type api struct {
	t       *testing.T
	store   kv.Store
	srv     *httptest.Server
	created *recorder
	status  *recorder
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := kv.NewMemory()
	ledger, err := orders.Open(context.Background(), kv.Scoped(store, kv.ShopScope), nil)
	require.NoError(t, err)

	a := &api{t: t, store: store, created: &recorder{}, status: &recorder{}}
	h := &Handler{
		Catalog:       catalog.Default(),
		Store:         store,
		Orders:        ledger,
		Password:      "12345",
		Created:       a.created,
		StatusChanged: a.status,
		Service:       "rental-api-test",
		Log:           zap.NewNop(),
	}
	r := NewRouter(zap.NewNop())
	h.Register(r)
	a.srv = httptest.NewServer(r)
	t.Cleanup(a.srv.Close)
	return a
}

func (a *api) do(method, path, client string, body any) (*http.Response, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(a.t, err)
	if client != "" {
		req.Header.Set(HeaderClientID, client)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (a *api) login(client, user string) {
	a.t.Helper()
	resp, _ := a.do(http.MethodPost, "/session/login", client, loginReq{Username: user, Password: "12345"})
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
}

func booking(productID, size, color, start, end string, qty int) map[string]any {
	return map[string]any{
		"product_id": productID, "size": size, "color": color,
		"start_date": start, "end_date": end, "quantity": qty,
	}
}

func checkoutBody() map[string]any {
	return map[string]any{
		"customer":        map[string]string{"name": "Rina", "email": "rina@example.com", "phone": "0812"},
		"payment_method":  "pix",
		"delivery_method": "pickup",
	}
}

func TestHealthz(t *testing.T) {
	a := newAPI(t)
	resp, err := http.Get(a.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	a := newAPI(t)

	resp, _ := a.do(http.MethodPost, "/session/login", "c1", loginReq{Username: "admin", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := a.do(http.MethodGet, "/session", "c1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["authenticated"])

	a.login("c1", "customer")
	_, body = a.do(http.MethodGet, "/session", "c1", nil)
	assert.Equal(t, true, body["authenticated"])

	// another client id has its own session
	_, body = a.do(http.MethodGet, "/session", "c2", nil)
	assert.Equal(t, false, body["authenticated"])

	resp, _ = a.do(http.MethodPost, "/session/logout", "c1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = a.do(http.MethodGet, "/session", "c1", nil)
	assert.Equal(t, false, body["authenticated"])
}

func TestProducts(t *testing.T) {
	a := newAPI(t)

	_, body := a.do(http.MethodGet, "/products", "", nil)
	assert.Len(t, body["products"], 10)

	_, body = a.do(http.MethodGet, "/products?category=suit", "", nil)
	assert.Len(t, body["products"], 2)

	resp, _ := a.do(http.MethodGet, "/products?category=shoes", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = a.do(http.MethodGet, "/products/1", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Princess Elsa Costume", body["name"])

	resp, _ = a.do(http.MethodGet, "/products/99", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartRequiresSession(t *testing.T) {
	a := newAPI(t)
	resp, _ := a.do(http.MethodGet, "/cart", "c1", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	a := newAPI(t)
	a.login("c1", "customer")

	resp, body := a.do(http.MethodPost, "/cart/lines", "c1", booking("1", "M", "Blue", "2024-06-01", "2024-06-03", 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(2), body["total_quantity"])

	resp, body = a.do(http.MethodPost, "/cart/lines", "c1", booking("1", "P", "White", "2024-07-01", "2024-07-02", 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, body["lines"], 1)
	assert.Equal(t, float64(3), body["total_quantity"])
	assert.Equal(t, "1350", body["total"])

	resp, _ = a.do(http.MethodPost, "/cart/lines", "c1", booking("1", "M", "Blue", "2024-06-03", "2024-06-03", 1))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = a.do(http.MethodPost, "/cart/lines", "c1", booking("1", "XL", "Blue", "2024-06-01", "2024-06-03", 1))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = a.do(http.MethodPatch, "/cart/lines/1", "c1", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "450", body["total"])

	resp, _ = a.do(http.MethodPatch, "/cart/lines/1", "c1", map[string]any{"end_date": "2024-05-01"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = a.do(http.MethodDelete, "/cart/lines/1", "c1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["total_quantity"])
}

func TestCheckoutAndAdmin(t *testing.T) {
	a := newAPI(t)
	a.login("shopper", "customer")
	a.login("staff", "admin")

	resp, _ := a.do(http.MethodPost, "/checkout", "shopper", checkoutBody())
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "empty cart")

	a.do(http.MethodPost, "/cart/lines", "shopper", booking("1", "M", "Blue", "2024-06-01", "2024-06-03", 1))
	a.do(http.MethodPost, "/cart/lines", "shopper", booking("6", "One size", "Gold", "2024-06-01", "2024-06-02", 2))

	bad := checkoutBody()
	bad["delivery_method"] = "delivery"
	resp, body := a.do(http.MethodPost, "/checkout", "shopper", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, orders.ErrMissingAddress.Error(), body["error"])

	resp, body = a.do(http.MethodPost, "/checkout", "shopper", checkoutBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	placed := body["orders"].([]any)
	require.Len(t, placed, 2)
	first := placed[0].(map[string]any)
	assert.Equal(t, "pending", first["status"])
	assert.Equal(t, "450", first["total_price"])
	id := first["id"].(string)

	_, body = a.do(http.MethodGet, "/cart", "shopper", nil)
	assert.Equal(t, float64(0), body["total_quantity"])

	require.Len(t, a.created.envs, 2)
	assert.Equal(t, id, a.created.keys[0])
	assert.Equal(t, orders.EventOrderCreated, a.created.typ[0])
	assert.Equal(t, id, a.created.envs[0].CorrelationID)

	resp, _ = a.do(http.MethodGet, "/admin/orders", "shopper", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, body = a.do(http.MethodGet, "/admin/orders?status=pending", "staff", nil)
	assert.Len(t, body["orders"], 2)
	resp, _ = a.do(http.MethodGet, "/admin/orders?status=lost", "staff", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = a.do(http.MethodGet, "/admin/orders/"+id, "staff", nil)
	assert.ElementsMatch(t, []any{"confirmed", "cancelled"}, body["allowed_next"])

	resp, _ = a.do(http.MethodPost, "/admin/orders/"+id+"/status", "staff", map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	for _, s := range []string{"confirmed", "completed"} {
		resp, _ = a.do(http.MethodPost, "/admin/orders/"+id+"/status", "staff", map[string]string{"status": s})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	require.Len(t, a.status.envs, 2)
	var changed orders.OrderStatusChangedPayload
	require.NoError(t, json.Unmarshal(a.status.envs[1].Payload, &changed))
	assert.Equal(t, orders.OrderStatusChangedPayload{OrderID: id, From: orders.StatusConfirmed, To: orders.StatusCompleted}, changed)

	resp, _ = a.do(http.MethodPost, "/admin/orders/"+id+"/status", "staff", map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = a.do(http.MethodPost, "/admin/orders/nope/status", "staff", map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = a.do(http.MethodGet, "/admin/stats", "staff", nil)
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, "450", body["revenue"])
}

func TestAdminSeesChangesFromAnotherProcess(t *testing.T) {
	a := newAPI(t)
	a.login("shopper", "customer")
	a.login("staff", "admin")
	a.do(http.MethodPost, "/cart/lines", "shopper", booking("1", "M", "Blue", "2024-06-01", "2024-06-03", 1))
	_, body := a.do(http.MethodPost, "/checkout", "shopper", checkoutBody())
	id := body["orders"].([]any)[0].(map[string]any)["id"].(string)

	cli, err := orders.Open(context.Background(), kv.Scoped(a.store, kv.ShopScope), nil)
	require.NoError(t, err)
	_, _, err = cli.SetStatus(context.Background(), id, orders.StatusCancelled)
	require.NoError(t, err)

	_, body = a.do(http.MethodGet, "/admin/orders/"+id, "staff", nil)
	assert.Equal(t, "cancelled", body["order"].(map[string]any)["status"])
	assert.Empty(t, body["allowed_next"])

	a.do(http.MethodPost, "/cart/lines", "shopper", booking("2", "M", "Pink", "2024-06-01", "2024-06-02", 1))
	resp, _ := a.do(http.MethodPost, "/checkout", "shopper", checkoutBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body = a.do(http.MethodGet, "/admin/stats", "staff", nil)
	counts := body["count_by_status"].(map[string]any)
	assert.Equal(t, float64(1), counts["cancelled"])
	assert.Equal(t, float64(1), counts["pending"])
}
