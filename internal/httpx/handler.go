package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-party-rentals.git/internal/cart"
	"github.com/ariefcatur/go-party-rentals.git/internal/catalog"
	kafkax "github.com/ariefcatur/go-party-rentals.git/internal/kafka"
	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
	"github.com/ariefcatur/go-party-rentals.git/internal/orders"
	"github.com/ariefcatur/go-party-rentals.git/internal/session"
)

const (
	HeaderClientID  = "X-Client-Id"
	defaultClientID = "anonymous"
)

// Publisher is satisfied by *kafka.Producer. Publish returns false when the
// event was dropped.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header) bool
}

type Handler struct {
	Catalog       *catalog.Store
	Store         kv.Store // root store; each client gets its own scope
	Orders        *orders.Ledger
	Password      string
	Created       Publisher // optional
	StatusChanged Publisher // optional
	Service       string
	Log           *zap.Logger
}

type ctxKey int

const ctxClient ctxKey = 0

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.withClient)
		h.routes(r)
	})
}

func (h *Handler) routes(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/", h.currentSession)
	})

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(h.requireRole(""))
		r.Get("/cart", h.getCart)
		r.Post("/cart/lines", h.addLine)
		r.Patch("/cart/lines/{productID}", h.updateLine)
		r.Delete("/cart/lines/{productID}", h.removeLine)
		r.Delete("/cart", h.clearCart)
		r.Post("/checkout", h.checkout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requireRole(session.RoleAdmin))
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Post("/orders/{id}/status", h.setStatus)
		r.Get("/stats", h.stats)
	})
}

func (h *Handler) withClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderClientID))
		if id == "" {
			id = defaultClientID
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxClient, kv.ForClient(h.Store, id))))
	})
}

func clientStore(ctx context.Context) kv.Store {
	return ctx.Value(ctxClient).(kv.Store)
}

func (h *Handler) gate(ctx context.Context) *session.Gate {
	return session.NewGate(clientStore(ctx), h.Password)
}

// requireRole lets any signed-in user through when role is empty.
func (h *Handler) requireRole(role session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok, err := h.gate(r.Context()).Current(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			if !ok {
				writeMsg(w, http.StatusUnauthorized, "login required")
				return
			}
			if role != "" && u.Role != role {
				writeMsg(w, http.StatusForbidden, "admin only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decode(w, r, &req) {
		return
	}
	ok, err := h.gate(r.Context()).Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	u, _, err := h.gate(r.Context()).Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate(r.Context()).Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	u, ok, err := h.gate(r.Context()).Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": u})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	c := catalog.Category(r.URL.Query().Get("category"))
	if c == "" {
		c = catalog.CategoryAll
	}
	if c != catalog.CategoryAll && !c.Valid() {
		writeMsg(w, http.StatusBadRequest, "unknown category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": catalog.Categories(),
		"products":   h.Catalog.ListByCategory(c),
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Catalog.GetByID(chi.URLParam(r, "id"))
	if !ok {
		writeMsg(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type cartView struct {
	Lines         []cart.Line     `json:"lines"`
	TotalQuantity int             `json:"total_quantity"`
	Total         decimal.Decimal `json:"total"`
}

func viewOf(c *cart.Ledger) cartView {
	return cartView{Lines: c.Lines(), TotalQuantity: c.TotalQuantity(), Total: c.Total()}
}

func (h *Handler) openCart(w http.ResponseWriter, r *http.Request) (*cart.Ledger, bool) {
	c, err := cart.Open(r.Context(), clientStore(r.Context()), h.Log)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return c, true
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

type addLineReq struct {
	ProductID string `json:"product_id"`
	cart.BookingRequest
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	var req addLineReq
	if !decode(w, r, &req) {
		return
	}
	p, found := h.Catalog.GetByID(req.ProductID)
	if !found {
		writeMsg(w, http.StatusNotFound, "product not found")
		return
	}
	line, err := cart.NewLine(p, req.BookingRequest)
	if err != nil {
		writeError(w, err)
		return
	}
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if err := c.Add(r.Context(), line); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(c))
}

func (h *Handler) updateLine(w http.ResponseWriter, r *http.Request) {
	var p cart.Patch
	if !decode(w, r, &p) {
		return
	}
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if err := c.Update(r.Context(), chi.URLParam(r, "productID"), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if err := c.Remove(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if err := c.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkoutResp struct {
	Orders  []orders.Order `json:"orders"`
	Warning string         `json:"warning,omitempty"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req orders.CheckoutRequest
	if !decode(w, r, &req) {
		return
	}
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}
	placed, err := h.Orders.Checkout(r.Context(), c, req)
	resp := checkoutResp{Orders: placed}
	if err != nil {
		if !errors.Is(err, orders.ErrCartNotCleared) {
			writeError(w, err)
			return
		}
		resp.Warning = err.Error()
	}
	for _, o := range placed {
		h.publish(r.Context(), h.Created, orders.EventOrderCreated, o.ID, orders.CreatedPayload(o))
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	status, err := orders.ParseFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !h.reload(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": h.Orders.List(status)})
}

type orderDetail struct {
	Order       orders.Order    `json:"order"`
	AllowedNext []orders.Status `json:"allowed_next"`
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	if !h.reload(w, r) {
		return
	}
	o, err := h.Orders.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderDetail{Order: o, AllowedNext: orders.AllowedNext(o.Status)})
}

type setStatusReq struct {
	Status orders.Status `json:"status"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusReq
	if !decode(w, r, &req) {
		return
	}
	before, after, err := h.Orders.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	h.publish(r.Context(), h.StatusChanged, orders.EventOrderStatusChanged, after.ID, orders.OrderStatusChangedPayload{
		OrderID: after.ID,
		From:    before.Status,
		To:      after.Status,
	})
	writeJSON(w, http.StatusOK, orderDetail{Order: after, AllowedNext: orders.AllowedNext(after.Status)})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if !h.reload(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, orders.ComputeStats(h.Orders.List("")))
}

// reload picks up changes written by rentalctl before an admin read.
func (h *Handler) reload(w http.ResponseWriter, r *http.Request) bool {
	if err := h.Orders.Reload(r.Context()); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

// publish is best effort; the order is already saved.
func (h *Handler) publish(ctx context.Context, p Publisher, eventType, orderID string, payload any) {
	if p == nil {
		return
	}
	env, err := orders.NewEnvelope(eventType, h.Service, middleware.GetReqID(ctx), orderID, payload)
	if err != nil {
		h.Log.Error("build event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if !p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(env), kafkax.EventHeaders(eventType, env.EventVersion)...) {
		h.Log.Warn("event dropped", zap.String("event_type", eventType), zap.String("order_id", orderID))
	}
}
