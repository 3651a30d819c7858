package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/microshop/microshop/internal/order/application"
	"github.com/microshop/microshop/internal/order/domain"
	"github.com/microshop/microshop/pkg/session"
)

// IdempotencyStore tracks client-supplied Idempotency-Key tokens. Begin
// claims a token (false means it was already claimed), Complete binds it to
// the created order id, Release frees it so the client can retry, and
// Lookup returns the bound order id ("" while the original is in flight).
// Satisfied by idempotency.Store.
type IdempotencyStore interface {
	Begin(ctx context.Context, token string) (bool, error)
	Complete(ctx context.Context, token, orderID string) error
	Release(ctx context.Context, token string) error
	Lookup(ctx context.Context, token string) (string, error)
}

type Handler struct {
	log     *slog.Logger
	service *application.Service
	idem    IdempotencyStore
	tracer  trace.Tracer
}

// NewHandler wires the orders HTTP surface. idem may be nil, in which case
// the Idempotency-Key header is ignored and resubmission creates a second,
// distinct order, the documented baseline.
func NewHandler(log *slog.Logger, service *application.Service, idem IdempotencyStore) *Handler {
	return &Handler{
		log:     log,
		service: service,
		idem:    idem,
		tracer:  otel.Tracer("orders-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthcheck", h.healthcheck)
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
	})
	return r
}

type createOrderReq struct {
	User *struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Products []lineItemReq `json:"products"`
}

// lineItemReq keeps id and quantity loosely typed: clients send product ids
// as numbers or strings, and quantities occasionally as numeric strings.
// Coercion and validation happen in toLineItem.
type lineItemReq struct {
	ID       any `json:"id"`
	Quantity any `json:"quantity"`
}

func (li lineItemReq) toLineItem() (domain.LineItem, error) {
	id, ok := coerceID(li.ID)
	if !ok {
		return domain.LineItem{}, application.ErrInvalidLineItem
	}
	qty, ok := coerceQuantity(li.Quantity)
	if !ok {
		return domain.LineItem{}, application.ErrInvalidLineItem
	}
	return domain.LineItem{ProductID: id, Quantity: qty}, nil
}

func coerceID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		if id != float64(int64(id)) {
			return "", false
		}
		return strconv.FormatInt(int64(id), 10), true
	default:
		return "", false
	}
}

func coerceQuantity(v any) (int, bool) {
	switch q := v.(type) {
	case float64:
		if q != float64(int(q)) || q <= 0 {
			return 0, false
		}
		return int(q), true
	case string:
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]domain.LineItem, 0, len(req.Products))
	for _, p := range req.Products {
		item, err := p.toLineItem()
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		items = append(items, item)
	}

	var payload domain.Identity
	if req.User != nil {
		payload = domain.Identity{Name: req.User.Name, Email: req.User.Email}
	}
	var sess domain.Identity
	if id, ok := session.FromContext(ctx); ok {
		sess = domain.Identity{Name: id.Name, Email: id.Email}
	}
	identity := domain.ResolveIdentity(sess, payload)

	token := r.Header.Get("Idempotency-Key")
	if h.idem == nil {
		token = ""
	}
	if token != "" {
		first, err := h.idem.Begin(ctx, token)
		if err != nil {
			// Dedup is an upgrade, not a gate: if redis is down the
			// order still goes through, at the cost of possible dupes.
			h.log.Error("idempotency check failed", "err", err)
			token = ""
		} else if !first {
			existing, err := h.idem.Lookup(ctx, token)
			if err != nil {
				h.log.Error("idempotency lookup failed", "token", token, "err", err)
			}
			writeJSON(w, http.StatusConflict, map[string]string{
				"message":  "duplicate order submission",
				"order_id": existing,
			})
			return
		}
	}

	o, err := h.service.CreateOrder(ctx, identity, items)
	if err != nil {
		if token != "" {
			_ = h.idem.Release(ctx, token)
		}
		h.writeCreateError(w, err)
		return
	}
	if token != "" {
		if err := h.idem.Complete(ctx, token, strconv.FormatInt(o.ID, 10)); err != nil {
			// Free the token rather than leave it claimed with no order
			// id behind it; a retry then creates a duplicate order,
			// which beats a 409 pointing at nothing.
			h.log.Error("idempotency record failed", "order_id", o.ID, "err", err)
			if rerr := h.idem.Release(ctx, token); rerr != nil {
				h.log.Error("idempotency release failed", "order_id", o.ID, "err", rerr)
			}
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "order created successfully",
		"order":   orderJSON(o),
	})
}

func (h *Handler) writeCreateError(w http.ResponseWriter, err error) {
	var rejected *application.RejectedError
	switch {
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message":     rejected.Error(),
			"unavailable": rejected.Unavailable,
		})
	case errors.Is(err, application.ErrInvalidIdentity), errors.Is(err, application.ErrInvalidLineItem):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("create order failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "could not create order")
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.log.Error("list orders failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "could not list orders")
		return
	}

	out := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderJSON(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.service.GetOrder(r.Context(), id)
	if errors.Is(err, application.ErrOrderNotFound) {
		writeMessage(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.log.Error("get order failed", "order_id", id, "err", err)
		writeMessage(w, http.StatusInternalServerError, "could not fetch order")
		return
	}
	writeJSON(w, http.StatusOK, orderJSON(o))
}

func (h *Handler) healthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func orderJSON(o domain.Order) map[string]any {
	return map[string]any{
		"id":        o.ID,
		"userName":  o.UserName,
		"userEmail": o.UserEmail,
		"saleTotal": o.TotalCents,
		"products":  o.Items,
		"date":      o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
