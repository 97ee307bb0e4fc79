package orderapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"

	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"git.platform.alem.school/amibragim/order-up/internal/shared/contracts"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

// OrderHTTPHandler adapts HTTP requests to the OrderService. Every successful
// mutation is handed to the broadcaster after the response was written; the
// hand-off completes before the handler returns, which keeps fan-outs for one
// order in mutation order.
type OrderHTTPHandler struct {
	svc         ports.OrderService
	broadcaster ports.OrderBroadcaster
	logger      *logger.Logger
	validate    *validator.Validate
}

// NewOrderHTTPHandler wires an HTTP handler around the OrderService.
func NewOrderHTTPHandler(svc ports.OrderService, broadcaster ports.OrderBroadcaster, logger *logger.Logger) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		svc:         svc,
		broadcaster: broadcaster,
		logger:      logger,
		validate:    validator.New(),
	}
}

// Register mounts the order routes on the provided mux.
func (handler *OrderHTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", handler.handleCreateOrder)
	mux.HandleFunc("GET /orders", handler.handleListOrders)
	mux.HandleFunc("GET /orders/{id}", handler.handleGetOrder)
	mux.HandleFunc("PATCH /orders/{id}/status", handler.handleUpdateStatus)
	mux.HandleFunc("PATCH /orders/{id}/payment", handler.handleUpdatePayment)
	mux.HandleFunc("DELETE /orders/{id}", handler.handleDeleteOrder)
}

// --- Request/Response DTOs (HTTP boundary) ---

type createOrderRequest struct {
	CustomerID    string                   `json:"customer_id" validate:"omitempty,uuid4"`
	PaymentMethod string                   `json:"payment_method" validate:"omitempty,oneof=cash card online"`
	Paid          bool                     `json:"paid"`
	Items         []createOrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

type createOrderItemRequest struct {
	ProductID *string `json:"product_id" validate:"omitempty,uuid4"`
	Name      string  `json:"name" validate:"required,min=1,max=100"`
	Quantity  int     `json:"quantity" validate:"required,min=1,max=20"`
	Price     float64 `json:"price" validate:"required,gt=0,lte=999.99"` // decimal dollars
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending preparing ready delivered cancelled"`
}

type updatePaymentRequest struct {
	Paid          bool   `json:"paid"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=cash card online"`
}

// --- Handlers ---

func (handler *OrderHTTPHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req createOrderRequest
	if !handler.decode(ctx, w, r, &req) {
		return
	}

	items := make([]ports.ItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = ports.ItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     orders.NewMoneyFromFloat2(it.Price),
		}
	}
	cmd := ports.CreateOrderCommand{
		CustomerID:    req.CustomerID,
		PaymentMethod: req.PaymentMethod,
		Paid:          req.Paid,
		Items:         items,
	}

	handler.logger.Debug(ctx, "order_received", "new order request received", map[string]any{
		"customer_id": cmd.CustomerID,
		"items_count": len(cmd.Items),
	})

	svcCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	placed, err := handler.svc.PlaceOrder(svcCtx, cmd)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusCreated, contracts.FromOrder(placed))

	// hand off to the core after the response is written. The call is
	// synchronous so consecutive mutations of one order fan out in mutation
	// order; a client that hung up must not abort the fan-out.
	handler.broadcaster.Broadcast(context.WithoutCancel(ctx), orders.EventCreated, placed)
}

func (handler *OrderHTTPHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var (
		list []orders.Order
		err  error
	)
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		list, err = handler.svc.ListCustomerOrders(ctx, customerID)
	} else {
		list, err = handler.svc.ListOrders(ctx)
	}
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	out := make([]contracts.OrderPayload, 0, len(list))
	for i := range list {
		out = append(out, contracts.FromOrder(&list[i]))
	}
	handler.jsonResponse(ctx, w, http.StatusOK, out)
}

func (handler *OrderHTTPHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	id, ok := handler.pathID(ctx, w, r)
	if !ok {
		return
	}

	order, err := handler.svc.GetOrder(ctx, id)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}
	handler.jsonResponse(ctx, w, http.StatusOK, contracts.FromOrder(order))
}

func (handler *OrderHTTPHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	id, ok := handler.pathID(ctx, w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if !handler.decode(ctx, w, r, &req) {
		return
	}

	updated, err := handler.svc.ChangeStatus(ctx, id, orders.OrderStatus(req.Status))
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusOK, contracts.FromOrder(updated))

	handler.broadcaster.BroadcastWithNotice(context.WithoutCancel(ctx), orders.EventStatusUpdated, updated, statusNotice(updated))
}

func (handler *OrderHTTPHandler) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	id, ok := handler.pathID(ctx, w, r)
	if !ok {
		return
	}
	var req updatePaymentRequest
	if !handler.decode(ctx, w, r, &req) {
		return
	}

	updated, err := handler.svc.ChangePayment(ctx, id, req.Paid, req.PaymentMethod)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusOK, contracts.FromOrder(updated))

	handler.broadcaster.Broadcast(context.WithoutCancel(ctx), orders.EventPaymentUpdated, updated)
}

func (handler *OrderHTTPHandler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	id, ok := handler.pathID(ctx, w, r)
	if !ok {
		return
	}

	removed, err := handler.svc.RemoveOrder(ctx, id)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusOK, map[string]any{"deleted": true, "id": id})

	// deleted orders cannot be re-fetched; the broadcaster uses this snapshot
	handler.broadcaster.Broadcast(context.WithoutCancel(ctx), orders.EventDeleted, removed)
}

// --- Helpers ---

// decode reads a strict JSON body into dst and validates it. Returns false if
// an error response has already been written.
func (handler *OrderHTTPHandler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", errors.New("unsupported content type: "+ct))
		return false
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return false
	}

	if err := handler.validate.Struct(dst); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return false
	}
	return true
}

// pathID extracts and validates the {id} path segment.
func (handler *OrderHTTPHandler) pathID(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if err := handler.validate.Var(id, "required,uuid4"); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "id must be a valid order id", err)
		return "", false
	}
	return id, true
}

// serviceError maps service failures to HTTP statuses.
func (handler *OrderHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		handler.httpError(ctx, w, http.StatusNotFound, "order not found", err)
	case errors.Is(err, ErrInvalidTransition):
		handler.httpError(ctx, w, http.StatusConflict, err.Error(), err)
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.httpError(ctx, w, http.StatusInternalServerError, "database error", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
	}
}

// withReqID attaches a per-request id for log correlation.
func (handler *OrderHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	rid := r.Header.Get("X-Request-Id")
	if rid == "" {
		var buf [8]byte
		_, _ = rand.Read(buf[:])
		rid = hex.EncodeToString(buf[:])
	}
	return handler.logger.WithRequestID(ctx, rid)
}

// httpError sends a JSON error response with a message.
func (handler *OrderHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusNotFound {
		action = "not_found"
	}
	handler.logger.Error(ctx, action, msg, err)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// jsonResponse takes any type of data and encodes it to the HTTP response.
func (handler *OrderHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "failed to encode response", err)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}
