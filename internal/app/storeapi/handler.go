package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"git.platform.alem.school/amibragim/order-up/internal/domain/customers"
	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/domain/products"
	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
	"git.platform.alem.school/amibragim/order-up/internal/shared/postgres"
)

// CatalogHTTPHandler adapts HTTP requests to the CatalogService: the menu for
// the storefront, products/customers for the back office.
type CatalogHTTPHandler struct {
	svc      ports.CatalogService
	logger   *logger.Logger
	validate *validator.Validate
}

// NewCatalogHTTPHandler wires an HTTP handler around the CatalogService.
func NewCatalogHTTPHandler(svc ports.CatalogService, logger *logger.Logger) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{svc: svc, logger: logger, validate: validator.New()}
}

// Register mounts catalog routes on the provided mux.
func (handler *CatalogHTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", handler.handleListProducts)
	mux.HandleFunc("POST /products", handler.handleCreateProduct)
	mux.HandleFunc("GET /products/{id}", handler.handleGetProduct)
	mux.HandleFunc("PUT /products/{id}", handler.handleUpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", handler.handleDeleteProduct)

	mux.HandleFunc("GET /customers", handler.handleListCustomers)
	mux.HandleFunc("POST /customers", handler.handleCreateCustomer)
	mux.HandleFunc("GET /customers/{id}", handler.handleGetCustomer)
}

// --- DTOs ---

type productRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"max=1000"`
	Category    string  `json:"category" validate:"required,min=1,max=50"`
	Price       float64 `json:"price" validate:"required,gt=0,lte=999.99"`
	Available   bool    `json:"available"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type customerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProductResponse(p *products.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.ToFloat2(),
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toCustomerResponse(c *customers.Customer) customerResponse {
	return customerResponse{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, CreatedAt: c.CreatedAt}
}

// --- Product handlers ---

func (handler *CatalogHTTPHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := handler.svc.ListProducts(ctx)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}
	out := make([]productResponse, 0, len(list))
	for i := range list {
		out = append(out, toProductResponse(&list[i]))
	}
	handler.jsonResponse(ctx, w, http.StatusOK, out)
}

func (handler *CatalogHTTPHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req productRequest
	if !handler.decode(ctx, w, r, &req) {
		return
	}

	p := &products.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       orders.NewMoneyFromFloat2(req.Price),
		Available:   req.Available,
	}
	if err := handler.svc.CreateProduct(ctx, p); err != nil {
		handler.serviceError(ctx, w, err)
		return
	}
	handler.jsonResponse(ctx, w, http.StatusCreated, toProductResponse(p))
}

func (handler *CatalogHTTPHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := handler.pathID(ctx, w, r)
	if !ok {
		return
	}

	p, err := handler.svc.GetProduct(ctx, id)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}
	handler.jsonResponse(ctx, w, http.StatusOK, toProductResponse(p))
}

func (handler *CatalogHTTPHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := handler.pathID(ctx, w, r)
	if !ok {
		return
	}

	var req productRequest
	if !handler.decode(ctx, w, r, &req) {
		return
	}

	p := &products.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       orders.NewMoneyFromFloat2(req.Price),
		Available:   req.Available,
	}
	if err := handler.svc.UpdateProduct(ctx, p); err != nil {
		handler.serviceError(ctx, w, err)
		return
	}
	handler.jsonResponse(ctx, w, http.StatusOK, toProductResponse(p))
}

func (handler *CatalogHTTPHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := handler.pathID(ctx, w, r)
	if !ok {
		return
	}

	if err := handler.svc.DeleteProduct(ctx, id); err != nil {
		handler.serviceError(ctx, w, err)
		return
	}
	handler.jsonResponse(ctx, w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

// --- Customer handlers ---

func (handler *CatalogHTTPHandler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := handler.svc.ListCustomers(ctx)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}
	out := make([]customerResponse, 0, len(list))
	for i := range list {
		out = append(out, toCustomerResponse(&list[i]))
	}
	handler.jsonResponse(ctx, w, http.StatusOK, out)
}

func (handler *CatalogHTTPHandler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req customerRequest
	if !handler.decode(ctx, w, r, &req) {
		return
	}

	c := &customers.Customer{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := handler.svc.CreateCustomer(ctx, c); err != nil {
		handler.serviceError(ctx, w, err)
		return
	}
	handler.jsonResponse(ctx, w, http.StatusCreated, toCustomerResponse(c))
}

func (handler *CatalogHTTPHandler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := handler.pathID(ctx, w, r)
	if !ok {
		return
	}

	c, err := handler.svc.GetCustomer(ctx, id)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}
	handler.jsonResponse(ctx, w, http.StatusOK, toCustomerResponse(c))
}

// --- Helpers ---

func (handler *CatalogHTTPHandler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

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

func (handler *CatalogHTTPHandler) pathID(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if err := handler.validate.Var(id, "required,uuid4"); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "id must be a valid id", err)
		return "", false
	}
	return id, true
}

func (handler *CatalogHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, postgres.ErrProductNotFound):
		handler.httpError(ctx, w, http.StatusNotFound, "product not found", err)
	case errors.Is(err, postgres.ErrCustomerNotFound):
		handler.httpError(ctx, w, http.StatusNotFound, "customer not found", err)
	default:
		handler.httpError(ctx, w, http.StatusInternalServerError, "internal error", err)
	}
}

func (handler *CatalogHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
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

func (handler *CatalogHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	buf, err := json.Marshal(data)
	if err != nil {
		handler.logger.Error(ctx, "response_encode_failed", "failed to encode response", err)
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}
