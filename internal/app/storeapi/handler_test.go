package storeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.platform.alem.school/amibragim/order-up/internal/domain/customers"
	"git.platform.alem.school/amibragim/order-up/internal/domain/products"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
	"git.platform.alem.school/amibragim/order-up/internal/shared/postgres"
)

type fakeUow struct{}

func (fakeUow) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memProductsRepo struct {
	byID map[string]*products.Product
}

func (r *memProductsRepo) Create(_ context.Context, p *products.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *memProductsRepo) GetByID(_ context.Context, id string) (*products.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, postgres.ErrProductNotFound
	}
	return p, nil
}

func (r *memProductsRepo) List(_ context.Context) ([]products.Product, error) {
	out := make([]products.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProductsRepo) Update(_ context.Context, p *products.Product) error {
	if _, ok := r.byID[p.ID]; !ok {
		return postgres.ErrProductNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *memProductsRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return postgres.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

type memCustomersRepo struct {
	byID map[string]*customers.Customer
}

func (r *memCustomersRepo) Create(_ context.Context, c *customers.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *memCustomersRepo) GetByID(_ context.Context, id string) (*customers.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, postgres.ErrCustomerNotFound
	}
	return c, nil
}

func (r *memCustomersRepo) List(_ context.Context) ([]customers.Customer, error) {
	out := make([]customers.Customer, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCustomersRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func newTestCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	svc := NewService(
		fakeUow{},
		&memProductsRepo{byID: make(map[string]*products.Product)},
		&memCustomersRepo{byID: make(map[string]*customers.Customer)},
		logger.NewLogger("test"),
	)

	mux := http.NewServeMux()
	NewCatalogHTTPHandler(svc, logger.NewLogger("test")).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestProductLifecycle(t *testing.T) {
	srv := newTestCatalog(t)

	resp, err := http.Post(srv.URL+"/products", "application/json",
		strings.NewReader(`{"name":"Margherita","category":"pizza","price":12.50,"available":true}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created productResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 12.5, created.Price)

	t.Run("get", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/products/" + created.ID)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, srv.URL+"/products/"+created.ID,
			strings.NewReader(`{"name":"Margherita","category":"pizza","price":13.00,"available":false}`))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated productResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		assert.Equal(t, 13.0, updated.Price)
		assert.False(t, updated.Available)
	})

	t.Run("delete then not found", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/products/"+created.ID, nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		getResp, err := http.Get(srv.URL + "/products/" + created.ID)
		require.NoError(t, err)
		defer getResp.Body.Close()
		assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	})
}

func TestProductValidation(t *testing.T) {
	srv := newTestCatalog(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"category":"pizza","price":10}`},
		{"zero price", `{"name":"x","category":"pizza","price":0}`},
		{"unknown field", `{"name":"x","category":"pizza","price":10,"sku":"p-1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/products", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCustomerEndpoints(t *testing.T) {
	srv := newTestCatalog(t)

	resp, err := http.Post(srv.URL+"/customers", "application/json",
		strings.NewReader(`{"name":"Dana","email":"dana@example.com","phone":"+1555"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created customerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	t.Run("get", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/customers/" + created.ID)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got customerResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "dana@example.com", got.Email)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/customers/" + uuid.NewString())
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad email rejected", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/customers", "application/json",
			strings.NewReader(`{"name":"Dana","email":"not-an-email"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/customers")
		require.NoError(t, err)
		defer resp.Body.Close()

		var list []customerResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		assert.Len(t, list, 1)
	})
}
