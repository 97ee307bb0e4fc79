package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.platform.alem.school/amibragim/order-up/internal/domain/customers"
	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
)

func TestFromOrder(t *testing.T) {
	now := time.Now().UTC()
	order := &orders.Order{
		ID:         "3f1c9a6e-1111-2222-3333-444444444444",
		Number:     9,
		CustomerID: "customer-1",
		Customer:   &customers.View{ID: "customer-1", Name: "Dana", Email: "dana@example.com", Phone: "+1555"},
		Items: []orders.OrderItem{
			{Name: "Margherita", Quantity: 2, Price: 1250},
		},
		TotalAmount:   2500,
		Status:        orders.StatusPending,
		Paid:          true,
		PaymentMethod: orders.PaymentCard,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	p := FromOrder(order)
	assert.Equal(t, order.ID, p.ID)
	assert.Equal(t, int64(9), p.OrderNumber)
	assert.Equal(t, "#9", p.DisplayNumber)
	assert.Equal(t, 25.0, p.TotalAmount)
	assert.Equal(t, "pending", p.Status)
	require.NotNil(t, p.Customer)
	assert.Equal(t, "dana@example.com", p.Customer.Email)
	require.Len(t, p.Items, 1)
	assert.Equal(t, 12.5, p.Items[0].Price)
}

func TestFromOrderGuestAndFallbacks(t *testing.T) {
	p := FromOrder(&orders.Order{ID: "3f1c9a6e-1111-2222-3333-444444444444"})

	assert.Nil(t, p.Customer)
	assert.Equal(t, "#3f1c9a", p.DisplayNumber, "no assigned number falls back to the id prefix")
	assert.NotNil(t, p.Items, "items must encode as [] rather than null")

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"orderNumber"`, "zero order number is omitted")
	assert.Contains(t, string(raw), `"items":[]`)
}
