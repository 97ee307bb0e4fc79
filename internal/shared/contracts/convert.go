package contracts

import "git.platform.alem.school/amibragim/order-up/internal/domain/orders"

// FromOrder maps a resolved domain order to its wire shape. Used by both the
// broadcaster and the HTTP responses so clients see one order format.
func FromOrder(order *orders.Order) OrderPayload {
	payload := OrderPayload{
		ID:            order.ID,
		OrderNumber:   order.Number,
		DisplayNumber: order.DisplayNumber(),
		Items:         make([]OrderItemPayload, 0, len(order.Items)),
		TotalAmount:   order.TotalAmount.ToFloat2(),
		Status:        string(order.Status),
		Paid:          order.Paid,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}

	if order.Customer != nil {
		payload.Customer = &CustomerPayload{
			ID:    order.Customer.ID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
		}
	}

	for _, it := range order.Items {
		payload.Items = append(payload.Items, OrderItemPayload{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price.ToFloat2(),
		})
	}

	return payload
}
