package orderapi

import (
	"fmt"

	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/shared/contracts"
)

// statusNotice picks the client-facing text override for a status change, so
// status-specific language lives here rather than inside the broadcaster.
func statusNotice(order *orders.Order) *contracts.Notice {
	var message string
	switch order.Status {
	case orders.StatusPending:
		message = "Your order has been received."
	case orders.StatusPreparing:
		message = "Your order is being prepared."
	case orders.StatusReady:
		message = "Your order is ready for pickup!"
	case orders.StatusDelivered:
		message = "Your order has been delivered. Enjoy!"
	case orders.StatusCancelled:
		message = "Your order has been cancelled."
	default:
		return nil
	}

	return &contracts.Notice{
		Title:   fmt.Sprintf("Order %s", order.DisplayNumber()),
		Message: message,
	}
}
