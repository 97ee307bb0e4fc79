package mailer

import (
	"fmt"
	"strings"

	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
)

// statusCopy maps each order status to the explanation mailed to the
// customer. An unrecognized status falls back to an empty explanation.
var statusCopy = map[orders.OrderStatus]string{
	orders.StatusPending:   "We have received your order and will start preparing it shortly.",
	orders.StatusPreparing: "Your order is being prepared in our kitchen.",
	orders.StatusReady:     "Your order is ready for pickup.",
	orders.StatusDelivered: "Your order has been handed over. Enjoy!",
	orders.StatusCancelled: "Your order has been cancelled. Please contact us if this is unexpected.",
}

// compose renders the subject and plain-text body for one event kind.
func compose(kind orders.EventKind, order *orders.Order) (string, string) {
	switch kind {
	case orders.EventStatusUpdated:
		return composeStatus(order)
	default:
		return composeConfirmation(order)
	}
}

func composeConfirmation(order *orders.Order) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", order.Customer.Name)
	fmt.Fprintf(&b, "Thanks for your order %s. Here is what we got:\n\n", order.DisplayNumber())

	for _, it := range order.Items {
		fmt.Fprintf(&b, "  %dx %s  $%.2f\n", it.Quantity, it.Name, it.Price.ToFloat2())
	}

	fmt.Fprintf(&b, "\nTotal: $%.2f\n", order.TotalAmount.ToFloat2())
	if order.Paid {
		fmt.Fprintf(&b, "Payment: paid (%s)\n", order.PaymentMethod)
	} else {
		b.WriteString("Payment: due at pickup\n")
	}
	b.WriteString("\nWe will let you know as soon as your order is ready.\n")

	return fmt.Sprintf("Order %s confirmed", order.DisplayNumber()), b.String()
}

func composeStatus(order *orders.Order) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", order.Customer.Name)
	fmt.Fprintf(&b, "Your order %s is now %q.\n", order.DisplayNumber(), string(order.Status))

	if copyText := statusCopy[order.Status]; copyText != "" {
		b.WriteString(copyText)
		b.WriteString("\n")
	}

	return fmt.Sprintf("Order %s update: %s", order.DisplayNumber(), string(order.Status)), b.String()
}
