package orderapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

// ErrInvalidTransition is returned when a status change is not allowed by the
// order lifecycle.
var ErrInvalidTransition = errors.New("status transition not allowed")

// Service implements ports.OrderService.
type Service struct {
	uow       ports.UnitOfWork
	repo      ports.OrderRepository
	customers ports.CustomerRepository
	logger    *logger.Logger
}

// Ensure Service implements the interface at compile time.
var _ ports.OrderService = (*Service)(nil)

// NewService creates a new order service with the required dependencies.
func NewService(uow ports.UnitOfWork, repo ports.OrderRepository, customers ports.CustomerRepository, logger *logger.Logger) *Service {
	return &Service{uow: uow, repo: repo, customers: customers, logger: logger}
}

// PlaceOrder validates input, builds a domain Order, persists it, and returns
// the stored order with its customer reference resolved.
func (service *Service) PlaceOrder(ctx context.Context, cmd ports.CreateOrderCommand) (*orders.Order, error) {
	// basic validation
	if len(cmd.Items) < 1 || len(cmd.Items) > 50 {
		return nil, errors.New("order must contain between 1 and 50 items")
	}

	for i := range cmd.Items {
		cmd.Items[i].Name = strings.TrimSpace(cmd.Items[i].Name)
		if len(cmd.Items[i].Name) < 1 || len(cmd.Items[i].Name) > 100 {
			return nil, fmt.Errorf("item %d name must be between 1 and 100 characters", i+1)
		}
		if cmd.Items[i].Quantity < 1 || cmd.Items[i].Quantity > 20 {
			return nil, fmt.Errorf("item %d quantity must be between 1 and 20", i+1)
		}
		if cmd.Items[i].Price < 1 || cmd.Items[i].Price > 99999 {
			return nil, fmt.Errorf("item %d price must be between 0.01 and 999.99", i+1)
		}
	}

	if cmd.PaymentMethod != "" && !validPaymentMethod(cmd.PaymentMethod) {
		return nil, fmt.Errorf("payment_method must be one of: 'cash', 'card', or 'online'")
	}

	var placed *orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		// guest checkout is allowed; a given customer id must exist
		if cmd.CustomerID != "" {
			if _, err := service.customers.GetByID(txCtx, cmd.CustomerID); err != nil {
				return fmt.Errorf("unknown customer %q: %w", cmd.CustomerID, err)
			}
		}

		// build the aggregate
		order := &orders.Order{
			ID:            uuid.NewString(),
			CustomerID:    cmd.CustomerID,
			PaymentMethod: cmd.PaymentMethod,
			Paid:          cmd.Paid,
		}

		order.Items = make([]orders.OrderItem, len(cmd.Items))
		for i, item := range cmd.Items {
			order.Items[i] = orders.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
		}
		order.SetTotalAmount()

		// insert; the DB sequence assigns the human-readable number
		if err := service.repo.Create(txCtx, order); err != nil {
			service.logger.Error(ctx, "db_transaction_failed", "failed to create order", err)
			return err
		}

		// re-read so callers get the resolved customer view in one shape
		resolved, err := service.repo.GetByIDWithCustomer(txCtx, order.ID)
		if err != nil {
			return err
		}
		placed = resolved
		return nil
	})

	return placed, err
}

// GetOrder returns one order with its customer reference resolved. This is
// the single resolved-read call the broadcaster performs before every fan-out.
func (service *Service) GetOrder(ctx context.Context, id string) (*orders.Order, error) {
	var out *orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		o, err := service.repo.GetByIDWithCustomer(txCtx, id)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}

// ListOrders returns all order headers, newest first.
func (service *Service) ListOrders(ctx context.Context) ([]orders.Order, error) {
	var out []orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		list, err := service.repo.List(txCtx)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}

// ListCustomerOrders returns one customer's order headers, newest first.
func (service *Service) ListCustomerOrders(ctx context.Context, customerID string) ([]orders.Order, error) {
	var out []orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		list, err := service.repo.ListByCustomer(txCtx, customerID)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}

// ChangeStatus applies a lifecycle transition and returns the updated
// resolved order.
func (service *Service) ChangeStatus(ctx context.Context, id string, next orders.OrderStatus) (*orders.Order, error) {
	if !orders.IsValidStatus(next) {
		return nil, fmt.Errorf("unknown order status %q", next)
	}

	var updated *orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := service.repo.GetByIDWithCustomer(txCtx, id)
		if err != nil {
			return err
		}
		if !orders.CanTransition(current.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
		}
		if err := service.repo.UpdateStatus(txCtx, id, next); err != nil {
			return err
		}

		current.Status = next
		updated = current
		return nil
	})
	return updated, err
}

// ChangePayment updates the paid flag / payment method and returns the
// updated resolved order.
func (service *Service) ChangePayment(ctx context.Context, id string, paid bool, method string) (*orders.Order, error) {
	if method != "" && !validPaymentMethod(method) {
		return nil, fmt.Errorf("payment_method must be one of: 'cash', 'card', or 'online'")
	}

	var updated *orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := service.repo.GetByIDWithCustomer(txCtx, id)
		if err != nil {
			return err
		}
		if method == "" {
			method = current.PaymentMethod
		}
		if err := service.repo.UpdatePayment(txCtx, id, paid, method); err != nil {
			return err
		}

		current.Paid = paid
		current.PaymentMethod = method
		updated = current
		return nil
	})
	return updated, err
}

// RemoveOrder deletes the order and returns its last resolved snapshot so the
// caller can still broadcast the deletion.
func (service *Service) RemoveOrder(ctx context.Context, id string) (*orders.Order, error) {
	var removed *orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := service.repo.GetByIDWithCustomer(txCtx, id)
		if err != nil {
			return err
		}
		if err := service.repo.Delete(txCtx, id); err != nil {
			return err
		}
		removed = current
		return nil
	})
	return removed, err
}

func validPaymentMethod(m string) bool {
	switch m {
	case orders.PaymentCash, orders.PaymentCard, orders.PaymentOnline:
		return true
	default:
		return false
	}
}
