package storeapi

import (
	"context"
	"strings"

	"git.platform.alem.school/amibragim/order-up/internal/domain/customers"
	"git.platform.alem.school/amibragim/order-up/internal/domain/products"
	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

// Service implements ports.CatalogService over the product and customer repos.
type Service struct {
	uow       ports.UnitOfWork
	products  ports.ProductRepository
	customers ports.CustomerRepository
	logger    *logger.Logger
}

var _ ports.CatalogService = (*Service)(nil)

// NewService creates a catalog service with the required dependencies.
func NewService(uow ports.UnitOfWork, productsRepo ports.ProductRepository, customersRepo ports.CustomerRepository, logger *logger.Logger) *Service {
	return &Service{uow: uow, products: productsRepo, customers: customersRepo, logger: logger}
}

func (service *Service) CreateProduct(ctx context.Context, p *products.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	return service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.products.Create(txCtx, p)
	})
}

func (service *Service) GetProduct(ctx context.Context, id string) (*products.Product, error) {
	var out *products.Product
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		p, err := service.products.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (service *Service) ListProducts(ctx context.Context) ([]products.Product, error) {
	var out []products.Product
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		list, err := service.products.List(txCtx)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}

func (service *Service) UpdateProduct(ctx context.Context, p *products.Product) error {
	return service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.products.Update(txCtx, p)
	})
}

func (service *Service) DeleteProduct(ctx context.Context, id string) error {
	return service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.products.Delete(txCtx, id)
	})
}

func (service *Service) CreateCustomer(ctx context.Context, c *customers.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	return service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.customers.Create(txCtx, c)
	})
}

func (service *Service) GetCustomer(ctx context.Context, id string) (*customers.Customer, error) {
	var out *customers.Customer
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		c, err := service.customers.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (service *Service) ListCustomers(ctx context.Context) ([]customers.Customer, error) {
	var out []customers.Customer
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		list, err := service.customers.List(txCtx)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}
