package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrderInvoicingService manages sales orders and converts them into
// invoices. A conversion writes the order and the new invoice in one
// transaction so partial conversions are never observable.
type OrderInvoicingService struct {
	uow          UnitOfWork
	orderRepo    sales.SalesOrderRepository
	customerRepo partner.CustomerRepository
	events       shared.EventPublisher
}

// NewOrderInvoicingService creates a new OrderInvoicingService
func NewOrderInvoicingService(
	uow UnitOfWork,
	orderRepo sales.SalesOrderRepository,
	customerRepo partner.CustomerRepository,
	events shared.EventPublisher,
) *OrderInvoicingService {
	return &OrderInvoicingService{
		uow:          uow,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		events:       events,
	}
}

// CreateOrderRequest represents a request to create a sales order
type CreateOrderRequest struct {
	OrgID      uuid.UUID
	CustomerID uuid.UUID
	InterState bool
	Items      sales.SalesOrderItems
	OrderDate  time.Time
	ActorID    *uuid.UUID
}

// CreateOrder creates a new draft sales order for an active customer
func (s *OrderInvoicingService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*sales.SalesOrder, error) {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, req.OrgID, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Customer %s is inactive", customer.Name))
	}

	var order *sales.SalesOrder
	err = s.uow.Do(ctx, func(repos Repos) error {
		orderNumber, err := repos.Orders.GenerateOrderNumber(ctx, req.OrgID)
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}

		order, err = sales.NewSalesOrder(req.OrgID, orderNumber, customer.ID, customer.Name,
			req.InterState, req.Items, req.OrderDate, req.ActorID)
		if err != nil {
			return err
		}

		return repos.Orders.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	return order, nil
}

// ConfirmOrder moves a draft order to CONFIRMED
func (s *OrderInvoicingService) ConfirmOrder(ctx context.Context, orgID, orderID uuid.UUID, actorID *uuid.UUID) (*sales.SalesOrder, error) {
	var order *sales.SalesOrder
	err := s.uow.Do(ctx, func(repos Repos) error {
		var err error
		order, err = repos.Orders.FindByIDForOrg(ctx, orgID, orderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}
		if order == nil {
			return shared.NewDomainError("NOT_FOUND", "Sales order not found")
		}
		if err := order.Confirm(actorID); err != nil {
			return err
		}
		return repos.Orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	return order, nil
}

// ConvertRequest represents a request to convert order items into an invoice
type ConvertRequest struct {
	OrgID   uuid.UUID
	OrderID uuid.UUID
	// SelectedItemIDs limits the conversion to those items, each carried
	// to its full remaining quantity. Empty means every item with
	// remaining quantity.
	SelectedItemIDs []uuid.UUID
	DueDate         *time.Time
	ActorID         *uuid.UUID
}

// ConvertResult carries the updated order and the invoice created from it
type ConvertResult struct {
	Order   *sales.SalesOrder
	Invoice *sales.Invoice
}

// ConvertToInvoice converts the selected order items into a new invoice.
// Line amounts are priced from each item's remaining quantity with its
// discount applied before tax. Re-converting fully invoiced items is
// rejected, never silently duplicated.
func (s *OrderInvoicingService) ConvertToInvoice(ctx context.Context, req ConvertRequest) (*ConvertResult, error) {
	var result *ConvertResult
	err := s.uow.Do(ctx, func(repos Repos) error {
		order, err := repos.Orders.FindByIDForOrg(ctx, req.OrgID, req.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}
		if order == nil {
			return shared.NewDomainError("NOT_FOUND", "Sales order not found")
		}

		lines, err := order.ConvertItems(req.SelectedItemIDs, req.ActorID)
		if err != nil {
			return err
		}

		priced := priceLines(lines, order.InterState)

		invoiceNumber, err := repos.Invoices.GenerateInvoiceNumber(ctx, req.OrgID)
		if err != nil {
			return fmt.Errorf("failed to generate invoice number: %w", err)
		}

		invoice, err := sales.NewInvoice(req.OrgID, invoiceNumber, order.CustomerID, order.CustomerName,
			priced.Items,
			valueobject.NewMoneyINR(priced.SubTotal),
			valueobject.NewMoneyINR(priced.IGST),
			valueobject.NewMoneyINR(priced.CGST),
			valueobject.NewMoneyINR(priced.SGST),
			time.Now(), req.DueDate, req.ActorID)
		if err != nil {
			return err
		}

		order.AttachInvoice(sales.InvoiceRef{
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			Amount:        invoice.TotalAmount,
			BalanceDue:    invoice.BalanceDue,
			CreatedAt:     invoice.CreatedAt,
		})

		if err := repos.Invoices.Save(ctx, invoice); err != nil {
			return err
		}
		if err := repos.Orders.SaveWithLock(ctx, order); err != nil {
			return err
		}

		result = &ConvertResult{Order: order, Invoice: invoice}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, result.Order.GetDomainEvents())
	result.Order.ClearDomainEvents()
	s.publish(ctx, result.Invoice.GetDomainEvents())
	result.Invoice.ClearDomainEvents()

	return result, nil
}

// CancelOrder cancels an order with no invoiced items
func (s *OrderInvoicingService) CancelOrder(ctx context.Context, orgID, orderID uuid.UUID, reason string, actorID *uuid.UUID) (*sales.SalesOrder, error) {
	var order *sales.SalesOrder
	err := s.uow.Do(ctx, func(repos Repos) error {
		var err error
		order, err = repos.Orders.FindByIDForOrg(ctx, orgID, orderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}
		if order == nil {
			return shared.NewDomainError("NOT_FOUND", "Sales order not found")
		}
		if err := order.Cancel(reason, actorID); err != nil {
			return err
		}
		return repos.Orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	return order, nil
}

// GetOrder returns a sales order by ID
func (s *OrderInvoicingService) GetOrder(ctx context.Context, orgID, orderID uuid.UUID) (*sales.SalesOrder, error) {
	order, err := s.orderRepo.FindByIDForOrg(ctx, orgID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sales order not found")
	}
	return order, nil
}

// ListOrders returns sales orders with filtering and pagination
func (s *OrderInvoicingService) ListOrders(ctx context.Context, orgID uuid.UUID, filter sales.SalesOrderFilter) (shared.Paginated[sales.SalesOrder], error) {
	orders, err := s.orderRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[sales.SalesOrder]{}, fmt.Errorf("failed to list orders: %w", err)
	}
	total, err := s.orderRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[sales.SalesOrder]{}, fmt.Errorf("failed to count orders: %w", err)
	}
	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

func (s *OrderInvoicingService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
}
