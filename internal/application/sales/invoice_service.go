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

// InvoiceService handles invoice lifecycle operations outside the
// payment and conversion flows
type InvoiceService struct {
	uow          UnitOfWork
	invoiceRepo  sales.InvoiceRepository
	customerRepo partner.CustomerRepository
	events       shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	uow UnitOfWork,
	invoiceRepo sales.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	events shared.EventPublisher,
) *InvoiceService {
	return &InvoiceService{
		uow:          uow,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		events:       events,
	}
}

// CreateInvoiceRequest represents a request to create an invoice directly,
// without a sales order. Lines are priced the same way conversions are.
type CreateInvoiceRequest struct {
	OrgID       uuid.UUID
	CustomerID  uuid.UUID
	InterState  bool
	Lines       []sales.ConvertedLine
	InvoiceDate time.Time
	DueDate     *time.Time
	Notes       string
	ActorID     *uuid.UUID
}

// CreateInvoice creates a new invoice for an active customer
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*sales.Invoice, error) {
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

	priced := priceLines(req.Lines, req.InterState)

	var invoice *sales.Invoice
	err = s.uow.Do(ctx, func(repos Repos) error {
		invoiceNumber, err := repos.Invoices.GenerateInvoiceNumber(ctx, req.OrgID)
		if err != nil {
			return fmt.Errorf("failed to generate invoice number: %w", err)
		}

		invoice, err = sales.NewInvoice(req.OrgID, invoiceNumber, customer.ID, customer.Name,
			priced.Items,
			valueobject.NewMoneyINR(priced.SubTotal),
			valueobject.NewMoneyINR(priced.IGST),
			valueobject.NewMoneyINR(priced.CGST),
			valueobject.NewMoneyINR(priced.SGST),
			req.InvoiceDate, req.DueDate, req.ActorID)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			invoice.SetNotes(req.Notes)
		}

		return repos.Invoices.Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, invoice.GetDomainEvents())
	invoice.ClearDomainEvents()

	return invoice, nil
}

// GetInvoice returns an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (*sales.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return invoice, nil
}

// ListInvoices returns invoices with filtering and pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, orgID uuid.UUID, filter sales.InvoiceFilter) (shared.Paginated[sales.Invoice], error) {
	invoices, err := s.invoiceRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[sales.Invoice]{}, fmt.Errorf("failed to list invoices: %w", err)
	}
	total, err := s.invoiceRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[sales.Invoice]{}, fmt.Errorf("failed to count invoices: %w", err)
	}
	return shared.NewPaginated(invoices, total, filter.Page, filter.PageSize), nil
}

// DeleteInvoice removes an invoice. An invoice carrying any payment or
// refund entry is never deleted.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice == nil {
		return shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	if invoice.HasAllocations() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Invoice %s has payments or refunds and cannot be deleted", invoice.InvoiceNumber))
	}

	return s.invoiceRepo.Delete(ctx, orgID, invoiceID)
}

func (s *InvoiceService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
}
