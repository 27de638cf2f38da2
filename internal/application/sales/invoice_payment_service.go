package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InvoicePaymentService records customer payments and refunds against
// invoices. Each operation writes the invoice and the payment received
// record in one transaction.
type InvoicePaymentService struct {
	uow         UnitOfWork
	invoiceRepo sales.InvoiceRepository
	receiptRepo sales.PaymentReceivedRepository
	events      shared.EventPublisher
}

// NewInvoicePaymentService creates a new InvoicePaymentService
func NewInvoicePaymentService(
	uow UnitOfWork,
	invoiceRepo sales.InvoiceRepository,
	receiptRepo sales.PaymentReceivedRepository,
	events shared.EventPublisher,
) *InvoicePaymentService {
	return &InvoicePaymentService{
		uow:         uow,
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
		events:      events,
	}
}

// RecordPaymentRequest represents a request to record a payment on an invoice
type RecordPaymentRequest struct {
	OrgID     uuid.UUID
	InvoiceID uuid.UUID
	Amount    valueobject.Money
	Mode      sales.PaymentMode
	Reference string
	ActorID   *uuid.UUID
}

// RecordPaymentResult carries the updated invoice and the receipt created for it
type RecordPaymentResult struct {
	Invoice *sales.Invoice
	Receipt *sales.PaymentReceived
}

// RecordPayment appends a payment entry to the invoice and creates the
// corresponding payment received record for the audit trail.
func (s *InvoicePaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	var result *RecordPaymentResult
	err := s.uow.Do(ctx, func(repos Repos) error {
		invoice, err := repos.Invoices.FindByIDForOrg(ctx, req.OrgID, req.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice == nil {
			return shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}

		receiptNumber, err := repos.Receipts.GenerateReceiptNumber(ctx, req.OrgID)
		if err != nil {
			return fmt.Errorf("failed to generate receipt number: %w", err)
		}

		receipt, err := sales.NewPaymentReceived(req.OrgID, receiptNumber, invoice.CustomerID,
			invoice.CustomerName, req.Amount, req.Mode, time.Now(), req.ActorID)
		if err != nil {
			return err
		}
		if req.Reference != "" {
			if err := receipt.SetReference(req.Reference); err != nil {
				return err
			}
		}

		if err := invoice.RecordPayment(receipt.ID, req.Amount, req.Mode.String(), req.ActorID); err != nil {
			return err
		}
		if err := receipt.AllocateToInvoice(invoice.ID, invoice.InvoiceNumber, req.Amount,
			invoice.TotalAmount, invoice.BalanceDue); err != nil {
			return err
		}

		if err := repos.Invoices.SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		if err := repos.Receipts.Save(ctx, receipt); err != nil {
			return err
		}

		result = &RecordPaymentResult{Invoice: invoice, Receipt: receipt}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, result.Invoice.GetDomainEvents())
	result.Invoice.ClearDomainEvents()
	s.publish(ctx, result.Receipt.GetDomainEvents())
	result.Receipt.ClearDomainEvents()

	return result, nil
}

// RefundRequest represents a request to refund part of an invoice
type RefundRequest struct {
	OrgID     uuid.UUID
	InvoiceID uuid.UUID
	Amount    valueobject.Money
	Reason    string
	// SourcePaymentID, when set, draws the refund down from that
	// specific payment's refundable amount.
	SourcePaymentID *uuid.UUID
	ActorID         *uuid.UUID
}

// RefundResult carries the updated invoice and the negative receipt recorded
type RefundResult struct {
	Invoice      *sales.Invoice
	RefundRecord *sales.PaymentReceived
}

// Refund appends a refund entry to the invoice, which may reopen it, and
// records a negative-amount payment received entry for symmetry with the
// payment trail.
func (s *InvoicePaymentService) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	var result *RefundResult
	err := s.uow.Do(ctx, func(repos Repos) error {
		invoice, err := repos.Invoices.FindByIDForOrg(ctx, req.OrgID, req.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice == nil {
			return shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}

		if req.SourcePaymentID != nil {
			source, err := repos.Receipts.FindByIDForOrg(ctx, req.OrgID, *req.SourcePaymentID)
			if err != nil {
				return fmt.Errorf("failed to get source payment: %w", err)
			}
			if source == nil {
				return shared.NewDomainError("NOT_FOUND", "Source payment not found")
			}
			if err := source.DrawDownRefundable(req.Amount, req.ActorID); err != nil {
				return err
			}
			if err := repos.Receipts.SaveWithLock(ctx, source); err != nil {
				return err
			}
		}

		if err := invoice.Refund(req.Amount, req.Reason, req.SourcePaymentID, req.ActorID); err != nil {
			return err
		}

		refundNumber, err := repos.Receipts.GenerateReceiptNumber(ctx, req.OrgID)
		if err != nil {
			return fmt.Errorf("failed to generate receipt number: %w", err)
		}
		refundRecord, err := sales.NewRefundRecord(req.OrgID, refundNumber, invoice.CustomerID,
			invoice.CustomerName, req.Amount, req.SourcePaymentID, req.ActorID)
		if err != nil {
			return err
		}

		if err := repos.Invoices.SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		if err := repos.Receipts.Save(ctx, refundRecord); err != nil {
			return err
		}

		result = &RefundResult{Invoice: invoice, RefundRecord: refundRecord}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, result.Invoice.GetDomainEvents())
	result.Invoice.ClearDomainEvents()
	s.publish(ctx, result.RefundRecord.GetDomainEvents())
	result.RefundRecord.ClearDomainEvents()

	return result, nil
}

// ReverseReceipt backs every allocation out of its invoice and marks the
// receipt reversed
func (s *InvoicePaymentService) ReverseReceipt(ctx context.Context, orgID, receiptID uuid.UUID, actorID *uuid.UUID) (*sales.PaymentReceived, error) {
	var receipt *sales.PaymentReceived
	err := s.uow.Do(ctx, func(repos Repos) error {
		var err error
		receipt, err = repos.Receipts.FindByIDForOrg(ctx, orgID, receiptID)
		if err != nil {
			return fmt.Errorf("failed to get receipt: %w", err)
		}
		if receipt == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}

		removed, err := receipt.Reverse(actorID)
		if err != nil {
			return err
		}

		for _, alloc := range removed {
			invoice, err := repos.Invoices.FindByIDForOrg(ctx, orgID, alloc.InvoiceID)
			if err != nil {
				return fmt.Errorf("failed to get invoice %s: %w", alloc.InvoiceID, err)
			}
			if invoice == nil {
				return shared.NewDomainError("VALIDATION_ERROR",
					fmt.Sprintf("Invoice %s referenced by payment %s no longer exists", alloc.InvoiceID, receipt.PaymentNumber))
			}

			if _, err := invoice.RemovePaymentsFrom(receipt.ID, actorID); err != nil {
				return err
			}
			if err := repos.Invoices.SaveWithLock(ctx, invoice); err != nil {
				return err
			}
		}

		return repos.Receipts.SaveWithLock(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, receipt.GetDomainEvents())
	receipt.ClearDomainEvents()

	return receipt, nil
}

// DeleteReceipt removes a payment received record. A receipt with live
// invoice allocations must be reversed first.
func (s *InvoicePaymentService) DeleteReceipt(ctx context.Context, orgID, receiptID uuid.UUID) error {
	receipt, err := s.receiptRepo.FindByIDForOrg(ctx, orgID, receiptID)
	if err != nil {
		return fmt.Errorf("failed to get receipt: %w", err)
	}
	if receipt == nil {
		return shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	if receipt.HasAllocations() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Payment %s has invoice allocations and cannot be deleted, reverse it first", receipt.PaymentNumber))
	}

	return s.receiptRepo.Delete(ctx, orgID, receiptID)
}

// GetReceipt returns a payment received record by ID
func (s *InvoicePaymentService) GetReceipt(ctx context.Context, orgID, receiptID uuid.UUID) (*sales.PaymentReceived, error) {
	receipt, err := s.receiptRepo.FindByIDForOrg(ctx, orgID, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	if receipt == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return receipt, nil
}

// ListReceipts returns payment received records with filtering and pagination
func (s *InvoicePaymentService) ListReceipts(ctx context.Context, orgID uuid.UUID, filter sales.PaymentReceivedFilter) (shared.Paginated[sales.PaymentReceived], error) {
	receipts, err := s.receiptRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[sales.PaymentReceived]{}, fmt.Errorf("failed to list receipts: %w", err)
	}
	total, err := s.receiptRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[sales.PaymentReceived]{}, fmt.Errorf("failed to count receipts: %w", err)
	}
	return shared.NewPaginated(receipts, total, filter.Page, filter.PageSize), nil
}

func (s *InvoicePaymentService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
}
