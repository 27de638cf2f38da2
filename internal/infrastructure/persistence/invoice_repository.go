package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormInvoiceRepository) WithTx(tx *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: tx}
}

// FindByIDForOrg finds an invoice by ID for an organization.
// Returns nil when no invoice matches.
func (r *GormInvoiceRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*sales.Invoice, error) {
	var invoice sales.Invoice
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by number for an organization
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (*sales.Invoice, error) {
	var invoice sales.Invoice
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND invoice_number = ?", orgID, invoiceNumber).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForOrg finds all invoices for an organization with filtering
func (r *GormInvoiceRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter sales.InvoiceFilter) ([]sales.Invoice, error) {
	var invoices []sales.Invoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Invoice{}).Where("org_id = ?", orgID),
		filter, true,
	)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOutstandingByCustomer finds all invoices with a balance due for a customer
func (r *GormInvoiceRepository) FindOutstandingByCustomer(ctx context.Context, orgID, customerID uuid.UUID) ([]sales.Invoice, error) {
	var invoices []sales.Invoice
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND customer_id = ? AND balance_due > 0", orgID, customerID).
		Order("due_date ASC NULLS LAST").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *sales.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *sales.Invoice) error {
	invoice.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&sales.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(map[string]interface{}{
			"customer_id":     invoice.CustomerID,
			"customer_name":   invoice.CustomerName,
			"items":           invoice.Items,
			"sub_total":       invoice.SubTotal,
			"igst":            invoice.IGST,
			"cgst":            invoice.CGST,
			"sgst":            invoice.SGST,
			"total_amount":    invoice.TotalAmount,
			"amount_paid":     invoice.AmountPaid,
			"amount_refunded": invoice.AmountRefunded,
			"balance_due":     invoice.BalanceDue,
			"status":          invoice.Status,
			"payments":        invoice.Payments,
			"refunds":         invoice.Refunds,
			"activity_log":    invoice.ActivityLog,
			"invoice_date":    invoice.InvoiceDate,
			"due_date":        invoice.DueDate,
			"notes":           invoice.Notes,
			"version":         invoice.Version,
			"updated_at":      invoice.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes an invoice. An invoice with payments or refunds is never deleted.
func (r *GormInvoiceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	invoice, err := r.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return shared.ErrNotFound
	}
	if invoice.HasAllocations() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Invoice %s has payments or refunds and cannot be deleted", invoice.InvoiceNumber))
	}
	return r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&sales.Invoice{}).Error
}

// CountForOrg counts invoices for an organization
func (r *GormInvoiceRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter sales.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Invoice{}).Where("org_id = ?", orgID),
		filter, false,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateInvoiceNumber generates a unique invoice number for an organization.
// Format: INV-YYYY-NNNNN
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	return generateDocumentNumber(ctx, r.db, &sales.Invoice{}, "invoice_number", "INV", orgID)
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter sales.InvoiceFilter, paginate bool) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("invoice_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("invoice_date <= ?", *filter.ToDate)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("due_date < ? AND balance_due > 0", time.Now())
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}

	if !paginate {
		return query
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ sales.InvoiceRepository = (*GormInvoiceRepository)(nil)
