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

// GormPaymentReceivedRepository implements PaymentReceivedRepository using GORM
type GormPaymentReceivedRepository struct {
	db *gorm.DB
}

// NewGormPaymentReceivedRepository creates a new GormPaymentReceivedRepository
func NewGormPaymentReceivedRepository(db *gorm.DB) *GormPaymentReceivedRepository {
	return &GormPaymentReceivedRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormPaymentReceivedRepository) WithTx(tx *gorm.DB) *GormPaymentReceivedRepository {
	return &GormPaymentReceivedRepository{db: tx}
}

// FindByIDForOrg finds a payment by ID for an organization.
// Returns nil when no payment matches.
func (r *GormPaymentReceivedRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*sales.PaymentReceived, error) {
	var payment sales.PaymentReceived
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// FindAllForOrg finds all payments for an organization with filtering
func (r *GormPaymentReceivedRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter sales.PaymentReceivedFilter) ([]sales.PaymentReceived, error) {
	var payments []sales.PaymentReceived
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.PaymentReceived{}).Where("org_id = ?", orgID),
		filter, true,
	)
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentReceivedRepository) Save(ctx context.Context, payment *sales.PaymentReceived) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPaymentReceivedRepository) SaveWithLock(ctx context.Context, payment *sales.PaymentReceived) error {
	payment.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&sales.PaymentReceived{}).
		Where("id = ? AND version = ?", payment.ID, payment.Version-1).
		Updates(map[string]interface{}{
			"customer_id":        payment.CustomerID,
			"customer_name":      payment.CustomerName,
			"amount":             payment.Amount,
			"allocated_amount":   payment.AllocatedAmount,
			"unallocated_amount": payment.UnallocatedAmount,
			"refunded_amount":    payment.RefundedAmount,
			"mode":               payment.Mode,
			"reference":          payment.Reference,
			"is_refund":          payment.IsRefund,
			"source_payment_id":  payment.SourcePaymentID,
			"payment_date":       payment.PaymentDate,
			"allocations":        payment.Allocations,
			"activity_log":       payment.ActivityLog,
			"remark":             payment.Remark,
			"reversed_at":        payment.ReversedAt,
			"version":            payment.Version,
			"updated_at":         payment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a payment. A payment with live allocations is never deleted.
func (r *GormPaymentReceivedRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	payment, err := r.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return shared.ErrNotFound
	}
	if payment.HasAllocations() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Payment %s still has invoice allocations and cannot be deleted", payment.PaymentNumber))
	}
	return r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&sales.PaymentReceived{}).Error
}

// CountForOrg counts payments for an organization
func (r *GormPaymentReceivedRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter sales.PaymentReceivedFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.PaymentReceived{}).Where("org_id = ?", orgID),
		filter, false,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReceiptNumber generates a unique receipt number for an organization.
// Format: RCP-YYYY-NNNNN
func (r *GormPaymentReceivedRepository) GenerateReceiptNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	return generateDocumentNumber(ctx, r.db, &sales.PaymentReceived{}, "payment_number", "RCP", orgID)
}

func (r *GormPaymentReceivedRepository) applyFilter(query *gorm.DB, filter sales.PaymentReceivedFilter, paginate bool) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.IsRefund != nil {
		query = query.Where("is_refund = ?", *filter.IsRefund)
	}
	if filter.FromDate != nil {
		query = query.Where("payment_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("payment_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("payment_number ILIKE ? OR customer_name ILIKE ? OR reference ILIKE ?",
			pattern, pattern, pattern)
	}

	if !paginate {
		return query
	}

	orderBy := ValidateSortField(filter.OrderBy, PaymentReceivedSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ sales.PaymentReceivedRepository = (*GormPaymentReceivedRepository)(nil)
