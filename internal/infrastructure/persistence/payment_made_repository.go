package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentMadeRepository implements PaymentMadeRepository using GORM
type GormPaymentMadeRepository struct {
	db *gorm.DB
}

// NewGormPaymentMadeRepository creates a new GormPaymentMadeRepository
func NewGormPaymentMadeRepository(db *gorm.DB) *GormPaymentMadeRepository {
	return &GormPaymentMadeRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormPaymentMadeRepository) WithTx(tx *gorm.DB) *GormPaymentMadeRepository {
	return &GormPaymentMadeRepository{db: tx}
}

// FindByIDForOrg finds a payment by ID for an organization.
// Returns nil when no payment matches.
func (r *GormPaymentMadeRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*purchase.PaymentMade, error) {
	var payment purchase.PaymentMade
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
func (r *GormPaymentMadeRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter purchase.PaymentMadeFilter) ([]purchase.PaymentMade, error) {
	var payments []purchase.PaymentMade
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.PaymentMade{}).Where("org_id = ?", orgID),
		filter, true,
	)
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentMadeRepository) Save(ctx context.Context, payment *purchase.PaymentMade) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPaymentMadeRepository) SaveWithLock(ctx context.Context, payment *purchase.PaymentMade) error {
	payment.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&purchase.PaymentMade{}).
		Where("id = ? AND version = ?", payment.ID, payment.Version-1).
		Updates(map[string]interface{}{
			"vendor_id":          payment.VendorID,
			"vendor_name":        payment.VendorName,
			"amount":             payment.Amount,
			"allocated_amount":   payment.AllocatedAmount,
			"unallocated_amount": payment.UnallocatedAmount,
			"mode":               payment.Mode,
			"reference":          payment.Reference,
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
func (r *GormPaymentMadeRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	payment, err := r.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return shared.ErrNotFound
	}
	if payment.HasAllocations() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Payment %s still has bill allocations and cannot be deleted", payment.PaymentNumber))
	}
	return r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&purchase.PaymentMade{}).Error
}

// CountForOrg counts payments for an organization
func (r *GormPaymentMadeRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter purchase.PaymentMadeFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.PaymentMade{}).Where("org_id = ?", orgID),
		filter, false,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GeneratePaymentNumber generates a unique payment number for an organization.
// Format: PAY-YYYY-NNNNN
func (r *GormPaymentMadeRepository) GeneratePaymentNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	return generateDocumentNumber(ctx, r.db, &purchase.PaymentMade{}, "payment_number", "PAY", orgID)
}

func (r *GormPaymentMadeRepository) applyFilter(query *gorm.DB, filter purchase.PaymentMadeFilter, paginate bool) *gorm.DB {
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.FromDate != nil {
		query = query.Where("payment_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("payment_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("payment_number ILIKE ? OR vendor_name ILIKE ? OR reference ILIKE ?",
			pattern, pattern, pattern)
	}

	if !paginate {
		return query
	}

	orderBy := ValidateSortField(filter.OrderBy, PaymentMadeSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ purchase.PaymentMadeRepository = (*GormPaymentMadeRepository)(nil)
