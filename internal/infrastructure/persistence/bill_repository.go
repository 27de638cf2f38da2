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

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormBillRepository) WithTx(tx *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: tx}
}

// FindByIDForOrg finds a bill by ID for an organization.
// Returns nil when no bill matches.
func (r *GormBillRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*purchase.Bill, error) {
	var bill purchase.Bill
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

// FindByNumber finds a bill by number for an organization
func (r *GormBillRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, billNumber string) (*purchase.Bill, error) {
	var bill purchase.Bill
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND bill_number = ?", orgID, billNumber).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

// FindAllForOrg finds all bills for an organization with filtering
func (r *GormBillRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter purchase.BillFilter) ([]purchase.Bill, error) {
	var bills []purchase.Bill
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.Bill{}).Where("org_id = ?", orgID),
		filter, true,
	)
	if err := query.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// FindOutstandingByVendor finds all open or partially paid bills for a vendor
func (r *GormBillRepository) FindOutstandingByVendor(ctx context.Context, orgID, vendorID uuid.UUID) ([]purchase.Bill, error) {
	var bills []purchase.Bill
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND vendor_id = ? AND status IN ?", orgID, vendorID,
			[]purchase.BillStatus{purchase.BillStatusOpen, purchase.BillStatusPartiallyPaid}).
		Order("due_date ASC NULLS LAST").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, bill *purchase.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

// SaveWithLock saves with optimistic locking. The aggregate has already
// incremented its version; the update only lands if the stored row still
// carries the previous one.
func (r *GormBillRepository) SaveWithLock(ctx context.Context, bill *purchase.Bill) error {
	bill.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&purchase.Bill{}).
		Where("id = ? AND version = ?", bill.ID, bill.Version-1).
		Updates(map[string]interface{}{
			"vendor_id":         bill.VendorID,
			"vendor_name":       bill.VendorName,
			"total_amount":      bill.TotalAmount,
			"paid_amount":       bill.PaidAmount,
			"balance_due":       bill.BalanceDue,
			"status":            bill.Status,
			"payments_recorded": bill.PaymentsRecorded,
			"credits_applied":   bill.CreditsApplied,
			"activity_log":      bill.ActivityLog,
			"bill_date":         bill.BillDate,
			"due_date":          bill.DueDate,
			"remark":            bill.Remark,
			"voided_at":         bill.VoidedAt,
			"void_reason":       bill.VoidReason,
			"version":           bill.Version,
			"updated_at":        bill.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a bill. A bill with applied payments or credits is never deleted.
func (r *GormBillRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	bill, err := r.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return err
	}
	if bill == nil {
		return shared.ErrNotFound
	}
	if bill.HasAllocations() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Bill %s has payments or credits applied and cannot be deleted", bill.BillNumber))
	}
	return r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&purchase.Bill{}).Error
}

// CountForOrg counts bills for an organization
func (r *GormBillRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter purchase.BillFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.Bill{}).Where("org_id = ?", orgID),
		filter, false,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateBillNumber generates a unique bill number for an organization.
// Format: BILL-YYYY-NNNNN (e.g., BILL-2026-00001)
func (r *GormBillRepository) GenerateBillNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	return generateDocumentNumber(ctx, r.db, &purchase.Bill{}, "bill_number", "BILL", orgID)
}

func (r *GormBillRepository) applyFilter(query *gorm.DB, filter purchase.BillFilter, paginate bool) *gorm.DB {
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("bill_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("bill_date <= ?", *filter.ToDate)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("due_date < ? AND balance_due > 0 AND status NOT IN ?",
			time.Now(), []purchase.BillStatus{purchase.BillStatusVoid})
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("bill_number ILIKE ? OR vendor_name ILIKE ?", pattern, pattern)
	}

	if !paginate {
		return query
	}

	orderBy := ValidateSortField(filter.OrderBy, BillSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ purchase.BillRepository = (*GormBillRepository)(nil)
