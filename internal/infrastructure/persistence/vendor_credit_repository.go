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

// GormVendorCreditRepository implements VendorCreditRepository using GORM
type GormVendorCreditRepository struct {
	db *gorm.DB
}

// NewGormVendorCreditRepository creates a new GormVendorCreditRepository
func NewGormVendorCreditRepository(db *gorm.DB) *GormVendorCreditRepository {
	return &GormVendorCreditRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormVendorCreditRepository) WithTx(tx *gorm.DB) *GormVendorCreditRepository {
	return &GormVendorCreditRepository{db: tx}
}

// FindByIDForOrg finds a vendor credit by ID for an organization.
// Returns nil when no credit matches.
func (r *GormVendorCreditRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*purchase.VendorCredit, error) {
	var credit purchase.VendorCredit
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&credit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credit, nil
}

// FindAllForOrg finds all vendor credits for an organization with filtering
func (r *GormVendorCreditRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter purchase.VendorCreditFilter) ([]purchase.VendorCredit, error) {
	var credits []purchase.VendorCredit
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.VendorCredit{}).Where("org_id = ?", orgID),
		filter, true,
	)
	if err := query.Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// FindOpenByVendor finds all open credits for a vendor
func (r *GormVendorCreditRepository) FindOpenByVendor(ctx context.Context, orgID, vendorID uuid.UUID) ([]purchase.VendorCredit, error) {
	var credits []purchase.VendorCredit
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND vendor_id = ? AND status = ?", orgID, vendorID, purchase.VendorCreditStatusOpen).
		Order("created_at ASC").
		Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// Save creates or updates a vendor credit
func (r *GormVendorCreditRepository) Save(ctx context.Context, credit *purchase.VendorCredit) error {
	return r.db.WithContext(ctx).Save(credit).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormVendorCreditRepository) SaveWithLock(ctx context.Context, credit *purchase.VendorCredit) error {
	credit.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&purchase.VendorCredit{}).
		Where("id = ? AND version = ?", credit.ID, credit.Version-1).
		Updates(map[string]interface{}{
			"vendor_id":    credit.VendorID,
			"vendor_name":  credit.VendorName,
			"amount":       credit.Amount,
			"balance":      credit.Balance,
			"status":       credit.Status,
			"applications": credit.Applications,
			"activity_log": credit.ActivityLog,
			"remark":       credit.Remark,
			"closed_at":    credit.ClosedAt,
			"version":      credit.Version,
			"updated_at":   credit.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a vendor credit. An applied credit is never deleted.
func (r *GormVendorCreditRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	credit, err := r.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return err
	}
	if credit == nil {
		return shared.ErrNotFound
	}
	if credit.IsApplied() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Vendor credit %s has been applied to bills and cannot be deleted", credit.CreditNumber))
	}
	return r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&purchase.VendorCredit{}).Error
}

// CountForOrg counts vendor credits for an organization
func (r *GormVendorCreditRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter purchase.VendorCreditFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.VendorCredit{}).Where("org_id = ?", orgID),
		filter, false,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateCreditNumber generates a unique credit number for an organization.
// Format: VC-YYYY-NNNNN
func (r *GormVendorCreditRepository) GenerateCreditNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	return generateDocumentNumber(ctx, r.db, &purchase.VendorCredit{}, "credit_number", "VC", orgID)
}

func (r *GormVendorCreditRepository) applyFilter(query *gorm.DB, filter purchase.VendorCreditFilter, paginate bool) *gorm.DB {
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("credit_number ILIKE ? OR vendor_name ILIKE ?", pattern, pattern)
	}

	if !paginate {
		return query
	}

	orderBy := ValidateSortField(filter.OrderBy, VendorCreditSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ purchase.VendorCreditRepository = (*GormVendorCreditRepository)(nil)
