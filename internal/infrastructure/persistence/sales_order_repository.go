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

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormSalesOrderRepository) WithTx(tx *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: tx}
}

// FindByIDForOrg finds a sales order by ID for an organization.
// Returns nil when no order matches.
func (r *GormSalesOrderRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a sales order by number for an organization
func (r *GormSalesOrderRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND order_number = ?", orgID, orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForOrg finds all sales orders for an organization with filtering
func (r *GormSalesOrderRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter sales.SalesOrderFilter) ([]sales.SalesOrder, error) {
	var orders []sales.SalesOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.SalesOrder{}).Where("org_id = ?", orgID),
		filter, true,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a sales order
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *sales.SalesOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *sales.SalesOrder) error {
	order.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&sales.SalesOrder{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"customer_id":   order.CustomerID,
			"customer_name": order.CustomerName,
			"status":        order.Status,
			"inter_state":   order.InterState,
			"items":         order.Items,
			"invoices":      order.Invoices,
			"activity_log":  order.ActivityLog,
			"order_date":    order.OrderDate,
			"cancelled_at":  order.CancelledAt,
			"cancel_reason": order.CancelReason,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a sales order. An order with any invoiced item is never deleted.
func (r *GormSalesOrderRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	order, err := r.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return err
	}
	if order == nil {
		return shared.ErrNotFound
	}
	for _, item := range order.Items {
		if item.InvoiceStatus == sales.ItemInvoiced {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Sales order %s has invoiced items and cannot be deleted", order.OrderNumber))
		}
	}
	return r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&sales.SalesOrder{}).Error
}

// CountForOrg counts sales orders for an organization
func (r *GormSalesOrderRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter sales.SalesOrderFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.SalesOrder{}).Where("org_id = ?", orgID),
		filter, false,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber generates a unique order number for an organization.
// Format: SO-YYYY-NNNNN
func (r *GormSalesOrderRepository) GenerateOrderNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	return generateDocumentNumber(ctx, r.db, &sales.SalesOrder{}, "order_number", "SO", orgID)
}

func (r *GormSalesOrderRepository) applyFilter(query *gorm.DB, filter sales.SalesOrderFilter, paginate bool) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("order_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("order_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}

	if !paginate {
		return query
	}

	orderBy := ValidateSortField(filter.OrderBy, SalesOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ sales.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
