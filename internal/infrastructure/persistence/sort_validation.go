package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// BillSortFields contains allowed sort fields for bills
var BillSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"bill_number":  true,
	"vendor_id":    true,
	"vendor_name":  true,
	"total_amount": true,
	"paid_amount":  true,
	"balance_due":  true,
	"status":       true,
	"bill_date":    true,
	"due_date":     true,
}

// PaymentMadeSortFields contains allowed sort fields for payments made
var PaymentMadeSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"payment_number": true,
	"vendor_id":      true,
	"vendor_name":    true,
	"amount":         true,
	"payment_date":   true,
	"mode":           true,
}

// VendorCreditSortFields contains allowed sort fields for vendor credits
var VendorCreditSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"credit_number": true,
	"vendor_id":     true,
	"vendor_name":   true,
	"amount":        true,
	"balance":       true,
	"status":        true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"invoice_number":  true,
	"customer_id":     true,
	"customer_name":   true,
	"total_amount":    true,
	"amount_paid":     true,
	"amount_refunded": true,
	"balance_due":     true,
	"status":          true,
	"invoice_date":    true,
	"due_date":        true,
}

// PaymentReceivedSortFields contains allowed sort fields for payments received
var PaymentReceivedSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"payment_number": true,
	"customer_id":    true,
	"customer_name":  true,
	"amount":         true,
	"payment_date":   true,
	"mode":           true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"customer_id":   true,
	"customer_name": true,
	"status":        true,
	"order_date":    true,
}

// PartnerSortFields contains allowed sort fields for vendors and customers
var PartnerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"status":     true,
}
