package partner

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// Customer is a buyer the organization sells to. Invoices, payments
// received and sales orders all reference a customer.
type Customer struct {
	shared.OrgAggregateRoot
	Name    string
	Email   string
	Phone   string
	GSTIN   string
	Address string
	Status  CustomerStatus
}

// NewCustomer creates a new active customer
func NewCustomer(orgID uuid.UUID, name, email, phone, gstin string, actorID *uuid.UUID) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot exceed 200 characters")
	}

	c := &Customer{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Email:            email,
		Phone:            phone,
		GSTIN:            gstin,
		Status:           CustomerStatusActive,
	}
	if actorID != nil {
		c.SetCreatedBy(*actorID)
	}
	return c, nil
}

// UpdateContact updates the customer's contact details
func (c *Customer) UpdateContact(email, phone, address string) {
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Touch()
	c.IncrementVersion()
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already inactive")
	}
	c.Status = CustomerStatusInactive
	c.Touch()
	c.IncrementVersion()
	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}
