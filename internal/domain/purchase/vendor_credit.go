package purchase

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorCreditStatus represents the status of a vendor credit
type VendorCreditStatus string

const (
	VendorCreditStatusOpen   VendorCreditStatus = "OPEN"   // Balance remaining
	VendorCreditStatusClosed VendorCreditStatus = "CLOSED" // Balance exhausted
)

// IsValid checks if the status is a valid VendorCreditStatus
func (s VendorCreditStatus) IsValid() bool {
	return s == VendorCreditStatusOpen || s == VendorCreditStatusClosed
}

// String returns the string representation of VendorCreditStatus
func (s VendorCreditStatus) String() string {
	return string(s)
}

// CreditApplication records a debit of this credit against a bill
type CreditApplication struct {
	ID         uuid.UUID       `json:"id"`
	BillID     uuid.UUID       `json:"bill_id"`
	BillNumber string          `json:"bill_number"`
	Amount     decimal.Decimal `json:"amount"`
	AppliedAt  time.Time       `json:"applied_at"`
}

// CreditApplications is a JSONB-stored list of credit applications
type CreditApplications []CreditApplication

// Value implements driver.Valuer
func (a CreditApplications) Value() (driver.Value, error) {
	if a == nil {
		a = CreditApplications{}
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *CreditApplications) Scan(value any) error {
	return shared.ScanJSON(value, a, "CreditApplications")
}

// VendorCredit is a reusable credit balance issued by a vendor,
// distributable across that vendor's bills. Balance starts at Amount and
// only decreases; status is CLOSED exactly when balance reaches zero.
type VendorCredit struct {
	shared.OrgAggregateRoot
	CreditNumber string
	VendorID     uuid.UUID
	VendorName   string
	Amount       decimal.Decimal
	Balance      decimal.Decimal
	Status       VendorCreditStatus
	Applications CreditApplications
	ActivityLog  shared.ActivityLog
	Remark       string
	ClosedAt     *time.Time
}

// NewVendorCredit creates a new vendor credit
func NewVendorCredit(
	orgID uuid.UUID,
	creditNumber string,
	vendorID uuid.UUID,
	vendorName string,
	amount valueobject.Money,
	actorID *uuid.UUID,
) (*VendorCredit, error) {
	if creditNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit number cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor name cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit amount must be positive")
	}

	vc := &VendorCredit{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		CreditNumber:     creditNumber,
		VendorID:         vendorID,
		VendorName:       vendorName,
		Amount:           amount.Amount(),
		Balance:          amount.Amount(),
		Status:           VendorCreditStatusOpen,
		Applications:     make(CreditApplications, 0),
		ActivityLog:      shared.ActivityLog{},
	}
	if actorID != nil {
		vc.SetCreatedBy(*actorID)
	}
	vc.ActivityLog = vc.ActivityLog.Append("credit.created",
		fmt.Sprintf("Vendor credit %s of %s issued", creditNumber, amount.String()), actorID)

	vc.AddDomainEvent(NewVendorCreditCreatedEvent(vc))

	return vc, nil
}

// Apply debits the credit against a bill. The amount must not exceed the
// remaining balance; the credit closes exactly when balance reaches zero.
func (vc *VendorCredit) Apply(billID uuid.UUID, billNumber string, amount valueobject.Money, actorID *uuid.UUID) error {
	if vc.Status == VendorCreditStatusClosed {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Vendor credit %s is closed, no balance remaining", vc.CreditNumber))
	}
	if billID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Bill ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Application amount must be positive")
	}
	if amount.Amount().GreaterThan(vc.Balance) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Application amount %s exceeds remaining credit balance %s",
				amount.StringFixed(2), vc.Balance.StringFixed(2)))
	}

	vc.Applications = append(vc.Applications, CreditApplication{
		ID:         uuid.New(),
		BillID:     billID,
		BillNumber: billNumber,
		Amount:     amount.Amount(),
		AppliedAt:  time.Now(),
	})

	vc.Balance = vc.Balance.Sub(amount.Amount())
	if vc.Balance.IsZero() {
		now := time.Now()
		vc.Status = VendorCreditStatusClosed
		vc.ClosedAt = &now
		vc.AddDomainEvent(NewVendorCreditClosedEvent(vc))
	} else {
		vc.AddDomainEvent(NewVendorCreditAppliedEvent(vc, billID, amount))
	}

	vc.ActivityLog = vc.ActivityLog.Append("credit.applied",
		fmt.Sprintf("%s applied to bill %s", amount.String(), billNumber), actorID)
	vc.Touch()
	vc.IncrementVersion()

	return nil
}

// SetRemark sets the remark
func (vc *VendorCredit) SetRemark(remark string) {
	vc.Remark = remark
	vc.Touch()
	vc.IncrementVersion()
}

// IsApplied returns true if any portion of the credit has been applied.
// An applied credit must not be deleted while bills still reference it.
func (vc *VendorCredit) IsApplied() bool {
	return vc.Balance.LessThan(vc.Amount)
}

// IsClosed returns true if the credit balance is exhausted
func (vc *VendorCredit) IsClosed() bool {
	return vc.Status == VendorCreditStatusClosed
}

// GetBalanceMoney returns the remaining balance as Money
func (vc *VendorCredit) GetBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyINR(vc.Balance)
}

// AppliedTotal returns the total amount applied across all bills
func (vc *VendorCredit) AppliedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, app := range vc.Applications {
		total = total.Add(app.Amount)
	}
	return total
}
