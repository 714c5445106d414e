package models

import "time"

// AccountKind is the closed set of supported account types.
type AccountKind string

const (
	AccountChecking   AccountKind = "checking"
	AccountSavings    AccountKind = "savings"
	AccountPayroll    AccountKind = "payroll"
	AccountInvestment AccountKind = "investment"
)

// Valid reports whether k is a known account kind.
func (k AccountKind) Valid() bool {
	switch k {
	case AccountChecking, AccountSavings, AccountPayroll, AccountInvestment:
		return true
	}
	return false
}

// Account holds a running balance maintained by the ledger engine.
// BalanceCents is a cached quantity: it must always equal the net sum
// of the account's persisted transactions and must never go negative.
// Nothing outside the ledger engine writes it after creation.
type Account struct {
	ID           uint        `gorm:"primaryKey"`
	UserID       uint        `gorm:"index;not null"`
	Name         string      `gorm:"size:100;not null"`
	Kind         AccountKind `gorm:"size:16;not null"`
	BalanceCents int64       `gorm:"not null;default:0"` // store in cents to avoid float
	CreatedAt    time.Time
	UpdatedAt    time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
