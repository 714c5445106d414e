package models

import "time"

// Transaction is a single movement of money against an account.
// Amounts are strictly positive; the direction carries the sign.
type Transaction struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null;index:idx_transactions_user_date,priority:1"`
	AccountID   uint      `gorm:"index;not null"`
	CategoryID  uint      `gorm:"index;not null"`
	Direction   Direction `gorm:"size:16;index;not null"`
	AmountCents int64     `gorm:"not null"` // store in cents to avoid float
	Description string    `gorm:"size:255"`
	Date        time.Time `gorm:"index;not null;index:idx_transactions_user_date,priority:2"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User     User     `gorm:"constraint:OnDelete:CASCADE"`
	Account  Account  `gorm:"constraint:OnDelete:CASCADE"`
	Category Category `gorm:"constraint:OnDelete:CASCADE"`
}
