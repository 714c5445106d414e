package models

import "time"

// Category labels transactions of a single direction (e.g. "Salary"
// for inflows, "Groceries" for outflows).
type Category struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Name      string    `gorm:"size:100;not null"`
	Direction Direction `gorm:"size:16;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
