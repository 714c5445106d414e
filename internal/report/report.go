package report

import (
	"errors"
	"fmt"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/store"

	"gorm.io/gorm"
)

// Reporter answers read-only queries over committed state. It keeps no
// state of its own and never touches balances.
type Reporter struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Reporter {
	return &Reporter{DB: db}
}

// MonthlyRow is one line of the monthly report: the total and count of
// a user's transactions for one (year, month, direction, category).
type MonthlyRow struct {
	Year       int              `json:"year"`
	Month      int              `json:"month"`
	Direction  models.Direction `json:"direction"`
	Category   string           `json:"category"`
	TotalCents int64            `json:"total_cents"`
	Count      int64            `json:"count"`
}

// Monthly aggregates the user's transactions by month, direction and
// category, newest months first, larger totals first within a
// direction. month and year of 0 mean "all".
func (r *Reporter) Monthly(userID uint, month, year int) ([]MonthlyRow, error) {
	q := r.DB.Model(&models.Transaction{}).
		Select("CAST(strftime('%Y', transactions.date) AS INTEGER) AS year, "+
			"CAST(strftime('%m', transactions.date) AS INTEGER) AS month, "+
			"transactions.direction AS direction, "+
			"categories.name AS category, "+
			"SUM(transactions.amount_cents) AS total_cents, "+
			"COUNT(*) AS count").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID)

	if year != 0 {
		q = q.Where("CAST(strftime('%Y', transactions.date) AS INTEGER) = ?", year)
	}
	if month != 0 {
		q = q.Where("CAST(strftime('%m', transactions.date) AS INTEGER) = ?", month)
	}

	var rows []MonthlyRow
	err := q.Group("year, month, transactions.direction, categories.name").
		Order("year DESC, month DESC, direction ASC, total_cents DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}
	return rows, nil
}

// AccountSummary is the per-account projection: the cached balance next
// to the totals recomputed from the transactions themselves.
type AccountSummary struct {
	AccountID         uint   `json:"account_id"`
	Name              string `json:"name"`
	BalanceCents      int64  `json:"balance_cents"`
	TotalInflowCents  int64  `json:"total_inflow_cents"`
	TotalOutflowCents int64  `json:"total_outflow_cents"`
	TransactionCount  int64  `json:"transaction_count"`
}

// Summary returns the account's balance alongside its transaction
// totals. Two calls with no writes in between return identical results.
func (r *Reporter) Summary(userID, accountID uint) (*AccountSummary, error) {
	var account models.Account
	if err := r.DB.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "account", ID: accountID}
		}
		return nil, fmt.Errorf("query account: %w", err)
	}

	var agg struct {
		InflowCents  int64
		OutflowCents int64
		Count        int64
	}
	err := r.DB.Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN amount_cents ELSE 0 END), 0) AS inflow_cents, "+
			"COALESCE(SUM(CASE WHEN direction = ? THEN amount_cents ELSE 0 END), 0) AS outflow_cents, "+
			"COUNT(*) AS count",
			models.DirectionInflow, models.DirectionOutflow).
		Where("account_id = ?", accountID).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("account summary: %w", err)
	}

	return &AccountSummary{
		AccountID:         account.ID,
		Name:              account.Name,
		BalanceCents:      account.BalanceCents,
		TotalInflowCents:  agg.InflowCents,
		TotalOutflowCents: agg.OutflowCents,
		TransactionCount:  agg.Count,
	}, nil
}
