package ledger

import (
	"fmt"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"
)

// IncompatibleCategoryError reports a transaction whose direction does
// not match its category's direction.
type IncompatibleCategoryError struct {
	Expected models.Direction // the category's direction
	Actual   models.Direction // the transaction's direction
}

func (e *IncompatibleCategoryError) Error() string {
	return fmt.Sprintf("transaction direction %s does not match category direction %s", e.Actual, e.Expected)
}

// InsufficientFundsError reports an outflow that would drive the
// account balance negative. Nothing is persisted when it is returned.
type InsufficientFundsError struct {
	AvailableCents int64
	RequestedCents int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s",
		util.FormatCents(e.AvailableCents), util.FormatCents(e.RequestedCents))
}
