package ledger

import "github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"

// CheckCategory validates that a transaction of the given direction may
// reference the category. It is a pure predicate over current state and
// runs before any balance effect, on create and update alike.
func CheckCategory(direction models.Direction, category *models.Category) error {
	if category.Direction != direction {
		return &IncompatibleCategoryError{
			Expected: category.Direction,
			Actual:   direction,
		}
	}
	return nil
}
