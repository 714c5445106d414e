package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/store"

	"gorm.io/gorm"
)

// Engine is the only writer of account balances. Every mutation runs
// as one storage transaction under the owning account's lock, so a
// partially applied balance update is never visible and two writers on
// the same account cannot race the read-validate-write sequence.
type Engine struct {
	db    *gorm.DB
	locks *accountLocks
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, locks: newAccountLocks()}
}

// errAccountMoved aborts a unit of work whose transaction changed
// accounts while we waited on the lock; the caller re-locks and retries.
var errAccountMoved = errors.New("transaction moved accounts")

// CreateInput is a transaction create request.
type CreateInput struct {
	UserID      uint
	AccountID   uint
	CategoryID  uint
	Direction   models.Direction
	AmountCents int64
	Date        time.Time // zero means now
	Description string
}

// CreateTransaction validates the category pairing, checks outflows
// against the current balance and persists the transaction together
// with the balance adjustment. On any error nothing is persisted.
func (e *Engine) CreateTransaction(in CreateInput) (*models.Transaction, error) {
	if !in.Direction.Valid() {
		return nil, &store.ValidationError{Field: "direction", Reason: fmt.Sprintf("unknown direction %q", in.Direction)}
	}
	if in.AmountCents <= 0 {
		return nil, &store.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	unlock := e.locks.lock(in.AccountID)
	defer unlock()

	var txn models.Transaction
	err := e.db.Transaction(func(tx *gorm.DB) error {
		account, err := accountFor(tx, in.UserID, in.AccountID)
		if err != nil {
			return err
		}
		category, err := categoryFor(tx, in.UserID, in.CategoryID)
		if err != nil {
			return err
		}
		if err := CheckCategory(in.Direction, category); err != nil {
			return err
		}

		if in.Direction == models.DirectionOutflow && account.BalanceCents < in.AmountCents {
			return &InsufficientFundsError{
				AvailableCents: account.BalanceCents,
				RequestedCents: in.AmountCents,
			}
		}

		txn = models.Transaction{
			UserID:      in.UserID,
			AccountID:   in.AccountID,
			CategoryID:  in.CategoryID,
			Direction:   in.Direction,
			AmountCents: in.AmountCents,
			Description: in.Description,
			Date:        in.Date,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		account.BalanceCents += in.Direction.Sign() * in.AmountCents
		if err := tx.Save(account).Error; err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// UpdateInput carries the optional fields of a transaction update; nil
// means keep the stored value.
type UpdateInput struct {
	AccountID   *uint
	CategoryID  *uint
	Direction   *models.Direction
	AmountCents *int64
	Date        *time.Time
	Description *string
}

// UpdateTransaction reverses the old transaction in memory, validates
// the new one against the reversed balance and commits reversal and
// re-application as a single write. A rejected update leaves the stored
// balance and transaction record exactly as they were. When the update
// moves the transaction to another account, both accounts are locked
// and both must stay non-negative.
func (e *Engine) UpdateTransaction(userID, id uint, in UpdateInput) (*models.Transaction, error) {
	for {
		old, err := transactionFor(e.db, userID, id)
		if err != nil {
			return nil, err
		}

		newAccountID := old.AccountID
		if in.AccountID != nil {
			newAccountID = *in.AccountID
		}
		newCategoryID := old.CategoryID
		if in.CategoryID != nil {
			newCategoryID = *in.CategoryID
		}
		newDirection := old.Direction
		if in.Direction != nil {
			newDirection = *in.Direction
		}
		newAmount := old.AmountCents
		if in.AmountCents != nil {
			newAmount = *in.AmountCents
		}

		if !newDirection.Valid() {
			return nil, &store.ValidationError{Field: "direction", Reason: fmt.Sprintf("unknown direction %q", newDirection)}
		}
		if newAmount <= 0 {
			return nil, &store.ValidationError{Field: "amount", Reason: "must be positive"}
		}

		unlock := e.locks.lock(old.AccountID, newAccountID)

		var updated models.Transaction
		err = e.db.Transaction(func(tx *gorm.DB) error {
			cur, err := transactionFor(tx, userID, id)
			if err != nil {
				return err
			}
			// a concurrent update may have moved the transaction to an
			// account we did not lock
			if cur.AccountID != old.AccountID {
				return errAccountMoved
			}

			oldAccount, err := accountFor(tx, userID, cur.AccountID)
			if err != nil {
				return err
			}
			newAccount := oldAccount
			if newAccountID != cur.AccountID {
				newAccount, err = accountFor(tx, userID, newAccountID)
				if err != nil {
					return err
				}
			}
			category, err := categoryFor(tx, userID, newCategoryID)
			if err != nil {
				return err
			}
			if err := CheckCategory(newDirection, category); err != nil {
				return err
			}

			// provisional reversal, not yet written anywhere
			reversed := oldAccount.BalanceCents - cur.Direction.Sign()*cur.AmountCents

			if newAccount == oldAccount {
				if newDirection == models.DirectionOutflow && reversed < newAmount {
					return &InsufficientFundsError{
						AvailableCents: reversed,
						RequestedCents: newAmount,
					}
				}
				oldAccount.BalanceCents = reversed + newDirection.Sign()*newAmount
			} else {
				// pulling the old transaction out must not overdraw the
				// account it leaves
				if reversed < 0 {
					return &InsufficientFundsError{
						AvailableCents: oldAccount.BalanceCents,
						RequestedCents: cur.AmountCents,
					}
				}
				if newDirection == models.DirectionOutflow && newAccount.BalanceCents < newAmount {
					return &InsufficientFundsError{
						AvailableCents: newAccount.BalanceCents,
						RequestedCents: newAmount,
					}
				}
				oldAccount.BalanceCents = reversed
				newAccount.BalanceCents += newDirection.Sign() * newAmount
				if err := tx.Save(newAccount).Error; err != nil {
					return fmt.Errorf("update balance: %w", err)
				}
			}
			if err := tx.Save(oldAccount).Error; err != nil {
				return fmt.Errorf("update balance: %w", err)
			}

			cur.AccountID = newAccountID
			cur.CategoryID = newCategoryID
			cur.Direction = newDirection
			cur.AmountCents = newAmount
			if in.Date != nil {
				cur.Date = *in.Date
			}
			if in.Description != nil {
				cur.Description = *in.Description
			}
			if err := tx.Save(cur).Error; err != nil {
				return fmt.Errorf("update transaction: %w", err)
			}
			updated = *cur
			return nil
		})
		unlock()

		if errors.Is(err, errAccountMoved) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &updated, nil
	}
}

// DeleteTransaction reverses the transaction's balance effect and
// removes the record, as one unit of work. Reversal is unconditional:
// removing an outflow can only increase the balance.
func (e *Engine) DeleteTransaction(userID, id uint) error {
	for {
		old, err := transactionFor(e.db, userID, id)
		if err != nil {
			return err
		}

		unlock := e.locks.lock(old.AccountID)
		err = e.db.Transaction(func(tx *gorm.DB) error {
			cur, err := transactionFor(tx, userID, id)
			if err != nil {
				return err
			}
			if cur.AccountID != old.AccountID {
				return errAccountMoved
			}

			account, err := accountFor(tx, userID, cur.AccountID)
			if err != nil {
				return err
			}

			account.BalanceCents -= cur.Direction.Sign() * cur.AmountCents
			if err := tx.Save(account).Error; err != nil {
				return fmt.Errorf("update balance: %w", err)
			}
			if err := tx.Delete(&models.Transaction{}, cur.ID).Error; err != nil {
				return fmt.Errorf("delete transaction: %w", err)
			}
			return nil
		})
		unlock()

		if errors.Is(err, errAccountMoved) {
			continue
		}
		return err
	}
}

// RemoveCategory deletes a category and its dependent transactions,
// reversing their net balance effect on every touched account so the
// balance identity survives the cascade.
func (e *Engine) RemoveCategory(userID, categoryID uint) error {
	type accountNet struct {
		AccountID uint
		NetCents  int64
	}

	nets := func(db *gorm.DB) ([]accountNet, error) {
		var rows []accountNet
		err := db.Model(&models.Transaction{}).
			Select("account_id, SUM(CASE WHEN direction = ? THEN amount_cents ELSE -amount_cents END) AS net_cents",
				models.DirectionInflow).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Group("account_id").
			Order("account_id ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("sum category transactions: %w", err)
		}
		return rows, nil
	}

	for {
		if _, err := categoryFor(e.db, userID, categoryID); err != nil {
			return err
		}
		before, err := nets(e.db)
		if err != nil {
			return err
		}
		ids := make([]uint, len(before))
		for i, n := range before {
			ids[i] = n.AccountID
		}

		unlock := e.locks.lock(ids...)
		err = e.db.Transaction(func(tx *gorm.DB) error {
			after, err := nets(tx)
			if err != nil {
				return err
			}
			// the set of touched accounts must match what we locked
			if len(after) != len(before) {
				return errAccountMoved
			}
			for i := range after {
				if after[i].AccountID != before[i].AccountID {
					return errAccountMoved
				}
			}

			for _, n := range after {
				account, err := accountFor(tx, userID, n.AccountID)
				if err != nil {
					return err
				}
				account.BalanceCents -= n.NetCents
				if err := tx.Save(account).Error; err != nil {
					return fmt.Errorf("update balance: %w", err)
				}
			}

			res := tx.Where("id = ? AND user_id = ?", categoryID, userID).Delete(&models.Category{})
			if res.Error != nil {
				return fmt.Errorf("delete category: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return &store.NotFoundError{Entity: "category", ID: categoryID}
			}
			return nil
		})
		unlock()

		if errors.Is(err, errAccountMoved) {
			continue
		}
		return err
	}
}

// ---------- row lookups shared by the mutation paths ----------

func accountFor(db *gorm.DB, userID, id uint) (*models.Account, error) {
	var account models.Account
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "account", ID: id}
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &account, nil
}

func categoryFor(db *gorm.DB, userID, id uint) (*models.Category, error) {
	var category models.Category
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "category", ID: id}
		}
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &category, nil
}

func transactionFor(db *gorm.DB, userID, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &store.NotFoundError{Entity: "transaction", ID: id}
		}
		return nil, fmt.Errorf("query transaction: %w", err)
	}
	return &txn, nil
}
