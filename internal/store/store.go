package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"

	"gorm.io/gorm"
)

// Store is the durable CRUD layer for users, categories and accounts,
// plus read access to transactions. Transaction writes do not live
// here: they go through the ledger engine, which is the only writer of
// account balances.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// ---------- users ----------

func (s *Store) CreateUser(name, email, passwordHash string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if err := util.ValidateEmail(email); err != nil {
		return nil, &ValidationError{Field: "email", Reason: err.Error()}
	}

	var count int64
	if err := s.DB.Model(&models.User{}).
		Where("LOWER(email) = ?", email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, &DuplicateEmailError{Email: email}
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (s *Store) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (s *Store) UserByEmail(email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	var user models.User
	if err := s.DB.Where("LOWER(email) = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "user"}
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// UserUpdate carries the optional fields of a user update; nil means
// keep the stored value.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

func (s *Store) UpdateUser(id uint, upd UserUpdate) (*models.User, error) {
	user, err := s.UserByID(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		user.Name = name
	}
	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		if err := util.ValidateEmail(email); err != nil {
			return nil, &ValidationError{Field: "email", Reason: err.Error()}
		}
		var count int64
		if err := s.DB.Model(&models.User{}).
			Where("LOWER(email) = ? AND id <> ?", email, id).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return nil, &DuplicateEmailError{Email: email}
		}
		user.Email = email
	}
	if upd.PasswordHash != nil {
		user.PasswordHash = *upd.PasswordHash
	}

	if err := s.DB.Save(user).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the user; categories, accounts and transactions
// go with it through the foreign key cascades.
func (s *Store) DeleteUser(id uint) error {
	res := s.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "user", ID: id}
	}
	return nil
}

// ---------- categories ----------

func (s *Store) CreateCategory(userID uint, name string, direction models.Direction) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !direction.Valid() {
		return nil, &ValidationError{Field: "direction", Reason: fmt.Sprintf("unknown direction %q", direction)}
	}
	if _, err := s.UserByID(userID); err != nil {
		return nil, err
	}

	category := models.Category{
		UserID:    userID,
		Name:      name,
		Direction: direction,
	}
	if err := s.DB.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (s *Store) CategoryByID(userID, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "category", ID: id}
		}
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &category, nil
}

// ListCategories returns the user's categories, optionally filtered by
// direction, ordered by name.
func (s *Store) ListCategories(userID uint, direction *models.Direction) ([]models.Category, error) {
	q := s.DB.Where("user_id = ?", userID)
	if direction != nil {
		q = q.Where("direction = ?", *direction)
	}
	var categories []models.Category
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CategoryUpdate carries the optional fields of a category update.
type CategoryUpdate struct {
	Name      *string
	Direction *models.Direction
}

func (s *Store) UpdateCategory(userID, id uint, upd CategoryUpdate) (*models.Category, error) {
	category, err := s.CategoryByID(userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		category.Name = name
	}
	if upd.Direction != nil {
		if !upd.Direction.Valid() {
			return nil, &ValidationError{Field: "direction", Reason: fmt.Sprintf("unknown direction %q", *upd.Direction)}
		}
		// a category with committed transactions is pinned to its
		// direction, otherwise those transactions would contradict it
		if *upd.Direction != category.Direction {
			var count int64
			if err := s.DB.Model(&models.Transaction{}).
				Where("category_id = ?", id).
				Count(&count).Error; err != nil {
				return nil, fmt.Errorf("count category transactions: %w", err)
			}
			if count > 0 {
				return nil, &ValidationError{Field: "direction", Reason: "category has transactions; direction cannot change"}
			}
			category.Direction = *upd.Direction
		}
	}

	if err := s.DB.Save(category).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// ---------- accounts ----------

func (s *Store) CreateAccount(userID uint, name string, kind models.AccountKind, openingCents int64) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !kind.Valid() {
		return nil, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown account kind %q", kind)}
	}
	if openingCents < 0 {
		return nil, &ValidationError{Field: "balance", Reason: "must not be negative"}
	}
	if _, err := s.UserByID(userID); err != nil {
		return nil, err
	}

	account := models.Account{
		UserID:       userID,
		Name:         name,
		Kind:         kind,
		BalanceCents: openingCents,
	}
	if err := s.DB.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &account, nil
}

func (s *Store) AccountByID(userID, id uint) (*models.Account, error) {
	var account models.Account
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "account", ID: id}
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &account, nil
}

func (s *Store) ListAccounts(userID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.DB.Where("user_id = ?", userID).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// AccountUpdate carries the optional fields of an account update.
// The balance is deliberately absent: only the ledger engine writes it.
type AccountUpdate struct {
	Name *string
	Kind *models.AccountKind
}

func (s *Store) UpdateAccount(userID, id uint, upd AccountUpdate) (*models.Account, error) {
	account, err := s.AccountByID(userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		account.Name = name
	}
	if upd.Kind != nil {
		if !upd.Kind.Valid() {
			return nil, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown account kind %q", *upd.Kind)}
		}
		account.Kind = *upd.Kind
	}

	if err := s.DB.Save(account).Error; err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

// DeleteAccount removes the account and, through the cascade, all of
// its transactions.
func (s *Store) DeleteAccount(userID, id uint) error {
	res := s.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Account{})
	if res.Error != nil {
		return fmt.Errorf("delete account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "account", ID: id}
	}
	return nil
}

// ---------- transactions (reads) ----------

func (s *Store) TransactionByID(userID, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "transaction", ID: id}
		}
		return nil, fmt.Errorf("query transaction: %w", err)
	}
	return &txn, nil
}

// TransactionFilter narrows ListTransactions. Zero values mean "no
// filter"; Page/PageSize of zero fall back to the first page of 20.
type TransactionFilter struct {
	Direction  models.Direction
	AccountID  uint
	CategoryID uint
	Page       int
	PageSize   int
}

// ListTransactions returns the user's transactions newest first, plus
// the total row count under the same filter.
func (s *Store) ListTransactions(userID uint, f TransactionFilter) ([]models.Transaction, int64, error) {
	page := f.Page
	if page <= 0 {
		page = 1
	}
	size := f.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	base := s.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if f.Direction != "" {
		base = base.Where("direction = ?", f.Direction)
	}
	if f.AccountID != 0 {
		base = base.Where("account_id = ?", f.AccountID)
	}
	if f.CategoryID != 0 {
		base = base.Where("category_id = ?", f.CategoryID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	var txns []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Order("date DESC, id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&txns).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txns, total, nil
}
