package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/config"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/database"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"

	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Path:    filepath.Join(t.TempDir(), "store_test.db"),
		LogMode: false,
	}
	db, err := database.Init(cfg)
	if err != nil {
		t.Fatalf("Init test database failed: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestCreateUser(t *testing.T) {
	s := New(setupTestDB(t))

	user, err := s.CreateUser("Maria", "Maria@Example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.Email != "maria@example.com" {
		t.Errorf("email = %q, want lowercased %q", user.Email, "maria@example.com")
	}

	tests := []struct {
		name    string
		uName   string
		email   string
		wantDup bool
	}{
		{"duplicate exact", "Other", "maria@example.com", true},
		{"duplicate mixed case", "Other", "MARIA@EXAMPLE.COM", true},
		{"invalid email", "Other", "not-an-email", false},
		{"empty name", "", "fresh@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateUser(tt.uName, tt.email, "hash")
			if err == nil {
				t.Fatal("CreateUser() error = nil, want error")
			}
			var dup *DuplicateEmailError
			if got := errors.As(err, &dup); got != tt.wantDup {
				t.Errorf("errors.As(DuplicateEmailError) = %v, want %v (err = %v)", got, tt.wantDup, err)
			}
			if !tt.wantDup {
				var validation *ValidationError
				if !errors.As(err, &validation) {
					t.Errorf("error = %v, want ValidationError", err)
				}
			}
		})
	}
}

func TestUserByEmail(t *testing.T) {
	s := New(setupTestDB(t))
	if _, err := s.CreateUser("Maria", "maria@example.com", "hash"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	user, err := s.UserByEmail("MARIA@example.COM")
	if err != nil {
		t.Fatalf("UserByEmail() error = %v", err)
	}
	if user.Name != "Maria" {
		t.Errorf("name = %q, want Maria", user.Name)
	}

	_, err = s.UserByEmail("nobody@example.com")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("UserByEmail(unknown) error = %v, want NotFoundError", err)
	}
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	s := New(setupTestDB(t))
	if _, err := s.CreateUser("Maria", "maria@example.com", "hash"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	joao, err := s.CreateUser("Joao", "joao@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	taken := "maria@example.com"
	_, err = s.UpdateUser(joao.ID, UserUpdate{Email: &taken})
	var dup *DuplicateEmailError
	if !errors.As(err, &dup) {
		t.Fatalf("UpdateUser() error = %v, want DuplicateEmailError", err)
	}

	// updating to your own current email is not a conflict
	own := "joao@example.com"
	if _, err := s.UpdateUser(joao.ID, UserUpdate{Email: &own}); err != nil {
		t.Errorf("UpdateUser(own email) error = %v, want nil", err)
	}
}

func TestDeleteUser_Cascades(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)

	user, err := s.CreateUser("Maria", "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	category, err := s.CreateCategory(user.ID, "Salary", models.DirectionInflow)
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	account, err := s.CreateAccount(user.ID, "Checking", models.AccountChecking, 0)
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	txn := models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Direction:   models.DirectionInflow,
		AmountCents: 1000,
		Date:        time.Now(),
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := s.DeleteUser(user.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	for _, tc := range []struct {
		name  string
		model interface{}
	}{
		{"categories", &models.Category{}},
		{"accounts", &models.Account{}},
		{"transactions", &models.Transaction{}},
	} {
		var count int64
		if err := db.Model(tc.model).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", tc.name, err)
		}
		if count != 0 {
			t.Errorf("%s remaining after user delete = %d, want 0", tc.name, count)
		}
	}

	err = s.DeleteUser(user.ID)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("DeleteUser(gone) error = %v, want NotFoundError", err)
	}
}

// The cascades must fire no matter which pooled connection the DELETE
// lands on, so the delete is issued while another connection is held
// checked out of the pool.
func TestDeleteUser_CascadesOnSecondPooledConnection(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)

	user, err := s.CreateUser("Maria", "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	category, err := s.CreateCategory(user.ID, "Salary", models.DirectionInflow)
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	account, err := s.CreateAccount(user.ID, "Checking", models.AccountChecking, 0)
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	txn := models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Direction:   models.DirectionInflow,
		AmountCents: 1000,
		Date:        time.Now(),
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	held, err := sqlDB.Conn(context.Background())
	if err != nil {
		t.Fatalf("hold connection: %v", err)
	}
	defer held.Close()

	if err := s.DeleteUser(user.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	var accounts, txns int64
	if err := db.Model(&models.Account{}).Count(&accounts).Error; err != nil {
		t.Fatalf("count accounts: %v", err)
	}
	if err := db.Model(&models.Transaction{}).Count(&txns).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if accounts != 0 || txns != 0 {
		t.Errorf("orphans after DeleteUser: accounts=%d transactions=%d, want 0 and 0", accounts, txns)
	}
}

func TestCreateCategory_Validation(t *testing.T) {
	s := New(setupTestDB(t))
	user, err := s.CreateUser("Maria", "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	_, err = s.CreateCategory(user.ID, "Weird", models.Direction("sideways"))
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("CreateCategory(bad direction) error = %v, want ValidationError", err)
	}

	_, err = s.CreateCategory(999, "Salary", models.DirectionInflow)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("CreateCategory(unknown user) error = %v, want NotFoundError", err)
	}
}

func TestListCategories_FilterAndOrder(t *testing.T) {
	s := New(setupTestDB(t))
	user, err := s.CreateUser("Maria", "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	for _, c := range []struct {
		name      string
		direction models.Direction
	}{
		{"Salary", models.DirectionInflow},
		{"Groceries", models.DirectionOutflow},
		{"Bonus", models.DirectionInflow},
	} {
		if _, err := s.CreateCategory(user.ID, c.name, c.direction); err != nil {
			t.Fatalf("CreateCategory(%s) error = %v", c.name, err)
		}
	}

	inflow := models.DirectionInflow
	categories, err := s.ListCategories(user.ID, &inflow)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Bonus" || categories[1].Name != "Salary" {
		t.Errorf("inflow categories = %v, want [Bonus Salary]", names(categories))
	}

	all, err := s.ListCategories(user.ID, nil)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func names(categories []models.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}

func TestUpdateCategory_DirectionPinnedByTransactions(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	user, err := s.CreateUser("Maria", "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	category, err := s.CreateCategory(user.ID, "Salary", models.DirectionInflow)
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	// no transactions yet: direction may change
	outflow := models.DirectionOutflow
	updated, err := s.UpdateCategory(user.ID, category.ID, CategoryUpdate{Direction: &outflow})
	if err != nil {
		t.Fatalf("UpdateCategory() error = %v", err)
	}
	if updated.Direction != models.DirectionOutflow {
		t.Errorf("direction = %s, want outflow", updated.Direction)
	}

	account, err := s.CreateAccount(user.ID, "Checking", models.AccountChecking, 1000)
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	txn := models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Direction:   models.DirectionOutflow,
		AmountCents: 500,
		Date:        time.Now(),
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	inflow := models.DirectionInflow
	_, err = s.UpdateCategory(user.ID, category.ID, CategoryUpdate{Direction: &inflow})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("UpdateCategory(pinned) error = %v, want ValidationError", err)
	}

	// renaming is still fine
	name := "Rent"
	if _, err := s.UpdateCategory(user.ID, category.ID, CategoryUpdate{Name: &name}); err != nil {
		t.Errorf("UpdateCategory(rename) error = %v, want nil", err)
	}
}

func TestCreateAccount_Validation(t *testing.T) {
	s := New(setupTestDB(t))
	user, err := s.CreateUser("Maria", "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	tests := []struct {
		name    string
		aName   string
		kind    models.AccountKind
		opening int64
	}{
		{"bad kind", "Checking", models.AccountKind("offshore"), 0},
		{"negative opening", "Checking", models.AccountChecking, -1},
		{"empty name", "  ", models.AccountChecking, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateAccount(user.ID, tt.aName, tt.kind, tt.opening)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Errorf("CreateAccount() error = %v, want ValidationError", err)
			}
		})
	}

	account, err := s.CreateAccount(user.ID, "Savings", models.AccountSavings, 2500)
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if account.BalanceCents != 2500 {
		t.Errorf("opening balance = %d, want 2500", account.BalanceCents)
	}
}

func TestDeleteAccount_CascadesTransactions(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	user, err := s.CreateUser("Maria", "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	category, err := s.CreateCategory(user.ID, "Salary", models.DirectionInflow)
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	account, err := s.CreateAccount(user.ID, "Checking", models.AccountChecking, 0)
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	txn := models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Direction:   models.DirectionInflow,
		AmountCents: 1000,
		Date:        time.Now(),
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := s.DeleteAccount(user.ID, account.ID); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("transactions remaining = %d, want 0", count)
	}
	// the category is untouched by an account delete
	if _, err := s.CategoryByID(user.ID, category.ID); err != nil {
		t.Errorf("CategoryByID() error = %v, want nil", err)
	}
}

func TestListTransactions(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	user, err := s.CreateUser("Maria", "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	inCat, err := s.CreateCategory(user.ID, "Salary", models.DirectionInflow)
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	outCat, err := s.CreateCategory(user.ID, "Groceries", models.DirectionOutflow)
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	account, err := s.CreateAccount(user.ID, "Checking", models.AccountChecking, 0)
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		direction := models.DirectionInflow
		categoryID := inCat.ID
		if i%2 == 1 {
			direction = models.DirectionOutflow
			categoryID = outCat.ID
		}
		txn := models.Transaction{
			UserID:      user.ID,
			AccountID:   account.ID,
			CategoryID:  categoryID,
			Direction:   direction,
			AmountCents: int64(100 * (i + 1)),
			Description: fmt.Sprintf("txn %d", i),
			Date:        base.AddDate(0, 0, i),
		}
		if err := db.Create(&txn).Error; err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	txns, total, err := s.ListTransactions(user.ID, TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if total != 5 || len(txns) != 5 {
		t.Fatalf("total = %d, len = %d; want 5 and 5", total, len(txns))
	}
	for i := 1; i < len(txns); i++ {
		if txns[i].Date.After(txns[i-1].Date) {
			t.Errorf("transactions not ordered newest first at index %d", i)
		}
	}

	outTxns, outTotal, err := s.ListTransactions(user.ID, TransactionFilter{Direction: models.DirectionOutflow})
	if err != nil {
		t.Fatalf("ListTransactions(outflow) error = %v", err)
	}
	if outTotal != 2 || len(outTxns) != 2 {
		t.Errorf("outflow total = %d, len = %d; want 2 and 2", outTotal, len(outTxns))
	}

	paged, pagedTotal, err := s.ListTransactions(user.ID, TransactionFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("ListTransactions(page 2) error = %v", err)
	}
	if pagedTotal != 5 {
		t.Errorf("paged total = %d, want 5", pagedTotal)
	}
	if len(paged) != 2 {
		t.Errorf("page 2 len = %d, want 2", len(paged))
	}

	// another user's transactions are invisible
	other, err := s.CreateUser("Joao", "joao@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	none, noneTotal, err := s.ListTransactions(other.ID, TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions(other) error = %v", err)
	}
	if noneTotal != 0 || len(none) != 0 {
		t.Errorf("other user sees %d transactions, want 0", noneTotal)
	}
}
