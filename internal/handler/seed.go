package handler

import (
	"net/http"
	"time"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/ledger"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/store"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"

	"github.com/gin-gonic/gin"
)

// SeedHandler populates an empty database with demo data. It refuses
// to run against a database that already has users.
type SeedHandler struct {
	Store      *store.Store
	Engine     *ledger.Engine
	BcryptCost int
}

func NewSeedHandler(s *store.Store, e *ledger.Engine, bcryptCost int) *SeedHandler {
	return &SeedHandler{Store: s, Engine: e, BcryptCost: bcryptCost}
}

func (h *SeedHandler) Seed(c *gin.Context) {
	var count int64
	if err := h.Store.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "database already seeded")
		return
	}

	hash, err := util.HashPassword("password123", h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "hash password failed")
		return
	}

	user, err := h.Store.CreateUser("Joao Silva", "joao@example.com", hash)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if _, err := h.Store.CreateUser("Maria Santos", "maria@example.com", hash); err != nil {
		writeDomainError(c, err)
		return
	}

	checking, err := h.Store.CreateAccount(user.ID, "Main Checking", models.AccountChecking, 0)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if _, err := h.Store.CreateAccount(user.ID, "Savings", models.AccountSavings, 0); err != nil {
		writeDomainError(c, err)
		return
	}

	salary, err := h.Store.CreateCategory(user.ID, "Salary", models.DirectionInflow)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	groceries, err := h.Store.CreateCategory(user.ID, "Groceries", models.DirectionOutflow)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	// applied through the engine so the balances come out right
	seedTxns := []ledger.CreateInput{
		{UserID: user.ID, AccountID: checking.ID, CategoryID: salary.ID,
			Direction: models.DirectionInflow, AmountCents: 350000,
			Date: time.Now().AddDate(0, 0, -20), Description: "Monthly salary"},
		{UserID: user.ID, AccountID: checking.ID, CategoryID: groceries.ID,
			Direction: models.DirectionOutflow, AmountCents: 24550,
			Date: time.Now().AddDate(0, 0, -10), Description: "Supermarket"},
		{UserID: user.ID, AccountID: checking.ID, CategoryID: groceries.ID,
			Direction: models.DirectionOutflow, AmountCents: 8990,
			Date: time.Now().AddDate(0, 0, -3), Description: "Bakery"},
	}
	for _, in := range seedTxns {
		if _, err := h.Engine.CreateTransaction(in); err != nil {
			writeDomainError(c, err)
			return
		}
	}

	util.Success(c, util.Response{
		"message": "seed complete",
		"login":   gin.H{"email": "joao@example.com", "password": "password123"},
	})
}
