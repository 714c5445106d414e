package handler

import (
	"net/http"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/report"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/store"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves account CRUD and the per-account summary.
type AccountHandler struct {
	Store    *store.Store
	Reporter *report.Reporter
}

func NewAccountHandler(s *store.Store, r *report.Reporter) *AccountHandler {
	return &AccountHandler{Store: s, Reporter: r}
}

func accountResp(a *models.Account) gin.H {
	return gin.H{
		"id":            a.ID,
		"name":          a.Name,
		"kind":          a.Kind,
		"balance_cents": a.BalanceCents,
		"balance":       util.FormatCents(a.BalanceCents),
		"created_at":    a.CreatedAt,
		"updated_at":    a.UpdatedAt,
	}
}

type createAccountReq struct {
	Name    string `json:"name" binding:"required,max=100"`
	Kind    string `json:"kind" binding:"required"`
	Balance string `json:"balance"` // opening balance, defaults to 0.00
}

func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	var opening int64
	if req.Balance != "" {
		var err error
		opening, err = util.ParseCents(req.Balance)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid balance")
			return
		}
	}

	account, err := h.Store.CreateAccount(user.ID, req.Name, models.AccountKind(req.Kind), opening)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{"account": accountResp(account)})
}

func (h *AccountHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	accounts, err := h.Store.ListAccounts(user.ID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	items := make([]gin.H, 0, len(accounts))
	for i := range accounts {
		items = append(items, accountResp(&accounts[i]))
	}
	util.Success(c, util.Response{"accounts": items})
}

func (h *AccountHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	account, err := h.Store.AccountByID(user.ID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"account": accountResp(account)})
}

type updateAccountReq struct {
	Name *string `json:"name"`
	Kind *string `json:"kind"`
}

// Update changes name and kind. The balance is not an input: only the
// ledger engine moves it.
func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	upd := store.AccountUpdate{Name: req.Name}
	if req.Kind != nil {
		kind := models.AccountKind(*req.Kind)
		upd.Kind = &kind
	}

	account, err := h.Store.UpdateAccount(user.ID, id, upd)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"account": accountResp(account)})
}

func (h *AccountHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Store.DeleteAccount(user.ID, id); err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "account deleted"})
}

// Summary returns the balance next to totals recomputed from the
// transactions.
func (h *AccountHandler) Summary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	summary, err := h.Reporter.Summary(user.ID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"summary": gin.H{
			"account_id":          summary.AccountID,
			"name":                summary.Name,
			"balance_cents":       summary.BalanceCents,
			"balance":             util.FormatCents(summary.BalanceCents),
			"total_inflow_cents":  summary.TotalInflowCents,
			"total_inflow":        util.FormatCents(summary.TotalInflowCents),
			"total_outflow_cents": summary.TotalOutflowCents,
			"total_outflow":       util.FormatCents(summary.TotalOutflowCents),
			"transaction_count":   summary.TransactionCount,
		},
	})
}
