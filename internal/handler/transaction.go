package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/ledger"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/store"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves transaction CRUD. All writes go through
// the ledger engine; this layer only translates requests.
type TransactionHandler struct {
	Store    *store.Store
	Engine   *ledger.Engine
	PageSize int
}

func NewTransactionHandler(s *store.Store, e *ledger.Engine, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{Store: s, Engine: e, PageSize: pageSize}
}

func transactionResp(t *models.Transaction) gin.H {
	return gin.H{
		"id":           t.ID,
		"account_id":   t.AccountID,
		"category_id":  t.CategoryID,
		"direction":    t.Direction,
		"amount_cents": t.AmountCents,
		"amount":       util.FormatCents(t.AmountCents),
		"description":  t.Description,
		"date":         t.Date.Format("2006-01-02"),
		"created_at":   t.CreatedAt,
	}
}

type createTransactionReq struct {
	AccountID   uint   `json:"account_id" binding:"required"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	Direction   string `json:"direction" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date"`
	Description string `json:"description" binding:"max=255"`
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	amount, err := util.ParseCents(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = util.ParseDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}

	txn, err := h.Engine.CreateTransaction(ledger.CreateInput{
		UserID:      user.ID,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Direction:   models.Direction(req.Direction),
		AmountCents: amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": transactionResp(txn)})
}

func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.PageSize)))

	filter := store.TransactionFilter{Page: page, PageSize: size}
	if d := models.Direction(c.Query("direction")); d != "" {
		if !d.Valid() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown direction")
			return
		}
		filter.Direction = d
	}
	if v, err := strconv.Atoi(c.Query("account_id")); err == nil && v > 0 {
		filter.AccountID = uint(v)
	}
	if v, err := strconv.Atoi(c.Query("category_id")); err == nil && v > 0 {
		filter.CategoryID = uint(v)
	}

	txns, total, err := h.Store.ListTransactions(user.ID, filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	items := make([]gin.H, 0, len(txns))
	for i := range txns {
		items = append(items, transactionResp(&txns[i]))
	}
	util.Success(c, util.Response{
		"items": items,
		"total": total,
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	txn, err := h.Store.TransactionByID(user.ID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": transactionResp(txn)})
}

type updateTransactionReq struct {
	AccountID   *uint   `json:"account_id"`
	CategoryID  *uint   `json:"category_id"`
	Direction   *string `json:"direction"`
	Amount      *string `json:"amount"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	in := ledger.UpdateInput{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Direction != nil {
		d := models.Direction(*req.Direction)
		in.Direction = &d
	}
	if req.Amount != nil {
		amount, err := util.ParseCents(*req.Amount)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
			return
		}
		in.AmountCents = &amount
	}
	if req.Date != nil {
		date, err := util.ParseDate(*req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		in.Date = &date
	}

	txn, err := h.Engine.UpdateTransaction(user.ID, id, in)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": transactionResp(txn)})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Engine.DeleteTransaction(user.ID, id); err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "transaction deleted"})
}
