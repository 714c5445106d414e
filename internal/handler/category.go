package handler

import (
	"net/http"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/ledger"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/store"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves category CRUD. Deletion goes through the
// ledger engine because it cascades to transactions and therefore
// moves balances.
type CategoryHandler struct {
	Store  *store.Store
	Engine *ledger.Engine
}

func NewCategoryHandler(s *store.Store, e *ledger.Engine) *CategoryHandler {
	return &CategoryHandler{Store: s, Engine: e}
}

func categoryResp(cat *models.Category) gin.H {
	return gin.H{
		"id":         cat.ID,
		"name":       cat.Name,
		"direction":  cat.Direction,
		"created_at": cat.CreatedAt,
	}
}

type createCategoryReq struct {
	Name      string `json:"name" binding:"required,max=100"`
	Direction string `json:"direction" binding:"required"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	category, err := h.Store.CreateCategory(user.ID, req.Name, models.Direction(req.Direction))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"category": categoryResp(category)})
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var direction *models.Direction
	if d := models.Direction(c.Query("direction")); d != "" {
		if !d.Valid() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown direction")
			return
		}
		direction = &d
	}

	categories, err := h.Store.ListCategories(user.ID, direction)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	items := make([]gin.H, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResp(&categories[i]))
	}
	util.Success(c, util.Response{"categories": items})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	category, err := h.Store.CategoryByID(user.ID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"category": categoryResp(category)})
}

type updateCategoryReq struct {
	Name      *string `json:"name"`
	Direction *string `json:"direction"`
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	upd := store.CategoryUpdate{Name: req.Name}
	if req.Direction != nil {
		d := models.Direction(*req.Direction)
		upd.Direction = &d
	}

	category, err := h.Store.UpdateCategory(user.ID, id, upd)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"category": categoryResp(category)})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Engine.RemoveCategory(user.ID, id); err != nil {
		writeDomainError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "category deleted"})
}
