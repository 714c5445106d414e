package handler

import (
	"net/http"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/store"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the authenticated user's own record.
type UserHandler struct {
	Store      *store.Store
	BcryptCost int
}

func NewUserHandler(s *store.Store, bcryptCost int) *UserHandler {
	return &UserHandler{Store: s, BcryptCost: bcryptCost}
}

// GetMe returns the current user.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}

type updateUserReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	upd := store.UserUpdate{Name: req.Name, Email: req.Email}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must have at least 6 characters")
			return
		}
		hash, err := util.HashPassword(*req.Password, h.BcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "hash password failed")
			return
		}
		upd.PasswordHash = &hash
	}

	updated, err := h.Store.UpdateUser(user.ID, upd)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":    updated.ID,
			"name":  updated.Name,
			"email": updated.Email,
		},
	})
}

// DeleteMe removes the user and, through the cascades, every category,
// account and transaction they own.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.Store.DeleteUser(user.ID); err != nil {
		writeDomainError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "user deleted",
	})
}
