package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/ledger"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/models"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/store"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user placed by AuthMiddleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return user, true
}

// idParam parses a positive :id path parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// writeDomainError maps core errors onto the response envelope. The
// structured detail stays in the message so the client can render a
// precise explanation.
func writeDomainError(c *gin.Context, err error) {
	var (
		validation   *store.ValidationError
		notFound     *store.NotFoundError
		duplicate    *store.DuplicateEmailError
		incompatible *ledger.IncompatibleCategoryError
		insufficient *ledger.InsufficientFundsError
	)
	switch {
	case errors.As(err, &validation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, validation.Error())
	case errors.As(err, &notFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, notFound.Error())
	case errors.As(err, &duplicate):
		util.Error(c, http.StatusConflict, util.CodeConflict, duplicate.Error())
	case errors.As(err, &incompatible):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeUnprocessable, incompatible.Error())
	case errors.As(err, &insufficient):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeUnprocessable, insufficient.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}
