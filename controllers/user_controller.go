package controllers

import (
	"net/http"

	"github.com/LoanRangers/SelfServiceLoaningBackend/app"
	"github.com/LoanRangers/SelfServiceLoaningBackend/db"

	"github.com/gin-gonic/gin"
)

type UserController struct{ Repo *db.Repo }

func NewUserController(repo *db.Repo) *UserController { return &UserController{Repo: repo} }

func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.Repo.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"users": users})
}
