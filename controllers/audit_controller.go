package controllers

import (
	"net/http"
	"strconv"

	"github.com/LoanRangers/SelfServiceLoaningBackend/app"
	"github.com/LoanRangers/SelfServiceLoaningBackend/db"

	"github.com/gin-gonic/gin"
)

type AuditController struct{ Repo *db.Repo }

func NewAuditController(repo *db.Repo) *AuditController { return &AuditController{Repo: repo} }

func (ac *AuditController) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	logs, err := ac.Repo.ListAuditLogs(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"auditLogs": logs, "page": page})
}
