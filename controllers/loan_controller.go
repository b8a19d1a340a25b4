package controllers

import (
	"net/http"
	"strconv"

	"github.com/LoanRangers/SelfServiceLoaningBackend/app"
	"github.com/LoanRangers/SelfServiceLoaningBackend/db"
	"github.com/LoanRangers/SelfServiceLoaningBackend/models"

	"github.com/gin-gonic/gin"
)

type LoanController struct{ Repo *db.Repo }

func NewLoanController(repo *db.Repo) *LoanController { return &LoanController{Repo: repo} }

// Loan creates loans for a batch of items. All-or-nothing: any failure
// reports an error and persists nothing.
func (lc *LoanController) Loan(c *gin.Context) {
	var in struct {
		ItemIDs []string `json:"itemIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	loans, err := lc.Repo.CreateLoans(c.Request.Context(), app.SsoID(c), in.ItemIDs)
	app.CountLoanOp(models.ActionLoanDevice, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"loans": loans})
}

func (lc *LoanController) Return(c *gin.Context) {
	var in struct {
		ItemID   string `json:"itemId" binding:"required"`
		Location string `json:"location" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	hist, err := lc.Repo.ReturnItem(c.Request.Context(), app.SsoID(c), in.ItemID, in.Location)
	app.CountLoanOp(models.ActionReturnDevice, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hist)
}

func (lc *LoanController) History(c *gin.Context) {
	userID, page, size := pageArgs(c)
	rows, err := lc.Repo.LoanHistoryByUser(c.Request.Context(), userID, page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows, "page": page})
}

func (lc *LoanController) Current(c *gin.Context) {
	userID, page, size := pageArgs(c)
	rows, err := lc.Repo.CurrentLoansByUser(c.Request.Context(), userID, page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows, "page": page})
}

// pageArgs reads pagination params; userId defaults to the caller.
func pageArgs(c *gin.Context) (string, int, int) {
	userID := c.Query("userId")
	if userID == "" {
		userID = app.SsoID(c)
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return userID, page, size
}
