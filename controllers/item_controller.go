package controllers

import (
	"net/http"

	"github.com/LoanRangers/SelfServiceLoaningBackend/app"
	"github.com/LoanRangers/SelfServiceLoaningBackend/db"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ Repo *db.Repo }

func NewItemController(repo *db.Repo) *ItemController { return &ItemController{Repo: repo} }

func (ic *ItemController) ListItems(c *gin.Context) {
	items, err := ic.Repo.ListItems(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (ic *ItemController) ListAvailable(c *gin.Context) {
	items, err := ic.Repo.ListAvailableItems(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (ic *ItemController) ListUnavailable(c *gin.Context) {
	rows, err := ic.Repo.ListUnavailableItems(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}

func (ic *ItemController) CreateItem(c *gin.Context) {
	var in db.CreateItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	item, err := ic.Repo.CreateItem(c.Request.Context(), app.SsoID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (ic *ItemController) DeleteItem(c *gin.Context) {
	if err := ic.Repo.DeleteItem(c.Request.Context(), app.SsoID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
