package controllers

import (
	"net/http"

	"github.com/LoanRangers/SelfServiceLoaningBackend/app"
	"github.com/LoanRangers/SelfServiceLoaningBackend/db"
	"github.com/LoanRangers/SelfServiceLoaningBackend/models"

	"github.com/gin-gonic/gin"
)

// LookupController serves the auxiliary tables: categories, locations,
// tags, QR codes, flags, plus item flagging and comments.
type LookupController struct{ Repo *db.Repo }

func NewLookupController(repo *db.Repo) *LookupController { return &LookupController{Repo: repo} }

func (lk *LookupController) ListCategories(c *gin.Context) {
	cs, err := lk.Repo.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": cs})
}

func (lk *LookupController) CreateCategory(c *gin.Context) {
	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	cat, err := lk.Repo.CreateCategory(c.Request.Context(), app.SsoID(c), in.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (lk *LookupController) ListLocations(c *gin.Context) {
	ls, err := lk.Repo.ListLocations(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"locations": ls})
}

func (lk *LookupController) UpsertLocation(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	loc, err := lk.Repo.UpsertLocation(c.Request.Context(), app.SsoID(c), in.Name, in.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (lk *LookupController) ListTags(c *gin.Context) {
	ts, err := lk.Repo.ListTags(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"tags": ts})
}

func (lk *LookupController) CreateTag(c *gin.Context) {
	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	tag, err := lk.Repo.CreateTag(c.Request.Context(), app.SsoID(c), in.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (lk *LookupController) ListQRCodes(c *gin.Context) {
	qs, err := lk.Repo.ListQRCodes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"qrCodes": qs})
}

func (lk *LookupController) CreateQRCodes(c *gin.Context) {
	var in []models.QRCode
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	count, err := lk.Repo.CreateQRCodes(c.Request.Context(), app.SsoID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"count": count})
}

func (lk *LookupController) ListFlags(c *gin.Context) {
	fs, err := lk.Repo.ListFlags(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"flags": fs})
}

func (lk *LookupController) CreateFlag(c *gin.Context) {
	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	f, err := lk.Repo.CreateFlag(c.Request.Context(), app.SsoID(c), in.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (lk *LookupController) FlagItem(c *gin.Context) {
	var in struct {
		FlagID string `json:"flagId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	if err := lk.Repo.FlagItem(c.Request.Context(), app.SsoID(c), c.Param("id"), in.FlagID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (lk *LookupController) UnflagItem(c *gin.Context) {
	if err := lk.Repo.UnflagItem(c.Request.Context(), app.SsoID(c), c.Param("id"), c.Param("flagId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (lk *LookupController) ListComments(c *gin.Context) {
	cs, err := lk.Repo.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"comments": cs})
}

func (lk *LookupController) AddComment(c *gin.Context) {
	var in struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"code": "VALIDATION", "error": err.Error()})
		return
	}
	cm, err := lk.Repo.AddComment(c.Request.Context(), app.SsoID(c), c.Param("id"), in.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}
