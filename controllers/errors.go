package controllers

import (
	"errors"
	"net/http"

	"github.com/LoanRangers/SelfServiceLoaningBackend/app"
	"github.com/LoanRangers/SelfServiceLoaningBackend/db"

	"github.com/gin-gonic/gin"
)

// errStatus maps the domain taxonomy to a status code and a stable
// machine-readable code for clients.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, db.ErrValidation):
		return http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, db.ErrItemNotFound):
		return http.StatusNotFound, "ITEM_NOT_FOUND"
	case errors.Is(err, db.ErrNoActiveLoan):
		return http.StatusNotFound, "NO_ACTIVE_LOAN"
	case errors.Is(err, db.ErrAlreadyLoaned):
		return http.StatusConflict, "ALREADY_LOANED"
	case errors.Is(err, db.ErrItemOnLoan):
		return http.StatusConflict, "ITEM_ON_LOAN"
	default:
		return http.StatusInternalServerError, "STORAGE"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := errStatus(err)
	c.JSON(status, app.H{"code": code, "error": err.Error()})
}
