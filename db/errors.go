package db

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Handlers map these to status codes with errors.Is;
// raw gorm/driver errors never cross the repo boundary untranslated.
var (
	ErrValidation    = errors.New("validation failed")
	ErrItemNotFound  = errors.New("item not found")
	ErrAlreadyLoaned = errors.New("item already on loan")
	ErrNoActiveLoan  = errors.New("no active loan for item")
	ErrItemOnLoan    = errors.New("item has an active loan")
	ErrStorage       = errors.New("storage failure")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func isDomainErr(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrAlreadyLoaned) ||
		errors.Is(err, ErrNoActiveLoan) ||
		errors.Is(err, ErrItemOnLoan)
}

// translate keeps domain errors as-is and wraps everything else in ErrStorage.
func translate(err error) error {
	if err == nil || isDomainErr(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
