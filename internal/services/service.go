// internal/services/service.go

// Package services holds the application's business logic. Services are
// written against store.Store and return apperr-coded errors; they never
// expose raw store failures to callers.
package services

import (
	"errors"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/store"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

// storeErr classifies a store failure for the given resource name.
func storeErr(err error, resource string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(resource)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Integrity(resource + " already exists")
	default:
		return apperr.Persistence(err)
	}
}

// validateReq runs struct validation and converts failures into the
// validation error shape handlers return as-is.
func validateReq(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperr.Validation("invalid input", utils.GetValidationErrors(err))
	}
	return nil
}
