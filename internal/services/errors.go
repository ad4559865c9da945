package services

import (
	"errors"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/repositories"
	"go.uber.org/zap"
)

// storeError maps a repository error to an apperr. ErrNotFound becomes
// NotFound with notFoundMsg; anything not already tagged is logged and becomes
// Internal with internalMsg.
func storeError(logger *zap.Logger, err error, notFoundMsg, internalMsg string) error {
	if e, ok := apperr.As(err); ok {
		return e
	}
	if notFoundMsg != "" && errors.Is(err, repositories.ErrNotFound) {
		return apperr.New(apperr.NotFound, notFoundMsg)
	}
	logger.Error(internalMsg, zap.Error(err))
	return apperr.Wrap(apperr.Internal, internalMsg, err)
}

func required(fields ...string) bool {
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}

const invalidInputs = "Invalid inputs passed, please check your data."
