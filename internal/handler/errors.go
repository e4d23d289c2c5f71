package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"spp-be-svc/internal/apperrors"
	"spp-be-svc/pkg/utils"
)

// respondServiceError maps a workflow error onto its HTTP status. Sentinels
// that represent state conflicts become 409 so clients can distinguish a
// losing race from bad input.
func respondServiceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrAmountTooLow),
		errors.Is(err, apperrors.ErrMissingReason):
		utils.BadRequestResponse(c, message, err)
	case errors.Is(err, apperrors.ErrNotFound):
		utils.NotFoundResponse(c, message, err)
	case errors.Is(err, apperrors.ErrForbidden):
		utils.ForbiddenResponse(c, message, err)
	case errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrDuplicatePending),
		errors.Is(err, apperrors.ErrDuplicateClaim),
		errors.Is(err, apperrors.ErrAlreadyPaid):
		utils.ConflictResponse(c, message, err)
	default:
		utils.InternalServerErrorResponse(c, message, err)
	}
}

// parseIDParam extracts a positive uint path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || value == 0 {
		utils.BadRequestResponse(c, "Invalid "+name+" parameter", err)
		return 0, false
	}
	return uint(value), true
}

// parseOptionalUintQuery extracts an optional uint query parameter
func parseOptionalUintQuery(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(value)
	return &v
}
