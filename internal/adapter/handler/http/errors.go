package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	domainErrors "github.com/Darryldn9/direla-backend/internal/domain/errors"
)

// writeError maps domain errors to HTTP responses
func writeError(c echo.Context, err error) error {
	var (
		validationErr *domainErrors.ValidationError
		stateErr      *domainErrors.InvalidStateError
		authErr       *domainErrors.UnauthorizedError
		expiredErr    *domainErrors.ExpiredError
		partialErr    *domainErrors.PartialSettlementError
		externalErr   *domainErrors.ExternalServiceError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": validationErr.Error(),
			"code":  "VALIDATION_FAILED",
		})
	case errors.Is(err, domainErrors.ErrTermsNotFound),
		errors.Is(err, domainErrors.ErrAccountNotFound),
		errors.Is(err, domainErrors.ErrAgreementNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": err.Error(),
			"code":  "NOT_FOUND",
		})
	case errors.As(err, &stateErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": stateErr.Error(),
			"code":  "INVALID_STATE",
		})
	case errors.As(err, &authErr):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": authErr.Error(),
			"code":  "NOT_A_PARTY",
		})
	case errors.As(err, &expiredErr):
		return c.JSON(http.StatusGone, echo.Map{
			"error": expiredErr.Error(),
			"code":  "TERMS_EXPIRED",
		})
	case errors.As(err, &partialErr):
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":        partialErr.Error(),
			"code":         "PARTIAL_SETTLEMENT",
			"agreement_id": partialErr.AgreementID,
		})
	case errors.As(err, &externalErr):
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": externalErr.Error(),
			"code":  "EXTERNAL_SERVICE_FAILED",
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "internal error",
			"code":  "INTERNAL",
		})
	}
}
