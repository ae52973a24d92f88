package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/contract"
	"github.com/Darryldn9/direla-backend/internal/domain/dto"
	"github.com/Darryldn9/direla-backend/internal/middleware/auth"
	"github.com/Darryldn9/direla-backend/internal/usecase"
)

type SettlementHandler struct {
	settlements *usecase.SettlementService
	agreements  contract.AgreementContract
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewSettlementHandler(settlements *usecase.SettlementService, agreements contract.AgreementContract, logger *zap.Logger) *SettlementHandler {
	return &SettlementHandler{
		settlements: settlements,
		agreements:  agreements,
		validate:    validator.New(),
		logger:      logger,
	}
}

// PayInstallment settles one installment. The payer must be the caller.
func (h *SettlementHandler) PayInstallment(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req dto.PayInstallmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
			"code":  "INVALID_BODY",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
			"code":  "VALIDATION_FAILED",
		})
	}
	if req.PayerAccountID != user.AccountID {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Only the payer account may submit an installment",
			"code":  "NOT_PAYER",
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "amount must be a positive decimal number",
			"code":  "VALIDATION_FAILED",
		})
	}

	result, err := h.settlements.PayInstallment(c.Request().Context(), dto.InstallmentRequest{
		AgreementRef:       req.AgreementRef,
		PayerAccountID:     req.PayerAccountID,
		PayeeAccountID:     req.PayeeAccountID,
		Amount:             amount,
		SettlementCurrency: req.SettlementCurrency,
		PayerCurrency:      req.PayerCurrency,
	})
	if err != nil {
		h.logger.Error("installment payment failed",
			zap.String("agreement_ref", req.AgreementRef),
			zap.Error(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *SettlementHandler) GetAgreement(c echo.Context) error {
	agreementID := c.Param("id")

	agreement, err := h.agreements.GetAgreement(c.Request().Context(), agreementID)
	if err != nil {
		h.logger.Error("failed to get agreement",
			zap.String("agreement_id", agreementID),
			zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, agreement)
}
