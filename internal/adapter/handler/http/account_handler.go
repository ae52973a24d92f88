package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/dto"
	"github.com/Darryldn9/direla-backend/internal/middleware/auth"
	"github.com/Darryldn9/direla-backend/internal/usecase"
)

type AccountHandler struct {
	accounts *usecase.AccountService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAccountHandler(accounts *usecase.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register links the authenticated user to a custodial ledger account
func (h *AccountHandler) Register(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req dto.RegisterAccountRequest
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

	userID, err := uuid.Parse(user.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "token subject is not a valid user id",
			"code":  "VALIDATION_FAILED",
		})
	}

	account, err := h.accounts.Register(c.Request().Context(), userID,
		req.HederaAccountID, req.PublicKey, req.PrivateKey, req.PreferredCurrency)
	if err != nil {
		h.logger.Error("failed to register account",
			zap.String("hedera_account_id", req.HederaAccountID),
			zap.Error(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, account)
}

// SetPreferredCurrency updates the caller's default charge currency
func (h *AccountHandler) SetPreferredCurrency(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req struct {
		Currency string `json:"currency" validate:"required,len=3"`
	}
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

	if err := h.accounts.SetPreferredCurrency(c.Request().Context(), user.AccountID, req.Currency); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBalances returns the caller's token balances from the ledger
func (h *AccountHandler) GetBalances(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	balances, err := h.accounts.Balances(c.Request().Context(), user.AccountID)
	if err != nil {
		h.logger.Error("failed to get balances",
			zap.String("account_id", user.AccountID),
			zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"account_id": user.AccountID,
		"balances":   balances,
	})
}
