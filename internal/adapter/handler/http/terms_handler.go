package http

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/dto"
	"github.com/Darryldn9/direla-backend/internal/middleware/auth"
	"github.com/Darryldn9/direla-backend/internal/usecase"
)

type TermsHandler struct {
	terms    *usecase.TermsService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewTermsHandler(terms *usecase.TermsService, logger *zap.Logger) *TermsHandler {
	return &TermsHandler{
		terms:    terms,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *TermsHandler) CreateTerms(c echo.Context) error {
	var req dto.CreateTermsRequest
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

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "principal must be a decimal number",
			"code":  "VALIDATION_FAILED",
		})
	}
	interestRate, err := decimal.NewFromString(req.InterestRate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "interest_rate must be a decimal number",
			"code":  "VALIDATION_FAILED",
		})
	}

	terms, err := h.terms.CreateTerms(c.Request().Context(), dto.TermsOffer{
		PaymentReference:  req.PaymentReference,
		BuyerAccountID:    req.BuyerAccountID,
		MerchantAccountID: req.MerchantAccountID,
		Principal:         principal,
		Currency:          req.Currency,
		InstallmentCount:  req.InstallmentCount,
		InterestRate:      interestRate,
	})
	if err != nil {
		h.logger.Error("failed to create terms", zap.Error(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, terms)
}

func (h *TermsHandler) GetTerms(c echo.Context) error {
	termsID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid terms id",
			"code":  "INVALID_ID",
		})
	}

	terms, err := h.terms.GetTerms(c.Request().Context(), termsID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, terms)
}

func (h *TermsHandler) ListTerms(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	terms, err := h.terms.ListTermsByAccount(c.Request().Context(), user.AccountID, limit+1, offset)
	if err != nil {
		h.logger.Error("failed to list terms",
			zap.String("account_id", user.AccountID),
			zap.Error(err))
		return writeError(c, err)
	}

	hasMore := len(terms) > limit
	if hasMore {
		terms = terms[:limit]
	}

	summaries := make([]dto.TermsSummary, 0, len(terms))
	for _, t := range terms {
		summaries = append(summaries, dto.TermsSummary{
			ID:                t.ID.String(),
			PaymentReference:  t.PaymentReference,
			Status:            string(t.Status),
			Principal:         t.Principal.String(),
			Currency:          t.Currency,
			InstallmentCount:  t.InstallmentCount,
			InstallmentAmount: t.InstallmentAmount.String(),
			ExpiresAt:         t.ExpiresAt,
			CreatedAt:         t.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, dto.TermsListResponse{
		Terms: summaries,
		Pagination: dto.PaginationInfo{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
		},
	})
}

func (h *TermsHandler) AcceptTerms(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	termsID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid terms id",
			"code":  "INVALID_ID",
		})
	}

	terms, err := h.terms.AcceptTerms(c.Request().Context(), termsID, user.AccountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, terms)
}

func (h *TermsHandler) RejectTerms(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	termsID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid terms id",
			"code":  "INVALID_ID",
		})
	}

	var req dto.RejectTermsRequest
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

	terms, err := h.terms.RejectTerms(c.Request().Context(), termsID, user.AccountID, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, terms)
}
