package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/Darryldn9/direla-backend/internal/adapter/handler/http"
	"github.com/Darryldn9/direla-backend/internal/config"
	"github.com/Darryldn9/direla-backend/internal/domain/contract"
	"github.com/Darryldn9/direla-backend/internal/middleware/auth"
	"github.com/Darryldn9/direla-backend/internal/usecase"
)

// Services holds the use cases the HTTP surface exposes
type Services struct {
	Terms         *usecase.TermsService
	Settlements   *usecase.SettlementService
	Notifications *usecase.NotificationService
	Accounts      *usecase.AccountService
	Agreements    contract.AgreementContract
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	services Services
}

func NewServer(cfg *config.Config, logger *zap.Logger, services Services) *Server {
	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:   cfg,
		logger:   logger,
		echo:     e,
		services: services,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	termsHandler := handlers.NewTermsHandler(s.services.Terms, s.logger)
	settlementHandler := handlers.NewSettlementHandler(s.services.Settlements, s.services.Agreements, s.logger)
	notificationHandler := handlers.NewNotificationHandler(s.services.Notifications, s.logger)
	accountHandler := handlers.NewAccountHandler(s.services.Accounts, s.logger)

	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
		},
	}

	v1 := s.echo.Group("/api/v1")
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))

	terms := protected.Group("/bnpl/terms")
	terms.POST("", termsHandler.CreateTerms)
	terms.GET("", termsHandler.ListTerms)
	terms.GET("/:id", termsHandler.GetTerms)
	terms.POST("/:id/accept", termsHandler.AcceptTerms)
	terms.POST("/:id/reject", termsHandler.RejectTerms)

	agreements := protected.Group("/bnpl/agreements")
	agreements.GET("/:id", settlementHandler.GetAgreement)
	agreements.POST("/payments", settlementHandler.PayInstallment)

	protected.GET("/notifications", notificationHandler.ListNotifications)
	protected.POST("/notifications/:id/read", notificationHandler.MarkRead)

	protected.POST("/account/register", accountHandler.Register)
	protected.PUT("/account/currency", accountHandler.SetPreferredCurrency)
	protected.GET("/account/balances", accountHandler.GetBalances)
}
