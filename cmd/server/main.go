package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/config"
	"github.com/Darryldn9/direla-backend/internal/domain/ledger"
	"github.com/Darryldn9/direla-backend/internal/infrastructure/crypto"
	"github.com/Darryldn9/direla-backend/internal/infrastructure/database"
	"github.com/Darryldn9/direla-backend/internal/infrastructure/exchange"
	"github.com/Darryldn9/direla-backend/internal/infrastructure/hedera"
	httpServer "github.com/Darryldn9/direla-backend/internal/infrastructure/http"
	"github.com/Darryldn9/direla-backend/internal/infrastructure/messaging"
	"github.com/Darryldn9/direla-backend/internal/retry"
	"github.com/Darryldn9/direla-backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, logger); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, logger)

	// External collaborators
	bridge := hedera.NewBridgeClient(
		cfg.Service.Hedera.BridgeURL,
		cfg.Service.Hedera.BridgeAPIKey,
		cfg.Service.Hedera.BridgeTimeout,
		logger,
	)
	rates := exchange.NewClient(
		cfg.Service.Exchange.BaseURL,
		cfg.Service.Exchange.APIKey,
		cfg.Service.Exchange.Timeout,
		logger,
	)
	publisher := messaging.NewRedisPublisher(
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.Channel,
		logger,
	)
	defer publisher.Close()

	keyCipher, err := crypto.NewAESKeyCipher(cfg.Service.MasterKey)
	if err != nil {
		logger.Fatal("Failed to initialize key cipher", zap.Error(err))
	}

	treasury := ledger.Signer{
		AccountID:  cfg.Service.Hedera.TreasuryAccountID,
		PrivateKey: cfg.Service.Hedera.TreasuryPrivateKey,
	}
	retryPolicy := retry.Policy{
		Attempts:  cfg.Service.BNPL.RetryAttempts,
		BaseDelay: cfg.Service.BNPL.RetryBaseDelay,
	}
	if retryPolicy.Attempts <= 0 {
		retryPolicy = retry.DefaultPolicy
	}

	// Use cases
	notifications := usecase.NewNotificationService(repos.Notification, publisher, logger)
	accounts := usecase.NewAccountService(repos.Account, bridge, keyCipher, logger)
	quotes := usecase.NewQuoteService(rates, cfg.Service.Exchange.QuoteTTL, retryPolicy, logger)
	settlements := usecase.NewSettlementService(
		accounts, quotes, bridge, bridge, notifications,
		cfg.Service.Hedera.Tokens, treasury, retryPolicy, logger,
	)
	terms := usecase.NewTermsService(
		repos.Terms, repos.AuditLog, bridge, settlements, notifications,
		cfg.Service.Hedera.Tokens, treasury, cfg.Service.BNPL.OfferValidity, logger,
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background expiry sweep for offers whose timers were lost to a restart
	terms.StartExpirySweeper(ctx, cfg.Service.BNPL.SweepInterval)

	httpSrv := httpServer.NewServer(cfg, logger, httpServer.Services{
		Terms:         terms,
		Settlements:   settlements,
		Notifications: notifications,
		Accounts:      accounts,
		Agreements:    bridge,
	})

	go func() {
		if err := httpSrv.Start(); err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	logger.Info("Server shut down successfully")
}
