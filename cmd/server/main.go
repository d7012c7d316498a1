package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nettrack/nettrack-backend/internal/adapter/exchangerate"
	"github.com/nettrack/nettrack-backend/internal/adapter/httpapi"
	"github.com/nettrack/nettrack-backend/internal/adapter/repository/postgres"
	"github.com/nettrack/nettrack-backend/internal/config"
	"github.com/nettrack/nettrack-backend/internal/domain"
	"github.com/nettrack/nettrack-backend/internal/usecase/account"
	"github.com/nettrack/nettrack-backend/internal/usecase/accounttype"
	"github.com/nettrack/nettrack-backend/internal/usecase/auth"
	"github.com/nettrack/nettrack-backend/internal/usecase/balance"
	"github.com/nettrack/nettrack-backend/internal/usecase/budget"
	"github.com/nettrack/nettrack-backend/internal/usecase/dashboard"
	"github.com/nettrack/nettrack-backend/internal/usecase/group"
	"github.com/nettrack/nettrack-backend/internal/usecase/rates"
	"github.com/nettrack/nettrack-backend/internal/usecase/settings"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	cfg, err := config.Get(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := postgres.NewDB(cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// repositories
	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewRefreshTokenRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	balanceRepo := postgres.NewBalanceRepository(db)
	groupRepo := postgres.NewGroupRepository(db, accountRepo)
	rateRepo := postgres.NewExchangeRateRepository(db)
	categoryRepo := postgres.NewBudgetCategoryRepository(db)
	incomeRepo := postgres.NewIncomeRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	typeRepo := postgres.NewAccountTypeRepository(db)
	settingsRepo := postgres.NewUserSettingsRepository(db)

	// exchange rate provider + conversion service
	rateClient := exchangerate.NewClient()
	if cfg.Rates.BaseURL != "" {
		rateClient.BaseURL = cfg.Rates.BaseURL
	}
	ratesService := rates.NewService(rateClient, rateRepo, logger)

	// application services
	authService := auth.NewService(userRepo, tokenRepo, auth.Config{
		JWTSecret:       cfg.Auth.JWTSecret,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}, logger)
	accountService := account.NewAccountService(accountRepo)
	balanceService := balance.NewBalanceService(accountRepo, balanceRepo)
	groupService := group.NewGroupService(groupRepo, accountRepo, ratesService, logger)
	dashboardService := dashboard.NewDashboardService(accountRepo, groupRepo, ratesService)
	budgetService := budget.NewBudgetService(categoryRepo, incomeRepo, expenseRepo)
	settingsService := settings.NewSettingsService(settingsRepo)
	typeService := accounttype.NewAccountTypeService(typeRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := typeRepo.SeedDefaults(ctx, domain.DefaultAccountTypes); err != nil {
		logger.Fatal("failed to seed account types", zap.Error(err))
	}

	// periodic cleanup of expired refresh tokens
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := tokenRepo.DeleteExpired(ctx, time.Now().UTC()); err != nil {
					logger.Warn("failed to clean up expired refresh tokens", zap.Error(err))
				}
			}
		}
	}()

	server := httpapi.NewServer(cfg.Server.Addr, httpapi.Deps{
		Auth:      authService,
		Accounts:  accountService,
		Balances:  balanceService,
		Groups:    groupService,
		Dashboard: dashboardService,
		Budget:    budgetService,
		Rates:     ratesService,
		Settings:  settingsService,
		Types:     typeService,
	}, logger)

	if err := server.Run(ctx); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server shut down cleanly")
}
