package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

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

// Server exposes the application services as a JSON HTTP API
type Server struct {
	authService      *auth.Service
	accountService   *account.AccountService
	balanceService   *balance.BalanceService
	groupService     *group.GroupService
	dashboardService *dashboard.DashboardService
	budgetService    *budget.BudgetService
	ratesService     *rates.Service
	settingsService  *settings.SettingsService
	typeService      *accounttype.AccountTypeService

	logger *zap.Logger
	http   *http.Server
}

// Deps bundles the services the server depends on
type Deps struct {
	Auth      *auth.Service
	Accounts  *account.AccountService
	Balances  *balance.BalanceService
	Groups    *group.GroupService
	Dashboard *dashboard.DashboardService
	Budget    *budget.BudgetService
	Rates     *rates.Service
	Settings  *settings.SettingsService
	Types     *accounttype.AccountTypeService
}

// NewServer creates a new Server instance listening on addr
func NewServer(addr string, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		authService:      deps.Auth,
		accountService:   deps.Accounts,
		balanceService:   deps.Balances,
		groupService:     deps.Groups,
		dashboardService: deps.Dashboard,
		budgetService:    deps.Budget,
		ratesService:     deps.Rates,
		settingsService:  deps.Settings,
		typeService:      deps.Types,
		logger:           logger,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.logRequests(s.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the API route table
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/v1/auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /api/v1/accounts", s.requireAuth(s.handleListAccounts))
	mux.HandleFunc("POST /api/v1/accounts", s.requireAuth(s.handleCreateAccount))
	mux.HandleFunc("GET /api/v1/accounts/{id}", s.requireAuth(s.handleGetAccount))
	mux.HandleFunc("PUT /api/v1/accounts/{id}", s.requireAuth(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", s.requireAuth(s.handleDeleteAccount))
	mux.HandleFunc("POST /api/v1/accounts/{id}/toggle-exclusion", s.requireAuth(s.handleToggleExclusion))
	mux.HandleFunc("GET /api/v1/accounts/{id}/stats", s.requireAuth(s.handleAccountStats))

	mux.HandleFunc("GET /api/v1/accounts/{id}/balances", s.requireAuth(s.handleListBalances))
	mux.HandleFunc("POST /api/v1/accounts/{id}/balances", s.requireAuth(s.handleCreateBalance))
	mux.HandleFunc("PUT /api/v1/accounts/{id}/balances/{balanceID}", s.requireAuth(s.handleUpdateBalance))
	mux.HandleFunc("DELETE /api/v1/accounts/{id}/balances/{balanceID}", s.requireAuth(s.handleDeleteBalance))

	mux.HandleFunc("GET /api/v1/groups", s.requireAuth(s.handleListGroups))
	mux.HandleFunc("POST /api/v1/groups", s.requireAuth(s.handleCreateGroup))
	mux.HandleFunc("GET /api/v1/groups/{id}", s.requireAuth(s.handleGetGroup))
	mux.HandleFunc("PUT /api/v1/groups/{id}", s.requireAuth(s.handleUpdateGroup))
	mux.HandleFunc("DELETE /api/v1/groups/{id}", s.requireAuth(s.handleDeleteGroup))

	mux.HandleFunc("GET /api/v1/dashboard/summary", s.requireAuth(s.handleDashboardSummary))
	mux.HandleFunc("GET /api/v1/dashboard/history", s.requireAuth(s.handleDashboardHistory))

	mux.HandleFunc("GET /api/v1/budget/categories", s.requireAuth(s.handleListCategories))
	mux.HandleFunc("POST /api/v1/budget/categories", s.requireAuth(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/v1/budget/categories/{id}", s.requireAuth(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/v1/budget/categories/{id}", s.requireAuth(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/v1/budget/income", s.requireAuth(s.handleListIncome))
	mux.HandleFunc("POST /api/v1/budget/income", s.requireAuth(s.handleCreateIncome))
	mux.HandleFunc("PUT /api/v1/budget/income/{id}", s.requireAuth(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /api/v1/budget/income/{id}", s.requireAuth(s.handleDeleteIncome))

	mux.HandleFunc("GET /api/v1/budget/expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/v1/budget/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/v1/budget/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/v1/budget/expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/v1/budget/summary/monthly", s.requireAuth(s.handleMonthlySummary))
	mux.HandleFunc("GET /api/v1/budget/summary/yearly", s.requireAuth(s.handleYearlySummary))
	mux.HandleFunc("GET /api/v1/budget/trends", s.requireAuth(s.handleBudgetTrends))

	mux.HandleFunc("GET /api/v1/account-types", s.requireAuth(s.handleListAccountTypes))
	mux.HandleFunc("POST /api/v1/account-types", s.requireAuth(s.handleCreateAccountType))
	mux.HandleFunc("PUT /api/v1/account-types/{id}", s.requireAuth(s.handleUpdateAccountType))
	mux.HandleFunc("DELETE /api/v1/account-types/{id}", s.requireAuth(s.handleDeleteAccountType))

	mux.HandleFunc("GET /api/v1/settings", s.requireAuth(s.handleGetSettings))
	mux.HandleFunc("PUT /api/v1/settings", s.requireAuth(s.handleUpdateSettings))

	mux.HandleFunc("GET /api/v1/rates", s.requireAuth(s.handleGetRates))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
