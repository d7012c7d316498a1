package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
	"github.com/nettrack/nettrack-backend/internal/usecase/account"
	"github.com/nettrack/nettrack-backend/internal/usecase/balance"
)

type balanceRequest struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type createAccountRequest struct {
	Name                 string           `json:"name"`
	Currency             string           `json:"currency"`
	AccountType          string           `json:"account_type"`
	IsExcludedFromTotals bool             `json:"is_excluded_from_totals"`
	Balances             []balanceRequest `json:"balances"`
}

type updateAccountRequest struct {
	Name                 string `json:"name"`
	Currency             string `json:"currency"`
	AccountType          string `json:"account_type"`
	IsExcludedFromTotals bool   `json:"is_excluded_from_totals"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accountService.GetAll(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponses(accounts))
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	input := account.CreateAccountInput{
		Name:                 req.Name,
		Currency:             domain.Currency(req.Currency),
		AccountType:          req.AccountType,
		IsExcludedFromTotals: req.IsExcludedFromTotals,
	}
	for _, b := range req.Balances {
		date, err := time.Parse(dateLayout, b.Date)
		if err != nil {
			badRequest(w, "invalid balance date")
			return
		}
		input.Balances = append(input.Balances, account.BalanceInput{Date: date, Amount: b.Amount})
	}

	created, err := s.accountService.CreateAccount(r.Context(), userFrom(r.Context()), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(created))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	acct, err := s.accountService.GetAccount(r.Context(), userFrom(r.Context()), accountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateAccountRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.accountService.UpdateAccount(r.Context(), userFrom(r.Context()), accountID, account.UpdateAccountInput{
		Name:                 req.Name,
		Currency:             domain.Currency(req.Currency),
		AccountType:          req.AccountType,
		IsExcludedFromTotals: req.IsExcludedFromTotals,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(updated))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.accountService.DeleteAccount(r.Context(), userFrom(r.Context()), accountID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleExclusion(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	updated, err := s.accountService.ToggleExclusion(r.Context(), userFrom(r.Context()), accountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(updated))
}

type accountStatsResponse struct {
	AllTimeChangeAmount     decimal.Decimal `json:"all_time_change_amount"`
	AllTimeChangePercent    decimal.Decimal `json:"all_time_change_percent"`
	ThreeMonthChangeAmount  decimal.Decimal `json:"three_month_change_amount"`
	ThreeMonthChangePercent decimal.Decimal `json:"three_month_change_percent"`
	SixMonthChangeAmount    decimal.Decimal `json:"six_month_change_amount"`
	SixMonthChangePercent   decimal.Decimal `json:"six_month_change_percent"`
	ThisMonthChange         decimal.Decimal `json:"this_month_change"`
}

func (s *Server) handleAccountStats(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	acct, err := s.accountService.GetAccount(r.Context(), userFrom(r.Context()), accountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stats := account.CalculateStats(acct, time.Now().UTC())
	writeJSON(w, http.StatusOK, accountStatsResponse{
		AllTimeChangeAmount:     stats.AllTimeChangeAmount,
		AllTimeChangePercent:    stats.AllTimeChangePercent,
		ThreeMonthChangeAmount:  stats.ThreeMonthChangeAmount,
		ThreeMonthChangePercent: stats.ThreeMonthChangePercent,
		SixMonthChangeAmount:    stats.SixMonthChangeAmount,
		SixMonthChangePercent:   stats.SixMonthChangePercent,
		ThisMonthChange:         stats.ThisMonthChange,
	})
}

func (s *Server) handleListBalances(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	balances, err := s.balanceService.GetAllForAccount(r.Context(), userFrom(r.Context()), accountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req balanceRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		badRequest(w, "invalid balance date")
		return
	}

	created, err := s.balanceService.CreateBalance(r.Context(), userFrom(r.Context()), accountID, balance.CreateBalanceInput{
		Date:   date,
		Amount: req.Amount,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBalanceResponse(*created))
}

func (s *Server) handleUpdateBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	balanceID, ok := pathUUID(w, r, "balanceID")
	if !ok {
		return
	}

	var req balanceRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		badRequest(w, "invalid balance date")
		return
	}

	updated, err := s.balanceService.UpdateBalance(r.Context(), userFrom(r.Context()), accountID, balanceID, balance.UpdateBalanceInput{
		Date:   date,
		Amount: req.Amount,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceResponse(*updated))
}

func (s *Server) handleDeleteBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	balanceID, ok := pathUUID(w, r, "balanceID")
	if !ok {
		return
	}

	if err := s.balanceService.DeleteBalance(r.Context(), userFrom(r.Context()), accountID, balanceID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathUUID parses a UUID path segment, writing a 400 on failure
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		badRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
