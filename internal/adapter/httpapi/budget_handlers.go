package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
	"github.com/nettrack/nettrack-backend/internal/usecase/budget"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	IsEssential bool   `json:"is_essential"`
}

type incomeRequest struct {
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Frequency      string          `json:"frequency"`
	IsNet          bool            `json:"is_net"`
	EffectiveMonth *int            `json:"effective_month"`
	EffectiveYear  *int            `json:"effective_year"`
}

type expenseRequest struct {
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Frequency      string          `json:"frequency"`
	CategoryID     string          `json:"category_id"`
	EffectiveMonth *int            `json:"effective_month"`
	EffectiveYear  *int            `json:"effective_year"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.budgetService.GetCategories(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.budgetService.CreateCategory(r.Context(), userFrom(r.Context()), budget.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		IsEssential: req.IsEssential,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.budgetService.UpdateCategory(r.Context(), userFrom(r.Context()), categoryID, budget.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		IsEssential: req.IsEssential,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.budgetService.DeleteCategory(r.Context(), userFrom(r.Context()), categoryID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	incomes, err := s.budgetService.GetIncomes(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]incomeResponse, 0, len(incomes))
	for _, i := range incomes {
		out = append(out, toIncomeResponse(i))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.budgetService.CreateIncome(r.Context(), userFrom(r.Context()), budget.IncomeInput{
		Description:    req.Description,
		Amount:         req.Amount,
		Frequency:      domain.Frequency(req.Frequency),
		IsNet:          req.IsNet,
		EffectiveMonth: req.EffectiveMonth,
		EffectiveYear:  req.EffectiveYear,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeResponse(created))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	incomeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req incomeRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.budgetService.UpdateIncome(r.Context(), userFrom(r.Context()), incomeID, budget.IncomeInput{
		Description:    req.Description,
		Amount:         req.Amount,
		Frequency:      domain.Frequency(req.Frequency),
		IsNet:          req.IsNet,
		EffectiveMonth: req.EffectiveMonth,
		EffectiveYear:  req.EffectiveYear,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIncomeResponse(updated))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	incomeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.budgetService.DeleteIncome(r.Context(), userFrom(r.Context()), incomeID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.budgetService.GetExpenses(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		badRequest(w, "invalid category id")
		return
	}

	created, err := s.budgetService.CreateExpense(r.Context(), userFrom(r.Context()), budget.ExpenseInput{
		Description:    req.Description,
		Amount:         req.Amount,
		Frequency:      domain.Frequency(req.Frequency),
		CategoryID:     categoryID,
		EffectiveMonth: req.EffectiveMonth,
		EffectiveYear:  req.EffectiveYear,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		badRequest(w, "invalid category id")
		return
	}

	updated, err := s.budgetService.UpdateExpense(r.Context(), userFrom(r.Context()), expenseID, budget.ExpenseInput{
		Description:    req.Description,
		Amount:         req.Amount,
		Frequency:      domain.Frequency(req.Frequency),
		CategoryID:     categoryID,
		EffectiveMonth: req.EffectiveMonth,
		EffectiveYear:  req.EffectiveYear,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.budgetService.DeleteExpense(r.Context(), userFrom(r.Context()), expenseID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type breakdownResponse struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
	Percentage   decimal.Decimal `json:"percentage"`
}

type monthlySummaryResponse struct {
	Month         int                 `json:"month"`
	Year          int                 `json:"year"`
	TotalIncome   decimal.Decimal     `json:"total_income"`
	TotalExpenses decimal.Decimal     `json:"total_expenses"`
	NetSavings    decimal.Decimal     `json:"net_savings"`
	SavingsRate   decimal.Decimal     `json:"savings_rate"`
	Breakdown     []breakdownResponse `json:"breakdown"`
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	month := queryInt(r, "month", int(now.Month()))
	year := queryInt(r, "year", now.Year())
	if month < 1 || month > 12 {
		badRequest(w, "month must be between 1 and 12")
		return
	}

	summary, err := s.budgetService.GetMonthlySummary(r.Context(), userFrom(r.Context()), month, year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	breakdown := make([]breakdownResponse, 0, len(summary.Breakdown))
	for _, b := range summary.Breakdown {
		breakdown = append(breakdown, breakdownResponse{
			CategoryID:   b.CategoryID.String(),
			CategoryName: b.CategoryName,
			Total:        b.Total,
			Percentage:   b.Percentage,
		})
	}

	writeJSON(w, http.StatusOK, monthlySummaryResponse{
		Month:         summary.Month,
		Year:          summary.Year,
		TotalIncome:   summary.TotalIncome,
		TotalExpenses: summary.TotalExpenses,
		NetSavings:    summary.NetSavings,
		SavingsRate:   summary.SavingsRate,
		Breakdown:     breakdown,
	})
}

type yearlySummaryResponse struct {
	Year          int             `json:"year"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetSavings    decimal.Decimal `json:"net_savings"`
	SavingsRate   decimal.Decimal `json:"savings_rate"`
}

func (s *Server) handleYearlySummary(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", time.Now().UTC().Year())

	summary, err := s.budgetService.GetYearlySummary(r.Context(), userFrom(r.Context()), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, yearlySummaryResponse{
		Year:          summary.Year,
		TotalIncome:   summary.TotalIncome,
		TotalExpenses: summary.TotalExpenses,
		NetSavings:    summary.NetSavings,
		SavingsRate:   summary.SavingsRate,
	})
}

type trendPointResponse struct {
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetSavings    decimal.Decimal `json:"net_savings"`
}

func (s *Server) handleBudgetTrends(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	month := queryInt(r, "month", int(now.Month()))
	year := queryInt(r, "year", now.Year())
	months := queryInt(r, "months", 6)
	if months < 1 || months > 60 {
		badRequest(w, "months must be between 1 and 60")
		return
	}

	points, err := s.budgetService.GetTrends(r.Context(), userFrom(r.Context()), month, year, months)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]trendPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, trendPointResponse{
			Month:         p.Month,
			Year:          p.Year,
			TotalIncome:   p.TotalIncome,
			TotalExpenses: p.TotalExpenses,
			NetSavings:    p.NetSavings,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// queryInt reads an integer query parameter, falling back to a default
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
