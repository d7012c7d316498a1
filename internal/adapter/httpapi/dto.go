package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
	"github.com/nettrack/nettrack-backend/internal/usecase/dashboard"
	"github.com/nettrack/nettrack-backend/internal/usecase/group"
	"github.com/nettrack/nettrack-backend/internal/usecase/history"
)

const dateLayout = "2006-01-02"

type userResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		LastLogin: u.LastLogin,
	}
}

type balanceResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func toBalanceResponse(b domain.Balance) balanceResponse {
	return balanceResponse{
		ID:        b.ID.String(),
		AccountID: b.AccountID.String(),
		Date:      b.Date.Format(dateLayout),
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
	}
}

type accountResponse struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Currency             string            `json:"currency"`
	AccountType          string            `json:"account_type"`
	IsExcludedFromTotals bool              `json:"is_excluded_from_totals"`
	Balances             []balanceResponse `json:"balances"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	balances := make([]balanceResponse, 0, len(a.Balances))
	for _, b := range a.Balances {
		balances = append(balances, toBalanceResponse(b))
	}
	return accountResponse{
		ID:                   a.ID.String(),
		Name:                 a.Name,
		Currency:             string(a.Currency),
		AccountType:          a.AccountType,
		IsExcludedFromTotals: a.IsExcludedFromTotals,
		Balances:             balances,
	}
}

func toAccountResponses(accounts []*domain.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}

type pointResponse struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

func toPointResponses(points []history.Point) []pointResponse {
	out := make([]pointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, pointResponse{Date: p.Date.Format(dateLayout), Total: p.Total})
	}
	return out
}

type groupResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AccountIDs  []string `json:"account_ids"`
}

func toGroupResponse(g *domain.AccountGroup) groupResponse {
	ids := make([]string, 0, len(g.Accounts))
	for _, a := range g.Accounts {
		ids = append(ids, a.ID.String())
	}
	return groupResponse{
		ID:          g.ID.String(),
		Name:        g.Name,
		Description: g.Description,
		AccountIDs:  ids,
	}
}

type groupSummaryResponse struct {
	Group           groupResponse   `json:"group"`
	AccountCount    int             `json:"account_count"`
	TotalBalanceGBP decimal.Decimal `json:"total_balance_gbp"`
	History         []pointResponse `json:"history"`
}

func toGroupSummaryResponse(s group.Summary) groupSummaryResponse {
	return groupSummaryResponse{
		Group:           toGroupResponse(s.Group),
		AccountCount:    s.AccountCount,
		TotalBalanceGBP: s.TotalBalanceGBP,
		History:         toPointResponses(s.History),
	}
}

type memberAccountResponse struct {
	Account          accountResponse `json:"account"`
	LatestBalanceGBP decimal.Decimal `json:"latest_balance_gbp"`
}

type groupDetailResponse struct {
	Group           groupResponse           `json:"group"`
	Members         []memberAccountResponse `json:"members"`
	AccountCount    int                     `json:"account_count"`
	TotalBalanceGBP decimal.Decimal         `json:"total_balance_gbp"`
	History         []pointResponse         `json:"history"`
}

func toGroupDetailResponse(d *group.Detail) groupDetailResponse {
	members := make([]memberAccountResponse, 0, len(d.Members))
	for _, m := range d.Members {
		members = append(members, memberAccountResponse{
			Account:          toAccountResponse(m.Account),
			LatestBalanceGBP: m.LatestBalanceGBP,
		})
	}
	return groupDetailResponse{
		Group:           toGroupResponse(d.Group),
		Members:         members,
		AccountCount:    d.AccountCount,
		TotalBalanceGBP: d.TotalBalanceGBP,
		History:         toPointResponses(d.History),
	}
}

type groupSeriesResponse struct {
	GroupID string          `json:"group_id"`
	Name    string          `json:"name"`
	Points  []pointResponse `json:"points"`
}

type dashboardHistoryResponse struct {
	Total  []pointResponse       `json:"total"`
	Groups []groupSeriesResponse `json:"groups"`
}

func toDashboardHistoryResponse(h *dashboard.History) dashboardHistoryResponse {
	groups := make([]groupSeriesResponse, 0, len(h.Groups))
	for _, g := range h.Groups {
		groups = append(groups, groupSeriesResponse{
			GroupID: g.GroupID,
			Name:    g.Name,
			Points:  toPointResponses(g.Points),
		})
	}
	return dashboardHistoryResponse{Total: toPointResponses(h.Total), Groups: groups}
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	IsEssential bool   `json:"is_essential"`
}

func toCategoryResponse(c *domain.BudgetCategory) categoryResponse {
	return categoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		IsEssential: c.IsEssential,
	}
}

type incomeResponse struct {
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Frequency      string          `json:"frequency"`
	IsNet          bool            `json:"is_net"`
	EffectiveMonth *int            `json:"effective_month,omitempty"`
	EffectiveYear  *int            `json:"effective_year,omitempty"`
}

func toIncomeResponse(i *domain.Income) incomeResponse {
	return incomeResponse{
		ID:             i.ID.String(),
		Description:    i.Description,
		Amount:         i.Amount,
		Frequency:      string(i.Frequency),
		IsNet:          i.IsNet,
		EffectiveMonth: i.EffectiveMonth,
		EffectiveYear:  i.EffectiveYear,
	}
}

type expenseResponse struct {
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Frequency      string          `json:"frequency"`
	CategoryID     string          `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	EffectiveMonth *int            `json:"effective_month,omitempty"`
	EffectiveYear  *int            `json:"effective_year,omitempty"`
}

func toExpenseResponse(e *domain.Expense) expenseResponse {
	return expenseResponse{
		ID:             e.ID.String(),
		Description:    e.Description,
		Amount:         e.Amount,
		Frequency:      string(e.Frequency),
		CategoryID:     e.CategoryID.String(),
		CategoryName:   e.CategoryName,
		EffectiveMonth: e.EffectiveMonth,
		EffectiveYear:  e.EffectiveYear,
	}
}

type accountTypeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	IsDefault bool   `json:"is_default"`
}

func toAccountTypeResponse(d *domain.AccountTypeDefinition) accountTypeResponse {
	return accountTypeResponse{
		ID:        d.ID.String(),
		Name:      d.Name,
		Label:     d.Label,
		Icon:      d.Icon,
		IsDefault: d.IsDefault,
	}
}

type settingsResponse struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// parseDateRange reads optional from/to query parameters in YYYY-MM-DD form
func parseDateRange(r *http.Request) (from, to *time.Time, err error) {
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date %q", v)
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date %q", v)
		}
		to = &t
	}
	return from, to, nil
}
