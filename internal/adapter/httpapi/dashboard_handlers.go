package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type groupTotalResponse struct {
	GroupID      string          `json:"group_id"`
	Name         string          `json:"name"`
	TotalGBP     decimal.Decimal `json:"total_gbp"`
	AccountCount int             `json:"account_count"`
}

type typeSliceResponse struct {
	AccountType string          `json:"account_type"`
	TotalGBP    decimal.Decimal `json:"total_gbp"`
	Percentage  decimal.Decimal `json:"percentage"`
}

type dashboardSummaryResponse struct {
	TotalBalanceGBP decimal.Decimal      `json:"total_balance_gbp"`
	AccountCount    int                  `json:"account_count"`
	Groups          []groupTotalResponse `json:"groups"`
	Distribution    []typeSliceResponse  `json:"distribution"`
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboardService.GetSummary(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	groups := make([]groupTotalResponse, 0, len(summary.Groups))
	for _, g := range summary.Groups {
		groups = append(groups, groupTotalResponse{
			GroupID:      g.GroupID,
			Name:         g.Name,
			TotalGBP:     g.TotalGBP,
			AccountCount: g.AccountCount,
		})
	}

	distribution := make([]typeSliceResponse, 0, len(summary.Distribution))
	for _, slice := range summary.Distribution {
		distribution = append(distribution, typeSliceResponse{
			AccountType: slice.AccountType,
			TotalGBP:    slice.TotalGBP,
			Percentage:  slice.Percentage,
		})
	}

	writeJSON(w, http.StatusOK, dashboardSummaryResponse{
		TotalBalanceGBP: summary.TotalBalanceGBP,
		AccountCount:    summary.AccountCount,
		Groups:          groups,
		Distribution:    distribution,
	})
}

func (s *Server) handleDashboardHistory(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	hist, err := s.dashboardService.GetHistory(r.Context(), userFrom(r.Context()), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardHistoryResponse(hist))
}
