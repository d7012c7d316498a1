package httpapi

import (
	"net/http"

	"github.com/nettrack/nettrack-backend/internal/domain"
	"github.com/nettrack/nettrack-backend/internal/usecase/accounttype"
	"github.com/nettrack/nettrack-backend/internal/usecase/settings"
)

type accountTypeRequest struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

func (s *Server) handleListAccountTypes(w http.ResponseWriter, r *http.Request) {
	defs, err := s.typeService.GetAll(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]accountTypeResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, toAccountTypeResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAccountType(w http.ResponseWriter, r *http.Request) {
	var req accountTypeRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.typeService.Create(r.Context(), userFrom(r.Context()), accounttype.Input{
		Name:  req.Name,
		Label: req.Label,
		Icon:  req.Icon,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountTypeResponse(created))
}

func (s *Server) handleUpdateAccountType(w http.ResponseWriter, r *http.Request) {
	typeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req accountTypeRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.typeService.Update(r.Context(), userFrom(r.Context()), typeID, accounttype.Input{
		Name:  req.Name,
		Label: req.Label,
		Icon:  req.Icon,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountTypeResponse(updated))
}

func (s *Server) handleDeleteAccountType(w http.ResponseWriter, r *http.Request) {
	typeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.typeService.Delete(r.Context(), userFrom(r.Context()), typeID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type settingsRequest struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.settingsService.Get(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Theme: string(current.Theme), Language: current.Language})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.settingsService.Update(r.Context(), userFrom(r.Context()), settings.UpdateInput{
		Theme:    domain.Theme(req.Theme),
		Language: req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Theme: string(updated.Theme), Language: updated.Language})
}

func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "true"
	table := s.ratesService.GetRates(r.Context(), force)

	out := make(map[string]string, len(table))
	for currency, rate := range table {
		out[string(currency)] = rate.String()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"base":  string(domain.ReportingCurrency),
		"rates": out,
	})
}
