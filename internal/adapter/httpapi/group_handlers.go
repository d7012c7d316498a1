package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nettrack/nettrack-backend/internal/usecase/group"
)

type groupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AccountIDs  []string `json:"account_ids"`
}

func (req groupRequest) accountIDs() ([]uuid.UUID, error) {
	if req.AccountIDs == nil {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(req.AccountIDs))
	for _, raw := range req.AccountIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	summaries, err := s.groupService.GetAll(r.Context(), userFrom(r.Context()), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]groupSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, toGroupSummaryResponse(summary))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	ids, err := req.accountIDs()
	if err != nil {
		badRequest(w, "invalid account id")
		return
	}

	created, err := s.groupService.CreateGroup(r.Context(), userFrom(r.Context()), group.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		AccountIDs:  ids,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(created))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	detail, err := s.groupService.GetGroup(r.Context(), userFrom(r.Context()), groupID, from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupDetailResponse(detail))
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req groupRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	ids, err := req.accountIDs()
	if err != nil {
		badRequest(w, "invalid account id")
		return
	}

	updated, err := s.groupService.UpdateGroup(r.Context(), userFrom(r.Context()), groupID, group.UpdateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		AccountIDs:  ids,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(updated))
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.groupService.DeleteGroup(r.Context(), userFrom(r.Context()), groupID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
