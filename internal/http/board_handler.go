package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/planning-board/internal/application"
)

type boardService interface {
	Board(ctx context.Context, params application.BoardParams) (application.BoardView, error)
}

type resourceService interface {
	CreateResource(ctx context.Context, name string, avatarURL, teamID *string) (application.Resource, error)
	ListGroups(ctx context.Context) ([]application.ResourceGroup, error)
	CreateTeam(ctx context.Context, name string, color *string) (application.Team, error)
	DeleteResource(ctx context.Context, id string) error
}

// BoardHandler serves the resource directory and the per-resource lane layout.
type BoardHandler struct {
	boards    boardService
	resources resourceService
	responder responder
}

// NewBoardHandler wires the handler with its services and logger.
func NewBoardHandler(boards boardService, resources resourceService, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{boards: boards, resources: resources, responder: newResponder(logger)}
}

// ListGroups handles GET /resources.
func (h *BoardHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.resources == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groups, err := h.resources.ListGroups(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]resourceGroupResponse, 0, len(groups))
	for _, group := range groups {
		out = append(out, toResourceGroupResponse(group))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, groupsResponse{Groups: out})
}

// CreateResource handles POST /resources.
func (h *BoardHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.resources == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req resourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	resource, err := h.resources.CreateResource(r.Context(), req.Name, req.AvatarURL, req.TeamID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toResourceResponse(resource))
}

// DeleteResource handles DELETE /resources/{id}.
func (h *BoardHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.resources == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	if err := h.resources.DeleteResource(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// CreateTeam handles POST /teams.
func (h *BoardHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.resources == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	team, err := h.resources.CreateTeam(r.Context(), req.Name, req.Color)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toTeamResponse(team))
}

// Board handles GET /resources/{id}/board.
func (h *BoardHandler) Board(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.boards == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	params := application.BoardParams{ResourceID: id}
	query := r.URL.Query()
	if value := strings.TrimSpace(query.Get("starts_after")); value != "" {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			params.StartsAfter = &t
		}
	}
	if value := strings.TrimSpace(query.Get("ends_before")); value != "" {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			params.EndsBefore = &t
		}
	}
	if value := strings.TrimSpace(query.Get("day")); value != "" {
		if t, err := time.Parse("2006-01-02", value); err == nil {
			params.Day = &t
		}
	}

	view, err := h.boards.Board(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBoardResponse(view))
}

type resourceRequest struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	TeamID    *string `json:"team_id,omitempty"`
}

type teamRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

type resourceResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	TeamID    *string `json:"team_id,omitempty"`
}

type teamResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

type resourceGroupResponse struct {
	Team      teamResponse       `json:"team"`
	Resources []resourceResponse `json:"resources"`
}

type groupsResponse struct {
	Groups []resourceGroupResponse `json:"groups"`
}

type boardEntryResponse struct {
	Appointment appointmentResponse `json:"appointment"`
	Lane        int                 `json:"lane"`
}

type boardResponse struct {
	ResourceID string               `json:"resource_id"`
	Entries    []boardEntryResponse `json:"entries"`
	MaxLanes   int                  `json:"max_lanes"`
}

func toResourceResponse(resource application.Resource) resourceResponse {
	return resourceResponse{
		ID:        resource.ID,
		Name:      resource.Name,
		AvatarURL: resource.AvatarURL,
		TeamID:    resource.TeamID,
	}
}

func toTeamResponse(team application.Team) teamResponse {
	return teamResponse{ID: team.ID, Name: team.Name, Color: team.Color}
}

func toResourceGroupResponse(group application.ResourceGroup) resourceGroupResponse {
	out := resourceGroupResponse{
		Team:      toTeamResponse(group.Team),
		Resources: make([]resourceResponse, 0, len(group.Resources)),
	}
	for _, resource := range group.Resources {
		out.Resources = append(out.Resources, toResourceResponse(resource))
	}
	return out
}

func toBoardResponse(view application.BoardView) boardResponse {
	out := boardResponse{
		ResourceID: view.ResourceID,
		Entries:    make([]boardEntryResponse, 0, len(view.Entries)),
		MaxLanes:   view.MaxLanes,
	}
	for _, entry := range view.Entries {
		out.Entries = append(out.Entries, boardEntryResponse{
			Appointment: toAppointmentResponse(entry.Appointment),
			Lane:        entry.Lane,
		})
	}
	return out
}
