package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/planning-board/internal/application"
)

type appointmentService interface {
	CreateAppointment(ctx context.Context, input application.AppointmentInput) ([]application.Appointment, []application.Warning, error)
	Resize(ctx context.Context, params application.ResizeParams) ([]application.Appointment, []application.Warning, error)
	Move(ctx context.Context, params application.MoveParams) ([]application.Appointment, []application.Warning, error)
	CopyPaste(ctx context.Context, params application.PasteParams) ([]application.Appointment, []application.Warning, error)
	CreateFromExternalDrop(ctx context.Context, params application.ExternalDropParams) (application.Appointment, error)
	GetAppointment(ctx context.Context, id string) (application.Appointment, error)
	UpdateDetails(ctx context.Context, id string, params application.UpdateDetailsParams) (application.Appointment, error)
	ListAppointments(ctx context.Context, params application.ListAppointmentsParams) ([]application.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

// AppointmentHandler exposes appointment lifecycle operations over HTTP.
type AppointmentHandler struct {
	service   appointmentService
	responder responder
}

// NewAppointmentHandler wires the handler with its service and logger.
func NewAppointmentHandler(service appointmentService, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{service: service, responder: newResponder(logger)}
}

// Create handles POST /appointments.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	appointments, warnings, err := h.service.CreateAppointment(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toGestureResponse(appointments, warnings))
}

// Get handles GET /appointments/{id}.
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := AppointmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	appointment, err := h.service.GetAppointment(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAppointmentResponse(appointment))
}

// List handles GET /appointments.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params := buildListParams(r.URL.Query())

	appointments, err := h.service.ListAppointments(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]appointmentResponse, 0, len(appointments))
	for _, appointment := range appointments {
		out = append(out, toAppointmentResponse(appointment))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listResponse{Appointments: out})
}

// Update handles PUT /appointments/{id}.
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := AppointmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	var req updateDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	appointment, err := h.service.UpdateDetails(r.Context(), id, application.UpdateDetailsParams{
		Title:       req.Title,
		Label:       req.Label,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    application.Category(req.Category),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAppointmentResponse(appointment))
}

// Delete handles DELETE /appointments/{id}.
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := AppointmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	if err := h.service.DeleteAppointment(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Resize handles POST /appointments/{id}/resize.
func (h *AppointmentHandler) Resize(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := AppointmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	var req resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	appointments, warnings, err := h.service.Resize(r.Context(), application.ResizeParams{
		AppointmentID:     id,
		NewStart:          req.Start,
		NewEnd:            req.End,
		ResourceID:        req.ResourceID,
		Direction:         application.ResizeDirection(req.Direction),
		IncludeNonWorking: req.IncludeNonWorking,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGestureResponse(appointments, warnings))
}

// Move handles POST /appointments/{id}/move.
func (h *AppointmentHandler) Move(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := AppointmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	appointments, warnings, err := h.service.Move(r.Context(), application.MoveParams{
		AppointmentID:     id,
		TargetStart:       req.TargetStart,
		ResourceID:        req.ResourceID,
		IncludeNonWorking: req.IncludeNonWorking,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGestureResponse(appointments, warnings))
}

// Paste handles POST /appointments/{id}/paste.
func (h *AppointmentHandler) Paste(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := AppointmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	var req pasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	appointments, warnings, err := h.service.CopyPaste(r.Context(), application.PasteParams{
		SourceID:    id,
		TargetStart: req.TargetStart,
		ResourceID:  req.ResourceID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toGestureResponse(appointments, warnings))
}

// ExternalDrop handles POST /external-drops.
func (h *AppointmentHandler) ExternalDrop(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req externalDropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	appointment, err := h.service.CreateFromExternalDrop(r.Context(), application.ExternalDropParams{
		Title:        req.Title,
		Date:         req.Date,
		IntervalName: req.Interval,
		ResourceID:   req.ResourceID,
		ImageURL:     req.ImageURL,
		Category:     application.Category(req.Category),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toAppointmentResponse(appointment))
}

type appointmentRequest struct {
	Title             string  `json:"title"`
	Label             *string `json:"label,omitempty"`
	Description       string  `json:"description"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	ImageURL          *string `json:"image_url,omitempty"`
	ResourceID        string  `json:"resource_id"`
	Category          string  `json:"category"`
	IncludeNonWorking bool    `json:"include_non_working"`
}

func (r appointmentRequest) toInput() application.AppointmentInput {
	return application.AppointmentInput{
		Title:             r.Title,
		Label:             r.Label,
		Description:       r.Description,
		Start:             r.Start,
		End:               r.End,
		ImageURL:          r.ImageURL,
		ResourceID:        r.ResourceID,
		Category:          application.Category(r.Category),
		IncludeNonWorking: r.IncludeNonWorking,
	}
}

type updateDetailsRequest struct {
	Title       string  `json:"title"`
	Label       *string `json:"label,omitempty"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	Category    string  `json:"category"`
}

type resizeRequest struct {
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	ResourceID        string    `json:"resource_id"`
	Direction         string    `json:"direction"`
	IncludeNonWorking bool      `json:"include_non_working"`
}

type moveRequest struct {
	TargetStart       time.Time `json:"target_start"`
	ResourceID        string    `json:"resource_id"`
	IncludeNonWorking bool      `json:"include_non_working"`
}

type pasteRequest struct {
	TargetStart time.Time `json:"target_start"`
	ResourceID  string    `json:"resource_id"`
}

type externalDropRequest struct {
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	Interval   string    `json:"interval"`
	ResourceID string    `json:"resource_id"`
	ImageURL   *string   `json:"image_url,omitempty"`
	Category   string    `json:"category"`
}

type appointmentResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Label        string    `json:"label"`
	Description  string    `json:"description,omitempty"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DisplayEnd   time.Time `json:"display_end"`
	ImageURL     *string   `json:"image_url,omitempty"`
	ResourceID   string    `json:"resource_id"`
	Category     string    `json:"category"`
}

type warningResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type gestureResponse struct {
	Appointments []appointmentResponse `json:"appointments"`
	Warnings     []warningResponse     `json:"warnings,omitempty"`
}

type listResponse struct {
	Appointments []appointmentResponse `json:"appointments"`
}

func toAppointmentResponse(appointment application.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:          appointment.ID,
		Title:       appointment.Title,
		Label:       appointment.DisplayLabel(),
		Description: appointment.Description,
		Start:       appointment.Start,
		End:         appointment.End,
		DisplayEnd:  appointment.DisplayEnd(),
		ImageURL:    appointment.ImageURL,
		ResourceID:  appointment.ResourceID,
		Category:    string(appointment.Category),
	}
}

func toGestureResponse(appointments []application.Appointment, warnings []application.Warning) gestureResponse {
	out := gestureResponse{Appointments: make([]appointmentResponse, 0, len(appointments))}
	for _, appointment := range appointments {
		out.Appointments = append(out.Appointments, toAppointmentResponse(appointment))
	}
	for _, warning := range warnings {
		out.Warnings = append(out.Warnings, warningResponse{Code: warning.Code, Message: warning.Message})
	}
	return out
}

func buildListParams(query url.Values) application.ListAppointmentsParams {
	params := application.ListAppointmentsParams{}

	if ids := query["resource_id"]; len(ids) > 0 {
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				params.ResourceIDs = append(params.ResourceIDs, id)
			}
		}
	}
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
	return params
}
