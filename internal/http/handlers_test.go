package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/planning-board/internal/application"
)

type appointmentServiceStub struct {
	appointments []application.Appointment
	warnings     []application.Warning
	single       application.Appointment
	err          error

	resizeParams *application.ResizeParams
	pasteParams  *application.PasteParams
	updatedID    string
	deletedID    string
}

func (s *appointmentServiceStub) CreateAppointment(ctx context.Context, input application.AppointmentInput) ([]application.Appointment, []application.Warning, error) {
	return s.appointments, s.warnings, s.err
}

func (s *appointmentServiceStub) Resize(ctx context.Context, params application.ResizeParams) ([]application.Appointment, []application.Warning, error) {
	s.resizeParams = &params
	return s.appointments, s.warnings, s.err
}

func (s *appointmentServiceStub) Move(ctx context.Context, params application.MoveParams) ([]application.Appointment, []application.Warning, error) {
	return s.appointments, s.warnings, s.err
}

func (s *appointmentServiceStub) CopyPaste(ctx context.Context, params application.PasteParams) ([]application.Appointment, []application.Warning, error) {
	s.pasteParams = &params
	return s.appointments, s.warnings, s.err
}

func (s *appointmentServiceStub) CreateFromExternalDrop(ctx context.Context, params application.ExternalDropParams) (application.Appointment, error) {
	return s.single, s.err
}

func (s *appointmentServiceStub) GetAppointment(ctx context.Context, id string) (application.Appointment, error) {
	return s.single, s.err
}

func (s *appointmentServiceStub) UpdateDetails(ctx context.Context, id string, params application.UpdateDetailsParams) (application.Appointment, error) {
	s.updatedID = id
	return s.single, s.err
}

func (s *appointmentServiceStub) ListAppointments(ctx context.Context, params application.ListAppointmentsParams) ([]application.Appointment, error) {
	return s.appointments, s.err
}

func (s *appointmentServiceStub) DeleteAppointment(ctx context.Context, id string) error {
	s.deletedID = id
	return s.err
}

type boardServiceStub struct {
	view application.BoardView
	err  error

	params *application.BoardParams
}

func (s *boardServiceStub) Board(ctx context.Context, params application.BoardParams) (application.BoardView, error) {
	s.params = &params
	return s.view, s.err
}

type resourceServiceStub struct {
	groups   []application.ResourceGroup
	resource application.Resource
	team     application.Team
	err      error
}

func (s *resourceServiceStub) CreateResource(ctx context.Context, name string, avatarURL, teamID *string) (application.Resource, error) {
	return s.resource, s.err
}

func (s *resourceServiceStub) ListGroups(ctx context.Context) ([]application.ResourceGroup, error) {
	return s.groups, s.err
}

func (s *resourceServiceStub) CreateTeam(ctx context.Context, name string, color *string) (application.Team, error) {
	return s.team, s.err
}

func (s *resourceServiceStub) DeleteResource(ctx context.Context, id string) error {
	return s.err
}

func newTestRouter(appointments *appointmentServiceStub, boards *boardServiceStub, resources *resourceServiceStub) http.Handler {
	return NewRouter(RouterConfig{
		Appointments: NewAppointmentHandler(appointments, nil),
		Boards:       NewBoardHandler(boards, resources, nil),
	})
}

func sampleAppointment() application.Appointment {
	return application.Appointment{
		ID:         "a-1",
		Title:      "Chantier nord",
		Start:      time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC),
		ResourceID: "resource-1",
		Category:   application.CategoryChantier,
	}
}

func TestAppointmentHandler_Create(t *testing.T) {
	t.Parallel()

	t.Run("returns created chunks with display fields", func(t *testing.T) {
		t.Parallel()
		stub := &appointmentServiceStub{appointments: []application.Appointment{sampleAppointment()}}
		router := newTestRouter(stub, &boardServiceStub{}, &resourceServiceStub{})

		body := `{"title":"Chantier nord","start":"2026-03-02T00:00:00Z","end":"2026-03-02T12:00:00Z","resource_id":"resource-1","category":"chantier"}`
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Appointments []struct {
				ID         string    `json:"id"`
				Label      string    `json:"label"`
				DisplayEnd time.Time `json:"display_end"`
			} `json:"appointments"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Appointments) != 1 {
			t.Fatalf("expected one appointment, got %d", len(resp.Appointments))
		}
		wantDisplayEnd := time.Date(2026, time.March, 2, 11, 59, 0, 0, time.UTC)
		if !resp.Appointments[0].DisplayEnd.Equal(wantDisplayEnd) {
			t.Fatalf("expected display_end %v, got %v", wantDisplayEnd, resp.Appointments[0].DisplayEnd)
		}
		if resp.Appointments[0].Label != "Chantier" {
			t.Fatalf("expected category default label, got %q", resp.Appointments[0].Label)
		}
	})

	t.Run("malformed body yields 400", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&appointmentServiceStub{}, &boardServiceStub{}, &resourceServiceStub{})

		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("validation errors are localized", func(t *testing.T) {
		t.Parallel()
		vErr := &application.ValidationError{FieldErrors: map[string]string{
			"category": "category must be chantier, absence or autre",
		}}
		stub := &appointmentServiceStub{err: vErr}
		router := newTestRouter(stub, &boardServiceStub{}, &resourceServiceStub{})

		body := `{"category":"vacances"}`
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Les données saisies sont invalides.") {
			t.Fatalf("expected localized message, got %s", rec.Body.String())
		}
	})

	t.Run("warnings are serialized", func(t *testing.T) {
		t.Parallel()
		stub := &appointmentServiceStub{warnings: []application.Warning{{Code: "nothing_worked", Message: "span contains no worked time"}}}
		router := newTestRouter(stub, &boardServiceStub{}, &resourceServiceStub{})

		body := `{"title":"x","start":"2026-03-07T00:00:00Z","end":"2026-03-09T00:00:00Z","resource_id":"resource-1","category":"chantier"}`
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var resp struct {
			Warnings []struct {
				Code string `json:"code"`
			} `json:"warnings"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Warnings) != 1 || resp.Warnings[0].Code != "nothing_worked" {
			t.Fatalf("expected warning in payload, got %s", rec.Body.String())
		}
	})
}

func TestAppointmentHandler_Get(t *testing.T) {
	t.Parallel()

	t.Run("missing appointment maps to 404", func(t *testing.T) {
		t.Parallel()
		stub := &appointmentServiceStub{err: application.ErrNotFound}
		router := newTestRouter(stub, &boardServiceStub{}, &resourceServiceStub{})

		req := httptest.NewRequest(http.MethodGet, "/appointments/missing", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "La ressource demandée est introuvable.") {
			t.Fatalf("expected localized message, got %s", rec.Body.String())
		}
	})
}

func TestAppointmentHandler_Update(t *testing.T) {
	t.Parallel()

	stub := &appointmentServiceStub{single: sampleAppointment()}
	router := newTestRouter(stub, &boardServiceStub{}, &resourceServiceStub{})

	body := `{"title":"Chantier sud","description":"Toiture","category":"chantier"}`
	req := httptest.NewRequest(http.MethodPut, "/appointments/a-1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.updatedID != "a-1" {
		t.Fatalf("expected id from path, got %q", stub.updatedID)
	}
}

func TestAppointmentHandler_Resize(t *testing.T) {
	t.Parallel()

	stub := &appointmentServiceStub{appointments: []application.Appointment{sampleAppointment()}}
	router := newTestRouter(stub, &boardServiceStub{}, &resourceServiceStub{})

	body := `{"start":"2026-03-02T00:00:00Z","end":"2026-03-04T00:00:00Z","direction":"right"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments/a-1/resize", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.resizeParams == nil {
		t.Fatalf("expected service call")
	}
	if stub.resizeParams.AppointmentID != "a-1" {
		t.Fatalf("expected id from path, got %q", stub.resizeParams.AppointmentID)
	}
	if stub.resizeParams.Direction != application.ResizeRight {
		t.Fatalf("expected right direction, got %q", stub.resizeParams.Direction)
	}
}

func TestAppointmentHandler_Paste(t *testing.T) {
	t.Parallel()

	stub := &appointmentServiceStub{appointments: []application.Appointment{sampleAppointment()}}
	router := newTestRouter(stub, &boardServiceStub{}, &resourceServiceStub{})

	body := `{"target_start":"2026-03-04T00:00:00Z","resource_id":"resource-2"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments/a-1/paste", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.pasteParams == nil || stub.pasteParams.SourceID != "a-1" || stub.pasteParams.ResourceID != "resource-2" {
		t.Fatalf("unexpected paste params %+v", stub.pasteParams)
	}
}

func TestAppointmentHandler_ExternalDrop(t *testing.T) {
	t.Parallel()

	stub := &appointmentServiceStub{single: sampleAppointment()}
	router := newTestRouter(stub, &boardServiceStub{}, &resourceServiceStub{})

	body := `{"title":"Livraison","date":"2026-03-02T00:00:00Z","interval":"morning","resource_id":"resource-1","category":"chantier"}`
	req := httptest.NewRequest(http.MethodPost, "/external-drops", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBoardHandler_Board(t *testing.T) {
	t.Parallel()

	boards := &boardServiceStub{view: application.BoardView{
		ResourceID: "resource-1",
		Entries:    []application.BoardEntry{{Appointment: sampleAppointment(), Lane: 0}},
		MaxLanes:   1,
	}}
	router := newTestRouter(&appointmentServiceStub{}, boards, &resourceServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/resources/resource-1/board?day=2026-03-02", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if boards.params == nil || boards.params.ResourceID != "resource-1" {
		t.Fatalf("expected resource id from path, got %+v", boards.params)
	}
	if boards.params.Day == nil || !boards.params.Day.Equal(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected day parameter, got %v", boards.params.Day)
	}

	var resp struct {
		MaxLanes int `json:"max_lanes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.MaxLanes != 1 {
		t.Fatalf("expected max_lanes 1, got %d", resp.MaxLanes)
	}
}

func TestBoardHandler_ListGroups(t *testing.T) {
	t.Parallel()

	resources := &resourceServiceStub{groups: []application.ResourceGroup{
		{Team: application.Team{ID: "team-1", Name: "Gros œuvre"}},
		{Team: application.Team{ID: application.NoTeamID, Name: "Sans équipe"}},
	}}
	router := newTestRouter(&appointmentServiceStub{}, &boardServiceStub{}, resources)

	req := httptest.NewRequest(http.MethodGet, "/resources", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sans équipe") {
		t.Fatalf("expected pseudo-group in payload, got %s", rec.Body.String())
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&appointmentServiceStub{}, &boardServiceStub{}, &resourceServiceStub{})

	req := httptest.NewRequest(http.MethodPut, "/appointments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
		t.Fatalf("expected Allow header, got %q", allow)
	}
}
