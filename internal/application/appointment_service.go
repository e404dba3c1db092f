package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/planning-board/internal/gesture"
	"github.com/example/planning-board/internal/persistence"
	"github.com/example/planning-board/internal/stacking"
	"github.com/example/planning-board/internal/timegrid"
	"github.com/example/planning-board/internal/workcal"
)

// AppointmentRepository captures the persistence interactions needed by the
// service. ApplyGesture must commit the update and the creations atomically:
// a renderer must never observe a resize-that-splits with only the update
// applied.
type AppointmentRepository interface {
	GetAppointment(ctx context.Context, id string) (Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentRepositoryFilter) ([]Appointment, error)
	CreateAppointments(ctx context.Context, appointments []Appointment) ([]Appointment, error)
	UpdateAppointment(ctx context.Context, appointment Appointment) (Appointment, error)
	ApplyGesture(ctx context.Context, update Appointment, create []Appointment) error
	DeleteAppointment(ctx context.Context, id string) error
}

// AppointmentRepositoryFilter narrows queries issued to the repository.
type AppointmentRepositoryFilter struct {
	ResourceIDs []string
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

// ResourceDirectory exposes resource lookup operations.
type ResourceDirectory interface {
	ResourceExists(ctx context.Context, id string) (bool, error)
}

// AppointmentService orchestrates gesture commits: it resolves candidate
// spans, splits them around non-worked days and applies the resulting
// updates and creations to the appointment collection.
type AppointmentService struct {
	appointments AppointmentRepository
	resources    ResourceDirectory
	grid         timegrid.Grid
	calendar     workcal.Calendar
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
	boards       *boardCache
}

// NewAppointmentService wires dependencies for appointment operations.
func NewAppointmentService(appointments AppointmentRepository, resources ResourceDirectory, grid timegrid.Grid, calendar workcal.Calendar, idGenerator func() string, now func() time.Time) *AppointmentService {
	return NewAppointmentServiceWithLogger(appointments, resources, grid, calendar, idGenerator, now, nil)
}

// NewAppointmentServiceWithLogger wires dependencies and attaches a base
// logger used when the context carries none.
func NewAppointmentServiceWithLogger(appointments AppointmentRepository, resources ResourceDirectory, grid timegrid.Grid, calendar workcal.Calendar, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AppointmentService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AppointmentService{
		appointments: appointments,
		resources:    resources,
		grid:         grid,
		calendar:     calendar,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
		boards:       newBoardCache(0),
	}
}

// WithBoardCacheSize replaces the board cache with one bounded to the given
// number of entries. Intended for wiring at startup.
func (s *AppointmentService) WithBoardCacheSize(size int) *AppointmentService {
	if s != nil && size > 0 {
		s.boards = newBoardCache(size)
	}
	return s
}

// CreateAppointment validates the input, splits the requested span around
// non-worked days and creates one appointment per worked sub-span.
func (s *AppointmentService) CreateAppointment(ctx context.Context, input AppointmentInput) ([]Appointment, []Warning, error) {
	if s == nil || s.appointments == nil {
		return nil, nil, fmt.Errorf("appointment repository not configured")
	}

	vErr := &ValidationError{}
	validateAppointmentCore(input, vErr)
	if vErr.HasErrors() {
		return nil, nil, vErr
	}

	if err := s.ensureResourceExists(ctx, input.ResourceID); err != nil {
		return nil, nil, err
	}

	spans := s.grid.SplitWorkedSpans(input.Start, input.End, s.calendar, input.IncludeNonWorking)
	if len(spans) == 0 {
		return nil, []Warning{nothingWorkedWarning()}, nil
	}

	appointments := make([]Appointment, 0, len(spans))
	for _, span := range spans {
		appointments = append(appointments, s.buildAppointment(input, span))
	}

	created, err := s.appointments.CreateAppointments(ctx, appointments)
	if err != nil {
		return nil, nil, mapAppointmentRepoError(err)
	}

	s.boards.Invalidate()
	return created, nil, nil
}

// Resize commits a resize gesture. The new span is split around non-worked
// days: one sub-span updates the existing appointment in place and every
// other sub-span becomes a new appointment. Which chunk keeps the original
// identity depends on the dragged edge. A vanished appointment id or a span
// with no worked time leaves the collection untouched.
func (s *AppointmentService) Resize(ctx context.Context, params ResizeParams) ([]Appointment, []Warning, error) {
	if s == nil || s.appointments == nil {
		return nil, nil, fmt.Errorf("appointment repository not configured")
	}

	existing, err := s.appointments.GetAppointment(ctx, params.AppointmentID)
	if err != nil {
		if isNotFoundError(err) {
			serviceLogger(ctx, s.logger, "AppointmentService", "Resize").DebugContext(ctx, "appointment vanished, gesture dropped", "appointment_id", params.AppointmentID)
			return nil, nil, nil
		}
		return nil, nil, mapAppointmentRepoError(err)
	}

	if !params.NewStart.Before(params.NewEnd) {
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return nil, nil, vErr
	}

	resourceID := params.ResourceID
	if resourceID == "" {
		resourceID = existing.ResourceID
	} else if err := s.ensureResourceExists(ctx, resourceID); err != nil {
		return nil, nil, err
	}

	spans := s.grid.SplitWorkedSpans(params.NewStart, params.NewEnd, s.calendar, params.IncludeNonWorking)
	if len(spans) == 0 {
		return nil, []Warning{nothingWorkedWarning()}, nil
	}

	anchor, rest := anchorSpan(spans, params.Direction)

	updated := existing
	updated.Start = anchor.Start
	updated.End = anchor.End
	updated.ResourceID = resourceID
	updated.UpdatedAt = s.now()

	creations := make([]Appointment, 0, len(rest))
	for _, span := range rest {
		creations = append(creations, s.cloneOnto(existing, span, resourceID))
	}

	if err := s.appointments.ApplyGesture(ctx, updated, creations); err != nil {
		return nil, nil, mapAppointmentRepoError(err)
	}

	s.boards.Invalidate()
	affected := append([]Appointment{updated}, creations...)
	return affected, nil, nil
}

// Move commits a drop of an existing appointment onto a target cell. The
// drop target is redirected to the next worked interval when it falls on a
// non-worked day, and the moved span is split like a resize with the
// earliest chunk keeping the appointment's identity.
func (s *AppointmentService) Move(ctx context.Context, params MoveParams) ([]Appointment, []Warning, error) {
	if s == nil || s.appointments == nil {
		return nil, nil, fmt.Errorf("appointment repository not configured")
	}

	existing, err := s.appointments.GetAppointment(ctx, params.AppointmentID)
	if err != nil {
		if isNotFoundError(err) {
			serviceLogger(ctx, s.logger, "AppointmentService", "Move").DebugContext(ctx, "appointment vanished, gesture dropped", "appointment_id", params.AppointmentID)
			return nil, nil, nil
		}
		return nil, nil, mapAppointmentRepoError(err)
	}

	resourceID := params.ResourceID
	if resourceID == "" {
		resourceID = existing.ResourceID
	}
	if err := s.ensureResourceExists(ctx, resourceID); err != nil {
		return nil, nil, err
	}

	duration := existing.End.Sub(existing.Start)
	span, ok := gesture.ResolveDrop(params.TargetStart, duration, s.grid, s.calendar)
	if !ok {
		return nil, []Warning{nothingWorkedWarning()}, nil
	}

	return s.Resize(ctx, ResizeParams{
		AppointmentID:     params.AppointmentID,
		NewStart:          span.Start,
		NewEnd:            span.End,
		ResourceID:        resourceID,
		Direction:         ResizeRight,
		IncludeNonWorking: params.IncludeNonWorking,
	})
}

// CopyPaste duplicates the source appointment onto the target resource,
// preserving its duration and splitting around non-worked days. Pasting onto
// a non-worked instant is refused with a warning and no mutation.
func (s *AppointmentService) CopyPaste(ctx context.Context, params PasteParams) ([]Appointment, []Warning, error) {
	if s == nil || s.appointments == nil {
		return nil, nil, fmt.Errorf("appointment repository not configured")
	}

	source, err := s.appointments.GetAppointment(ctx, params.SourceID)
	if err != nil {
		if isNotFoundError(err) {
			serviceLogger(ctx, s.logger, "AppointmentService", "CopyPaste").DebugContext(ctx, "source vanished, paste dropped", "appointment_id", params.SourceID)
			return nil, nil, nil
		}
		return nil, nil, mapAppointmentRepoError(err)
	}

	if !s.calendar.IsWorkedDay(params.TargetStart) {
		serviceLogger(ctx, s.logger, "AppointmentService", "CopyPaste").WarnContext(ctx, "target cell is not active, cannot paste", "target", params.TargetStart)
		return nil, []Warning{{Code: WarningTargetNotWorked, Message: "target cell is not a worked day"}}, nil
	}

	resourceID := params.ResourceID
	if resourceID == "" {
		resourceID = source.ResourceID
	}
	if err := s.ensureResourceExists(ctx, resourceID); err != nil {
		return nil, nil, err
	}

	duration := source.End.Sub(source.Start)
	targetEnd := params.TargetStart.Add(duration)

	spans := s.grid.SplitWorkedSpans(params.TargetStart, targetEnd, s.calendar, false)
	if len(spans) == 0 {
		return nil, []Warning{nothingWorkedWarning()}, nil
	}

	clones := make([]Appointment, 0, len(spans))
	for _, span := range spans {
		clones = append(clones, s.cloneOnto(source, span, resourceID))
	}

	created, err := s.appointments.CreateAppointments(ctx, clones)
	if err != nil {
		return nil, nil, mapAppointmentRepoError(err)
	}

	s.boards.Invalidate()
	return created, nil, nil
}

// CreateFromExternalDrop builds a single appointment spanning the named
// interval on the given date. External-source drops are single-interval by
// construction, so the span is never split; a non-worked date is redirected
// to the first interval of the next worked day.
func (s *AppointmentService) CreateFromExternalDrop(ctx context.Context, params ExternalDropParams) (Appointment, error) {
	if s == nil || s.appointments == nil {
		return Appointment{}, fmt.Errorf("appointment repository not configured")
	}

	vErr := &ValidationError{}
	if !params.Category.Valid() {
		vErr.add("category", "category must be chantier, absence or autre")
	}
	if params.ResourceID == "" {
		vErr.add("resource_id", "resource is required")
	}
	if params.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	interval, ok := s.grid.IntervalByName(params.IntervalName)
	if !ok {
		vErr.add("interval", "unknown interval name")
	}
	if vErr.HasErrors() {
		return Appointment{}, vErr
	}

	if err := s.ensureResourceExists(ctx, params.ResourceID); err != nil {
		return Appointment{}, err
	}

	day := workcal.StartOfDay(params.Date)
	if !s.calendar.IsWorkedDay(day) {
		next, ok := s.calendar.NextWorkedDay(day)
		if !ok {
			vErr := &ValidationError{}
			vErr.add("date", "no worked day available")
			return Appointment{}, vErr
		}
		day = next
		interval = s.grid.Intervals()[0]
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), interval.StartHour, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), interval.EndHour, 0, 0, 0, day.Location())

	input := AppointmentInput{
		Title:      params.Title,
		ImageURL:   params.ImageURL,
		ResourceID: params.ResourceID,
		Category:   params.Category,
	}
	appointment := s.buildAppointment(input, timegrid.Span{Start: start, End: end})

	created, err := s.appointments.CreateAppointments(ctx, []Appointment{appointment})
	if err != nil {
		return Appointment{}, mapAppointmentRepoError(err)
	}

	s.boards.Invalidate()
	return created[0], nil
}

// GetAppointment retrieves a single appointment by id.
func (s *AppointmentService) GetAppointment(ctx context.Context, id string) (Appointment, error) {
	if s == nil || s.appointments == nil {
		return Appointment{}, fmt.Errorf("appointment repository not configured")
	}
	appointment, err := s.appointments.GetAppointment(ctx, id)
	if err != nil {
		return Appointment{}, mapAppointmentRepoError(err)
	}
	return appointment, nil
}

// UpdateDetails rewrites the editable fields of an appointment. The span and
// the resource assignment are untouched; those only change through gestures.
func (s *AppointmentService) UpdateDetails(ctx context.Context, id string, params UpdateDetailsParams) (Appointment, error) {
	if s == nil || s.appointments == nil {
		return Appointment{}, fmt.Errorf("appointment repository not configured")
	}

	if !params.Category.Valid() {
		vErr := &ValidationError{}
		vErr.add("category", "category must be chantier, absence or autre")
		return Appointment{}, vErr
	}

	existing, err := s.appointments.GetAppointment(ctx, id)
	if err != nil {
		return Appointment{}, mapAppointmentRepoError(err)
	}

	existing.Title = strings.TrimSpace(params.Title)
	existing.Label = params.Label
	existing.Description = params.Description
	existing.ImageURL = params.ImageURL
	existing.Category = params.Category
	existing.UpdatedAt = s.now()

	updated, err := s.appointments.UpdateAppointment(ctx, existing)
	if err != nil {
		return Appointment{}, mapAppointmentRepoError(err)
	}

	s.boards.Invalidate()
	return updated, nil
}

// ListAppointments enumerates appointments matching the given window.
func (s *AppointmentService) ListAppointments(ctx context.Context, params ListAppointmentsParams) ([]Appointment, error) {
	if s == nil || s.appointments == nil {
		return nil, fmt.Errorf("appointment repository not configured")
	}
	appointments, err := s.appointments.ListAppointments(ctx, AppointmentRepositoryFilter{
		ResourceIDs: params.ResourceIDs,
		StartsAfter: params.StartsAfter,
		EndsBefore:  params.EndsBefore,
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapAppointmentRepoError(err)
	}
	return appointments, nil
}

// DeleteAppointment removes an appointment. A missing id is a silent no-op.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id string) error {
	if s == nil || s.appointments == nil {
		return fmt.Errorf("appointment repository not configured")
	}
	if err := s.appointments.DeleteAppointment(ctx, id); err != nil {
		if isNotFoundError(err) {
			return nil
		}
		return mapAppointmentRepoError(err)
	}
	s.boards.Invalidate()
	return nil
}

// Board computes the lane layout for one resource row. Results are cached
// until the next mutation.
func (s *AppointmentService) Board(ctx context.Context, params BoardParams) (BoardView, error) {
	if s == nil || s.appointments == nil {
		return BoardView{}, fmt.Errorf("appointment repository not configured")
	}

	key := buildBoardCacheKey(params)
	if view, ok := s.boards.Get(key); ok {
		return view, nil
	}

	appointments, err := s.appointments.ListAppointments(ctx, AppointmentRepositoryFilter{
		ResourceIDs: []string{params.ResourceID},
		StartsAfter: params.StartsAfter,
		EndsBefore:  params.EndsBefore,
	})
	if err != nil && !isNotFoundError(err) {
		return BoardView{}, mapAppointmentRepoError(err)
	}

	items := make([]stacking.Item, 0, len(appointments))
	byID := make(map[string]Appointment, len(appointments))
	for _, appointment := range appointments {
		items = append(items, stacking.Item{ID: appointment.ID, Start: appointment.Start, End: appointment.End})
		byID[appointment.ID] = appointment
	}

	var assignments []stacking.Assignment
	if params.Day != nil {
		assignments = stacking.AssignLanesForDay(items, *params.Day)
	} else {
		assignments = stacking.AssignLanes(items)
	}

	view := BoardView{ResourceID: params.ResourceID, MaxLanes: 1}
	for _, assignment := range assignments {
		view.Entries = append(view.Entries, BoardEntry{
			Appointment: byID[assignment.ID],
			Lane:        assignment.Lane,
		})
		if assignment.Lane+1 > view.MaxLanes {
			view.MaxLanes = assignment.Lane + 1
		}
	}

	s.boards.Store(key, view)
	return view, nil
}

func (s *AppointmentService) buildAppointment(input AppointmentInput, span timegrid.Span) Appointment {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = DefaultLabel(input.Category)
	}
	createdAt := s.now()
	return Appointment{
		ID:          s.idGenerator(),
		Title:       title,
		Label:       input.Label,
		Description: input.Description,
		Start:       span.Start,
		End:         span.End,
		ImageURL:    input.ImageURL,
		ResourceID:  input.ResourceID,
		Category:    input.Category,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// cloneOnto duplicates an appointment's title, label, category and image
// onto a new span and resource with a fresh identity.
func (s *AppointmentService) cloneOnto(source Appointment, span timegrid.Span, resourceID string) Appointment {
	createdAt := s.now()
	return Appointment{
		ID:          s.idGenerator(),
		Title:       source.Title,
		Label:       source.Label,
		Description: source.Description,
		Start:       span.Start,
		End:         span.End,
		ImageURL:    source.ImageURL,
		ResourceID:  resourceID,
		Category:    source.Category,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func (s *AppointmentService) ensureResourceExists(ctx context.Context, id string) error {
	if s.resources == nil || id == "" {
		return nil
	}
	exists, err := s.resources.ResourceExists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	vErr := &ValidationError{}
	vErr.add("resource_id", "resource does not exist")
	return vErr
}

// anchorSpan picks which split chunk keeps the original appointment's
// identity. Dragging the right edge grows or shrinks the tail, so the
// earliest chunk stays anchored; dragging the left edge is the mirror case
// and the remaining chunks are created from latest to earliest.
func anchorSpan(spans []timegrid.Span, direction ResizeDirection) (timegrid.Span, []timegrid.Span) {
	if direction == ResizeLeft {
		anchor := spans[len(spans)-1]
		rest := make([]timegrid.Span, 0, len(spans)-1)
		for i := len(spans) - 2; i >= 0; i-- {
			rest = append(rest, spans[i])
		}
		return anchor, rest
	}
	anchor := spans[0]
	rest := make([]timegrid.Span, 0, len(spans)-1)
	rest = append(rest, spans[1:]...)
	return anchor, rest
}

func validateAppointmentCore(input AppointmentInput, vErr *ValidationError) {
	if !input.Category.Valid() {
		vErr.add("category", "category must be chantier, absence or autre")
	}
	if input.ResourceID == "" {
		vErr.add("resource_id", "resource is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !input.Start.Before(input.End) {
		vErr.add("time", "start must be before end")
	}
}

func nothingWorkedWarning() Warning {
	return Warning{Code: WarningNothingWorked, Message: "span contains no worked time"}
}

func mapAppointmentRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return vErr
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("resource_id", "resource does not exist")
		return vErr
	}
	return err
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
