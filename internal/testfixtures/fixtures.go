package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/planning-board/internal/application"
	"github.com/example/planning-board/internal/persistence"
	"github.com/example/planning-board/internal/timegrid"
	"github.com/example/planning-board/internal/workcal"
)

var (
	appointmentCounter uint64
	resourceCounter    uint64
	teamCounter        uint64
)

var referenceTime = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It falls on a Monday so that week arithmetic in tests stays readable.
func ReferenceTime() time.Time {
	return referenceTime
}

// HalfDayGrid returns a two interval grid covering morning and afternoon.
func HalfDayGrid() timegrid.Grid {
	grid, err := timegrid.NewGrid(timegrid.HalfDayIntervals())
	if err != nil {
		panic(fmt.Sprintf("half day grid: %v", err))
	}
	return grid
}

// FullDayGrid returns a single interval grid covering the whole day.
func FullDayGrid() timegrid.Grid {
	grid, err := timegrid.NewGrid(timegrid.FullDayIntervals())
	if err != nil {
		panic(fmt.Sprintf("full day grid: %v", err))
	}
	return grid
}

// Calendar returns a work calendar carrying the 2026 French public holidays
// plus an arbitrary company closure on 2026-03-06 (a Friday).
func Calendar() workcal.Calendar {
	holidays := []time.Time{
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.May, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.May, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.May, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.July, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.November, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC),
	}
	closures := []time.Time{
		time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
	}
	return workcal.New(holidays, closures)
}

// ------------------------- Appointment fixtures --------------------------

// AppointmentFixture represents a deterministic appointment record that can
// be materialised for application or persistence tests.
type AppointmentFixture struct {
	ID          string
	Title       string
	Label       *string
	Description string
	Start       time.Time
	End         time.Time
	ImageURL    *string
	ResourceID  string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppointmentOption configures the generated appointment fixture.
type AppointmentOption func(*AppointmentFixture)

// NewAppointmentFixture returns a deterministic appointment fixture with
// optional overrides. Successive fixtures occupy successive mornings.
func NewAppointmentFixture(opts ...AppointmentOption) AppointmentFixture {
	idx := atomic.AddUint64(&appointmentCounter, 1)
	day := workcal.AddDays(workcal.StartOfDay(referenceTime), int(idx-1))
	fixture := AppointmentFixture{
		ID:         fmt.Sprintf("appointment-%03d", idx),
		Title:      fmt.Sprintf("Appointment %03d", idx),
		Start:      day,
		End:        day.Add(12 * time.Hour),
		ResourceID: "resource-001",
		Category:   string(application.CategoryChantier),
		CreatedAt:  referenceTime,
		UpdatedAt:  referenceTime,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&fixture)
		}
	}
	return fixture
}

// WithAppointmentID overrides the generated identifier.
func WithAppointmentID(id string) AppointmentOption {
	return func(f *AppointmentFixture) { f.ID = id }
}

// WithAppointmentSpan overrides the start and end instants.
func WithAppointmentSpan(start, end time.Time) AppointmentOption {
	return func(f *AppointmentFixture) {
		f.Start = start
		f.End = end
	}
}

// WithAppointmentResource overrides the owning resource.
func WithAppointmentResource(resourceID string) AppointmentOption {
	return func(f *AppointmentFixture) { f.ResourceID = resourceID }
}

// WithAppointmentCategory overrides the category tag.
func WithAppointmentCategory(category string) AppointmentOption {
	return func(f *AppointmentFixture) { f.Category = category }
}

// WithAppointmentLabel sets an explicit display label.
func WithAppointmentLabel(label string) AppointmentOption {
	return func(f *AppointmentFixture) { f.Label = &label }
}

// Application converts the fixture into the application layer model.
func (f AppointmentFixture) Application() application.Appointment {
	return application.Appointment{
		ID:          f.ID,
		Title:       f.Title,
		Label:       f.Label,
		Description: f.Description,
		Start:       f.Start,
		End:         f.End,
		ImageURL:    f.ImageURL,
		ResourceID:  f.ResourceID,
		Category:    application.Category(f.Category),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Persistence converts the fixture into the persistence layer model.
func (f AppointmentFixture) Persistence() persistence.Appointment {
	return persistence.Appointment{
		ID:          f.ID,
		Title:       f.Title,
		Label:       f.Label,
		Description: f.Description,
		Start:       f.Start,
		End:         f.End,
		ImageURL:    f.ImageURL,
		ResourceID:  f.ResourceID,
		Category:    f.Category,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// --------------------------- Resource fixtures ---------------------------

// ResourceFixture represents a deterministic resource record.
type ResourceFixture struct {
	ID        string
	Name      string
	AvatarURL *string
	TeamID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResourceOption configures the generated resource fixture.
type ResourceOption func(*ResourceFixture)

// NewResourceFixture returns a deterministic resource fixture with optional
// overrides.
func NewResourceFixture(opts ...ResourceOption) ResourceFixture {
	idx := atomic.AddUint64(&resourceCounter, 1)
	fixture := ResourceFixture{
		ID:        fmt.Sprintf("resource-%03d", idx),
		Name:      fmt.Sprintf("Resource %03d", idx),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&fixture)
		}
	}
	return fixture
}

// WithResourceID overrides the generated identifier.
func WithResourceID(id string) ResourceOption {
	return func(f *ResourceFixture) { f.ID = id }
}

// WithResourceTeam assigns the resource to a team.
func WithResourceTeam(teamID string) ResourceOption {
	return func(f *ResourceFixture) { f.TeamID = &teamID }
}

// Application converts the fixture into the application layer model.
func (f ResourceFixture) Application() application.Resource {
	return application.Resource{
		ID:        f.ID,
		Name:      f.Name,
		AvatarURL: f.AvatarURL,
		TeamID:    f.TeamID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence converts the fixture into the persistence layer model.
func (f ResourceFixture) Persistence() persistence.Resource {
	return persistence.Resource{
		ID:        f.ID,
		Name:      f.Name,
		AvatarURL: f.AvatarURL,
		TeamID:    f.TeamID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ----------------------------- Team fixtures -----------------------------

// TeamFixture represents a deterministic team record.
type TeamFixture struct {
	ID        string
	Name      string
	Color     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamOption configures the generated team fixture.
type TeamOption func(*TeamFixture)

// NewTeamFixture returns a deterministic team fixture with optional
// overrides.
func NewTeamFixture(opts ...TeamOption) TeamFixture {
	idx := atomic.AddUint64(&teamCounter, 1)
	color := fmt.Sprintf("#%06x", idx*0x1f1f1f%0xffffff)
	fixture := TeamFixture{
		ID:        fmt.Sprintf("team-%03d", idx),
		Name:      fmt.Sprintf("Team %03d", idx),
		Color:     &color,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&fixture)
		}
	}
	return fixture
}

// WithTeamID overrides the generated identifier.
func WithTeamID(id string) TeamOption {
	return func(f *TeamFixture) { f.ID = id }
}

// WithTeamName overrides the generated name.
func WithTeamName(name string) TeamOption {
	return func(f *TeamFixture) { f.Name = name }
}

// Application converts the fixture into the application layer model.
func (f TeamFixture) Application() application.Team {
	return application.Team{
		ID:        f.ID,
		Name:      f.Name,
		Color:     f.Color,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence converts the fixture into the persistence layer model.
func (f TeamFixture) Persistence() persistence.Team {
	return persistence.Team{
		ID:        f.ID,
		Name:      f.Name,
		Color:     f.Color,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
