package persistence

import "context"
import "time"

// AppointmentFilter narrows appointment queries.
type AppointmentFilter struct {
	ResourceIDs []string
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

// AppointmentRepository stores board appointments.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment Appointment) error
	CreateAppointments(ctx context.Context, appointments []Appointment) error
	UpdateAppointment(ctx context.Context, appointment Appointment) error
	UpdateThenCreate(ctx context.Context, update Appointment, create []Appointment) error
	GetAppointment(ctx context.Context, id string) (Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

// ResourceRepository exposes CRUD operations for board resources.
type ResourceRepository interface {
	CreateResource(ctx context.Context, resource Resource) error
	UpdateResource(ctx context.Context, resource Resource) error
	GetResource(ctx context.Context, id string) (Resource, error)
	ListResources(ctx context.Context) ([]Resource, error)
	DeleteResource(ctx context.Context, id string) error
}

// TeamRepository exposes CRUD operations for teams.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team Team) error
	GetTeam(ctx context.Context, id string) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	DeleteTeam(ctx context.Context, id string) error
}
