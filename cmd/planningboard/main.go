package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/planning-board/internal/application"
	"github.com/example/planning-board/internal/config"
	httptransport "github.com/example/planning-board/internal/http"
	"github.com/example/planning-board/internal/persistence"
	"github.com/example/planning-board/internal/persistence/sqlite"
	"github.com/example/planning-board/internal/timegrid"
	"github.com/example/planning-board/internal/workcal"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	grid, err := buildGrid(cfg.Mode)
	if err != nil {
		logger.Error("failed to build interval grid", "error", err)
		os.Exit(1)
	}
	calendar := workcal.New(cfg.Holidays, cfg.Closures)

	idGenerator := uuid.NewString
	now := time.Now

	appointmentStore := sqlite.NewAppointmentRepository(pool)
	resourceStore := sqlite.NewResourceRepository(pool)

	appointmentRepo := newAppointmentRepositoryAdapter(appointmentStore)
	resourceDirectory := newResourceDirectoryAdapter(resourceStore)
	resourceRepo := newResourceRepositoryAdapter(resourceStore)
	teamRepo := newTeamRepositoryAdapter(resourceStore)

	appointmentService := application.NewAppointmentServiceWithLogger(appointmentRepo, resourceDirectory, grid, calendar, idGenerator, now, logger).
		WithBoardCacheSize(cfg.BoardCacheSize)
	resourceService := application.NewResourceServiceWithLogger(resourceRepo, teamRepo, idGenerator, now, logger)

	appointmentHandler := httptransport.NewAppointmentHandler(appointmentService, logger)
	boardHandler := httptransport.NewBoardHandler(appointmentService, resourceService, logger)

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Appointments: appointmentHandler,
		Boards:       boardHandler,
		Middleware:   []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("planning board API listening", "addr", server.Addr, "mode", string(cfg.Mode))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func buildGrid(mode config.DayMode) (timegrid.Grid, error) {
	switch mode {
	case config.DayModeFull:
		return timegrid.NewGrid(timegrid.FullDayIntervals())
	default:
		return timegrid.NewGrid(timegrid.HalfDayIntervals())
	}
}

type appointmentRepositoryAdapter struct {
	repo *sqlite.AppointmentRepository
}

func newAppointmentRepositoryAdapter(repo *sqlite.AppointmentRepository) *appointmentRepositoryAdapter {
	return &appointmentRepositoryAdapter{repo: repo}
}

func (a *appointmentRepositoryAdapter) GetAppointment(ctx context.Context, id string) (application.Appointment, error) {
	stored, err := a.repo.GetAppointment(ctx, id)
	if err != nil {
		return application.Appointment{}, err
	}
	return toApplicationAppointment(stored), nil
}

func (a *appointmentRepositoryAdapter) ListAppointments(ctx context.Context, filter application.AppointmentRepositoryFilter) ([]application.Appointment, error) {
	persistedFilter := persistence.AppointmentFilter{
		ResourceIDs: append([]string(nil), filter.ResourceIDs...),
		StartsAfter: filter.StartsAfter,
		EndsBefore:  filter.EndsBefore,
	}
	models, err := a.repo.ListAppointments(ctx, persistedFilter)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	appointments := make([]application.Appointment, 0, len(models))
	for _, model := range models {
		appointments = append(appointments, toApplicationAppointment(model))
	}
	return appointments, nil
}

func (a *appointmentRepositoryAdapter) CreateAppointments(ctx context.Context, appointments []application.Appointment) ([]application.Appointment, error) {
	models := make([]persistence.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		models = append(models, toPersistenceAppointment(appointment))
	}
	if err := a.repo.CreateAppointments(ctx, models); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (a *appointmentRepositoryAdapter) UpdateAppointment(ctx context.Context, appointment application.Appointment) (application.Appointment, error) {
	if err := a.repo.UpdateAppointment(ctx, toPersistenceAppointment(appointment)); err != nil {
		return application.Appointment{}, err
	}
	stored, err := a.repo.GetAppointment(ctx, appointment.ID)
	if err != nil {
		return application.Appointment{}, err
	}
	return toApplicationAppointment(stored), nil
}

func (a *appointmentRepositoryAdapter) ApplyGesture(ctx context.Context, update application.Appointment, create []application.Appointment) error {
	models := make([]persistence.Appointment, 0, len(create))
	for _, appointment := range create {
		models = append(models, toPersistenceAppointment(appointment))
	}
	return a.repo.UpdateThenCreate(ctx, toPersistenceAppointment(update), models)
}

func (a *appointmentRepositoryAdapter) DeleteAppointment(ctx context.Context, id string) error {
	return a.repo.DeleteAppointment(ctx, id)
}

type resourceDirectoryAdapter struct {
	repo *sqlite.ResourceRepository
}

func newResourceDirectoryAdapter(repo *sqlite.ResourceRepository) *resourceDirectoryAdapter {
	return &resourceDirectoryAdapter{repo: repo}
}

func (a *resourceDirectoryAdapter) ResourceExists(ctx context.Context, id string) (bool, error) {
	if _, err := a.repo.GetResource(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type resourceRepositoryAdapter struct {
	repo *sqlite.ResourceRepository
}

func newResourceRepositoryAdapter(repo *sqlite.ResourceRepository) *resourceRepositoryAdapter {
	return &resourceRepositoryAdapter{repo: repo}
}

func (a *resourceRepositoryAdapter) CreateResource(ctx context.Context, resource application.Resource) (application.Resource, error) {
	if err := a.repo.CreateResource(ctx, toPersistenceResource(resource)); err != nil {
		return application.Resource{}, err
	}
	stored, err := a.repo.GetResource(ctx, resource.ID)
	if err != nil {
		return application.Resource{}, err
	}
	return toApplicationResource(stored), nil
}

func (a *resourceRepositoryAdapter) GetResource(ctx context.Context, id string) (application.Resource, error) {
	stored, err := a.repo.GetResource(ctx, id)
	if err != nil {
		return application.Resource{}, err
	}
	return toApplicationResource(stored), nil
}

func (a *resourceRepositoryAdapter) ListResources(ctx context.Context) ([]application.Resource, error) {
	models, err := a.repo.ListResources(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	resources := make([]application.Resource, 0, len(models))
	for _, model := range models {
		resources = append(resources, toApplicationResource(model))
	}
	return resources, nil
}

func (a *resourceRepositoryAdapter) DeleteResource(ctx context.Context, id string) error {
	return a.repo.DeleteResource(ctx, id)
}

type teamRepositoryAdapter struct {
	repo *sqlite.ResourceRepository
}

func newTeamRepositoryAdapter(repo *sqlite.ResourceRepository) *teamRepositoryAdapter {
	return &teamRepositoryAdapter{repo: repo}
}

func (a *teamRepositoryAdapter) CreateTeam(ctx context.Context, team application.Team) (application.Team, error) {
	if err := a.repo.CreateTeam(ctx, toPersistenceTeam(team)); err != nil {
		return application.Team{}, err
	}
	stored, err := a.repo.GetTeam(ctx, team.ID)
	if err != nil {
		return application.Team{}, err
	}
	return toApplicationTeam(stored), nil
}

func (a *teamRepositoryAdapter) ListTeams(ctx context.Context) ([]application.Team, error) {
	models, err := a.repo.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	teams := make([]application.Team, 0, len(models))
	for _, model := range models {
		teams = append(teams, toApplicationTeam(model))
	}
	return teams, nil
}

func toApplicationAppointment(model persistence.Appointment) application.Appointment {
	return application.Appointment{
		ID:          model.ID,
		Title:       model.Title,
		Label:       cloneString(model.Label),
		Description: model.Description,
		Start:       model.Start,
		End:         model.End,
		ImageURL:    cloneString(model.ImageURL),
		ResourceID:  model.ResourceID,
		Category:    application.Category(model.Category),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceAppointment(appointment application.Appointment) persistence.Appointment {
	return persistence.Appointment{
		ID:          appointment.ID,
		Title:       appointment.Title,
		Label:       cloneString(appointment.Label),
		Description: appointment.Description,
		Start:       appointment.Start,
		End:         appointment.End,
		ImageURL:    cloneString(appointment.ImageURL),
		ResourceID:  appointment.ResourceID,
		Category:    string(appointment.Category),
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}
}

func toApplicationResource(model persistence.Resource) application.Resource {
	return application.Resource{
		ID:        model.ID,
		Name:      model.Name,
		AvatarURL: cloneString(model.AvatarURL),
		TeamID:    cloneString(model.TeamID),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceResource(resource application.Resource) persistence.Resource {
	return persistence.Resource{
		ID:        resource.ID,
		Name:      resource.Name,
		AvatarURL: cloneString(resource.AvatarURL),
		TeamID:    cloneString(resource.TeamID),
		CreatedAt: resource.CreatedAt,
		UpdatedAt: resource.UpdatedAt,
	}
}

func toApplicationTeam(model persistence.Team) application.Team {
	return application.Team{
		ID:        model.ID,
		Name:      model.Name,
		Color:     cloneString(model.Color),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceTeam(team application.Team) persistence.Team {
	return persistence.Team{
		ID:        team.ID,
		Name:      team.Name,
		Color:     cloneString(team.Color),
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
