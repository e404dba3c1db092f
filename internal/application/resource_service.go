package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// ResourceRepository captures the persistence interactions needed by the
// directory service.
type ResourceRepository interface {
	CreateResource(ctx context.Context, resource Resource) (Resource, error)
	GetResource(ctx context.Context, id string) (Resource, error)
	ListResources(ctx context.Context) ([]Resource, error)
	DeleteResource(ctx context.Context, id string) error
}

// TeamRepository captures team persistence interactions.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team Team) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
}

// ResourceGroup is a team together with the resources it contains, ordered
// for board rendering. Resources without a team fall into a synthesized
// pseudo-group appended last.
type ResourceGroup struct {
	Team      Team
	Resources []Resource
}

// ResourceService manages the employee and team directory backing the board
// rows.
type ResourceService struct {
	resources   ResourceRepository
	teams       TeamRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewResourceService wires dependencies for directory operations.
func NewResourceService(resources ResourceRepository, teams TeamRepository, idGenerator func() string, now func() time.Time) *ResourceService {
	return NewResourceServiceWithLogger(resources, teams, idGenerator, now, nil)
}

// NewResourceServiceWithLogger wires dependencies and attaches a base logger.
func NewResourceServiceWithLogger(resources ResourceRepository, teams TeamRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ResourceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ResourceService{
		resources:   resources,
		teams:       teams,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateResource validates and stores a new board resource.
func (s *ResourceService) CreateResource(ctx context.Context, name string, avatarURL, teamID *string) (Resource, error) {
	if s == nil || s.resources == nil {
		return Resource{}, fmt.Errorf("resource repository not configured")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return Resource{}, vErr
	}

	createdAt := s.now()
	resource := Resource{
		ID:        s.idGenerator(),
		Name:      name,
		AvatarURL: avatarURL,
		TeamID:    teamID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	created, err := s.resources.CreateResource(ctx, resource)
	if err != nil {
		return Resource{}, mapAppointmentRepoError(err)
	}
	return created, nil
}

// GetResource retrieves a resource by id.
func (s *ResourceService) GetResource(ctx context.Context, id string) (Resource, error) {
	if s == nil || s.resources == nil {
		return Resource{}, fmt.Errorf("resource repository not configured")
	}
	resource, err := s.resources.GetResource(ctx, id)
	if err != nil {
		return Resource{}, mapAppointmentRepoError(err)
	}
	return resource, nil
}

// ResourceExists reports whether a resource id is present in the directory.
func (s *ResourceService) ResourceExists(ctx context.Context, id string) (bool, error) {
	if s == nil || s.resources == nil {
		return false, nil
	}
	_, err := s.resources.GetResource(ctx, id)
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, mapAppointmentRepoError(err)
	}
	return true, nil
}

// ListGroups returns the teams with their resources in display order. Teams
// are ordered by name; a pseudo-group collects resources without a team and
// is appended last.
func (s *ResourceService) ListGroups(ctx context.Context) ([]ResourceGroup, error) {
	if s == nil || s.resources == nil {
		return nil, fmt.Errorf("resource repository not configured")
	}

	resources, err := s.resources.ListResources(ctx)
	if err != nil {
		return nil, mapAppointmentRepoError(err)
	}

	var teams []Team
	if s.teams != nil {
		teams, err = s.teams.ListTeams(ctx)
		if err != nil {
			return nil, mapAppointmentRepoError(err)
		}
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })

	byTeam := make(map[string][]Resource)
	var unassigned []Resource
	for _, resource := range resources {
		if resource.TeamID == nil || *resource.TeamID == "" {
			unassigned = append(unassigned, resource)
			continue
		}
		byTeam[*resource.TeamID] = append(byTeam[*resource.TeamID], resource)
	}

	groups := make([]ResourceGroup, 0, len(teams)+1)
	for _, team := range teams {
		members := byTeam[team.ID]
		sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		groups = append(groups, ResourceGroup{Team: team, Resources: members})
	}

	if len(unassigned) > 0 {
		sort.SliceStable(unassigned, func(i, j int) bool { return unassigned[i].Name < unassigned[j].Name })
		groups = append(groups, ResourceGroup{
			Team:      Team{ID: NoTeamID, Name: "Sans équipe"},
			Resources: unassigned,
		})
	}

	return groups, nil
}

// CreateTeam stores a new team label.
func (s *ResourceService) CreateTeam(ctx context.Context, name string, color *string) (Team, error) {
	if s == nil || s.teams == nil {
		return Team{}, fmt.Errorf("team repository not configured")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return Team{}, vErr
	}

	createdAt := s.now()
	team := Team{
		ID:        s.idGenerator(),
		Name:      name,
		Color:     color,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	created, err := s.teams.CreateTeam(ctx, team)
	if err != nil {
		return Team{}, mapAppointmentRepoError(err)
	}
	return created, nil
}

// DeleteResource removes a resource from the directory.
func (s *ResourceService) DeleteResource(ctx context.Context, id string) error {
	if s == nil || s.resources == nil {
		return fmt.Errorf("resource repository not configured")
	}
	if err := s.resources.DeleteResource(ctx, id); err != nil {
		return mapAppointmentRepoError(err)
	}
	return nil
}
