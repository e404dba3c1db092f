package application

import "time"

// Category tags an appointment with one of the three fixed booking kinds.
type Category string

const (
	// CategoryChantier marks a worksite booking.
	CategoryChantier Category = "chantier"
	// CategoryAbsence marks an absence booking.
	CategoryAbsence Category = "absence"
	// CategoryAutre marks any other booking.
	CategoryAutre Category = "autre"
)

// Valid reports whether the category is one of the fixed tags.
func (c Category) Valid() bool {
	switch c {
	case CategoryChantier, CategoryAbsence, CategoryAutre:
		return true
	}
	return false
}

var defaultLabels = map[Category]string{
	CategoryChantier: "Chantier",
	CategoryAbsence:  "Absence",
	CategoryAutre:    "Autre",
}

// DefaultLabel returns the display label used when an appointment of the
// given category carries no explicit label.
func DefaultLabel(c Category) string {
	return defaultLabels[c]
}

// Appointment represents a booking placed on the planning board. End is
// exclusive: it is the first instant not included in the booking.
type Appointment struct {
	ID          string
	Title       string
	Label       *string
	Description string
	Start       time.Time
	End         time.Time
	ImageURL    *string
	ResourceID  string
	Category    Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayLabel resolves the label shown on the board: the explicit label
// when present, otherwise the category default.
func (a Appointment) DisplayLabel() string {
	if a.Label != nil && *a.Label != "" {
		return *a.Label
	}
	return DefaultLabel(a.Category)
}

// DisplayEnd returns the inclusive end shown to users: one minute before the
// stored exclusive bound.
func (a Appointment) DisplayEnd() time.Time {
	return a.End.Add(-time.Minute)
}

// Resource represents an employee row on the board.
type Resource struct {
	ID        string
	Name      string
	AvatarURL *string
	TeamID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Team represents a grouping label for resources. Resources without a team
// are presented under a synthesized pseudo-group.
type Team struct {
	ID        string
	Name      string
	Color     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoTeamID identifies the synthesized pseudo-group for resources that carry
// no team membership.
const NoTeamID = "no-team"

// AppointmentInput captures caller provided appointment fields.
type AppointmentInput struct {
	Title             string
	Label             *string
	Description       string
	Start             time.Time
	End               time.Time
	ImageURL          *string
	ResourceID        string
	Category          Category
	IncludeNonWorking bool
}

// ResizeDirection identifies which edge of the appointment a resize gesture
// dragged, which decides which split chunk keeps the original identity.
type ResizeDirection string

const (
	// ResizeRight means the right edge was dragged; the earliest chunk
	// keeps the appointment's identity.
	ResizeRight ResizeDirection = "right"
	// ResizeLeft means the left edge was dragged; the latest chunk keeps
	// the appointment's identity.
	ResizeLeft ResizeDirection = "left"
)

// ResizeParams wraps the data required to commit a resize gesture.
type ResizeParams struct {
	AppointmentID     string
	NewStart          time.Time
	NewEnd            time.Time
	ResourceID        string
	Direction         ResizeDirection
	IncludeNonWorking bool
}

// MoveParams wraps the data required to commit a drop of an existing
// appointment onto a target cell.
type MoveParams struct {
	AppointmentID     string
	TargetStart       time.Time
	ResourceID        string
	IncludeNonWorking bool
}

// PasteParams wraps the data required to paste a copied appointment.
type PasteParams struct {
	SourceID    string
	TargetStart time.Time
	ResourceID  string
}

// ExternalDropParams wraps the data required to create an appointment from
// an external source item dropped onto a cell.
type ExternalDropParams struct {
	Title        string
	Date         time.Time
	IntervalName string
	ResourceID   string
	ImageURL     *string
	Category     Category
}

// UpdateDetailsParams carries the editable fields of an appointment. Spans
// and resource assignment only change through gestures.
type UpdateDetailsParams struct {
	Title       string
	Label       *string
	Description string
	ImageURL    *string
	Category    Category
}

// ListAppointmentsParams narrows appointment listings.
type ListAppointmentsParams struct {
	ResourceIDs []string
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

// BoardParams identifies the resource and window a board view is built for.
type BoardParams struct {
	ResourceID  string
	StartsAfter *time.Time
	EndsBefore  *time.Time
	// Day scopes the lane computation to a single calendar day when set,
	// as used by compact layouts.
	Day *time.Time
}

// BoardEntry pairs an appointment with its assigned lane.
type BoardEntry struct {
	Appointment Appointment
	Lane        int
}

// BoardView is the render-ready lane layout for one resource row.
type BoardView struct {
	ResourceID string
	Entries    []BoardEntry
	MaxLanes   int
}
