package persistence

import "time"

// Appointment represents a booking stored for one board resource. End is the
// first instant not included in the booking.
type Appointment struct {
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

// Resource represents an employee row on the planning board.
type Resource struct {
	ID        string
	Name      string
	AvatarURL *string
	TeamID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Team represents a grouping label for resources.
type Team struct {
	ID        string
	Name      string
	Color     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
