package domain

import "context"

// EventAttendee records that a donor is invited to (or attending) an event.
// At most one row exists per (EventID, DonorID).
// swagger:model EventAttendee
type EventAttendee struct {
	ID      int64   `json:"id"`
	EventID int64   `json:"eventId"`
	DonorID int64   `json:"donorId"`
	Amount  float64 `json:"amount"`
}

// EventAttendeeFilter selects attendee rows. A set ID short-circuits the other fields.
type EventAttendeeFilter struct {
	ID      *int64
	EventID *int64
	DonorID *int64
}

// EventAttendeeRepository defines storage operations for event attendees.
type EventAttendeeRepository interface {
	// Upsert inserts the row unless the (event, donor) pair already exists, in which case the
	// existing row is loaded into a. created reports whether a new row was written.
	Upsert(ctx context.Context, a *EventAttendee) (created bool, err error)
	List(ctx context.Context, filter EventAttendeeFilter) ([]*EventAttendee, error)
	UpdateAmount(ctx context.Context, id int64, amount float64) (*EventAttendee, error)
	Delete(ctx context.Context, id int64) (*EventAttendee, error)
	DeleteByEventAndDonor(ctx context.Context, eventID, donorID int64) (*EventAttendee, error)
	// DeleteByEventID removes every attendee of the event and returns how many rows went away.
	DeleteByEventID(ctx context.Context, eventID int64) (int64, error)
}

// EventAttendeeService defines operations on event attendees.
type EventAttendeeService interface {
	CreateEventAttendee(ctx context.Context, eventID, donorID int64, amount float64) (*EventAttendee, bool, error)
	CreateEventAttendees(ctx context.Context, eventID int64, donorIDs []int64) (int, error)
	GetEventAttendees(ctx context.Context, filter EventAttendeeFilter) ([]*EventAttendee, error)
	PatchEventAttendeeAmount(ctx context.Context, id int64, amount float64) (*EventAttendee, error)
	DeleteEventAttendee(ctx context.Context, id int64) (*EventAttendee, error)
	DeleteEventAttendeesByEventID(ctx context.Context, eventID int64) (int64, error)
}
