package domain

import "context"

// EventFundraiser links a fundraiser (user) to an event.
// swagger:model EventFundraiser
type EventFundraiser struct {
	ID           int64 `json:"id"`
	EventID      int64 `json:"eventId"`
	FundraiserID int64 `json:"fundraiserId"`
}

// EventFundraiserFilter selects links. A set ID short-circuits the other fields.
type EventFundraiserFilter struct {
	ID           *int64
	EventID      *int64
	FundraiserID *int64
}

// EventFundraiserRepository defines storage operations for event/fundraiser links.
type EventFundraiserRepository interface {
	// Create inserts the link. Returns ErrDuplicateLink if the pair is already linked.
	Create(ctx context.Context, link *EventFundraiser) error
	List(ctx context.Context, filter EventFundraiserFilter) ([]*EventFundraiser, error)
	Delete(ctx context.Context, id int64) (*EventFundraiser, error)
}

// EventFundraiserService defines operations on event/fundraiser links.
type EventFundraiserService interface {
	CreateEventFundraiser(ctx context.Context, eventID, fundraiserID int64) (*EventFundraiser, error)
	GetEventFundraisers(ctx context.Context, filter EventFundraiserFilter) ([]*EventFundraiser, error)
	DeleteEventFundraiser(ctx context.Context, id int64) (*EventFundraiser, error)
}
