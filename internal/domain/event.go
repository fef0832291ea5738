package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// City is one of the supported event locations.
type City string

const (
	CityVictoria      City = "VICTORIA"
	CityNanaimo       City = "NANAIMO"
	CityCourtenay     City = "COURTENAY"
	CityParksville    City = "PARKSVILLE"
	CityCampbellRiver City = "CAMPBELL_RIVER"
	CitySaanich       City = "SAANICH"
	CityVancouver     City = "VANCOUVER"
	CitySurrey        City = "SURREY"
	CityBurnaby       City = "BURNABY"
	CityRichmond      City = "RICHMOND"
)

var cities = map[City]struct{}{
	CityVictoria: {}, CityNanaimo: {}, CityCourtenay: {}, CityParksville: {}, CityCampbellRiver: {},
	CitySaanich: {}, CityVancouver: {}, CitySurrey: {}, CityBurnaby: {}, CityRichmond: {},
}

// Valid reports whether c is a supported city.
func (c City) Valid() bool {
	_, ok := cities[c]
	return ok
}

// ParseCity normalizes s ("Campbell River", "campbell_river") into a City.
func ParseCity(s string) (City, bool) {
	c := City(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")))
	return c, c.Valid()
}

// Event is a fundraising occasion with a monetary goal.
// swagger:model Event
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Topic       string    `json:"topic"`
	Date        time.Time `json:"date"`
	City        City      `json:"city"`
	Address     *string   `json:"address"`
	Description *string   `json:"description"`
	Goal        float64   `json:"goal"`
	Completed   float64   `json:"completed"`
}

// GoalProgress is the raised share of the goal in percent. It is 0 without a positive goal and
// may exceed 100 once the goal is passed.
func (e Event) GoalProgress() float64 {
	if e.Goal <= 0 {
		return 0
	}
	return e.Completed / e.Goal * 100
}

// MarshalJSON adds the derived goalProgress to the stored fields.
func (e Event) MarshalJSON() ([]byte, error) {
	type event Event
	return json.Marshal(struct {
		event
		GoalProgress float64 `json:"goalProgress"`
	}{event: event(e), GoalProgress: e.GoalProgress()})
}

// Validate returns the list of problems with the fields required to create an event.
func (e *Event) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(e.Topic) == "" {
		errs = append(errs, "topic is required")
	}
	if e.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	if !e.City.Valid() {
		errs = append(errs, "city is invalid")
	}
	if e.Goal < 0 {
		errs = append(errs, "goal must not be negative")
	}
	if e.Completed < 0 {
		errs = append(errs, "completed must not be negative")
	}
	return errs
}

// EventFilter selects events. A set ID short-circuits every other field.
type EventFilter struct {
	ID    *int64
	Title *string
	Topic *string
	Date  *time.Time
	City  *City
}

// EventPatch holds the fields to change; nil fields are left untouched.
type EventPatch struct {
	Title       *string
	Topic       *string
	Date        *time.Time
	City        *City
	Address     *string
	Description *string
	Goal        *float64
	Completed   *float64
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Topic == nil && p.Date == nil && p.City == nil &&
		p.Address == nil && p.Description == nil && p.Goal == nil && p.Completed == nil
}

// EventWithFundraisers is the result of creating an event together with its fundraiser links.
type EventWithFundraisers struct {
	Event       *Event             `json:"event"`
	Fundraisers []*EventFundraiser `json:"fundraisers"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	Update(ctx context.Context, id int64, patch EventPatch) (*Event, error)
	// Delete removes the event and returns the deleted row.
	Delete(ctx context.Context, id int64) (*Event, error)
}

// EventService defines event business operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	// CreateEventWithFundraisers creates the event and links every fundraiser, or writes nothing.
	CreateEventWithFundraisers(ctx context.Context, event *Event, fundraiserIDs []int64) (*EventWithFundraisers, error)
	GetEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	GetEventByID(ctx context.Context, id int64) (*Event, error)
	PatchEvent(ctx context.Context, id int64, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) (*Event, error)
}
